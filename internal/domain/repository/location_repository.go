package repository

import (
	"context"

	"github.com/jhoicas/Retail-api/internal/domain/entity"
)

// LocationRepository define el puerto de persistencia para Location (DIP).
type LocationRepository interface {
	Create(ctx context.Context, location *entity.Location) error
	GetByIDAndCompany(ctx context.Context, id, companyID int64) (*entity.Location, error)
	ListByCompany(ctx context.Context, companyID int64) ([]*entity.Location, error)
}
