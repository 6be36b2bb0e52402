package repository

import (
	"context"

	"github.com/jhoicas/Retail-api/internal/domain/entity"
)

// StatusRepository tabla de estados con nombre.
type StatusRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Status, error)
	GetByName(ctx context.Context, name string) (*entity.Status, error)
	List(ctx context.Context) ([]*entity.Status, error)
}

// TypeMovementRepository tipos de movimiento por empresa.
type TypeMovementRepository interface {
	Create(ctx context.Context, tm *entity.TypeMovement) error
	GetByCompanyAndInitials(ctx context.Context, companyID int64, initials string) (*entity.TypeMovement, error)
	ListByCompany(ctx context.Context, companyID int64) ([]*entity.TypeMovement, error)
}
