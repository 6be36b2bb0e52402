package repository

import (
	"context"

	"github.com/jhoicas/Retail-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	// Delete borra el usuario de la empresa; no falla si no existe.
	Delete(ctx context.Context, id, companyID int64) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmailAndCompany(ctx context.Context, email string, companyID int64) (*entity.User, error)
	ListByCompany(ctx context.Context, companyID int64) ([]*entity.User, error)
	// ReplaceLocations reemplaza el conjunto (user_locations) de ubicaciones asignadas al usuario.
	ReplaceLocations(ctx context.Context, userID int64, locationIDs []int64) error
	ListLocationIDs(ctx context.Context, userID int64) ([]int64, error)
}
