package repository

import (
	"context"

	"github.com/jhoicas/Retail-api/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (DIP).
// Las empresas las crea el proceso de alta de tenants; aquí solo se consultan.
type CompanyRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Company, error)
}
