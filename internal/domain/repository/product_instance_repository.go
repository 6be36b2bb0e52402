package repository

import (
	"context"

	"github.com/jhoicas/Retail-api/internal/domain/entity"
)

// ProductInstanceRepository define el puerto de persistencia para instancias físicas.
// Todas las lecturas se filtran por empresa a través de la referencia (instancia -> sku -> empresa).
type ProductInstanceRepository interface {
	Create(ctx context.Context, instance *entity.ProductInstance) error
	GetByIDAndCompany(ctx context.Context, id, companyID int64) (*entity.ProductInstance, error)
	GetByCompanyAndEPC(ctx context.Context, companyID int64, epc string) (*entity.ProductInstance, error)
	// ListByCompany lista instancias; locationID nil = todas las ubicaciones.
	ListByCompany(ctx context.Context, companyID int64, locationID *int64) ([]*entity.ProductInstance, error)
	Update(ctx context.Context, instance *entity.ProductInstance) error
}
