package repository

import (
	"context"

	"github.com/jhoicas/Retail-api/internal/domain/entity"
)

// ProductSkuRepository define el puerto de persistencia para referencias de catálogo.
type ProductSkuRepository interface {
	Create(ctx context.Context, sku *entity.ProductSku) error
	GetByIDAndCompany(ctx context.Context, id, companyID int64) (*entity.ProductSku, error)
	GetByCompanyAndBarcode(ctx context.Context, companyID int64, barcode string) (*entity.ProductSku, error)
	// GetByNameAndSupplier busca la clave (name, supplier, company); supplierID nil coincide con nil.
	GetByNameAndSupplier(ctx context.Context, companyID int64, name string, supplierID *int64) (*entity.ProductSku, error)
	ListByCompany(ctx context.Context, companyID int64) ([]*entity.ProductSku, error)
}
