package usecase

import (
	"context"

	"github.com/jhoicas/Retail-api/internal/application/dto"
	"github.com/jhoicas/Retail-api/internal/application/tenancy"
	"github.com/jhoicas/Retail-api/internal/domain"
	"github.com/jhoicas/Retail-api/internal/domain/entity"
	"github.com/jhoicas/Retail-api/pkg/logger"
)

// ProductUseCase casos de uso del catálogo de referencias (SKU).
type ProductUseCase struct {
	log *logger.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(log *logger.Logger) *ProductUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ProductUseCase{log: log}
}

// List lista las referencias de la empresa.
func (uc *ProductUseCase) List(ctx context.Context, sess *tenancy.Session) ([]dto.ProductResponse, error) {
	skus, err := sess.Store.ProductSkus().ListByCompany(ctx, sess.CompanyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(skus))
	for _, p := range skus {
		out = append(out, dto.ToProductResponse(p))
	}
	return out, nil
}

// Create crea una referencia. Verifica primero el código de barras y luego (nombre, proveedor);
// el primer conflicto encontrado es el que se reporta.
func (uc *ProductUseCase) Create(ctx context.Context, sess *tenancy.Session, in dto.CreateProductRequest) (*dto.CreateProductResponse, error) {
	skus := sess.Store.ProductSkus()

	if in.Barcode != "" {
		existing, err := skus.GetByCompanyAndBarcode(ctx, sess.CompanyID, in.Barcode)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.NewConflict(domain.MsgBarcodeTaken)
		}
	}
	existing, err := skus.GetByNameAndSupplier(ctx, sess.CompanyID, in.Name, in.SupplierID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.NewConflict(domain.MsgSkuNameSupplier)
	}

	sku := &entity.ProductSku{
		CompanyID:   sess.CompanyID,
		SupplierID:  in.SupplierID,
		Name:        in.Name,
		Description: in.Description,
		Barcode:     in.Barcode,
		Price:       in.Price,
	}
	if err := skus.Create(ctx, sku); err != nil {
		return nil, err
	}
	uc.log.Debug().Int64("company_id", sess.CompanyID).Int64("sku_id", sku.ID).Msg("referencia creada")
	return &dto.CreateProductResponse{Message: domain.MsgSkuCreated, Product: dto.ToProductResponse(sku)}, nil
}
