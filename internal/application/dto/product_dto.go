package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear una referencia (SKU).
type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Description string          `json:"description" validate:"max=1000"`
	Barcode     string          `json:"barcode" validate:"omitempty,max=64"`
	SupplierID  *int64          `json:"supplier_id" validate:"omitempty,gt=0"`
	Price       decimal.Decimal `json:"price" validate:"gte=0"`
}

// ProductResponse salida de una referencia.
type ProductResponse struct {
	ID          int64           `json:"id"`
	CompanyID   int64           `json:"company_id"`
	SupplierID  *int64          `json:"supplier_id,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Barcode     string          `json:"barcode,omitempty"`
	Price       decimal.Decimal `json:"price"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CreateProductResponse mensaje de negocio más la referencia creada.
type CreateProductResponse struct {
	Message string          `json:"message"`
	Product ProductResponse `json:"product"`
}
