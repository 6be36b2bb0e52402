package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductSku referencia del catálogo de una empresa.
// Barcode es único por empresa cuando está presente; (Name, SupplierID, CompanyID) también es único.
type ProductSku struct {
	ID          int64
	CompanyID   int64
	SupplierID  *int64
	Name        string
	Description string
	Barcode     string
	Price       decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SameSupplier compara proveedores tratando nil como un valor más.
func SameSupplier(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
