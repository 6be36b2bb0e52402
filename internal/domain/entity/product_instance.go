package entity

import "time"

// ProductInstance unidad física serializada de una ProductSku.
// StatusProductInstanceID es el estado de la unidad, independiente del estado de sus movimientos.
type ProductInstance struct {
	ID                      int64
	ProductSkuID            int64
	LocationID              *int64
	Serial                  string
	EPC                     string
	LegacyCode              string
	Description             string
	Observation             string
	Position                string
	StatusProductInstanceID *int64
	CreatedAt               time.Time
	UpdatedAt               time.Time
}
