package dto

import "time"

// CreateLocationRequest entrada para crear una ubicación.
type CreateLocationRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

// LocationResponse salida de una ubicación.
type LocationResponse struct {
	ID        int64     `json:"id"`
	CompanyID int64     `json:"company_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateInstanceRequest entrada para registrar una unidad física.
type CreateInstanceRequest struct {
	ProductSkuID int64  `json:"product_sku_id" validate:"required,gt=0"`
	LocationID   *int64 `json:"location_id" validate:"omitempty,gt=0"`
	Serial       string `json:"serial" validate:"max=100"`
	EPC          string `json:"epc" validate:"omitempty,max=64"`
	LegacyCode   string `json:"legacy_code" validate:"max=100"`
	Description  string `json:"description" validate:"max=1000"`
	Observation  string `json:"observation" validate:"max=1000"`
	Position     string `json:"position" validate:"max=100"`
	StatusID     *int64 `json:"status_id" validate:"omitempty,gt=0"`
}

// ListInstancesQuery filtros del listado de instancias.
type ListInstancesQuery struct {
	LocationID int64 `query:"location_id" validate:"omitempty,gt=0"`
}

// InstanceResponse salida de una unidad física.
type InstanceResponse struct {
	ID           int64     `json:"id"`
	ProductSkuID int64     `json:"product_sku_id"`
	LocationID   *int64    `json:"location_id,omitempty"`
	Serial       string    `json:"serial"`
	EPC          string    `json:"epc"`
	LegacyCode   string    `json:"legacy_code"`
	Description  string    `json:"description"`
	Observation  string    `json:"observation"`
	Position     string    `json:"position"`
	StatusID     *int64    `json:"status_id,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// StatusResponse salida de un estado.
type StatusResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CreateTypeMovementRequest entrada para crear un tipo de movimiento.
type CreateTypeMovementRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Initials string `json:"initials" validate:"required,min=1,max=10"`
}

// TypeMovementResponse salida de un tipo de movimiento.
type TypeMovementResponse struct {
	ID        int64  `json:"id"`
	CompanyID int64  `json:"company_id"`
	Name      string `json:"name"`
	Initials  string `json:"initials"`
}
