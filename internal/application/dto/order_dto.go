package dto

import "time"

// CreateOrderRequest entrada para crear una orden con una línea por instancia.
type CreateOrderRequest struct {
	TypeMovement          string  `json:"type_movement" validate:"required,min=1,max=10"`
	DestinationLocationID int64   `json:"destination_location_id" validate:"required,gt=0"`
	InstanceIDs           []int64 `json:"instance_ids" validate:"required,min=1,dive,gt=0"`
	StatusID              *int64  `json:"status_id" validate:"omitempty,gt=0"`
}

// OrderSummary cabecera de una orden.
type OrderSummary struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	TypeMovementID int64     `json:"type_movement_id"`
	StatusID       int64     `json:"status_id"`
	Destination    string    `json:"destination"`
	CreatedAt      time.Time `json:"created_at"`
}

// MovementResponse proyección de una línea: la línea con su orden, su instancia y su estado.
type MovementResponse struct {
	ID              int64            `json:"id"`
	Date            time.Time        `json:"date"`
	Order           OrderSummary     `json:"order"`
	ProductInstance InstanceResponse `json:"product_instance"`
	Status          StatusResponse   `json:"status"`
}

// OrderResponse orden con todas sus líneas.
type OrderResponse struct {
	OrderSummary
	Lines []MovementResponse `json:"lines"`
}

// ListReturnsQuery filtro del listado de devoluciones.
type ListReturnsQuery struct {
	Status string `query:"status" validate:"required,oneof=completed inprocess"`
}

// UpdateMovementRequest actualización parcial de una línea y de su instancia. Los campos nulos no cambian.
type UpdateMovementRequest struct {
	Description      *string `json:"description" validate:"omitempty,max=1000"`
	Observation      *string `json:"observation" validate:"omitempty,max=1000"`
	Serial           *string `json:"serial" validate:"omitempty,max=100"`
	LegacyCode       *string `json:"legacy_code" validate:"omitempty,max=100"`
	Position         *string `json:"position" validate:"omitempty,max=100"`
	InstanceStatusID *int64  `json:"instance_status_id" validate:"omitempty,gt=0"`
	StatusID         *int64  `json:"status_id" validate:"omitempty,gt=0"`
}
