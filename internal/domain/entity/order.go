package entity

import "time"

// Order cabecera que agrupa movimientos de instancias bajo un tipo de movimiento.
// Destination se desnormaliza desde el nombre de la ubicación destino al crear la orden.
type Order struct {
	ID             int64
	UserID         int64
	TypeMovementID int64
	StatusID       int64
	Destination    string
	CreatedAt      time.Time
}

// ProductMovement línea de una orden. Su StatusID es independiente del estado de la orden
// y del estado de la instancia.
type ProductMovement struct {
	ID                int64
	OrderID           int64
	ProductInstanceID int64
	StatusID          int64
	Date              time.Time
}
