package entity

// Tipos de movimiento conocidos.
const (
	TypeMovementReturns         = "Returns"
	TypeMovementReturnsInitials = "RE"
)

// TypeMovement categoría de orden de una empresa (ej. "Returns" / "RE").
type TypeMovement struct {
	ID        int64
	CompanyID int64
	Name      string
	Initials  string
}
