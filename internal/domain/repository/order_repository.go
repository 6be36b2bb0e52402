package repository

import (
	"context"

	"github.com/jhoicas/Retail-api/internal/domain/entity"
)

// MovementView proyección de lectura: la línea junto con su orden, la instancia y el estado de la línea.
type MovementView struct {
	Movement        entity.ProductMovement
	Order           entity.Order
	ProductInstance entity.ProductInstance
	Status          entity.Status
}

// OrderRepository define el puerto de persistencia para órdenes.
// El alcance de empresa se aplica a través del usuario creador (orden -> usuario -> empresa).
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByIDAndCompany(ctx context.Context, id, companyID int64) (*entity.Order, error)
}

// ProductMovementRepository define el puerto de persistencia para las líneas de orden.
type ProductMovementRepository interface {
	Create(ctx context.Context, movement *entity.ProductMovement) error
	GetByIDAndCompany(ctx context.Context, id, companyID int64) (*entity.ProductMovement, error)
	UpdateStatus(ctx context.Context, movement *entity.ProductMovement) error

	// ListViewsByTypeAndStatus proyecta las líneas cuyo tipo de orden y estado propio coinciden
	// por nombre. Orden estable por id de la línea.
	ListViewsByTypeAndStatus(ctx context.Context, companyID int64, typeName, statusName string) ([]MovementView, error)
	// ListViewsByOrder proyecta todas las líneas de una orden, ordenadas por id.
	ListViewsByOrder(ctx context.Context, orderID, companyID int64) ([]MovementView, error)
}
