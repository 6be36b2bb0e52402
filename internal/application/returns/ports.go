// Package returns implementa el motor de órdenes y movimientos y sus proyecciones de lectura.
package returns

import (
	"context"

	"github.com/jhoicas/Retail-api/internal/domain/entity"
)

// SlipRenderer genera la hoja de despacho de una orden.
type SlipRenderer interface {
	RenderOrderSlip(ctx context.Context, slip OrderSlip) ([]byte, error)
}

// OrderSlip datos de la hoja de despacho.
type OrderSlip struct {
	Company      entity.Company
	Order        entity.Order
	TypeMovement entity.TypeMovement
	Status       entity.Status
	CreatedBy    string
	Lines        []SlipLine
}

// SlipLine una fila por línea de la orden.
type SlipLine struct {
	SkuName    string
	Serial     string
	EPC        string
	LegacyCode string
	Status     string
}
