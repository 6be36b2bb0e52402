package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Retail-api/internal/application/dto"
	"github.com/jhoicas/Retail-api/internal/application/returns"
)

// OrderHandler órdenes, líneas y listados de devoluciones.
type OrderHandler struct {
	uc *returns.OrderUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *returns.OrderUseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Create godoc
// @Summary      Crear orden con una línea por instancia
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "Orden"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	out, err := h.uc.CreateOrder(c.UserContext(), GetSession(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener orden con sus líneas
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la orden"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return nil
	}
	out, err := h.uc.GetOrder(c.UserContext(), GetSession(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Slip godoc
// @Summary      Hoja de despacho en PDF
// @Tags         orders
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  int  true  "ID de la orden"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/slip [get]
func (h *OrderHandler) Slip(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return nil
	}
	pdf, err := h.uc.RenderOrderSlip(c.UserContext(), GetSession(c), id)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=orden-%d.pdf", id))
	return c.Send(pdf)
}

// ListReturns godoc
// @Summary      Listar líneas de devolución por estado
// @Tags         returns
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  true  "completed | inprocess"
// @Success      200  {array}   dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/returns [get]
func (h *OrderHandler) ListReturns(c *fiber.Ctx) error {
	var q dto.ListReturnsQuery
	if !bindQuery(c, &q) {
		return nil
	}
	return h.returns(c, q.Status)
}

// ListReturnsCompleted godoc
// @Summary      Devoluciones completadas
// @Tags         returns
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/returns/completed [get]
func (h *OrderHandler) ListReturnsCompleted(c *fiber.Ctx) error {
	return h.returns(c, returns.FilterCompleted)
}

// ListReturnsInProcess godoc
// @Summary      Devoluciones en proceso
// @Tags         returns
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/returns/in-process [get]
func (h *OrderHandler) ListReturnsInProcess(c *fiber.Ctx) error {
	return h.returns(c, returns.FilterInProcess)
}

func (h *OrderHandler) returns(c *fiber.Ctx, filter string) error {
	out, err := h.uc.ListReturns(c.UserContext(), GetSession(c), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateMovement godoc
// @Summary      Actualizar línea de orden y su instancia
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID de la línea"
// @Param        body  body  dto.UpdateMovementRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.MessageResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [put]
func (h *OrderHandler) UpdateMovement(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return nil
	}
	var in dto.UpdateMovementRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	out, err := h.uc.UpdateMovementStatus(c.UserContext(), GetSession(c), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
