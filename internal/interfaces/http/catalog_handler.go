package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Retail-api/internal/application/dto"
	"github.com/jhoicas/Retail-api/internal/application/usecase"
)

// CatalogHandler ubicaciones, instancias y tablas de consulta.
type CatalogHandler struct {
	locations *usecase.LocationUseCase
	instances *usecase.InstanceUseCase
	lookups   *usecase.LookupUseCase
	company   *usecase.CompanyUseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(locations *usecase.LocationUseCase, instances *usecase.InstanceUseCase, lookups *usecase.LookupUseCase, company *usecase.CompanyUseCase) *CatalogHandler {
	return &CatalogHandler{locations: locations, instances: instances, lookups: lookups, company: company}
}

// Company godoc
// @Summary      Empresa de quien llama
// @Tags         company
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CompanyResponse
// @Router       /api/company [get]
func (h *CatalogHandler) Company(c *fiber.Ctx) error {
	out, err := h.company.Current(c.UserContext(), GetSession(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListLocations godoc
// @Summary      Listar ubicaciones
// @Tags         locations
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ListResponse[dto.LocationResponse]
// @Router       /api/locations [get]
func (h *CatalogHandler) ListLocations(c *fiber.Ctx) error {
	out, err := h.locations.List(c.UserContext(), GetSession(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewList(out))
}

// CreateLocation godoc
// @Summary      Crear ubicación
// @Tags         locations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLocationRequest  true  "Ubicación"
// @Success      201   {object}  dto.LocationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/locations [post]
func (h *CatalogHandler) CreateLocation(c *fiber.Ctx) error {
	var in dto.CreateLocationRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	out, err := h.locations.Create(c.UserContext(), GetSession(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListInstances godoc
// @Summary      Listar instancias de producto
// @Tags         product-instances
// @Security     Bearer
// @Produce      json
// @Param        location_id  query  int  false  "Filtrar por ubicación"
// @Success      200  {object}  dto.ListResponse[dto.InstanceResponse]
// @Router       /api/product-instances [get]
func (h *CatalogHandler) ListInstances(c *fiber.Ctx) error {
	var q dto.ListInstancesQuery
	if !bindQuery(c, &q) {
		return nil
	}
	var locationID *int64
	if q.LocationID > 0 {
		locationID = &q.LocationID
	}
	out, err := h.instances.List(c.UserContext(), GetSession(c), locationID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewList(out))
}

// CreateInstance godoc
// @Summary      Registrar instancia de producto
// @Tags         product-instances
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInstanceRequest  true  "Instancia"
// @Success      201   {object}  dto.InstanceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/product-instances [post]
func (h *CatalogHandler) CreateInstance(c *fiber.Ctx) error {
	var in dto.CreateInstanceRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	out, err := h.instances.Create(c.UserContext(), GetSession(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListStatuses godoc
// @Summary      Listar estados
// @Tags         lookups
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ListResponse[dto.StatusResponse]
// @Router       /api/statuses [get]
func (h *CatalogHandler) ListStatuses(c *fiber.Ctx) error {
	out, err := h.lookups.ListStatuses(c.UserContext(), GetSession(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewList(out))
}

// ListTypeMovements godoc
// @Summary      Listar tipos de movimiento
// @Tags         lookups
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ListResponse[dto.TypeMovementResponse]
// @Router       /api/type-movements [get]
func (h *CatalogHandler) ListTypeMovements(c *fiber.Ctx) error {
	out, err := h.lookups.ListTypeMovements(c.UserContext(), GetSession(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewList(out))
}

// CreateTypeMovement godoc
// @Summary      Crear tipo de movimiento
// @Tags         lookups
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTypeMovementRequest  true  "Tipo de movimiento"
// @Success      201   {object}  dto.TypeMovementResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/type-movements [post]
func (h *CatalogHandler) CreateTypeMovement(c *fiber.Ctx) error {
	var in dto.CreateTypeMovementRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	out, err := h.lookups.CreateTypeMovement(c.UserContext(), GetSession(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
