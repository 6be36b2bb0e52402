package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Retail-api/internal/application/returns"
	"github.com/jhoicas/Retail-api/internal/application/usecase"
	"github.com/jhoicas/Retail-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Sessions   SessionBinder
	CompanyUC  *usecase.CompanyUseCase
	UserUC     *usecase.UserUseCase
	ProductUC  *usecase.ProductUseCase
	LocationUC *usecase.LocationUseCase
	InstanceUC *usecase.InstanceUseCase
	LookupUC   *usecase.LookupUseCase
	OrderUC    *returns.OrderUseCase
	JWTSecret  string
}

// Router registra las rutas de la API. Todas las rutas bajo /api requieren Bearer Token
// y un tenant resuelto.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret), TenantMiddleware(deps.Sessions))
	adminOnly := RequireRole(string(entity.RoleAdmin))

	catalogHandler := NewCatalogHandler(deps.LocationUC, deps.InstanceUC, deps.LookupUC, deps.CompanyUC)
	api.Get("/company", catalogHandler.Company)

	// Users
	userHandler := NewUserHandler(deps.UserUC)
	api.Get("/users", userHandler.List)
	api.Post("/users", adminOnly, userHandler.Create)
	api.Put("/users/:id/locations", adminOnly, userHandler.AssignLocations)

	// Products
	productHandler := NewProductHandler(deps.ProductUC)
	api.Get("/products", productHandler.List)
	api.Post("/products", productHandler.Create)

	// Locations
	api.Get("/locations", catalogHandler.ListLocations)
	api.Post("/locations", catalogHandler.CreateLocation)

	// Product instances
	api.Get("/product-instances", catalogHandler.ListInstances)
	api.Post("/product-instances", catalogHandler.CreateInstance)

	// Lookups
	api.Get("/statuses", catalogHandler.ListStatuses)
	api.Get("/type-movements", catalogHandler.ListTypeMovements)
	api.Post("/type-movements", catalogHandler.CreateTypeMovement)

	// Orders y devoluciones
	orderHandler := NewOrderHandler(deps.OrderUC)
	api.Post("/orders", orderHandler.Create)
	api.Get("/orders/:id", orderHandler.GetByID)
	api.Get("/orders/:id/slip", orderHandler.Slip)
	api.Get("/returns", orderHandler.ListReturns)
	api.Get("/returns/completed", orderHandler.ListReturnsCompleted)
	api.Get("/returns/in-process", orderHandler.ListReturnsInProcess)
	api.Put("/movements/:id", orderHandler.UpdateMovement)
}
