package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      authService
	WarehouseUC warehouseService
	ProductUC   productService
	OrderUC     orderService
	OrderPDF    orderPDFService
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(entity.RoleSuperAdmin, entity.RoleAdmin)

	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Post("/", adminOnly, warehouseHandler.Create)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Put("/:id", adminOnly, warehouseHandler.Update)
	warehouses.Get("/:id/products", RequirePower(entity.PowerInventory), warehouseHandler.Stock)

	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Post("/", RequirePower(entity.PowerProductBuy), productHandler.Create)
	products.Get("/:id", productHandler.GetByID)

	orders := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC, deps.OrderPDF)
	sell := RequirePower(entity.PowerProductSell)
	orders.Get("/", orderHandler.List)
	orders.Post("/", sell, orderHandler.Create)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Put("/:id", sell, orderHandler.Update)
	orders.Get("/:id/pdf", orderHandler.PDF)
}
