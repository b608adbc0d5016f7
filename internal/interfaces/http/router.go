package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bodega-api/internal/application/auth"
	"github.com/jhoicas/bodega-api/internal/application/inventory"
	"github.com/jhoicas/bodega-api/internal/application/report"
	"github.com/jhoicas/bodega-api/internal/application/usecase"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC  *usecase.ProductUseCase
	UserUC     *usecase.UserUseCase
	StockUC    *inventory.StockMovementUseCase
	ActivityUC *inventory.ActivityUseCase
	RiskUC     *inventory.RiskUseCase
	ReportUC   *report.InventoryReportUseCase
	AuthUC     *auth.AuthUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), productHandler.Delete)

	// Inventory: movimientos y riesgo (protegido)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.StockUC, deps.ActivityUC, deps.RiskUC)
	invGroup.Post("/receive", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), inventoryHandler.Receive)
	invGroup.Post("/issue", RequireRole(entity.RoleAdmin, entity.RoleBodeguero, entity.RoleVendedor), inventoryHandler.Issue)
	invGroup.Get("/movements", inventoryHandler.Movements)
	invGroup.Get("/movements/report", inventoryHandler.MovementReport)
	invGroup.Get("/low-stock", inventoryHandler.LowStock)
	invGroup.Get("/near-expiry", inventoryHandler.NearExpiry)

	// Reports (protegido)
	reports := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC)
	reports.Get("/inventory", reportHandler.InventoryPDF)

	// Users (protegido, solo admin)
	users := protected.Group("/users", RequireRole(entity.RoleAdmin))
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
}
