package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/stockmaster/stockmaster-api/internal/application/analytics"
	"github.com/stockmaster/stockmaster-api/internal/application/auth"
	"github.com/stockmaster/stockmaster-api/internal/application/counting"
	"github.com/stockmaster/stockmaster-api/internal/application/operations"
	"github.com/stockmaster/stockmaster-api/internal/application/usecase"
	"github.com/stockmaster/stockmaster-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	OperationUC *operations.LifecycleUseCase
	CountingUC  *counting.UseCase
	ProductUC   *usecase.ProductUseCase
	LedgerUC    *usecase.LedgerUseCase
	WarehouseUC *usecase.WarehouseUseCase
	DashboardUC *analytics.DashboardUseCase
	AuthUC      *auth.AuthUseCase
	JWTSecret   string
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

	// Los borrados y la aplicación de descuadres quedan fuera del rol staff.
	elevated := RequireRole(entity.RoleAdmin, entity.RoleManager)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/low-stock", productHandler.ListLowStock)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", elevated, productHandler.Delete)

	// Operations (protegido)
	ops := protected.Group("/operations")
	operationHandler := NewOperationHandler(deps.OperationUC)
	ops.Post("/receipts", operationHandler.CreateReceipt)
	ops.Post("/deliveries", operationHandler.CreateDelivery)
	ops.Post("/transfers", operationHandler.CreateTransfer)
	ops.Post("/adjustments", operationHandler.CreateAdjustment)
	ops.Get("/", operationHandler.List)
	ops.Get("/:id", operationHandler.GetByID)
	ops.Post("/:id/validate", operationHandler.Validate)
	ops.Post("/:id/cancel", operationHandler.Cancel)

	// Ledger (protegido, solo lectura)
	ledger := protected.Group("/ledger")
	ledgerHandler := NewLedgerHandler(deps.LedgerUC)
	ledger.Get("/", ledgerHandler.List)
	ledger.Get("/products/:productId/last", ledgerHandler.LastByProduct)

	// Counting sessions (protegido)
	sessions := protected.Group("/counting-sessions")
	countingHandler := NewCountingHandler(deps.CountingUC)
	sessions.Post("/", countingHandler.Create)
	sessions.Get("/", countingHandler.List)
	sessions.Get("/:id", countingHandler.GetByID)
	sessions.Patch("/:id/items", countingHandler.RecordCounts)
	sessions.Put("/:id", countingHandler.Save)
	sessions.Post("/:id/apply", elevated, countingHandler.Apply)

	// Warehouses (protegido)
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Put("/:id", warehouseHandler.Update)
	warehouses.Delete("/:id", elevated, warehouseHandler.Delete)

	// Dashboard (protegido)
	dashboard := protected.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dashboard.Get("/stats", dashboardHandler.GetStats)
}
