package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/kirana/internal/config"
	"github.com/example/kirana/internal/handlers"
	"github.com/example/kirana/internal/middleware"
	"github.com/example/kirana/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	telegramService := services.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramAdminChat)
	catalogService := services.NewCatalogService(db)
	orderService := services.NewOrderService(services.NewOrderStore(db), services.NewStockLedger(db))

	authHandler := handlers.NewAuthHandler(cfg)
	productHandler := handlers.NewProductHandler(db, catalogService)
	categoryHandler := handlers.NewCategoryHandler(catalogService)
	orderHandler := handlers.NewOrderHandler(db, orderService, telegramService)
	reportHandler := handlers.NewReportHandler(db)

	adminOnly := middleware.AdminAuth(cfg)

	api := app.Group("/api")

	api.Post("/admin/login", authHandler.Login)

	// Catalog
	products := api.Group("/products")
	products.Get("/", productHandler.ListProducts)
	products.Get("/customer", productHandler.CustomerProducts)
	products.Get("/low-stock/count", productHandler.LowStockCount)
	products.Post("/", adminOnly, productHandler.CreateProduct)
	products.Post("/bulk", adminOnly, productHandler.CreateBulkProducts)
	products.Put("/:id", adminOnly, productHandler.UpdateProduct)
	products.Delete("/:id", adminOnly, productHandler.DeleteProduct)

	categories := api.Group("/categories")
	categories.Get("/", categoryHandler.ListCategories)
	categories.Post("/", adminOnly, categoryHandler.CreateCategory)
	categories.Post("/sync", adminOnly, categoryHandler.SyncCategories)
	categories.Delete("/:id", adminOnly, categoryHandler.DeleteCategory)

	// Orders
	orders := api.Group("/orders")
	orders.Post("/", orderHandler.CreateOrder)
	orders.Get("/", orderHandler.ListOrders)
	orders.Get("/customer/:phone", orderHandler.ListOrdersByPhone)
	orders.Get("/date/:date", orderHandler.ListOrdersByDate)
	orders.Put("/:orderId/status", adminOnly, orderHandler.UpdateOrderStatus)

	// Reports
	reports := api.Group("/reports", adminOnly)
	reports.Get("/sales-summary", reportHandler.SalesSummary)
	reports.Get("/daily-sales", reportHandler.DailySales)
}
