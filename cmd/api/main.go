package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-stock-control/internal/handler"
	"go-stock-control/internal/model"
	"go-stock-control/internal/repository"
	"go-stock-control/internal/service"
	"go-stock-control/internal/ws"
	"go-stock-control/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	db.AutoMigrate(
		&model.Product{},
		&model.Supplier{},
		&model.StockRecord{},
		&model.LedgerEntry{},
		&model.Order{},
		&model.OrderItem{},
	)

	// 3. Setup WebSocket Hub (best-effort notifications)
	wsHub := ws.NewHub()
	go wsHub.Run()
	alerts := ws.NewStockAlerts(wsHub)

	// 4. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	stockRepo := repository.NewStockRepo(db)
	ledgerRepo := repository.NewLedgerRepo(db)
	orderRepo := repository.NewOrderRepo(db)

	stockService := service.NewStockService(stockRepo, ledgerRepo, productRepo, db, alerts)
	orderService := service.NewOrderService(orderRepo, supplierRepo, productRepo, stockService, db)
	catalogService := service.NewCatalogService(productRepo, supplierRepo)
	dashService := service.NewDashboardService(productRepo, stockRepo, ledgerRepo)

	catalogHandler := handler.NewCatalogHandler(catalogService)
	stockHandler := handler.NewStockHandler(stockService)
	orderHandler := handler.NewOrderHandler(orderService)
	dashHandler := handler.NewDashboardHandler(dashService)

	// 5. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Stock Control v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 6. Routes
	api := app.Group("/api/v1")

	// Catalog
	api.Get("/products", catalogHandler.GetProducts)
	api.Post("/products", catalogHandler.CreateProduct)
	api.Put("/products/:id", catalogHandler.UpdateProduct)
	api.Delete("/products/:id", catalogHandler.DeleteProduct)

	api.Get("/suppliers", catalogHandler.GetSuppliers)
	api.Post("/suppliers", catalogHandler.CreateSupplier)
	api.Put("/suppliers/:id", catalogHandler.UpdateSupplier)
	api.Delete("/suppliers/:id", catalogHandler.DeleteSupplier)

	// Stock and ledger
	api.Get("/stock", stockHandler.GetStock)
	api.Get("/stock/:productId", stockHandler.GetProductStock)
	api.Post("/stock/ingress", stockHandler.RecordIngress)
	api.Post("/stock/egress", stockHandler.RecordEgress)
	api.Get("/ledger", stockHandler.GetLedger)

	// Orders
	api.Get("/orders", orderHandler.GetOrders)
	api.Get("/orders/overdue", orderHandler.GetOverdue)
	api.Get("/orders/:id", orderHandler.GetOrder)
	api.Post("/orders", orderHandler.CreateOrder)
	api.Put("/orders/:id", orderHandler.UpdateOrder)
	api.Post("/orders/:id/complete", orderHandler.CompleteOrder)
	api.Post("/orders/:id/cancel", orderHandler.CancelOrder)
	api.Delete("/orders/:id", orderHandler.DeleteOrder)

	// Dashboard
	api.Get("/dashboard/stats", dashHandler.GetStats)
	api.Get("/dashboard/stock-movement", dashHandler.GetStockMovement)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 7. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
