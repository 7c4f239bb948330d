package web

import (
	"log"

	"github.com/cargotrack/config"
	"github.com/cargotrack/web/handlers"
	"github.com/cargotrack/web/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Server represents the web server
type Server struct {
	app *fiber.App
}

// NewServer creates a new Fiber server
func NewServer(cfg *config.Config) *Server {
	handlers.Init(cfg)

	app := fiber.New(fiber.Config{
		AppName: "cargotrack",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Printf("ERROR [%s %s]: %v", c.Method(), c.Path(), err)

			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path} ${error}\n",
	}))
	app.Use(middleware.SQLDebug())

	setupRoutes(app)

	return &Server{app: app}
}

// Start starts the server
func (s *Server) Start(port string) error {
	log.Printf("Server starting on http://localhost:%s", port)
	return s.app.Listen(":" + port)
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// setupRoutes configures all application routes
func setupRoutes(app *fiber.App) {
	// Dashboard
	app.Get("/", handlers.Dashboard)

	// Debug endpoint for SQL logs
	app.Get("/api/debug/sql", handlers.GetSQLLogs)
	app.Delete("/api/debug/sql", handlers.ClearSQLLogs)

	api := app.Group("/api")

	// Supplier management
	suppliers := api.Group("/suppliers")
	suppliers.Get("/", handlers.SupplierList)
	suppliers.Post("/", handlers.SupplierCreate)
	suppliers.Post("/recalculate", handlers.SupplierRecalculateAll)
	suppliers.Get("/:id", handlers.SupplierView)
	suppliers.Put("/:id", handlers.SupplierUpdate)
	suppliers.Delete("/:id", handlers.SupplierDelete)
	suppliers.Get("/:id/performance", handlers.SupplierPerformanceView)
	suppliers.Post("/:id/recalculate", handlers.SupplierRecalculate)

	// Warehouse management
	warehouses := api.Group("/warehouses")
	warehouses.Get("/", handlers.WarehouseList)
	warehouses.Post("/", handlers.WarehouseCreate)
	warehouses.Get("/:id", handlers.WarehouseView)
	warehouses.Put("/:id", handlers.WarehouseUpdate)
	warehouses.Delete("/:id", handlers.WarehouseDelete)

	// Cargo category management
	categories := api.Group("/categories")
	categories.Get("/", handlers.CategoryList)
	categories.Post("/", handlers.CategoryCreate)
	categories.Put("/:id", handlers.CategoryUpdate)
	categories.Delete("/:id", handlers.CategoryDelete)

	// Cargo lifecycle (order matters: specific routes before ":id")
	cargos := api.Group("/cargos")
	cargos.Get("/", handlers.CargoList)
	cargos.Post("/", handlers.CargoCreate)
	cargos.Get("/track/:tracking", handlers.CargoTrack)
	cargos.Get("/:id", handlers.CargoView)
	cargos.Put("/:id", handlers.CargoUpdate)
	cargos.Delete("/:id", handlers.CargoDelete)
	cargos.Get("/:id/history", handlers.CargoHistory)
	cargos.Post("/:id/status", handlers.CargoChangeStatus)
	cargos.Post("/:id/arrival", handlers.CargoRecordArrival)

	// Alerts
	alerts := api.Group("/alerts")
	alerts.Get("/", handlers.AlertList)
	alerts.Post("/evaluate", handlers.AlertEvaluate)
	alerts.Post("/:id/read", handlers.AlertMarkRead)
	alerts.Post("/:id/resolve", handlers.AlertResolve)

	// Reports
	reports := api.Group("/reports")
	reports.Get("/", handlers.ReportList)
	reports.Post("/generate", handlers.ReportGenerate)
	reports.Get("/:id", handlers.ReportView)
	reports.Delete("/:id", handlers.ReportDelete)

	// Counties lookup
	api.Get("/counties", handlers.CountyList)
	api.Post("/counties", handlers.CountyCreate)
	api.Delete("/counties/:id", handlers.CountyDelete)
}
