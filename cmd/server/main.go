package main

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gestok/patrimonio-api/internal/config"
	"github.com/gestok/patrimonio-api/internal/database"
	"github.com/gestok/patrimonio-api/internal/handlers"
	"github.com/gestok/patrimonio-api/internal/middleware"
	"github.com/gestok/patrimonio-api/internal/types"
	"github.com/gestok/patrimonio-api/internal/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"

	_ "github.com/gestok/patrimonio-api/docs/api" // Swagger docs
)

// @title Patrimonio API
// @version 1.0.0
// @description Multi-tenant asset inventory service with user-defined category schemas
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/gestok/patrimonio-api
// @contact.email dev@gestok.dev

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name cookie_session

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler:          customErrorHandler,
		DisableStartupMessage: false,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("patrimonio-api")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API routes under /api
	api := app.Group("/api")
	api.Use(middleware.Version())

	// Create handlers
	categoryHandler := &handlers.CategoryHandler{DB: db}
	fieldHandler := &handlers.FieldHandler{DB: db}
	assetHandler := &handlers.AssetHandler{DB: db}
	auditHandler := &handlers.AuditHandler{DB: db}

	authUser := middleware.AuthUser(cfg)

	// Category routes
	api.Get("/categories", authUser, categoryHandler.ListCategories)
	api.Post("/categories", authUser, categoryHandler.CreateCategory)
	api.Get("/categories/:id", authUser, categoryHandler.GetCategory)
	api.Put("/categories/:id", authUser, categoryHandler.UpdateCategory)
	api.Delete("/categories/:id", authUser, categoryHandler.DeleteCategory)

	// Field definition routes
	api.Get("/categories/:id/fields", authUser, fieldHandler.ListFields)
	api.Post("/categories/:id/fields", authUser, fieldHandler.CreateField)
	api.Get("/fields/:id", authUser, fieldHandler.GetField)
	api.Put("/fields/:id", authUser, fieldHandler.UpdateField)
	api.Delete("/fields/:id", authUser, fieldHandler.DeleteField)

	// Asset routes
	api.Get("/assets", authUser, assetHandler.ListAssets)
	api.Post("/assets", authUser, assetHandler.CreateAsset)
	api.Get("/assets/:id", authUser, assetHandler.GetAsset)
	api.Put("/assets/:id", authUser, assetHandler.UpdateAsset)
	api.Delete("/assets/:id", authUser, assetHandler.DeleteAsset)

	// Audit trail, gated by the configured roles
	api.Get("/audit", authUser, middleware.RequireRoles(cfg.AuditRoles...), auditHandler.ListAuditEvents)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return utils.NotFoundResponse(c, "[404] Resource Not Found")
	})

	// The Authorizer client needs the request protocol and host, so it is
	// created on the first authenticated request.
	log.Printf("Authorizer will be initialized on first authenticated request")

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	log.Printf("Starting server on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Println("Server stopped")
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"

	var customErr *types.CustomError
	if errors.As(err, &customErr) {
		body := fiber.Map{
			"status":    customErr.Code,
			"message":   customErr.Message,
			"ok":        false,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"url":       c.OriginalURL(),
			"type":      customErr.Type,
		}
		if len(customErr.Fields) > 0 {
			body["fields"] = customErr.Fields
		}
		return c.Status(customErr.Code).JSON(body)
	}

	// Check if it's a Fiber error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    code,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}
