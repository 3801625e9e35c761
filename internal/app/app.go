package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/satisfyhq/satisfy/internal/config"
	"github.com/satisfyhq/satisfy/internal/database"
	"github.com/satisfyhq/satisfy/internal/handlers"
	"github.com/satisfyhq/satisfy/internal/middleware"
	"github.com/satisfyhq/satisfy/internal/services"
)

type App struct {
	config   *config.Config
	logger   *logrus.Logger
	db       *database.Database
	services *services.Services
	handlers *handlers.Handlers
	router   *gin.Engine
}

func New(cfg *config.Config) (*App, error) {
	app := &App{
		config: cfg,
		logger: setupLogger(cfg),
	}

	db, err := database.New(cfg, app.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	services, err := services.New(cfg, app.logger, db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	app.services = services

	app.handlers = handlers.New(app.logger, services)

	app.setupRouter()

	return app, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Shutting down application...")

	if err := a.services.Close(); err != nil {
		a.logger.WithError(err).Error("Error closing services")
	}

	if err := a.db.Close(); err != nil {
		a.logger.WithError(err).Error("Error closing database connections")
		return err
	}

	return nil
}

func setupLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}

func (a *App) setupRouter() {
	if a.config.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(middleware.Logger(a.logger))
	router.Use(middleware.Recovery(a.logger))
	router.Use(middleware.CORS(a.config))

	// Health and metrics (no auth required)
	router.GET("/health", a.handlers.Health.Check)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		// Public endpoints
		api.GET("/products", a.handlers.Product.List)
		api.POST("/product-interaction", a.handlers.Interaction.Record)
		api.POST("/ai-recommend", a.handlers.Recommendation.Recommend)

		// Session issuance
		api.POST("/vendor/login", a.handlers.Auth.VendorLogin)
		api.POST("/admin/login", a.handlers.Auth.AdminLogin)

		// Vendor portal; status re-checked per request so an admin block
		// takes effect immediately
		vendor := api.Group("/vendor")
		vendor.Use(middleware.SessionAuth(a.services.Auth, a.logger))
		vendor.Use(middleware.VendorOnly(a.services.Vendor))
		{
			vendor.GET("/products", a.handlers.Vendor.ListProducts)
			vendor.POST("/products", a.handlers.Vendor.CreateProduct)
			vendor.PUT("/products/:id", a.handlers.Vendor.UpdateProduct)
			vendor.DELETE("/products/:id", a.handlers.Vendor.DeleteProduct)
			vendor.GET("/product-stats", a.handlers.Vendor.ProductStats)
		}

		// Admin surface
		admin := api.Group("/admin")
		admin.Use(middleware.SessionAuth(a.services.Auth, a.logger))
		admin.Use(middleware.AdminOnly())
		{
			admin.POST("/logout", a.handlers.Auth.AdminLogout)
			admin.GET("/session", a.handlers.Auth.AdminSession)
			admin.POST("/change-password", a.handlers.Auth.ChangePassword)

			admin.GET("/customers", a.handlers.Admin.ListCustomers)
			admin.POST("/customers", a.handlers.Admin.CreateCustomer)
			admin.PUT("/customers/:id", a.handlers.Admin.UpdateCustomer)
			admin.DELETE("/customers/:id", a.handlers.Admin.DeleteCustomer)

			admin.GET("/vendors", a.handlers.Admin.ListVendors)
			admin.POST("/vendors", a.handlers.Admin.CreateVendor)
			admin.PUT("/vendors/:id", a.handlers.Admin.UpdateVendor)
			admin.DELETE("/vendors/:id", a.handlers.Admin.DeleteVendor)

			admin.POST("/vendors/:id/approve", a.handlers.Admin.ApproveVendor)
			admin.POST("/vendors/:id/reject", a.handlers.Admin.RejectVendor)
			admin.POST("/vendors/:id/block", a.handlers.Admin.BlockVendor)
			admin.POST("/vendors/:id/unblock", a.handlers.Admin.UnblockVendor)
			admin.POST("/vendors/:id/suspend", a.handlers.Admin.SuspendVendor)
			admin.POST("/vendors/:id/unsuspend", a.handlers.Admin.UnsuspendVendor)
		}
	}

	a.router = router
}
