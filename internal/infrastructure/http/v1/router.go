// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"salesdesk/internal/domain/sale"
	"salesdesk/internal/infrastructure/http/v1/handlers"
	"salesdesk/internal/infrastructure/http/v1/middleware"
	"salesdesk/internal/infrastructure/storage/postgres"
	"salesdesk/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Pool is the database connection pool (for health checks)
	Pool *postgres.Pool

	// Logger for request logging
	Logger *logger.Logger

	// SaleService handles sale operations
	SaleService *sale.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// API v1
	baseHandler := handlers.NewBaseHandler()
	apiV1 := router.Group("/api/v1")
	{
		saleHandler := handlers.NewSaleHandler(baseHandler, cfg.SaleService)
		saleHandler.RegisterRoutes(apiV1.Group("/sales"))
	}

	return router
}
