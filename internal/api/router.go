package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/quantamusic/quanta-api/internal/api/handlers"
	apimiddleware "github.com/quantamusic/quanta-api/internal/api/middleware"
	"github.com/quantamusic/quanta-api/internal/config"
	"github.com/quantamusic/quanta-api/internal/services"
)

func SetupRouter(db *gorm.DB, cfg *config.Config, generator *services.Generator, abletonAddr, version string) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(apimiddleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(apimiddleware.RequestTracking())

	// Health check
	healthHandler := handlers.NewHealthHandler(cfg, abletonAddr)
	router.GET("/health", healthHandler.HealthCheck)

	// Metrics endpoint
	metricsHandler := handlers.NewMetricsHandler(version)
	router.GET("/api/metrics", metricsHandler.GetMetrics)

	v1 := router.Group("/api/v1")
	{
		generateHandler := handlers.NewGenerateHandler(generator)
		v1.POST("/generate", generateHandler.Generate)

		patternsHandler := handlers.NewPatternsHandler(db)
		v1.GET("/patterns", patternsHandler.List)
		v1.GET("/patterns/:id", patternsHandler.Get)
		v1.GET("/patterns/:id/midi", patternsHandler.ExportMIDI)
	}

	return router
}
