// Package routes defines the HTTP routes for the donation service.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/unifiedui/donation-service/internal/api/handlers"
	"github.com/unifiedui/donation-service/internal/api/middleware"
)

// Config holds the dependencies for setting up routes.
type Config struct {
	HealthHandler    *handlers.HealthHandler
	DonationsHandler *handlers.DonationsHandler
}

// Setup configures all routes on the Gin engine.
func Setup(r *gin.Engine, cfg *Config) {
	// API v1 routes - all routes under /api/v1/donation-service
	v1 := r.Group("/api/v1/donation-service")
	{
		v1.GET("/health", cfg.HealthHandler.Health)
		v1.GET("/ready", cfg.HealthHandler.Ready)
		v1.GET("/live", cfg.HealthHandler.Live)

		donations := v1.Group("/donations")
		{
			donations.GET("/:id", cfg.DonationsHandler.GetDonation)
			donations.GET("/:id/validate", cfg.DonationsHandler.ValidateID)
		}
	}

	r.NoRoute(middleware.NotFound())
	r.NoMethod(middleware.MethodNotAllowed())
}

// SetupWithMiddleware sets up routes with common middleware.
func SetupWithMiddleware(r *gin.Engine, cfg *Config, loggingMw *middleware.LoggingMiddleware, errorMw *middleware.ErrorMiddleware) {
	// Apply global middleware
	r.Use(loggingMw.RequestLogger())
	r.Use(loggingMw.Logger())
	r.Use(errorMw.Recovery())
	r.Use(gin.Recovery())

	// Setup routes
	Setup(r, cfg)
}
