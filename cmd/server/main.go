// Package main is the entry point for the Donation Service.
// @title Donation Service API
// @version 1.0
// @description Lazily connected MongoDB access layer for donation records
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/unifiedui/donation-service
// @contact.email support@unifiedui.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/unifiedui/donation-service/docs"
	"github.com/unifiedui/donation-service/internal/api/handlers"
	"github.com/unifiedui/donation-service/internal/api/middleware"
	"github.com/unifiedui/donation-service/internal/api/routes"
	"github.com/unifiedui/donation-service/internal/config"
	"github.com/unifiedui/donation-service/internal/core/cache"
	"github.com/unifiedui/donation-service/internal/core/docdb"
	"github.com/unifiedui/donation-service/internal/core/vault"
	rediscache "github.com/unifiedui/donation-service/internal/infrastructure/cache/redis"
	"github.com/unifiedui/donation-service/internal/infrastructure/docdb/mongodb"
	dotenvvault "github.com/unifiedui/donation-service/internal/infrastructure/vault/dotenv"
	"github.com/unifiedui/donation-service/internal/pkg/logger"
	"github.com/unifiedui/donation-service/internal/services/connection"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.Setup(cfg.Log.Level, cfg.Log.Format)

	// The manager fails lazily on first use; only warn here.
	if err := cfg.DocDB.Validate(); err != nil {
		appLogger.Warn().Err(err).Msg("document database is not configured")
	}

	// Initialize vault client using factory pattern
	vaultClient, err := createVaultClient(cfg.Vault)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to initialize vault client")
	}
	defer vaultClient.Close()

	// Initialize cache client using factory pattern
	cacheClient, err := createCacheClient(cfg.Cache)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to initialize cache client")
	}
	if cacheClient != nil {
		defer cacheClient.Close()
	}

	connector, err := createConnector(cfg.DocDB)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to initialize document db connector")
	}

	manager, err := createConnectionManager(cfg, connector, vaultClient, cacheClient, appLogger)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to initialize connection manager")
	}

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Setup router
	router := setupRouter(cfg, manager, cacheClient, appLogger)

	// Create HTTP server
	srv := &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in goroutine
	go func() {
		appLogger.Info().Str("address", cfg.Server.Address()).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error().Err(err).Msg("server forced to shutdown")
	}

	manager.Close(shutdownCtx)

	appLogger.Info().Msg("server exited")
}

// createVaultClient creates a vault client based on the configuration.
func createVaultClient(cfg config.VaultConfig) (vault.Client, error) {
	switch vault.Type(cfg.Type) {
	case vault.TypeDotEnv:
		return dotenvvault.NewClient()
	default:
		return nil, fmt.Errorf("unsupported vault type: %s", cfg.Type)
	}
}

// createCacheClient creates a cache client based on the configuration.
// Returns nil when no cache is configured.
func createCacheClient(cfg config.CacheConfig) (cache.Client, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	switch cache.Type(cfg.Type) {
	case cache.TypeRedis:
		return rediscache.NewClient(rediscache.Config{
			Host:       cfg.Host,
			Port:       cfg.Port,
			Password:   cfg.Password,
			DB:         cfg.DB,
			DefaultTTL: cfg.LockTTL,
		})
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", cfg.Type)
	}
}

// createConnector creates a document database connector based on the configuration.
func createConnector(cfg config.DocDBConfig) (docdb.Connector, error) {
	switch docdb.Type(cfg.Type) {
	case docdb.TypeMongoDB, docdb.TypeCosmosDB:
		// CosmosDB uses MongoDB protocol, so we can use the same connector
		return mongodb.NewConnector(), nil
	default:
		return nil, fmt.Errorf("unsupported docdb type: %s", cfg.Type)
	}
}

// createConnectionManager wires the connection manager, with a provisioning lock when a cache is available.
func createConnectionManager(cfg *config.Config, connector docdb.Connector, vaultClient vault.Client, cacheClient cache.Client, appLogger zerolog.Logger) (*connection.Manager, error) {
	var lock connection.ProvisionLock
	if cacheClient != nil {
		cacheLock, err := connection.NewCacheLock(cacheClient)
		if err != nil {
			return nil, err
		}
		lock = cacheLock
	}

	return connection.NewManager(&connection.Config{
		Connector:      connector,
		Secrets:        vaultClient,
		URISecret:      cfg.DocDB.URISecret,
		AppName:        cfg.DocDB.AppName,
		DatabaseName:   cfg.DocDB.Database,
		CollectionName: cfg.DocDB.Collection,
		HealthMode:     connection.HealthMode(cfg.Health.Mode),
		HealthTimeout:  cfg.Health.Timeout,
		Lock:           lock,
		LockTTL:        cfg.Cache.LockTTL,
		Logger:         &appLogger,
	})
}

// setupRouter creates and configures the Gin router.
func setupRouter(cfg *config.Config, manager *connection.Manager, cacheClient cache.Client, appLogger zerolog.Logger) *gin.Engine {
	router := gin.New()

	// Create middleware
	loggingMw := middleware.NewLoggingMiddlewareWithLogger(appLogger)
	errorMw := middleware.NewErrorMiddleware()
	corsCfg := middleware.DefaultCORSConfig(cfg.Server.AllowedOrigins)
	router.Use(middleware.NewCORSMiddleware(corsCfg))

	// Create handlers
	healthHandler := handlers.NewHealthHandler(manager, cacheClient)
	donationsHandler := handlers.NewDonationsHandler(manager)

	// Setup routes
	routesCfg := &routes.Config{
		HealthHandler:    healthHandler,
		DonationsHandler: donationsHandler,
	}

	routes.SetupWithMiddleware(router, routesCfg, loggingMw, errorMw)

	// Swagger documentation endpoint
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return router
}
