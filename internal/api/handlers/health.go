// Package handlers provides HTTP handlers for the API.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unifiedui/donation-service/internal/api/dto"
	"github.com/unifiedui/donation-service/internal/api/middleware"
	"github.com/unifiedui/donation-service/internal/core/cache"
	"github.com/unifiedui/donation-service/internal/core/docdb"
	"github.com/unifiedui/donation-service/internal/services/connection"
)

// ConnectionManager is the part of the connection manager used by the handlers.
type ConnectionManager interface {
	CheckHealth(ctx context.Context) connection.HealthStatus
	Collection(ctx context.Context) (docdb.Collection, *connection.ProvisionResult, error)
	DonationCollection(ctx context.Context) (docdb.Collection, error)
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	manager     ConnectionManager
	cacheClient cache.Client
}

// NewHealthHandler creates a new HealthHandler. cacheClient may be nil when no cache is configured.
func NewHealthHandler(manager ConnectionManager, cacheClient cache.Client) *HealthHandler {
	return &HealthHandler{
		manager:     manager,
		cacheClient: cacheClient,
	}
}

// Health handles the /health endpoint.
// @Summary Health check
// @Description Probes the document database (and the cache when configured)
// @Tags Health
// @Produce json
// @Success 200 {object} dto.HealthResponse "Service healthy"
// @Failure 503 {object} dto.HealthResponse "Service unhealthy"
// @Router /api/v1/donation-service/health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()
	components := make(map[string]string)

	status := h.manager.CheckHealth(ctx)
	healthy := status.OK
	if status.OK {
		components["docdb"] = "healthy"
	} else {
		components["docdb"] = "unhealthy"
	}

	if h.cacheClient != nil {
		if err := h.cacheClient.Ping(ctx); err != nil {
			components["cache"] = "unhealthy"
			healthy = false
		} else {
			components["cache"] = "healthy"
		}
	}

	statusText := "healthy"
	statusCode := http.StatusOK
	if !healthy {
		statusText = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, dto.HealthResponse{
		Status:     statusText,
		Mode:       string(status.Mode),
		Message:    status.Message,
		Components: components,
	})
}

// Ready handles the /ready endpoint.
// @Summary Readiness check
// @Description Resolves the donations collection, provisioning it on first use
// @Tags Health
// @Produce json
// @Success 200 {object} dto.ReadyResponse "Service ready"
// @Failure 500 {object} dto.ErrorResponse "Configuration missing"
// @Failure 503 {object} dto.ErrorResponse "Database unavailable"
// @Router /api/v1/donation-service/ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	coll, result, err := h.manager.Collection(c.Request.Context())
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	resp := dto.ReadyResponse{
		Status:     "ready",
		Collection: coll.Name(),
	}
	if result != nil {
		resp.Outcome = string(result.Outcome)
		for _, w := range result.Warnings {
			resp.Warnings = append(resp.Warnings, w.Error())
		}
	}

	c.JSON(http.StatusOK, resp)
}

// Live handles the /live endpoint.
// @Summary Liveness check
// @Description Returns 200 if the service is alive
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string "Service alive"
// @Router /api/v1/donation-service/live [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
