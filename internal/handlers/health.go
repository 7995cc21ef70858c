package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/go-authgate/authchain/internal/version"

	"github.com/gin-gonic/gin"
)

// HealthChecker reports whether a dependency is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

type HealthHandler struct {
	db    HealthChecker
	cache HealthChecker
}

// NewHealthHandler checks the database and the credential cache. A nil cache is skipped.
func NewHealthHandler(db, cache HealthChecker) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

// Check reports database and cache health. An unreachable cache degrades the
// status but keeps 200; an unreachable database returns 503.
func (h *HealthHandler) Check(c *gin.Context) {
	ctx := c.Request.Context()
	status := http.StatusOK
	body := gin.H{
		"status":   "healthy",
		"database": "connected",
		"cache":    "ok",
		"version":  version.String(),
	}

	if err := h.db.Health(ctx); err != nil {
		log.Printf("[Health] database check failed: %v", err)
		status = http.StatusServiceUnavailable
		body["status"] = "unhealthy"
		body["database"] = "disconnected"
	}

	if h.cache != nil {
		if err := h.cache.Health(ctx); err != nil {
			log.Printf("[Health] cache check failed: %v", err)
			if status == http.StatusOK {
				body["status"] = "degraded"
			}
			body["cache"] = "unavailable"
		}
	}

	c.JSON(status, body)
}
