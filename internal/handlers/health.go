package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sharfuddin18/codemaster-ai/internal/codegen"
	"go.uber.org/zap"
)

// Pinger is a dependency that can report its own reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a plain function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthHandler handles health check endpoints
type HealthHandler struct {
	service *codegen.Service
	deps    map[string]Pinger
	version string
	logger  *zap.Logger
}

// NewHealthHandler creates a new health handler. deps are optional
// backends reported by DeepHealth; nil entries show as not configured.
func NewHealthHandler(service *codegen.Service, deps map[string]Pinger, version string, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		service: service,
		deps:    deps,
		version: version,
		logger:  logger,
	}
}

// HealthResponse represents the deep health check response
type HealthResponse struct {
	Status       string            `json:"status"`
	Service      string            `json:"service"`
	Version      string            `json:"version"`
	Active       bool              `json:"active"`
	Dependencies map[string]string `json:"dependencies"`
}

// Health reports runtime reachability. It always answers 200; the body
// carries the verdict.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	models, err := h.service.ListModels(c.Request.Context())
	if err != nil {
		h.logger.Warn("health check failed", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"models": models,
	})
}

// DeepHealth returns health status with dependency checks
// @Summary Dependency health
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health/deep [get]
func (h *HealthHandler) DeepHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	deps := make(map[string]string)
	allHealthy := true

	// Check generation runtime
	if h.service.HasRuntime() {
		if _, err := h.service.ListModels(ctx); err != nil {
			deps["ollama"] = "unhealthy: " + err.Error()
			allHealthy = false
		} else {
			deps["ollama"] = "healthy"
		}
	} else {
		deps["ollama"] = "not configured"
	}

	for name, p := range h.deps {
		if p == nil {
			deps[name] = "not configured"
			continue
		}
		if err := p.Ping(ctx); err != nil {
			deps[name] = "unhealthy: " + err.Error()
			allHealthy = false
		} else {
			deps[name] = "healthy"
		}
	}

	active, err := h.service.IsActive(ctx)
	if err != nil {
		allHealthy = false
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if !allHealthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, HealthResponse{
		Status:       status,
		Service:      "codemaster-ai",
		Version:      h.version,
		Active:       active,
		Dependencies: deps,
	})
}
