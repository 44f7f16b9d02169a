package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sharfuddin18/codemaster-ai/internal/codegen"
	"go.uber.org/zap"
)

// ActivationHandler toggles the agent
type ActivationHandler struct {
	service *codegen.Service
	logger  *zap.Logger
}

// NewActivationHandler creates a new activation handler
func NewActivationHandler(service *codegen.Service, logger *zap.Logger) *ActivationHandler {
	return &ActivationHandler{service: service, logger: logger}
}

// ActivationResponse is returned by both toggles
type ActivationResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Activate enables the generation endpoints
// @Summary Activate the agent
// @Tags activation
// @Produce json
// @Success 200 {object} ActivationResponse
// @Failure 500 {object} middleware.APIError
// @Router /activate [post]
func (h *ActivationHandler) Activate(c *gin.Context) {
	if err := h.service.Activate(c.Request.Context()); err != nil {
		h.logger.Error("activate failed", zap.Error(err))
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ActivationResponse{Status: "activated", Message: "AI agent is active."})
}

// Deactivate disables the generation endpoints
// @Summary Deactivate the agent
// @Tags activation
// @Produce json
// @Success 200 {object} ActivationResponse
// @Failure 500 {object} middleware.APIError
// @Router /deactivate [post]
func (h *ActivationHandler) Deactivate(c *gin.Context) {
	if err := h.service.Deactivate(c.Request.Context()); err != nil {
		h.logger.Error("deactivate failed", zap.Error(err))
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ActivationResponse{Status: "deactivated", Message: "AI agent is inactive."})
}
