package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sharfuddin18/codemaster-ai/internal/codegen"
	"github.com/sharfuddin18/codemaster-ai/internal/middleware"
	"go.uber.org/zap"
)

// ModelsHandler lists the runtime catalog
type ModelsHandler struct {
	service *codegen.Service
	logger  *zap.Logger
}

// NewModelsHandler creates a new models handler
func NewModelsHandler(service *codegen.Service, logger *zap.Logger) *ModelsHandler {
	return &ModelsHandler{service: service, logger: logger}
}

// ModelsResponse lists installed model names
type ModelsResponse struct {
	Models []string `json:"models"`
}

// ListModels returns the names of installed models
// @Summary List models
// @Tags models
// @Produce json
// @Success 200 {object} ModelsResponse
// @Failure 500 {object} middleware.APIError
// @Router /models [get]
func (h *ModelsHandler) ListModels(c *gin.Context) {
	models, err := h.service.ListModels(c.Request.Context())
	if err != nil {
		h.logger.Error("model list retrieval failed", zap.Error(err))
		middleware.InternalError(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, ModelsResponse{Models: models})
}
