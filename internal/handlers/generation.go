package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sharfuddin18/codemaster-ai/internal/codegen"
	"github.com/sharfuddin18/codemaster-ai/internal/middleware"
	"go.uber.org/zap"
)

// GenerationHandler handles the generate and fix endpoints
type GenerationHandler struct {
	service *codegen.Service
	logger  *zap.Logger
}

// NewGenerationHandler creates a new generation handler
func NewGenerationHandler(service *codegen.Service, logger *zap.Logger) *GenerationHandler {
	return &GenerationHandler{service: service, logger: logger}
}

// GenerateCode generates code for a prompt
// @Summary Generate code
// @Description Selects a model for the prompt and returns the runtime output.
// @Tags generation
// @Accept json
// @Produce json
// @Param request body codegen.GenerateRequest true "Prompt, optional language and model"
// @Success 200 {object} codegen.Result
// @Failure 400 {object} middleware.APIError
// @Failure 403 {object} middleware.APIError
// @Failure 500 {object} middleware.APIError
// @Router /generate-code [post]
func (h *GenerationHandler) GenerateCode(c *gin.Context) {
	var req codegen.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.BadRequest(c, msgInvalidBody)
		return
	}

	// A client disconnect must not abort an in-flight generation.
	ctx := context.WithoutCancel(c.Request.Context())

	result, err := h.service.Generate(ctx, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// FixCode rewrites existing code
// @Summary Fix code
// @Description Sends the code and instructions to the selected model.
// @Tags generation
// @Accept json
// @Produce json
// @Param request body codegen.FixRequest true "Code and optional instructions"
// @Success 200 {object} codegen.Result
// @Failure 400 {object} middleware.APIError
// @Failure 403 {object} middleware.APIError
// @Failure 500 {object} middleware.APIError
// @Router /fix-code [post]
func (h *GenerationHandler) FixCode(c *gin.Context) {
	var req codegen.FixRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.BadRequest(c, msgInvalidBody)
		return
	}

	ctx := context.WithoutCancel(c.Request.Context())

	result, err := h.service.Fix(ctx, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
