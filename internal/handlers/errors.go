package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sharfuddin18/codemaster-ai/internal/codegen"
	"github.com/sharfuddin18/codemaster-ai/internal/middleware"
)

const msgInvalidBody = "invalid request body"

// respondServiceError maps a codegen error onto the HTTP status and error
// code, keeping the service message as detail.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, codegen.ErrValidation):
		middleware.BadRequest(c, err.Error())
	case errors.Is(err, codegen.ErrInactive):
		middleware.Forbidden(c, err.Error())
	case errors.Is(err, codegen.ErrUnavailable):
		middleware.RespondError(c, http.StatusInternalServerError, middleware.ErrCodeRuntimeUnavailable, err.Error())
	case errors.Is(err, codegen.ErrState):
		middleware.RespondError(c, http.StatusInternalServerError, middleware.ErrCodeStateError, err.Error())
	case errors.Is(err, codegen.ErrGeneration):
		middleware.RespondError(c, http.StatusInternalServerError, middleware.ErrCodeGenerationFailed, err.Error())
	default:
		middleware.InternalError(c, err.Error())
	}
}
