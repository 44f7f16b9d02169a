package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIError represents a structured error response. Detail is the human
// readable message clients print.
type APIError struct {
	Detail     string `json:"detail"`
	Code       string `json:"code"`
	RetryAfter int    `json:"retry_after_ms,omitempty"`
}

// Common error codes
const (
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeAgentInactive      = "AGENT_INACTIVE"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeRuntimeUnavailable = "RUNTIME_UNAVAILABLE"
	ErrCodeGenerationFailed   = "GENERATION_FAILED"
	ErrCodeStateError         = "STATE_ERROR"
	ErrCodeRateLimited        = "RATE_LIMITED"
	ErrCodeCircuitOpen        = "CIRCUIT_OPEN"
)

// RespondError sends a structured error response
func RespondError(c *gin.Context, status int, code string, detail string) {
	c.JSON(status, APIError{
		Detail: detail,
		Code:   code,
	})
}

// RespondErrorWithRetry sends a structured error response with retry hint
func RespondErrorWithRetry(c *gin.Context, status int, code string, detail string, retryAfterMs int) {
	c.JSON(status, APIError{
		Detail:     detail,
		Code:       code,
		RetryAfter: retryAfterMs,
	})
}

// BadRequest sends a 400 error
func BadRequest(c *gin.Context, detail string) {
	RespondError(c, http.StatusBadRequest, ErrCodeBadRequest, detail)
}

// Forbidden sends a 403 error for a deactivated agent
func Forbidden(c *gin.Context, detail string) {
	RespondError(c, http.StatusForbidden, ErrCodeAgentInactive, detail)
}

// InternalError sends a 500 error
func InternalError(c *gin.Context, detail string) {
	RespondError(c, http.StatusInternalServerError, ErrCodeInternalError, detail)
}
