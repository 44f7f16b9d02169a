package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sharfuddin18/codemaster-ai/internal/codegen"
	"github.com/sharfuddin18/codemaster-ai/internal/handlers"
	"github.com/sharfuddin18/codemaster-ai/internal/middleware"
	"github.com/sharfuddin18/codemaster-ai/internal/ollama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type failingRuntime struct{}

func (failingRuntime) ListModels(context.Context) ([]ollama.Model, error) {
	return nil, errors.New("unreachable")
}

func (failingRuntime) Generate(context.Context, ollama.GenerateRequest) (*ollama.GenerateResponse, error) {
	return nil, errors.New("unreachable")
}

func newTestRouter(d routerDeps) *gin.Engine {
	if d.logger == nil {
		d.logger = zap.NewNop()
	}
	if d.service == nil {
		d.service = codegen.NewService(failingRuntime{}, nil, nil, nil, d.logger)
	}
	return newRouter(d)
}

func request(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouterRoutes(t *testing.T) {
	r := newTestRouter(routerDeps{})

	tests := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/health/deep", "", http.StatusServiceUnavailable},
		{http.MethodGet, "/models", "", http.StatusInternalServerError},
		{http.MethodPost, "/generate-code", `{"prompt":"hi"}`, http.StatusForbidden},
		{http.MethodPost, "/fix-code", `{"file_code":"x"}`, http.StatusForbidden},
		{http.MethodPost, "/activate", "", http.StatusOK},
		{http.MethodPost, "/deactivate", "", http.StatusOK},
		{http.MethodGet, "/metrics", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := request(r, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, w.Code)
			assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
		})
	}
}

func TestRouterMetricsExposition(t *testing.T) {
	r := newTestRouter(routerDeps{})
	request(r, http.MethodPost, "/activate", "")

	w := request(r, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "codemaster_requests_total")
	assert.Contains(t, w.Body.String(), "codemaster_agent_active")
}

func TestRouterCircuitBreakerOnGeneration(t *testing.T) {
	cb := middleware.NewCircuitBreakerWithConfig(1, 1, time.Minute)
	r := newTestRouter(routerDeps{circuitBreaker: cb})
	request(r, http.MethodPost, "/activate", "")

	w := request(r, http.MethodPost, "/generate-code", `{"prompt":"hi"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = request(r, http.MethodPost, "/generate-code", `{"prompt":"hi"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	// Other routes are not guarded.
	w = request(r, http.MethodPost, "/deactivate", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouterRateLimitOnGeneration(t *testing.T) {
	r := newTestRouter(routerDeps{rateLimiter: middleware.NewPerMinuteRateLimiter(1)})

	w := request(r, http.MethodPost, "/generate-code", `{"prompt":"hi"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = request(r, http.MethodPost, "/generate-code", `{"prompt":"hi"}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	w = request(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUnreachableNATSDegradesDeepHealth(t *testing.T) {
	events, pinger := connectEvents("nats://127.0.0.1:1", zap.NewNop())
	assert.Nil(t, events)
	require.NotNil(t, pinger)
	assert.Error(t, pinger.Ping(context.Background()))

	r := newTestRouter(routerDeps{
		service: codegen.NewService(nil, nil, nil, nil, nil),
		health:  map[string]handlers.Pinger{"nats": pinger},
	})
	w := request(r, http.MethodGet, "/health/deep", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var body handlers.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body.Status)
	assert.True(t, strings.HasPrefix(body.Dependencies["nats"], "unhealthy: eventbus: connect"), body.Dependencies["nats"])
	assert.Equal(t, "not configured", body.Dependencies["ollama"])
}

func TestNewLogger(t *testing.T) {
	logger, err := newLogger("debug")
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = newLogger("loud")
	assert.Error(t, err)
}
