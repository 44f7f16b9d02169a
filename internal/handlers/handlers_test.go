package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sharfuddin18/codemaster-ai/internal/codegen"
	"github.com/sharfuddin18/codemaster-ai/internal/middleware"
	"github.com/sharfuddin18/codemaster-ai/internal/ollama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubRuntime struct {
	response string
	err      error
	models   []ollama.Model
	listErr  error
	lastCtx  context.Context
}

func (s *stubRuntime) ListModels(ctx context.Context) ([]ollama.Model, error) {
	return s.models, s.listErr
}

func (s *stubRuntime) Generate(ctx context.Context, req ollama.GenerateRequest) (*ollama.GenerateResponse, error) {
	s.lastCtx = ctx
	if s.err != nil {
		return nil, s.err
	}
	return &ollama.GenerateResponse{Model: req.Model, Response: s.response, Done: true}, nil
}

func setupRouter(rt ollama.Runtime, deps map[string]Pinger) (*gin.Engine, *codegen.Service) {
	logger := zap.NewNop()
	svc := codegen.NewService(rt, nil, nil, nil, logger)

	gen := NewGenerationHandler(svc, logger)
	act := NewActivationHandler(svc, logger)
	mod := NewModelsHandler(svc, logger)
	health := NewHealthHandler(svc, deps, "test", logger)

	r := gin.New()
	r.POST("/activate", act.Activate)
	r.POST("/deactivate", act.Deactivate)
	r.GET("/health", health.Health)
	r.GET("/health/deep", health.DeepHealth)
	r.GET("/models", mod.ListModels)
	r.POST("/generate-code", gen.GenerateCode)
	r.POST("/fix-code", gen.FixCode)
	return r, svc
}

func do(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		json.NewEncoder(&buf).Encode(b)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestActivationEndpoints(t *testing.T) {
	r, svc := setupRouter(&stubRuntime{}, nil)

	for i := 0; i < 2; i++ {
		w := do(r, http.MethodPost, "/activate", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"activated","message":"AI agent is active."}`, w.Body.String())
	}
	active, _ := svc.IsActive(context.Background())
	assert.True(t, active)

	for i := 0; i < 2; i++ {
		w := do(r, http.MethodPost, "/deactivate", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"deactivated","message":"AI agent is inactive."}`, w.Body.String())
	}
	active, _ = svc.IsActive(context.Background())
	assert.False(t, active)
}

func TestGenerateCodeRequiresActivation(t *testing.T) {
	r, _ := setupRouter(&stubRuntime{response: "print(1)"}, nil)

	for _, path := range []string{"/generate-code", "/fix-code"} {
		w := do(r, http.MethodPost, path, map[string]string{"prompt": "hi", "file_code": "x"})
		assert.Equal(t, http.StatusForbidden, w.Code)
		e := decode[middleware.APIError](t, w)
		assert.Equal(t, "AI Agent inactive. Use /activate.", e.Detail)
	}

	do(r, http.MethodPost, "/activate", nil)

	w := do(r, http.MethodPost, "/generate-code", map[string]string{"prompt": "hi"})
	assert.Equal(t, http.StatusOK, w.Code)
	w = do(r, http.MethodPost, "/fix-code", map[string]string{"file_code": "x"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGenerateCodeEmptyPrompt(t *testing.T) {
	r, _ := setupRouter(&stubRuntime{}, nil)

	w := do(r, http.MethodPost, "/generate-code", map[string]string{"prompt": "  "})
	assert.GreaterOrEqual(t, w.Code, 400)
	assert.Less(t, w.Code, 500)

	do(r, http.MethodPost, "/activate", nil)

	w = do(r, http.MethodPost, "/generate-code", map[string]string{"prompt": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Prompt cannot be empty.", decode[middleware.APIError](t, w).Detail)

	w = do(r, http.MethodPost, "/fix-code", map[string]string{"file_code": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Code cannot be empty.", decode[middleware.APIError](t, w).Detail)
}

func TestGenerateCodeMalformedBody(t *testing.T) {
	r, _ := setupRouter(&stubRuntime{}, nil)

	w := do(r, http.MethodPost, "/generate-code", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid request body", decode[middleware.APIError](t, w).Detail)
}

func TestGenerateCodeSuccess(t *testing.T) {
	rt := &stubRuntime{response: "  import json\n"}
	r, _ := setupRouter(rt, nil)
	do(r, http.MethodPost, "/activate", nil)

	w := do(r, http.MethodPost, "/generate-code", map[string]string{
		"prompt":   "parse this JSON",
		"language": "python",
	})
	require.Equal(t, http.StatusOK, w.Code)

	res := decode[codegen.Result](t, w)
	assert.Equal(t, "import json", res.Code)
	assert.Equal(t, "codellama:7b-instruct", res.ModelUsed)
	assert.Equal(t, "Generated by codellama:7b-instruct (Python detected).", res.Explanation)
	assert.Equal(t, 0.95, res.Confidence)

	// Generation runs detached from request cancellation.
	require.NotNil(t, rt.lastCtx)
	assert.Nil(t, rt.lastCtx.Done())
}

func TestGenerateCodeModelOverride(t *testing.T) {
	r, _ := setupRouter(&stubRuntime{response: "SELECT 1;"}, nil)
	do(r, http.MethodPost, "/activate", nil)

	w := do(r, http.MethodPost, "/generate-code", map[string]string{
		"prompt": "optimize this SQL query",
		"model":  "mistral:7b-instruct",
	})
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[codegen.Result](t, w)
	assert.Equal(t, "mistral:7b-instruct", res.ModelUsed)
	assert.Equal(t, "Generated by mistral:7b-instruct (SQL/Database detected).", res.Explanation)
}

func TestGenerateCodeRuntimeFailure(t *testing.T) {
	r, _ := setupRouter(&stubRuntime{err: errors.New("model not found")}, nil)
	do(r, http.MethodPost, "/activate", nil)

	w := do(r, http.MethodPost, "/generate-code", map[string]string{"prompt": "hi"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	e := decode[middleware.APIError](t, w)
	assert.Equal(t, "Code generation failed: model not found", e.Detail)
	assert.Equal(t, middleware.ErrCodeGenerationFailed, e.Code)

	w = do(r, http.MethodPost, "/fix-code", map[string]string{"file_code": "x"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Code fixing failed: model not found", decode[middleware.APIError](t, w).Detail)
}

func TestGenerateCodeWithoutRuntime(t *testing.T) {
	r, _ := setupRouter(nil, nil)
	do(r, http.MethodPost, "/activate", nil)

	w := do(r, http.MethodPost, "/generate-code", map[string]string{"prompt": "hi"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	e := decode[middleware.APIError](t, w)
	assert.Equal(t, "Ollama client not initialized", e.Detail)
	assert.Equal(t, middleware.ErrCodeRuntimeUnavailable, e.Code)
}

func TestHealth(t *testing.T) {
	rt := &stubRuntime{models: []ollama.Model{{Name: "qwen2.5-coder:7b"}}}
	r, _ := setupRouter(rt, nil)

	w := do(r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy","models":["qwen2.5-coder:7b"]}`, w.Body.String())

	rt.listErr = errors.New("connection refused")
	w = do(r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"unhealthy","error":"connection refused"}`, w.Body.String())
}

func TestHealthWithoutRuntime(t *testing.T) {
	r, _ := setupRouter(nil, nil)

	w := do(r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"unhealthy","error":"Ollama client not initialized"}`, w.Body.String())
}

func TestModels(t *testing.T) {
	rt := &stubRuntime{models: []ollama.Model{{Name: "a"}, {Name: "b"}}}
	r, _ := setupRouter(rt, nil)

	w := do(r, http.MethodGet, "/models", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"models":["a","b"]}`, w.Body.String())

	rt.listErr = errors.New("boom")
	w = do(r, http.MethodGet, "/models", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "boom", decode[middleware.APIError](t, w).Detail)
}

func TestDeepHealth(t *testing.T) {
	rt := &stubRuntime{}
	deps := map[string]Pinger{
		"redis": PingFunc(func(context.Context) error { return nil }),
		"nats":  nil,
	}
	r, _ := setupRouter(rt, deps)

	w := do(r, http.MethodGet, "/health/deep", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	res := decode[HealthResponse](t, w)
	assert.Equal(t, "healthy", res.Status)
	assert.Equal(t, "healthy", res.Dependencies["ollama"])
	assert.Equal(t, "healthy", res.Dependencies["redis"])
	assert.Equal(t, "not configured", res.Dependencies["nats"])

	deps["redis"] = PingFunc(func(context.Context) error { return errors.New("refused") })
	w = do(r, http.MethodGet, "/health/deep", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	res = decode[HealthResponse](t, w)
	assert.Equal(t, "degraded", res.Status)
	assert.Equal(t, "unhealthy: refused", res.Dependencies["redis"])
}

func TestRespondServiceErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", &codegen.Error{Kind: codegen.KindValidation, Message: codegen.MsgEmptyPrompt}, http.StatusBadRequest, middleware.ErrCodeBadRequest},
		{"inactive", &codegen.Error{Kind: codegen.KindInactive, Message: codegen.MsgInactive}, http.StatusForbidden, middleware.ErrCodeAgentInactive},
		{"unavailable", &codegen.Error{Kind: codegen.KindUnavailable, Message: codegen.MsgNoClient}, http.StatusInternalServerError, middleware.ErrCodeRuntimeUnavailable},
		{"state", &codegen.Error{Kind: codegen.KindState, Message: "redis down"}, http.StatusInternalServerError, middleware.ErrCodeStateError},
		{"generation", &codegen.Error{Kind: codegen.KindGeneration, Message: "boom"}, http.StatusInternalServerError, middleware.ErrCodeGenerationFailed},
		{"foreign", errors.New("boom"), http.StatusInternalServerError, middleware.ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/", func(c *gin.Context) { respondServiceError(c, tt.err) })

			w := do(r, http.MethodGet, "/", nil)
			assert.Equal(t, tt.status, w.Code)

			body := decode[middleware.APIError](t, w)
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.err.Error(), body.Detail)
		})
	}
}
