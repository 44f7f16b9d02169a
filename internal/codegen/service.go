// Package codegen implements the generate and fix operations: activation
// gating, model selection, prompt templating and the single runtime call.
package codegen

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sharfuddin18/codemaster-ai/internal/activation"
	"github.com/sharfuddin18/codemaster-ai/internal/eventbus"
	"github.com/sharfuddin18/codemaster-ai/internal/metrics"
	"github.com/sharfuddin18/codemaster-ai/internal/ollama"
	"github.com/sharfuddin18/codemaster-ai/internal/selector"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("github.com/sharfuddin18/codemaster-ai/internal/codegen")

// Confidence is reported with every result.
const Confidence = 0.95

// Messages returned to callers.
const (
	MsgInactive    = "AI Agent inactive. Use /activate."
	MsgEmptyPrompt = "Prompt cannot be empty."
	MsgEmptyCode   = "Code cannot be empty."
	MsgNoClient    = "Ollama client not initialized"
)

const (
	operationGenerate = "generate"
	operationFix      = "fix"

	msgGenerateFailed = "Code generation failed: %v"
	msgFixFailed      = "Code fixing failed: %v"
	generatedByFormat = "Generated by %s (%s)."
	fixedByFormat     = "Fixed by %s (%s)."

	// overrideLabel stands in for any caller-chosen model in metric labels.
	overrideLabel = "override"
)

// DefaultOptions are the sampling parameters of every runtime call.
var DefaultOptions = ollama.Options{Temperature: 0.1, TopP: 0.9, TopK: 40}

// GenerateRequest asks for new code.
type GenerateRequest struct {
	Prompt   string `json:"prompt"`
	Language string `json:"language,omitempty"`
	Model    string `json:"model,omitempty"`
}

// FixRequest asks for a rewrite of existing code.
type FixRequest struct {
	FileCode     string `json:"file_code"`
	Instructions string `json:"instructions,omitempty"`
}

// Result is the outcome of one runtime call.
type Result struct {
	Code        string  `json:"code"`
	Explanation string  `json:"explanation"`
	Confidence  float64 `json:"confidence"`
	ModelUsed   string  `json:"model_used"`
	ElapsedMs   int64   `json:"elapsed_ms"`
}

// GenerationCompleted is published after every successful runtime call.
type GenerationCompleted struct {
	Operation string `json:"operation"`
	Model     string `json:"model"`
	Reason    string `json:"reason"`
	ElapsedMs int64  `json:"elapsed_ms"`
	Chars     int    `json:"chars"`
}

// ActivationChanged is published on every toggle.
type ActivationChanged struct {
	Active bool `json:"active"`
}

// Service owns the request flow between the HTTP layer and the runtime.
type Service struct {
	runtime  ollama.Runtime
	selector *selector.Selector
	state    activation.Store
	events   *eventbus.Publisher
	logger   *zap.Logger
}

// NewService wires a service. runtime may be nil, in which case generation
// and listing fail with KindUnavailable. events may be nil.
func NewService(runtime ollama.Runtime, sel *selector.Selector, state activation.Store, events *eventbus.Publisher, logger *zap.Logger) *Service {
	if sel == nil {
		sel = selector.Default()
	}
	if state == nil {
		state = activation.NewMemoryStore()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		runtime:  runtime,
		selector: sel,
		state:    state,
		events:   events,
		logger:   logger,
	}
}

// HasRuntime reports whether a runtime client is configured.
func (s *Service) HasRuntime() bool {
	return s.runtime != nil
}

// Activate sets the flag.
func (s *Service) Activate(ctx context.Context) error {
	return s.setActive(ctx, true)
}

// Deactivate clears the flag.
func (s *Service) Deactivate(ctx context.Context) error {
	return s.setActive(ctx, false)
}

func (s *Service) setActive(ctx context.Context, active bool) error {
	var err error
	if active {
		err = s.state.Activate(ctx)
	} else {
		err = s.state.Deactivate(ctx)
	}
	if err != nil {
		return wrapError(KindState, "%v", err)
	}

	metrics.SetActive(active)
	if active {
		s.logger.Info("AI agent activated")
	} else {
		s.logger.Info("AI agent deactivated")
	}
	s.publish(eventbus.SubjectActivationChanged, ActivationChanged{Active: active})
	return nil
}

// IsActive reads the flag.
func (s *Service) IsActive(ctx context.Context) (bool, error) {
	active, err := s.state.IsActive(ctx)
	if err != nil {
		return false, wrapError(KindState, "%v", err)
	}
	return active, nil
}

// ListModels returns the names of the models installed in the runtime.
func (s *Service) ListModels(ctx context.Context) ([]string, error) {
	if s.runtime == nil {
		return nil, newError(KindUnavailable, MsgNoClient)
	}
	models, err := s.runtime.ListModels(ctx)
	if err != nil {
		return nil, wrapError(KindGeneration, "%v", err)
	}
	return ollama.ModelNames(models), nil
}

// Generate produces code for req. A non-empty req.Model replaces the selected
// model, while the explanation keeps the selector's reason.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*Result, error) {
	ctx, span := tracer.Start(ctx, "codegen.Generate")
	defer span.End()

	if err := s.checkPreconditions(ctx, req.Prompt, MsgEmptyPrompt); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	sel := s.selector.Select(req.Prompt, req.Language)
	s.logSelection(operationGenerate, sel)

	model := sel.Model
	if req.Model != "" {
		model = req.Model
	}
	span.SetAttributes(
		attribute.String("codegen.model", model),
		attribute.String("codegen.reason", sel.Reason),
	)

	return s.run(ctx, call{
		operation:   operationGenerate,
		model:       model,
		reason:      sel.Reason,
		prompt:      generatePrompt(req.Prompt, req.Language),
		inputChars:  len(req.Prompt),
		placeholder: noCodePlaceholder,
		failFormat:  msgGenerateFailed,
		explanation: generatedByFormat,
	})
}

// Fix rewrites req.FileCode following req.Instructions.
func (s *Service) Fix(ctx context.Context, req FixRequest) (*Result, error) {
	ctx, span := tracer.Start(ctx, "codegen.Fix")
	defer span.End()

	if err := s.checkPreconditions(ctx, req.FileCode, MsgEmptyCode); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	sel := s.selector.Select(req.FileCode, "")
	s.logSelection(operationFix, sel)
	span.SetAttributes(
		attribute.String("codegen.model", sel.Model),
		attribute.String("codegen.reason", sel.Reason),
	)

	return s.run(ctx, call{
		operation:   operationFix,
		model:       sel.Model,
		reason:      sel.Reason,
		prompt:      fixPrompt(req.FileCode, req.Instructions),
		inputChars:  len(req.FileCode),
		placeholder: noFixesPlaceholder,
		failFormat:  msgFixFailed,
		explanation: fixedByFormat,
	})
}

// checkPreconditions enforces activation, then non-empty input, then a
// configured runtime, in that order.
func (s *Service) checkPreconditions(ctx context.Context, input, emptyMsg string) error {
	active, err := s.IsActive(ctx)
	if err != nil {
		return err
	}
	if !active {
		return newError(KindInactive, MsgInactive)
	}
	if strings.TrimSpace(input) == "" {
		return newError(KindValidation, emptyMsg)
	}
	if s.runtime == nil {
		return newError(KindUnavailable, MsgNoClient)
	}
	return nil
}

type call struct {
	operation   string
	model       string
	reason      string
	prompt      string
	inputChars  int
	placeholder string
	failFormat  string
	explanation string
}

func (s *Service) run(ctx context.Context, c call) (*Result, error) {
	metrics.InputChars.Observe(float64(c.inputChars))

	start := time.Now()
	resp, err := s.runtime.Generate(ctx, ollama.GenerateRequest{
		Model:   c.model,
		Prompt:  c.prompt,
		Options: DefaultOptions,
	})
	elapsed := time.Since(start)
	label := s.modelLabel(c.model)
	metrics.GenerationDuration.WithLabelValues(c.operation, label).Observe(elapsed.Seconds())

	if err != nil {
		metrics.GenerationFailures.WithLabelValues(c.operation, label).Inc()
		fields := []zap.Field{
			zap.String("operation", c.operation),
			zap.String("model", c.model),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		}
		if ollama.IsNotFound(err) {
			s.logger.Warn("model not installed in runtime", fields...)
		} else {
			s.logger.Error("generation failed", fields...)
		}
		return nil, wrapError(KindGeneration, c.failFormat, err)
	}

	code := ""
	if resp != nil {
		code = strings.TrimSpace(resp.Response)
	}
	if code == "" {
		code = c.placeholder
	}

	result := &Result{
		Code:        code,
		Explanation: fmt.Sprintf(c.explanation, c.model, c.reason),
		Confidence:  Confidence,
		ModelUsed:   c.model,
		ElapsedMs:   elapsed.Milliseconds(),
	}

	s.logger.Info("code generated",
		zap.String("operation", c.operation),
		zap.String("model", c.model),
		zap.Int("chars", len(code)),
		zap.Int64("elapsed_ms", result.ElapsedMs),
	)
	s.publish(eventbus.SubjectGenerationCompleted, GenerationCompleted{
		Operation: c.operation,
		Model:     c.model,
		Reason:    c.reason,
		ElapsedMs: result.ElapsedMs,
		Chars:     len(code),
	})
	return result, nil
}

// modelLabel keeps the model label within the selector's table so that
// caller overrides cannot grow the series count.
func (s *Service) modelLabel(model string) string {
	if s.selector.Serves(model) {
		return model
	}
	return overrideLabel
}

func (s *Service) logSelection(operation string, sel selector.Selection) {
	metrics.ModelSelections.WithLabelValues(sel.Model, sel.Reason).Inc()
	s.logger.Info("model selected",
		zap.String("operation", operation),
		zap.String("model", sel.Model),
		zap.String("reason", sel.Reason),
	)
}

func (s *Service) publish(subject string, v any) {
	if err := s.events.Publish(subject, v); err != nil {
		s.logger.Warn("event publish failed", zap.String("subject", subject), zap.Error(err))
	}
}
