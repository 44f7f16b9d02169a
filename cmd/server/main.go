package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sharfuddin18/codemaster-ai/internal/activation"
	"github.com/sharfuddin18/codemaster-ai/internal/codegen"
	"github.com/sharfuddin18/codemaster-ai/internal/config"
	"github.com/sharfuddin18/codemaster-ai/internal/eventbus"
	"github.com/sharfuddin18/codemaster-ai/internal/handlers"
	"github.com/sharfuddin18/codemaster-ai/internal/metrics"
	"github.com/sharfuddin18/codemaster-ai/internal/middleware"
	"github.com/sharfuddin18/codemaster-ai/internal/ollama"
	"github.com/sharfuddin18/codemaster-ai/internal/selector"
	"github.com/sharfuddin18/codemaster-ai/internal/telemetry"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "github.com/sharfuddin18/codemaster-ai/docs" // Swagger docs
)

const (
	serviceName = "codemaster-ai"
	version     = "1.0.0"
)

// @title CodeMaster AI API
// @version 1.0.0
// @description Code generation and fixing on top of a local Ollama runtime.
// @host localhost:8000
// @BasePath /
// @schemes http
func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("CodeMaster AI starting...",
		zap.String("version", version),
		zap.String("environment", cfg.Environment),
		zap.String("ollama_host", cfg.OllamaHost),
	)

	shutdownTelemetry, err := telemetry.InitTracer(ctx, serviceName, version, cfg.OTLPEndpoint)
	if err != nil {
		// Log but don't fail, as collector might be down
		logger.Error("failed to initialize telemetry", zap.Error(err))
	} else {
		defer func() {
			if err := shutdownTelemetry(ctx); err != nil {
				logger.Error("failed to shutdown telemetry", zap.Error(err))
			}
		}()
	}

	health := map[string]handlers.Pinger{}

	// Generation runtime. A bad host leaves the service up with no client,
	// and every generation answers 500.
	var runtime ollama.Runtime
	client, err := ollama.NewClient(cfg.OllamaHost, nil)
	if err != nil {
		logger.Error("failed to initialize Ollama client", zap.Error(err))
	} else {
		runtime = client
	}

	// Activation flag
	var state activation.Store = activation.NewMemoryStore()
	if cfg.RedisURL != "" {
		rs, err := activation.NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer rs.Close()
		state = rs
		health["redis"] = rs
		logger.Info("activation flag shared through redis", zap.String("key", activation.DefaultRedisKey))
	}
	metrics.SetActive(false)

	// Events
	var events *eventbus.Publisher
	if cfg.NATSURL != "" {
		events, health["nats"] = connectEvents(cfg.NATSURL, logger)
		defer events.Close()
	}

	service := codegen.NewService(runtime, selector.Default(), state, events, logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	deps := routerDeps{
		service: service,
		health:  health,
		logger:  logger,
	}
	if cfg.RateLimitPerMinute > 0 {
		deps.rateLimiter = middleware.NewPerMinuteRateLimiter(cfg.RateLimitPerMinute)
	}
	if cfg.CircuitBreakerThreshold > 0 {
		cb := middleware.NewCircuitBreakerWithConfig(cfg.CircuitBreakerThreshold, 2, 30*time.Second)
		cb.OnStateChange = func(from, to middleware.CircuitState) {
			logger.Warn("circuit breaker state changed",
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		}
		deps.circuitBreaker = cb
	}
	router := newRouter(deps)

	// No write timeout: generations block until the runtime answers.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("starting server", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
		return
	}

	logger.Info("server exited gracefully")
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	// Initialize logger with stdout sync
	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(lvl)
	zapConfig.OutputPaths = []string{"stdout"}
	zapConfig.ErrorOutputPaths = []string{"stderr"}
	return zapConfig.Build()
}

// connectEvents dials NATS. On failure the publisher is nil, so events are
// dropped, and the returned pinger keeps reporting the connect error so deep
// health reads degraded rather than not configured.
func connectEvents(url string, logger *zap.Logger) (*eventbus.Publisher, handlers.Pinger) {
	events, err := eventbus.Connect(url)
	if err != nil {
		logger.Error("failed to connect to NATS", zap.Error(err))
		return nil, handlers.PingFunc(func(context.Context) error { return err })
	}
	logger.Info("connected to NATS")
	return events, handlers.PingFunc(func(context.Context) error { return events.Ping() })
}
