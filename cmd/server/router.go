package main

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sharfuddin18/codemaster-ai/internal/codegen"
	"github.com/sharfuddin18/codemaster-ai/internal/handlers"
	"github.com/sharfuddin18/codemaster-ai/internal/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

type routerDeps struct {
	service        *codegen.Service
	health         map[string]handlers.Pinger
	rateLimiter    *middleware.RateLimiter
	circuitBreaker *middleware.CircuitBreaker
	logger         *zap.Logger
}

func newRouter(d routerDeps) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery(d.logger))
	router.Use(middleware.RequestLogger(d.logger, "/metrics", "/health"))
	router.Use(middleware.Metrics())
	router.Use(middleware.CORS())

	// Swagger documentation
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	healthHandler := handlers.NewHealthHandler(d.service, d.health, version, d.logger)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/deep", healthHandler.DeepHealth)

	activationHandler := handlers.NewActivationHandler(d.service, d.logger)
	router.POST("/activate", activationHandler.Activate)
	router.POST("/deactivate", activationHandler.Deactivate)

	modelsHandler := handlers.NewModelsHandler(d.service, d.logger)
	router.GET("/models", modelsHandler.ListModels)

	// Generation routes, optionally behind rate limiting and a circuit breaker
	generationHandler := handlers.NewGenerationHandler(d.service, d.logger)
	generation := router.Group("")
	if d.rateLimiter != nil {
		generation.Use(middleware.RateLimitMiddleware(d.rateLimiter))
	}
	if d.circuitBreaker != nil {
		generation.Use(middleware.CircuitBreakerMiddleware(d.circuitBreaker))
	}
	{
		generation.POST("/generate-code", generationHandler.GenerateCode)
		generation.POST("/fix-code", generationHandler.FixCode)
	}

	return router
}
