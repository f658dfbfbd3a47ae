package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"

	"github.com/laundryos/washstack/api/handlers"
	"github.com/laundryos/washstack/api/middleware"
	"github.com/laundryos/washstack/config"
	"github.com/laundryos/washstack/internal/repository"
	"github.com/laundryos/washstack/internal/tracing"
	"github.com/laundryos/washstack/services"
)

const appSourceWashstack = "washstack"

// RegisterRoutes sets up all API endpoints
func RegisterRoutes(ctx context.Context, r *gin.Engine, cfg *config.Config, s *services.Services, repos *repository.Repositories) {
	if s == nil {
		panic("Services cannot be nil")
	}
	if repos == nil {
		panic("Repositories cannot be nil")
	}

	// Add recovery middlewares
	r.Use(gin.Recovery())
	r.Use(tracing.RecoveryWithJaeger(opentracing.GlobalTracer()))

	// Health check endpoint (no custom context needed)
	r.GET("/health", handlers.HealthCheck)

	// Webhook boundary: each provider has its own shared secret, verified
	// before anything is parsed or persisted.
	webhooks := r.Group("/webhooks")
	webhooks.Use(middleware.TenantHeaderMiddleware())
	webhooks.Use(middleware.CustomContextMiddleware(appSourceWashstack))
	webhooks.Use(middleware.TracingMiddleware())
	{
		webhooks.POST("/call-transcription",
			middleware.SignatureMiddleware(cfg.WebhookSecretsConfig.CallTranscription),
			handlers.ReceiveCallTranscription(s.EventQueue))
		webhooks.POST("/payment",
			middleware.SignatureMiddleware(cfg.WebhookSecretsConfig.Payment),
			handlers.ReceivePayment(s.EventQueue))
		webhooks.POST("/maintenance",
			middleware.SignatureMiddleware(cfg.WebhookSecretsConfig.Maintenance),
			handlers.ReceiveMaintenance(s.EventQueue))
	}

	apiKeyMiddleware := middleware.APIKeyMiddleware(middleware.APIKeyConfig{
		HeaderName:  "X-WASHSTACK-API-KEY",
		ValidAPIKey: cfg.AppConfig.APIKey,
	})

	// API group with version and custom context
	api := r.Group("/v1")
	api.Use(apiKeyMiddleware)
	api.Use(middleware.CustomContextMiddleware(appSourceWashstack))
	api.Use(middleware.TracingMiddleware())
	{
		events := api.Group("/events")
		{
			events.GET("", handlers.ListRecentEvents(repos))
			events.GET("/:id", handlers.GetEvent(repos))
		}

		alerts := api.Group("/alerts")
		{
			alerts.GET("", handlers.ListRecentAlerts(repos))
		}

		machines := api.Group("/machines")
		{
			machines.GET("/:id/stats", handlers.GetMachineStats(repos))
		}
	}
}
