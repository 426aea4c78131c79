package handler

import (
	"time"

	"easypay/internal/adapter/http/middleware"
	"easypay/internal/core/ports"
	"easypay/pkg/apperror"
	"easypay/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AdmissionBypassPaths lists the exact paths exempt from admission
// control: health probes and the metrics scrape must answer even when the
// queue is saturated or the breaker is open.
var AdmissionBypassPaths = []string{
	"/health", "/health/ready", "/health/live", "/metrics",
}

// MetricsHandler is the minimal surface the router needs from the
// Prometheus registry in internal/platform/metrics.
type MetricsHandler interface {
	Handler() gin.HandlerFunc
	Middleware() gin.HandlerFunc
}

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	Engine       ports.PaymentEngine
	Reporting    ports.ReportingService
	Obs          ports.PaymentObservability
	PaymentRepo  ports.PaymentRepository
	SigSvc       ports.SignatureService
	NonceStore   ports.NonceStore
	Breaker      ports.CircuitBreaker
	RateLimiter  ports.RateLimiter
	RequestQueue ports.RequestQueue
	MetricSink   ports.MetricSink

	HealthCheckers []ports.HealthChecker
	Metrics        MetricsHandler // nil = /metrics disabled

	ProcessorWebhookSecret string
	MaxQueueSize           int
	RequestTimeout         time.Duration
	Mode                   string

	Logger zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	if deps.Mode == "" {
		deps.Mode = gin.ReleaseMode
	}
	gin.SetMode(deps.Mode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware())
	}

	// Admission control: circuit short-circuit, rate limiting, priority
	// queueing.
	admission := middleware.NewAdmission(
		deps.Breaker, deps.RateLimiter, deps.RequestQueue,
		deps.MaxQueueSize, deps.RequestTimeout, AdmissionBypassPaths, deps.MetricSink,
	)
	r.Use(admission.Handler())

	// Health checks: deep for /health and /health/ready, shallow liveness.
	healthCheck := HealthCheck(deps.HealthCheckers...)
	r.GET("/health", healthCheck)
	r.GET("/health/ready", healthCheck)
	r.GET("/health/live", Liveness)

	if deps.Metrics != nil {
		r.GET("/metrics", deps.Metrics.Handler())
	}

	// Swagger documentation
	swagger := r.Group("/swagger")
	{
		swagger.GET("", SwaggerUI)
		swagger.GET("/spec", SwaggerSpec)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	paymentHandler := NewPaymentHandler(deps.Engine, deps.Reporting, deps.Obs)
	payments := v1.Group("/payments")
	{
		payments.POST("", paymentHandler.Create)
		payments.GET("", paymentHandler.List)
		payments.GET("/:id", paymentHandler.Get)
		payments.PUT("/:id", paymentHandler.Update)
		payments.POST("/:id/capture", paymentHandler.Capture)
		payments.POST("/:id/refund", paymentHandler.Refund)
		payments.POST("/:id/cancel", paymentHandler.Cancel)
	}

	webhookHandler := NewWebhookHandler(
		deps.Engine, deps.PaymentRepo, deps.SigSvc, deps.NonceStore,
		deps.Obs, deps.ProcessorWebhookSecret, deps.Logger,
	)
	v1.POST("/webhooks/authorize-net", webhookHandler.Receive)

	// Reserved surface: subscriptions exist in the API shape but are not
	// implemented.
	subscriptions := v1.Group("/subscriptions")
	subscriptions.Any("/*any", func(c *gin.Context) {
		response.Error(c, apperror.NotImplemented("subscriptions"))
	})

	return r
}
