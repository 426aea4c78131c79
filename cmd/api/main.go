package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"easypay/config"
	httpHandler "easypay/internal/adapter/http/handler"
	"easypay/internal/adapter/processor/authorizenet"
	"easypay/internal/adapter/storage"
	pgStorage "easypay/internal/adapter/storage/postgres"
	redisStorage "easypay/internal/adapter/storage/redis"
	"easypay/internal/core/ports"
	"easypay/internal/platform/clock"
	"easypay/internal/platform/idgen"
	"easypay/internal/platform/metrics"
	"easypay/internal/service"
	"easypay/pkg/logger"
)

// processorCallTimeout bounds every upstream processor call.
const processorCallTimeout = 30 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Bool("processor_sandbox", cfg.Processor.Sandbox).
		Msg("Starting EasyPay payment gateway")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer func() { _ = rdb.Close() }()
	log.Info().Msg("Redis connected")

	// Platform primitives
	clk := clock.Real{}
	ids := idgen.New()
	sink := metrics.New()

	// Repositories (plain)
	paymentRepo := pgStorage.NewPaymentRepo(pool)
	webhookRepo := pgStorage.NewWebhookRepo(pool)
	auditRepo := pgStorage.NewAuditRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Redis stores
	cache := redisStorage.NewCache(rdb, "easypay:")
	idempotencyCache := redisStorage.NewIdempotencyCache(rdb)
	nonceStore := redisStorage.NewNonceStore(rdb)

	// Background task runner. The webhook dispatcher is attached below,
	// after the cached repositories it serves exist.
	taskRunner := service.NewTaskRunner(cfg.Redis.Addr(), cache, paymentRepo, log)

	// Cached repositories (cache-aside with write-through invalidation)
	cachedPaymentRepo := storage.NewCachedPaymentRepo(paymentRepo, cache, 300*time.Second, taskRunner, log)
	cachedWebhookRepo := storage.NewCachedWebhookRepo(webhookRepo, cache, 300*time.Second, taskRunner, log)
	cachedAuditRepo := storage.NewCachedAuditRepo(auditRepo, cache, 600*time.Second, taskRunner, log)

	// Core services
	encSvc, err := service.NewAESEncryptionService(cfg.Encryption.MasterSecret)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize encryption service")
	}
	sigSvc := service.NewHMACSignatureService()
	obs := service.NewPaymentObservability(sink, log)
	auditRecorder := service.NewAuditRecorder(cachedAuditRepo, clk, ids)

	// Resilience layer
	breaker := service.NewCircuitBreaker(
		cfg.CircuitBreaker.FailureThreshold,
		cfg.CircuitBreaker.RecoveryTimeout,
		cfg.CircuitBreaker.SuccessThreshold,
		clk, log,
	)
	limiter := service.NewRateLimiter(cfg.RateLimiter.PerMinute, cfg.RateLimiter.PerHour, clk)
	queue := service.NewRequestQueue(cfg.RequestQueue.MaxQueueSize, cfg.RequestQueue.MaxWorkers, cfg.RequestQueue.RequestTimeout, clk, sink, log)

	// Upstream processor client
	processor := authorizenet.New(
		cfg.Processor.APILoginID,
		cfg.Processor.TransactionKey,
		cfg.Processor.ResolvedURL(),
		processorCallTimeout,
		log,
	)

	// Outbound webhook dispatcher, then complete the task-runner wiring.
	dispatcher := service.NewWebhookDispatcher(
		cachedWebhookRepo, transactor, sigSvc, clk, ids,
		cfg.Webhook.MaxRetries, cfg.Webhook.Timeout, sink, log,
	)
	taskRunner.SetWebhookDispatcher(dispatcher)

	// Payment lifecycle engine
	engine := service.NewPaymentEngine(
		cachedPaymentRepo,
		auditRecorder,
		transactor,
		processor,
		breaker,
		encSvc,
		idempotencyCache,
		obs,
		dispatcher,
		clk,
		ids,
		taskRunner,
		cfg.Validation.AllowList(),
		cfg.Webhook.TargetURL,
		cfg.Webhook.Secret,
		log,
	)
	reporting := service.NewReportingService(cachedPaymentRepo)

	// Health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Load OpenAPI spec for Swagger UI
	if specBytes, err := os.ReadFile("docs/api/openapi.yaml"); err == nil {
		httpHandler.SetSwaggerSpec(specBytes)
		log.Info().Msg("OpenAPI spec loaded for Swagger UI at /swagger")
	} else {
		log.Warn().Err(err).Msg("OpenAPI spec not found, Swagger UI will be unavailable")
	}

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		Engine:                 engine,
		Reporting:              reporting,
		Obs:                    obs,
		PaymentRepo:            cachedPaymentRepo,
		SigSvc:                 sigSvc,
		NonceStore:             nonceStore,
		Breaker:                breaker,
		RateLimiter:            limiter,
		RequestQueue:           queue,
		MetricSink:             sink,
		HealthCheckers:         []ports.HealthChecker{pgHealth, redisHealth},
		Metrics:                sink,
		ProcessorWebhookSecret: cfg.Webhook.AuthorizeNetWebhookSecret,
		MaxQueueSize:           cfg.RequestQueue.MaxQueueSize,
		RequestTimeout:         cfg.RequestQueue.RequestTimeout,
		Mode:                   cfg.Server.Mode,
		Logger:                 log,
	})

	// Start the background task runner (recurring webhook delivery plus
	// deferred invalidation/reconciliation jobs).
	go func() {
		if err := taskRunner.Start(); err != nil {
			log.Error().Err(err).Msg("task runner stopped")
		}
	}()

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown: stop accepting, drain up to 30s, then stop the
	// task runner. In-flight processor calls run to completion so no
	// unknown processor state is left behind.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	taskRunner.Shutdown()
	log.Info().Msg("Server exited")
}
