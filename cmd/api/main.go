package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"talentflow_backend/internal/adapters"
	"talentflow_backend/internal/applications"
	"talentflow_backend/internal/events"
	apphttp "talentflow_backend/internal/http"
	"talentflow_backend/internal/http/router"
	"talentflow_backend/internal/notes"
	"talentflow_backend/internal/notification"
	"talentflow_backend/internal/notification/webhook"
	"talentflow_backend/internal/pipeline"
	pipelinesvc "talentflow_backend/internal/pipeline/service"
	"talentflow_backend/internal/scheduler"
	"talentflow_backend/internal/tenancy"
	tenancysvc "talentflow_backend/internal/tenancy/service"
	"talentflow_backend/platform/cache"
	"talentflow_backend/platform/config"
	"talentflow_backend/platform/db"
	"talentflow_backend/platform/logger"
	"talentflow_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, pool)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	redisClient := initRedis(cfg, log)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	stageDefaults, err := pipelinesvc.LoadDefaults(cfg.GetPipelineDefaultsFile())
	if err != nil {
		log.Error("failed to load pipeline defaults", "error", err, "file", cfg.GetPipelineDefaultsFile())
		panic("failed to load pipeline defaults: " + err.Error())
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module subscribes to domain events (not HTTP-facing)
	dispatcher, closeDispatcher := initWebhookDispatcher(cfg, log)
	if closeDispatcher != nil {
		defer closeDispatcher()
	}
	notificationModule := notification.New(dispatcher, log)
	notificationModule.RegisterHandlers(eventBus)

	var tenantCache tenancysvc.Cache
	if redisClient != nil {
		tenantCache = tenancysvc.NewRedisCache(redisClient, cfg.GetTenantCacheTTL())
	}
	tenancyModule := tenancy.NewModule(pool, tenantCache, eventBus, val, log)
	pipelineModule := pipeline.NewModule(pool, stageDefaults, eventBus, val, log)
	pipelineModule.RegisterHandlers(eventBus)
	notesModule := notes.NewModule(pool)

	// Anti-Corruption Layer: applications only depends on its own ports
	stageSource := adapters.NewPipelineStageSource(pipelineModule.Service())
	noteWriter := adapters.NewApplicationNoteWriter(notesModule.Service())
	applicationsModule := applications.NewModule(pool, stageSource, noteWriter, eventBus, val, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:          cfg,
		Logger:          log,
		Health:          db.NewPoolAdapter(pool),
		EventBus:        eventBus,
		ScopeMiddleware: tenancyModule.ScopeMiddleware(),
		Modules: []apphttp.Module{
			tenancyModule,
			pipelineModule,
			applicationsModule,
			notesModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
		eventBus.Wait()
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initRedis(cfg *config.Config, log *logger.Logger) *redis.Client {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; tenant cache and webhook queue disabled")
		return nil
	}

	client, err := cache.NewClient(cfg.GetRedisURL(), cfg.GetRedisTLSInsecure())
	if err != nil {
		log.Error("failed to initialize redis client", "error", err)
		return nil
	}
	return client
}

// initWebhookDispatcher prefers the retried task queue and falls back to
// direct delivery when Redis is not configured.
func initWebhookDispatcher(cfg *config.Config, log *logger.Logger) (webhook.Dispatcher, func()) {
	client := webhook.NewClient(cfg, log)
	if client == nil {
		log.Warn("PIPELINE_WEBHOOK_URL not configured; stage change webhook disabled")
		return nil, nil
	}

	direct := webhook.NewDirectDispatcher(client, log)
	if cfg.GetRedisURL() == "" {
		return direct, direct.Wait
	}

	queue, err := scheduler.NewClient(cfg, cfg)
	if err != nil {
		log.Error("failed to initialize webhook queue; delivering directly", "error", err)
		return direct, direct.Wait
	}

	return webhook.NewQueueDispatcher(queue, direct, log), func() {
		direct.Wait()
		_ = queue.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
