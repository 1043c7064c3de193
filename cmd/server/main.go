package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	marketingapp "github.com/mall/backend/internal/application/marketing"
	"github.com/mall/backend/internal/domain/shared"
	"github.com/mall/backend/internal/infrastructure/config"
	"github.com/mall/backend/internal/infrastructure/event"
	"github.com/mall/backend/internal/infrastructure/logger"
	"github.com/mall/backend/internal/infrastructure/persistence"
	"github.com/mall/backend/internal/infrastructure/scheduler"
	"github.com/mall/backend/internal/infrastructure/telemetry"
	"github.com/mall/backend/internal/interfaces/http/handler"
	"github.com/mall/backend/internal/interfaces/http/middleware"
	"github.com/mall/backend/internal/interfaces/http/router"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const version = "1.0.0"

// delayQueue is the lifecycle surface shared by both activation backends
type delayQueue interface {
	scheduler.DelayedTaskBackend
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting marketing scheduler",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("delay_backend", cfg.Marketing.DelayBackend),
	)

	rootCtx, stopRoot := context.WithCancel(context.Background())
	defer stopRoot()

	// Logs bridge: once the provider is up, every record also goes to the collector
	loggerProvider, err := telemetry.NewLoggerProvider(rootCtx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize OTEL logs", zap.Error(err))
	}
	defer func() {
		_ = loggerProvider.Shutdown(context.Background())
	}()
	log = telemetry.NewBridgedLogger(log, telemetry.NewZapOTELCore(
		cfg.Telemetry.ServiceName, loggerProvider, logger.ParseLevel(cfg.Log.Level)))

	// Tracing
	tracerProvider, err := telemetry.NewTracerProvider(rootCtx, telemetry.TracingConfig{
		Enabled:           cfg.Telemetry.TracesEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		_ = tracerProvider.Shutdown(context.Background())
	}()

	// Database with zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:    cfg.Telemetry.TracesEnabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL: cfg.Telemetry.DBLogFullSQL,
		DBName:     cfg.Database.DBName,
	}, log); err != nil {
		log.Fatal("Failed to enable database tracing", zap.Error(err))
	}

	repos := persistence.NewRepositories(db.DB)

	// Metrics
	meterProvider, err := telemetry.NewMeterProvider(rootCtx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.ExportInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	defer func() {
		_ = meterProvider.Shutdown(context.Background())
	}()

	// Event bus
	eventBus := event.NewInMemoryEventBus(log)
	auditHandler := event.NewCampaignAuditHandler(log)
	eventBus.Subscribe(auditHandler, auditHandler.EventTypes()...)
	if err := eventBus.Start(rootCtx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Transition services
	clock := shared.SystemClock{}
	sessionService := marketingapp.NewSeckillSessionService(repos.SeckillSessions, clock, log)
	activityService := marketingapp.NewSeckillActivityService(repos.SeckillActivities, clock, log)
	groupBuyService := marketingapp.NewGroupBuyService(repos.GroupBuys, clock, log)
	sessionService.SetEventPublisher(eventBus)
	activityService.SetEventPublisher(eventBus)
	groupBuyService.SetEventPublisher(eventBus)

	registry, err := scheduler.NewKindRegistry(
		scheduler.NewSeckillKind(repos.SeckillSessions, repos.SeckillActivities, sessionService, activityService),
		scheduler.NewGroupBuyKind(repos.GroupBuys, groupBuyService),
	)
	if err != nil {
		log.Fatal("Failed to register campaign kinds", zap.Error(err))
	}

	executor := scheduler.NewActivationExecutor(registry, log)
	queue, queueDepth, closeQueue := newDelayQueue(cfg, executor, clock, log)
	defer closeQueue()

	reconciler, err := scheduler.NewReconciler(scheduler.ReconcilerConfig{
		LookaheadWindow:    cfg.Marketing.LookaheadWindow,
		EndEmptyActivities: cfg.Marketing.EndEmptyActivities,
	}, registry, queue, clock, log)
	if err != nil {
		log.Fatal("Failed to create reconciler", zap.Error(err))
	}

	reconcileMetrics, err := telemetry.NewReconcileMetrics(telemetry.ReconcileMetricsConfig{
		Meter:      meterProvider.Meter("mall-marketing"),
		Logger:     log,
		QueueDepth: queueDepth,
		Backend:    cfg.Marketing.DelayBackend,
	})
	if err != nil {
		log.Fatal("Failed to create reconcile metrics", zap.Error(err))
	}
	reconciler.SetRecorder(reconcileMetrics)
	executor.SetRecorder(reconcileMetrics)
	eventBus.Subscribe(reconcileMetrics)

	if err := queue.Start(rootCtx); err != nil {
		log.Fatal("Failed to start activation queue", zap.Error(err))
	}
	defer func() {
		if err := queue.Stop(context.Background()); err != nil {
			log.Error("Error stopping activation queue", zap.Error(err))
		}
	}()

	trigger, err := scheduler.NewSweepTrigger(scheduler.SweepTriggerConfig{
		Interval:   cfg.Marketing.SweepInterval,
		RunOnStart: cfg.Marketing.RunOnStart,
	}, reconciler, log)
	if err != nil {
		log.Fatal("Failed to create sweep trigger", zap.Error(err))
	}
	if cfg.Marketing.Enabled {
		if err := trigger.Start(rootCtx); err != nil {
			log.Fatal("Failed to start sweep trigger", zap.Error(err))
		}
	} else {
		log.Warn("Marketing sweep trigger disabled; sweeps run only on demand")
	}

	// HTTP
	engine, err := router.NewEngine(cfg.HTTP, cfg.App.Env, middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     tracerProvider.IsEnabled(),
	}, log)
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}
	marketingHandler := handler.NewMarketingHandler(trigger, reconciler, sessionService, activityService, groupBuyService)
	router.NewRouter(engine).Register(router.MarketingRoutes(marketingHandler)).Setup()
	router.RegisterSystemRoutes(engine, handler.NewSystemHandler(cfg.App.Name, version, db))

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := trigger.Stop(ctx); err != nil {
		log.Error("Error stopping sweep trigger", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// newDelayQueue builds the configured activation backend and the depth
// probe the metrics gauge observes.
func newDelayQueue(
	cfg *config.Config,
	handler scheduler.JobHandler,
	clock shared.Clock,
	log *zap.Logger,
) (delayQueue, telemetry.QueueDepthFunc, func()) {
	switch cfg.Marketing.DelayBackend {
	case config.DelayBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatal("Failed to connect to redis", zap.String("addr", cfg.Redis.Addr()), zap.Error(err))
		}

		q, err := scheduler.NewRedisDelayQueue(client, scheduler.RedisQueueConfig{
			Key:          cfg.Marketing.RedisKey,
			PollInterval: cfg.Marketing.DelayPollInterval,
			BatchSize:    scheduler.DefaultRedisQueueConfig().BatchSize,
			JobTimeout:   cfg.Marketing.JobTimeout,
			Workers:      cfg.Marketing.DelayWorkers,
		}, handler, clock, log)
		if err != nil {
			log.Fatal("Failed to create redis delay queue", zap.Error(err))
		}
		return q, q.Len, func() { _ = client.Close() }

	default:
		qcfg := scheduler.DefaultMemoryQueueConfig()
		qcfg.Workers = cfg.Marketing.DelayWorkers
		qcfg.JobTimeout = cfg.Marketing.JobTimeout
		q, err := scheduler.NewMemoryDelayQueue(qcfg, handler, log)
		if err != nil {
			log.Fatal("Failed to create memory delay queue", zap.Error(err))
		}
		depth := func(context.Context) (int64, error) {
			return int64(q.Pending()), nil
		}
		return q, depth, func() {}
	}
}
