package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	inventoryapp "github.com/legumemart/backend/internal/application/inventory"
	partnerapp "github.com/legumemart/backend/internal/application/partner"
	reportapp "github.com/legumemart/backend/internal/application/report"
	"github.com/legumemart/backend/internal/infrastructure/auth"
	"github.com/legumemart/backend/internal/infrastructure/cache"
	"github.com/legumemart/backend/internal/infrastructure/config"
	"github.com/legumemart/backend/internal/infrastructure/event"
	"github.com/legumemart/backend/internal/infrastructure/logger"
	"github.com/legumemart/backend/internal/infrastructure/persistence"
	"github.com/legumemart/backend/internal/infrastructure/scheduler"
	"github.com/legumemart/backend/internal/infrastructure/telemetry"
	"github.com/legumemart/backend/internal/interfaces/http/handler"
	"github.com/legumemart/backend/internal/interfaces/http/middleware"
	"github.com/legumemart/backend/internal/interfaces/http/router"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

const shutdownTimeout = 30 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		Service: cfg.App.Name,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()

	// OpenTelemetry: traces, metrics and the zap log bridge
	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	lp, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	log = lp.Bridge(log, zapcore.InfoLevel)
	zap.ReplaceGlobals(log)

	log.Info("Starting legume backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Database with the zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Database.LogLevel),
		logger.WithSlowThreshold(cfg.Database.SlowThreshold),
	)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	dbSystem := "postgresql"
	if db.Driver() == config.DriverSQLite {
		dbSystem = "sqlite"
		// SQL migrations target PostgreSQL; sqlite is created from the models
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate sqlite database", zap.Error(err))
		}
	}
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Database.SlowThreshold,
		DBSystem:        dbSystem,
	}, log); err != nil {
		log.Fatal("Failed to enable database tracing", zap.Error(err))
	}
	log.Info("Database connected", zap.String("driver", db.Driver()))

	// Redis backs the report cache and, optionally, document numbers
	var (
		redisClient *redis.Client
		reportCache reportapp.ReportCache
	)
	if cfg.Report.CacheEnabled {
		store, client, err := cache.NewReportCacheFactory(cfg.Redis, cache.WithLogger(log)).CreateStore()
		if err != nil {
			log.Fatal("Failed to create report cache", zap.Error(err))
		}
		reportCache, redisClient = store, client
	}
	if cfg.Sequence.Backend == config.SequenceBackendRedis && redisClient == nil {
		redisClient, err = cache.NewRedisClient(cfg.Redis)
		if err != nil {
			log.Fatal("Redis sequence backend configured but Redis is unreachable", zap.Error(err))
		}
	}

	// Event bus
	eventBus := event.NewInMemoryEventBus(log)
	lowStockHandler := inventoryapp.NewLowStockHandler(log).
		WithNotifier(inventoryapp.NewLoggingStockAlertNotifier(log))
	eventBus.Subscribe(lowStockHandler)
	if reportCache != nil {
		eventBus.Subscribe(reportapp.NewCacheInvalidationHandler(reportCache, log))
	}
	pipelineMetrics, err := telemetry.NewPipelineMetrics(mp.Meter("legume.pipeline"))
	if err != nil {
		log.Fatal("Failed to create pipeline metrics", zap.Error(err))
	}
	eventBus.Subscribe(pipelineMetrics)

	// Repositories and services
	scope := persistence.NewGormTransactionScope(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)

	opts := inventoryapp.Options{
		MaxRetryAttempts: cfg.Inventory.MaxRetryAttempts,
		Location:         cfg.App.Location(),
		Publisher:        eventBus,
		Logger:           log,
	}
	if cfg.Sequence.Backend == config.SequenceBackendRedis {
		opts.Sequences = cache.NewRedisSequenceGenerator(redisClient, "")
	}

	itemService := inventoryapp.NewItemService(
		persistence.NewGormInventoryItemRepository(db.DB),
		persistence.NewGormInventoryTransactionRepository(db.DB),
		scope, opts,
	)
	purchaseService := inventoryapp.NewPurchaseService(persistence.NewGormPurchaseRepository(db.DB), supplierRepo, scope, opts)
	packagingService := inventoryapp.NewPackagingService(persistence.NewGormPackagingBatchRepository(db.DB), productRepo, scope, opts)
	supplierService := partnerapp.NewSupplierService(supplierRepo).WithPublisher(eventBus)
	reportService := reportapp.NewReportService(persistence.NewGormReportRepository(db.DB), reportCache, cfg.Report.CacheTTL, log)

	// Background jobs
	var jobs *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		jobs = scheduler.New(scheduler.Config{
			Location:   cfg.App.Location(),
			JobTimeout: cfg.Scheduler.JobTimeout,
		}, log)
		if err := jobs.Register(scheduler.JobLowStockScan, cfg.Scheduler.LowStockCron,
			scheduler.LowStockScan(itemService, lowStockHandler, log)); err != nil {
			log.Fatal("Failed to register low stock scan", zap.Error(err))
		}
		if cfg.Scheduler.LedgerAuditCron != "" {
			if err := jobs.Register(scheduler.JobLedgerAudit, cfg.Scheduler.LedgerAuditCron,
				scheduler.LedgerAudit(itemService, log)); err != nil {
				log.Fatal("Failed to register ledger audit", zap.Error(err))
			}
		}
		if err := jobs.Start(); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
	}

	var jobRunner handler.JobRunner
	if jobs != nil {
		jobRunner = jobs
	}

	engine, err := newEngine(cfg, log, mp, router.Handlers{
		Items:     handler.NewItemHandler(itemService),
		Purchases: handler.NewPurchaseHandler(purchaseService),
		Packaging: handler.NewPackagingHandler(packagingService),
		Suppliers: handler.NewSupplierHandler(supplierService),
		Reports:   handler.NewReportHandler(reportService),
		System:    handler.NewSystemHandler(cfg.App.Name, version, db, jobRunner),
	})
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if jobs != nil {
		if err := jobs.Stop(shutdownCtx); err != nil {
			log.Error("Scheduler did not stop cleanly", zap.Error(err))
		}
	}
	eventBus.Stop()
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing Redis", zap.Error(err))
		}
	}
	if err := db.Close(); err != nil {
		log.Error("Error closing database", zap.Error(err))
	}
	if err := errors.Join(
		mp.Shutdown(shutdownCtx),
		tp.Shutdown(shutdownCtx),
		lp.Shutdown(shutdownCtx),
	); err != nil {
		log.Error("Telemetry shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// newEngine builds the gin engine with the middleware chain and the API routes
func newEngine(cfg *config.Config, log *zap.Logger, mp *telemetry.MeterProvider, handlers router.Handlers) (*gin.Engine, error) {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, err
	}

	httpMetrics, err := middleware.HTTPMetrics(mp.Meter("http.server"))
	if err != nil {
		return nil, err
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine.Use(
		logger.Recovery(log),
		middleware.RequestID(),
	)
	engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName)...)
	engine.Use(
		logger.GinMiddleware(log),
		httpMetrics,
		middleware.CORSWithConfig(corsCfg),
		middleware.Secure(),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
		middleware.OperatorAuth(middleware.OperatorAuthConfig{
			Validator: auth.NewJWTService(cfg.JWT),
			Required:  cfg.JWT.Required,
			SkipPaths: []string{"/health", "/api/v1/health"},
			Logger:    log,
		}),
	)

	engine.GET("/health", handlers.System.Health)
	router.NewRouter(engine).Register(router.Groups(handlers)...).Setup()

	return engine, nil
}
