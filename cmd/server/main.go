package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	accesscontrolapp "github.com/factoryerp/backend/internal/application/accesscontrol"
	workflowapp "github.com/factoryerp/backend/internal/application/workflow"
	"github.com/factoryerp/backend/internal/infrastructure/auth"
	"github.com/factoryerp/backend/internal/infrastructure/cache"
	"github.com/factoryerp/backend/internal/infrastructure/config"
	"github.com/factoryerp/backend/internal/infrastructure/logger"
	"github.com/factoryerp/backend/internal/infrastructure/persistence"
	"github.com/factoryerp/backend/internal/infrastructure/telemetry"
	"github.com/factoryerp/backend/internal/interfaces/http/handler"
	"github.com/factoryerp/backend/internal/interfaces/http/middleware"
	"github.com/factoryerp/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting FactoryERP Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Trace database queries when tracing is on
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		if err := telemetry.RegisterDBTracing(db.DB, cfg.Database.DBName, log); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	// Initialize repositories
	grantRepo := persistence.NewGormAccessGrantRepository(db.DB)
	workflowRepo := persistence.NewGormWorkflowRepository(db.DB)
	statusRepo := persistence.NewGormOrderStatusRepository(db.DB)

	// Snapshot cache backend
	var snapshotCache accesscontrolapp.SnapshotCache
	switch cfg.Snapshot.Backend {
	case "redis":
		redisCache, err := cache.NewRedisSnapshotCache(cfg.Redis, cfg.Snapshot.TTL)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisCache.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
		snapshotCache = redisCache
		log.Info("Using Redis snapshot cache", zap.Duration("ttl", cfg.Snapshot.TTL))
	default:
		memCache := cache.NewInMemorySnapshotCache(cache.WithTTL(cfg.Snapshot.TTL))
		defer memCache.Close()
		snapshotCache = memCache
		log.Info("Using in-memory snapshot cache", zap.Duration("ttl", cfg.Snapshot.TTL))
	}

	snapshotProvider := accesscontrolapp.NewSnapshotProvider(grantRepo, snapshotCache, log)

	// Initialize application services
	accessService := accesscontrolapp.NewService(grantRepo, workflowRepo, statusRepo, snapshotProvider, log)
	workflowService := workflowapp.NewService(workflowRepo, statusRepo, log)

	// JWT validation
	jwtService := auth.NewJWTService(cfg.JWT)

	// Initialize HTTP handlers
	handlers := router.Handlers{
		AccessControl: handler.NewAccessControlHandler(accessService),
		Workflow:      handler.NewWorkflowHandler(workflowService),
		System:        handler.NewSystemHandler(db),
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack: request ID, panic recovery, request logging,
	// security headers, request deadline, CORS.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.Timeout(cfg.HTTP.RequestTimeout))

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", handlers.System.Health)

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/api/v1/ping",
			"/api/v1/system/ping",
		},
		Logger: log,
	}
	engine.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	accessMiddleware := middleware.NewAccessMiddleware(snapshotProvider, log)
	for _, group := range router.BuildAPIGroups(handlers, accessMiddleware) {
		r.Register(group)
	}
	r.Setup()

	// Simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
