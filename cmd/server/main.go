package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/agentdesk/backend/docs"
	agentapp "github.com/agentdesk/backend/internal/application/agent"
	identityapp "github.com/agentdesk/backend/internal/application/identity"
	"github.com/agentdesk/backend/internal/infrastructure/auth"
	"github.com/agentdesk/backend/internal/infrastructure/config"
	"github.com/agentdesk/backend/internal/infrastructure/logger"
	"github.com/agentdesk/backend/internal/infrastructure/persistence"
	"github.com/agentdesk/backend/internal/infrastructure/ratelimit"
	"github.com/agentdesk/backend/internal/infrastructure/telemetry"
	"github.com/agentdesk/backend/internal/interfaces/http/handler"
	"github.com/agentdesk/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

//	@title			agentdesk API
//	@version		1.0
//	@description	Multi-tenant agent management API with cookie sessions, per-bucket rate limits and an origin guard

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	CookieAuth
//	@in							cookie
//	@name						auth_token
//	@description				Session token issued by /auth/login

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx := context.Background()

	logProvider, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize OTEL logs", zap.Error(err))
	}
	log = logProvider.Attach(log, cfg.Telemetry.ServiceName, logger.ParseLevel(cfg.Log.Level))

	log.Info("Starting agentdesk backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	profiler, err := telemetry.NewProfiler(cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.Enabled() && cfg.Telemetry.Profiling.SpanProfiles {
		tracerProvider.EnableSpanProfiles()
	}

	meter := meterProvider.Meter(cfg.Telemetry.ServiceName)
	accessMetrics, err := telemetry.NewAccessMetrics(meter)
	if err != nil {
		log.Fatal("Failed to register access metrics", zap.Error(err))
	}

	codec, err := auth.NewSessionCodec(cfg.Session, auth.WithCodecLogger(log))
	if err != nil {
		log.Fatal("Invalid session configuration", zap.Error(err))
	}
	carrier := auth.NewCookieCarrier(codec, cfg.Cookie)

	db, err := persistence.NewDatabase(cfg.Database,
		persistence.WithLogger(log, logger.GormLevel(cfg.Log.Level)),
		persistence.WithTracing(cfg.Telemetry.DBTracing),
	)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	userRepo := persistence.NewGormUserRepository(db.DB)
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	agentRepo := persistence.NewGormAgentRepository(db.DB)

	authService := identityapp.NewAuthService(userRepo, codec, accessMetrics, log)
	tenantService := identityapp.NewTenantService(tenantRepo, log)
	agentService := agentapp.NewService(agentRepo, log)

	if cfg.Bootstrap.Enabled() {
		created, err := authService.EnsureSuperadmin(ctx, cfg.Bootstrap.SuperadminEmail, cfg.Bootstrap.SuperadminPassword)
		if err != nil {
			log.Fatal("Failed to seed superadmin", zap.Error(err))
		}
		if created {
			log.Info("Superadmin seeded")
		}
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()

	stores := ratelimit.NewStore(cfg.RateLimit, cfg.Redis, log)
	if stores.Redis != nil {
		defer func() {
			_ = stores.Redis.Close()
		}()
	}
	go stores.Memory.Run(sweepCtx, cfg.RateLimit.SweepInterval)
	limiter := stores.NewLimiter(ratelimit.WithLogger(log))

	engine, err := router.NewEngine(router.Dependencies{
		Config:  cfg,
		Logger:  log,
		Carrier: carrier,
		Limiter: limiter,
		Metrics: accessMetrics,
		Meter:   meter,
		Auth:    handler.NewAuthHandler(authService, carrier),
		Agents:  handler.NewAgentHandler(agentService, accessMetrics),
		Tenants: handler.NewTenantHandler(tenantService, accessMetrics),
		Health:  handler.NewHealthHandler(db),
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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	stopSweep()

	if err := profiler.Stop(); err != nil {
		log.Warn("Profiler stop failed", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Meter provider shutdown failed", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Tracer provider shutdown failed", zap.Error(err))
	}
	if err := logProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Logger provider shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
