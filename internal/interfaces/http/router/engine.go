package router

import (
	"fmt"

	"github.com/agentdesk/backend/internal/infrastructure/auth"
	"github.com/agentdesk/backend/internal/infrastructure/config"
	"github.com/agentdesk/backend/internal/infrastructure/logger"
	"github.com/agentdesk/backend/internal/infrastructure/ratelimit"
	"github.com/agentdesk/backend/internal/infrastructure/telemetry"
	"github.com/agentdesk/backend/internal/interfaces/http/handler"
	"github.com/agentdesk/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Dependencies are the collaborators the engine is assembled from.
// Meter and Metrics may be nil.
type Dependencies struct {
	Config  *config.Config
	Logger  *zap.Logger
	Carrier *auth.CookieCarrier
	Limiter *ratelimit.Limiter
	Metrics *telemetry.AccessMetrics
	Meter   metric.Meter

	Auth    *handler.AuthHandler
	Agents  *handler.AgentHandler
	Tenants *handler.TenantHandler
	Health  *handler.HealthHandler
}

// NewEngine builds the gin engine with the global middleware chain and every
// API route.
//
// Per route the order is fixed: origin guard (state-changing routes only),
// rate limit bucket, session verification, then the handler, which applies
// the access policy. Bodies are bound inside the handler, after the session
// check, so an anonymous request gets 401 rather than 400 whatever it sends.
func NewEngine(d Dependencies) (*gin.Engine, error) {
	cfg := d.Config

	if err := middleware.SetupValidator(); err != nil {
		return nil, err
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	engine.Use(logger.Recovery(d.Logger))
	engine.Use(middleware.RequestID())
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.RequestSpanAttributes())
	engine.Use(logger.GinMiddleware(d.Logger))
	if d.Meter != nil {
		httpMetrics, err := middleware.HTTPMetrics(d.Meter)
		if err != nil {
			return nil, err
		}
		engine.Use(httpMetrics)
	}
	engine.Use(middleware.Profiling(cfg.Telemetry.Profiling.Enabled))
	engine.Use(middleware.SecureWithConfig(middleware.DefaultSecurityConfig(cfg.App.IsProduction())))
	engine.Use(middleware.CORSWithConfig(middleware.DefaultCORSConfig(cfg.Origin.AllowedOrigins)))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	origin := middleware.OriginGuardMiddleware(middleware.NewOriginGuard(cfg.Origin.AllowedOrigins), d.Metrics)
	limits := middleware.NewRateLimiters(d.Limiter, cfg.RateLimit, d.Metrics)
	session := []gin.HandlerFunc{
		middleware.RequireSession(d.Carrier, d.Metrics),
		middleware.SessionSpanAttributes(),
	}
	authed := func(bucket string, h ...gin.HandlerFunc) []gin.HandlerFunc {
		chain := append([]gin.HandlerFunc{limits.Bucket(bucket)}, session...)
		return append(chain, h...)
	}
	guarded := func(bucket string, h ...gin.HandlerFunc) []gin.HandlerFunc {
		return append([]gin.HandlerFunc{origin}, authed(bucket, h...)...)
	}

	authGroup := NewDomainGroup("/auth").
		POST("/login", origin, limits.Bucket(config.BucketLogin), d.Auth.Login).
		POST("/logout", origin, d.Auth.Logout).
		GET("/me", authed(config.BucketSession, d.Auth.Me)...)

	agentGroup := NewDomainGroup("/agents").
		GET("", authed(config.BucketRead, d.Agents.List)...).
		POST("", guarded(config.BucketWrite, d.Agents.Create)...).
		DELETE("/:id", guarded(config.BucketWrite, d.Agents.Delete)...)

	adminGroup := NewDomainGroup("/admin")
	adminGroup.Group("/tenants").
		GET("", authed(config.BucketRead, d.Tenants.List)...).
		POST("", guarded(config.BucketWrite, d.Tenants.Create)...)

	healthGroup := NewDomainGroup("/health").
		GET("", d.Health.Health)

	NewRouter(engine).
		Register(authGroup).
		Register(agentGroup).
		Register(adminGroup).
		Register(healthGroup).
		Setup()

	docs := middleware.SwaggerProtection(cfg.Swagger, session...)
	engine.GET("/swagger/*any", append(docs, ginSwagger.WrapHandler(swaggerFiles.Handler))...)

	return engine, nil
}
