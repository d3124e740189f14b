package middleware

import (
	"strings"
	"time"

	"github.com/agentdesk/backend/internal/domain/access"
	"github.com/agentdesk/backend/internal/infrastructure/config"
	"github.com/agentdesk/backend/internal/infrastructure/ratelimit"
	"github.com/agentdesk/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

// anonymousClient is the key used when no client address can be determined
const anonymousClient = "local"

// ClientKey identifies the caller for rate limiting: the first hop of
// X-Forwarded-For, else the remote address, else "local".
func ClientKey(c *gin.Context) string {
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return anonymousClient
}

// RateLimit admits at most quota.Max requests per client per quota.Window
// into the named bucket. Denials get 429 with no Retry-After or quota headers.
// metrics may be nil.
func RateLimit(limiter *ratelimit.Limiter, bucket string, quota config.BucketConfig, metrics *telemetry.AccessMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.Request.Context(), ClientKey(c), bucket, quota.Max, quota.Window) {
			metrics.RecordRejection(c.Request.Context(), telemetry.RejectRateLimited, bucket)
			reject(c, access.ErrRateLimited, "rate_limited:"+bucket)
			return
		}
		c.Next()
	}
}

// RateLimiters builds per-bucket middleware from the configured quotas.
// When rate limiting is disabled every bucket is a pass-through.
type RateLimiters struct {
	limiter *ratelimit.Limiter
	cfg     config.RateLimitConfig
	metrics *telemetry.AccessMetrics
}

// NewRateLimiters creates the bucket factory
func NewRateLimiters(limiter *ratelimit.Limiter, cfg config.RateLimitConfig, metrics *telemetry.AccessMetrics) *RateLimiters {
	return &RateLimiters{limiter: limiter, cfg: cfg, metrics: metrics}
}

// Bucket returns the middleware for the named bucket. An unknown bucket
// falls back to a single request per minute so a typo fails closed.
func (r *RateLimiters) Bucket(name string) gin.HandlerFunc {
	if !r.cfg.Enabled || r.limiter == nil {
		return func(c *gin.Context) { c.Next() }
	}
	quota, ok := r.cfg.Bucket(name)
	if !ok {
		quota = config.BucketConfig{Max: 1, Window: time.Minute}
	}
	return RateLimit(r.limiter, name, quota, r.metrics)
}
