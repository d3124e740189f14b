package ratelimit

import (
	"github.com/agentdesk/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Stores is the set of window stores a Limiter is built from
type Stores struct {
	// Primary is consulted first
	Primary WindowStore
	// Memory is the in-process store. It is Primary when Redis is not in
	// use and the fallback otherwise; either way it needs sweeping.
	Memory *MemoryStore
	// Redis is nil unless Redis is in use; the caller closes it
	Redis *redis.Client
}

// NewStore builds the window stores named by cfg.Store.
// When Redis is selected but unreachable it falls back to a MemoryStore.
func NewStore(cfg config.RateLimitConfig, redisCfg config.RedisConfig, logger *zap.Logger) Stores {
	mem := NewMemoryStore(WithMemoryLogger(logger))

	if cfg.Store == "redis" {
		client, err := NewRedisClient(redisCfg)
		if err == nil {
			logger.Info("using Redis rate limit store", zap.String("addr", redisCfg.Addr()))
			return Stores{Primary: NewRedisStore(client, defaultKeyPrefix), Memory: mem, Redis: client}
		}
		logger.Warn("Redis unavailable, falling back to in-memory rate limit store. "+
			"Limits will apply per instance.",
			zap.Error(err),
		)
	}

	return Stores{Primary: mem, Memory: mem}
}

// NewLimiter builds a Limiter over the stores. The memory store backs the
// Redis store while Redis errors.
func (s Stores) NewLimiter(opts ...LimiterOption) *Limiter {
	if s.Redis != nil {
		opts = append([]LimiterOption{WithFallback(s.Memory)}, opts...)
	}
	return NewLimiter(s.Primary, opts...)
}
