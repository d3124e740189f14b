package ratelimit

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Limiter admits or denies requests per (client, bucket) pair
type Limiter struct {
	store    WindowStore
	fallback WindowStore
	now      func() time.Time
	logger   *zap.Logger
}

// LimiterOption configures a Limiter
type LimiterOption func(*Limiter)

// WithClock overrides the time source
func WithClock(now func() time.Time) LimiterOption {
	return func(l *Limiter) {
		l.now = now
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) LimiterOption {
	return func(l *Limiter) {
		l.logger = logger
	}
}

// WithFallback sets the store consulted while the primary store errors.
// Hits the primary admits are mirrored into it. Limits held there apply per
// instance only.
func WithFallback(store WindowStore) LimiterOption {
	return func(l *Limiter) {
		l.fallback = store
	}
}

// NewLimiter creates a limiter over store
func NewLimiter(store WindowStore, opts ...LimiterOption) *Limiter {
	l := &Limiter{
		store:  store,
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow records a hit for clientKey in bucket and reports whether it is admitted.
// When the store errors the fallback store decides; with no fallback, or if it
// errors too, the request is admitted.
func (l *Limiter) Allow(ctx context.Context, clientKey, bucket string, max int, window time.Duration) bool {
	if max <= 0 {
		max = 1
	}

	key := Key(clientKey, bucket)
	now := l.now()
	allowed, err := l.store.Hit(ctx, key, max, window, now)
	if err == nil {
		// keep the fallback's windows warm so an outage does not reset them
		if allowed && l.fallback != nil {
			_, _ = l.fallback.Hit(ctx, key, max, window, now)
		}
		return allowed
	}

	if l.fallback == nil {
		l.logger.Warn("rate limit store unavailable, admitting request",
			zap.String("bucket", bucket),
			zap.Error(err),
		)
		return true
	}

	l.logger.Warn("rate limit store unavailable, using fallback store",
		zap.String("bucket", bucket),
		zap.Error(err),
	)
	allowed, err = l.fallback.Hit(ctx, key, max, window, now)
	if err != nil {
		l.logger.Error("fallback rate limit store failed, admitting request",
			zap.String("bucket", bucket),
			zap.Error(err),
		)
		return true
	}
	return allowed
}
