package ratelimit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// rateWindow is the counter for one key
type rateWindow struct {
	count  int
	start  time.Time
	length time.Duration
}

func (w rateWindow) elapsed(now time.Time) bool {
	return now.Sub(w.start) > w.length
}

// MemoryStore keeps windows in process memory behind a single mutex.
// Counters are per process: with several instances the effective limit is
// max per instance.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]rateWindow
	logger  *zap.Logger
}

// MemoryStoreOption configures a MemoryStore
type MemoryStoreOption func(*MemoryStore)

// WithMemoryLogger sets the logger used by the sweeper
func WithMemoryLogger(logger *zap.Logger) MemoryStoreOption {
	return func(s *MemoryStore) {
		s.logger = logger
	}
}

// NewMemoryStore creates an empty store
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		windows: make(map[string]rateWindow),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hit implements WindowStore
func (s *MemoryStore) Hit(_ context.Context, key string, max int, window time.Duration, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[key]
	if !ok || w.elapsed(now) {
		s.windows[key] = rateWindow{count: 1, start: now, length: window}
		return true, nil
	}

	if w.count >= max {
		return false, nil
	}

	w.count++
	s.windows[key] = w
	return true, nil
}

// Sweep evicts windows that have elapsed and returns how many were removed.
// An evicted key behaves exactly as an elapsed one on its next hit.
func (s *MemoryStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for key, w := range s.windows {
		if w.elapsed(now) {
			delete(s.windows, key)
			evicted++
		}
	}
	return evicted
}

// Len returns the number of tracked keys
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}

// Run sweeps every interval until ctx is done
func (s *MemoryStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if evicted := s.Sweep(now); evicted > 0 {
				s.logger.Debug("rate limit windows swept",
					zap.Int("evicted", evicted),
					zap.Int("remaining", s.Len()),
				)
			}
		}
	}
}
