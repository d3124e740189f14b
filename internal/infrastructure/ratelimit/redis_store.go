package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/agentdesk/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "ratelimit:"

// hitScript admits a hit when the window count is below ARGV[1].
// The window starts on the first hit and lasts ARGV[2] milliseconds.
// A denied hit is rolled back so it does not consume quota.
var hitScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 or redis.call("PTTL", KEYS[1]) < 0 then
  redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
if current > tonumber(ARGV[1]) then
  redis.call("DECR", KEYS[1])
  return 0
end
return 1
`)

// RedisStore shares windows between instances through Redis.
// Window expiry follows the Redis server clock; the now argument is ignored.
type RedisStore struct {
	client    redis.Scripter
	keyPrefix string
}

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

// NewRedisStore creates a store on an existing client
func NewRedisStore(client redis.Scripter, keyPrefix string) *RedisStore {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &RedisStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Hit implements WindowStore
func (s *RedisStore) Hit(ctx context.Context, key string, max int, window time.Duration, _ time.Time) (bool, error) {
	ms := window.Milliseconds()
	if ms < 1 {
		ms = 1
	}

	admitted, err := hitScript.Run(ctx, s.client, []string{s.keyPrefix + key}, max, ms).Int()
	if err != nil {
		return false, fmt.Errorf("rate limit hit %q: %w", key, err)
	}
	return admitted == 1, nil
}
