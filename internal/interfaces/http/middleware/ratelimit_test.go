package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/agentdesk/backend/internal/infrastructure/config"
	"github.com/agentdesk/backend/internal/infrastructure/ratelimit"
	"github.com/agentdesk/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestClientKey(t *testing.T) {
	tests := []struct {
		name       string
		xff        string
		remoteAddr string
		want       string
	}{
		{"first forwarded hop", "203.0.113.7, 10.0.0.1", "10.0.0.2:1234", "203.0.113.7"},
		{"single forwarded hop", "203.0.113.7", "10.0.0.2:1234", "203.0.113.7"},
		{"blank forwarded hop falls back", " , 10.0.0.1", "192.0.2.1:1234", "192.0.2.1"},
		{"remote address", "", "192.0.2.1:1234", "192.0.2.1"},
		{"nothing known", "", "", "local"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Request.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				c.Request.Header.Set("X-Forwarded-For", tt.xff)
			}
			assert.Equal(t, tt.want, ClientKey(c))
		})
	}
}

func newRateLimitedRouter(limiter *ratelimit.Limiter, metrics *telemetry.AccessMetrics) *gin.Engine {
	router := gin.New()
	router.POST("/login", RateLimit(limiter, config.BucketLogin, config.BucketConfig{Max: 5, Window: time.Minute}, metrics),
		func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func hitLogin(router *gin.Engine, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.Header.Set("X-Forwarded-For", ip)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimit(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	limiter := ratelimit.NewLimiter(ratelimit.NewMemoryStore(), ratelimit.WithClock(func() time.Time { return now }))

	reader := sdkmetric.NewManualReader()
	metrics, err := telemetry.NewAccessMetrics(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test"))
	require.NoError(t, err)
	router := newRateLimitedRouter(limiter, metrics)

	for i := 1; i <= 5; i++ {
		assert.Equal(t, http.StatusOK, hitLogin(router, "203.0.113.7").Code, "request %d", i)
	}

	w := hitLogin(router, "203.0.113.7")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"success":false,"error":{"code":"ERR_RATE_LIMITED","message":"Too many requests. Please try again later."}}`, w.Body.String())
	assert.Empty(t, w.Header().Get("Retry-After"))
	assert.Empty(t, w.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusOK, hitLogin(router, "198.51.100.1").Code, "other clients are unaffected")

	now = now.Add(time.Minute + time.Second)
	assert.Equal(t, http.StatusOK, hitLogin(router, "203.0.113.7").Code, "window elapsed")

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	var rejected int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "access.rejections" {
				continue
			}
			for _, dp := range m.Data.(metricdata.Sum[int64]).DataPoints {
				bucket, _ := dp.Attributes.Value(attribute.Key("bucket"))
				assert.Equal(t, config.BucketLogin, bucket.AsString())
				rejected += dp.Value
			}
		}
	}
	assert.Equal(t, int64(1), rejected)
}

type failingStore struct{}

func (failingStore) Hit(context.Context, string, int, time.Duration, time.Time) (bool, error) {
	return false, errors.New("store down")
}

func TestRateLimit_StoreFailureAdmits(t *testing.T) {
	router := newRateLimitedRouter(ratelimit.NewLimiter(failingStore{}), nil)
	for i := 0; i < 10; i++ {
		assert.Equal(t, http.StatusOK, hitLogin(router, "203.0.113.7").Code)
	}
}

func TestRateLimiters_Bucket(t *testing.T) {
	limiter := ratelimit.NewLimiter(ratelimit.NewMemoryStore())

	t.Run("disabled passes through", func(t *testing.T) {
		limiters := NewRateLimiters(limiter, config.RateLimitConfig{Enabled: false}, nil)
		router := gin.New()
		router.GET("/", limiters.Bucket(config.BucketRead), func(c *gin.Context) { c.Status(http.StatusOK) })

		for i := 0; i < 3; i++ {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, http.StatusOK, w.Code)
		}
	})

	t.Run("unknown bucket admits one per minute", func(t *testing.T) {
		limiters := NewRateLimiters(limiter, config.RateLimitConfig{Enabled: true}, nil)
		router := gin.New()
		router.GET("/", limiters.Bucket("typo"), func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)

		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	})
}
