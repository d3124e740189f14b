package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/agentdesk/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestCORSWithConfig(t *testing.T) {
	router := gin.New()
	router.Use(CORSWithConfig(DefaultCORSConfig([]string{"https://app.example.com/"})))
	router.GET("/test", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	t.Run("listed origin is echoed with credentials", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Origin", "https://app.example.com")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
		assert.Equal(t, "43200", w.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("unlisted origin gets no headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Origin", "https://evil.com")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/test", nil)
		req.Header.Set("Origin", "https://app.example.com")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "DELETE")
	})
}

func TestRequestID(t *testing.T) {
	var seen string
	router := gin.New()
	router.Use(RequestID())
	router.GET("/test", func(c *gin.Context) {
		seen = c.GetString(logger.GinKeyRequestID)
		c.Status(http.StatusOK)
	})

	t.Run("generates", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		_, err := uuid.Parse(seen)
		assert.NoError(t, err)
		assert.Equal(t, seen, w.Header().Get(RequestIDHeader))
	})

	t.Run("reuses client id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(RequestIDHeader, "client-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "client-123", seen)
		assert.Equal(t, "client-123", w.Header().Get(RequestIDHeader))
	})

	t.Run("replaces oversized id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(RequestIDHeader, strings.Repeat("a", 500))
		router.ServeHTTP(httptest.NewRecorder(), req)

		assert.Len(t, seen, 36)
	})
}

func TestSecureWithConfig(t *testing.T) {
	serve := func(cfg SecurityConfig) http.Header {
		router := gin.New()
		router.Use(SecureWithConfig(cfg))
		router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
		return w.Header()
	}

	dev := serve(DefaultSecurityConfig(false))
	assert.Equal(t, "DENY", dev.Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", dev.Get("X-Content-Type-Options"))
	assert.Equal(t, "no-store", dev.Get("Cache-Control"))
	assert.NotEmpty(t, dev.Get("Content-Security-Policy"))
	assert.Empty(t, dev.Get("Strict-Transport-Security"))

	prod := serve(DefaultSecurityConfig(true))
	assert.Equal(t, "max-age=31536000; includeSubDomains", prod.Get("Strict-Transport-Security"))
}
