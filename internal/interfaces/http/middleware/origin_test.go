package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/agentdesk/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestOriginGuard_Check(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		referer string
		want    bool
	}{
		{"unconfigured admits anything", nil, "https://evil.com", "", true},
		{"unconfigured admits no headers", nil, "", "", true},
		{"blank entries count as unconfigured", []string{" ", ""}, "https://evil.com", "", true},
		{"origin prefix", []string{"https://a.com"}, "https://a.com/x", "", true},
		{"exact origin", []string{"https://a.com"}, "https://a.com", "", true},
		{"foreign origin", []string{"https://a.com"}, "https://evil.com", "", false},
		{"referer prefix", []string{"https://a.com"}, "", "https://a.com/widget?id=1", true},
		{"either header suffices", []string{"https://a.com"}, "https://evil.com", "https://a.com/page", true},
		{"no headers when configured", []string{"https://a.com"}, "", "", false},
		{"second entry", []string{"https://a.com", "https://b.com"}, "https://b.com", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.referer != "" {
				req.Header.Set("Referer", tt.referer)
			}
			assert.Equal(t, tt.want, NewOriginGuard(tt.allowed).Check(req))
		})
	}
}

func TestOriginGuardMiddleware(t *testing.T) {
	var reason string
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Next()
		reason = c.GetString(logger.GinKeyReject)
	})
	router.Use(OriginGuardMiddleware(NewOriginGuard([]string{"https://a.com"}), nil))
	router.POST("/login", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("rejects", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.Header.Set("Origin", "https://evil.com")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.JSONEq(t, `{"success":false,"error":{"code":"ERR_ORIGIN_REJECTED","message":"Request origin is not allowed"}}`, w.Body.String())
		assert.Equal(t, "origin_rejected", reason)
	})

	t.Run("admits", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.Header.Set("Origin", "https://a.com")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
