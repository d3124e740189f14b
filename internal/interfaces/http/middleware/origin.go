package middleware

import (
	"net/http"
	"strings"

	"github.com/agentdesk/backend/internal/domain/access"
	"github.com/agentdesk/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

// OriginGuard compares the Origin and Referer headers of a request against an
// allow-list of URL prefixes.
//
// An empty allow-list admits every request. Configuring ALLOWED_ORIGINS is the
// deployment's responsibility.
type OriginGuard struct {
	allowed []string
}

// NewOriginGuard creates a guard over the given prefixes. Blank entries are ignored.
func NewOriginGuard(allowed []string) *OriginGuard {
	g := &OriginGuard{}
	for _, a := range allowed {
		if a = strings.TrimSpace(a); a != "" {
			g.allowed = append(g.allowed, a)
		}
	}
	return g
}

// Enabled reports whether an allow-list is configured
func (g *OriginGuard) Enabled() bool {
	return len(g.allowed) > 0
}

// Check reports whether r may proceed
func (g *OriginGuard) Check(r *http.Request) bool {
	if !g.Enabled() {
		return true
	}
	origin := r.Header.Get("Origin")
	referer := r.Header.Get("Referer")
	for _, prefix := range g.allowed {
		if origin != "" && strings.HasPrefix(origin, prefix) {
			return true
		}
		if referer != "" && strings.HasPrefix(referer, prefix) {
			return true
		}
	}
	return false
}

// OriginGuardMiddleware rejects requests the guard does not admit with 403.
// metrics may be nil.
func OriginGuardMiddleware(g *OriginGuard, metrics *telemetry.AccessMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !g.Check(c.Request) {
			metrics.RecordRejection(c.Request.Context(), telemetry.RejectOrigin, "")
			reject(c, access.ErrOriginRejected, "origin_rejected")
			return
		}
		c.Next()
	}
}
