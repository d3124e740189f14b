package middleware

import (
	"github.com/agentdesk/backend/internal/domain/access"
	"github.com/agentdesk/backend/internal/domain/identity"
	"github.com/agentdesk/backend/internal/infrastructure/auth"
	"github.com/agentdesk/backend/internal/infrastructure/logger"
	"github.com/agentdesk/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

// SessionKey is the gin context key holding the verified *identity.Session
const SessionKey = "session"

// RequireSession verifies the session cookie and stores the session in the
// gin context. Missing, forged and expired cookies all get the same 401.
func RequireSession(carrier *auth.CookieCarrier, metrics *telemetry.AccessMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := carrier.FromRequest(c.Request)
		if !ok {
			metrics.RecordRejection(c.Request.Context(), telemetry.RejectUnauthenticated, "")
			reject(c, access.ErrUnauthenticated, "unauthenticated")
			return
		}

		ctx, reqLogger := logger.WithSession(c.Request.Context(), logger.GetGinLogger(c), session)
		c.Request = c.Request.WithContext(ctx)
		c.Set(logger.GinKeyLogger, reqLogger)
		c.Set(SessionKey, session)
		c.Next()
	}
}

// GetSession returns the session stored by RequireSession, or nil
func GetSession(c *gin.Context) *identity.Session {
	if v, ok := c.Get(SessionKey); ok {
		if s, ok := v.(*identity.Session); ok {
			return s
		}
	}
	return nil
}
