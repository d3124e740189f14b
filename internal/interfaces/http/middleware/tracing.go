// Package middleware provides the HTTP middleware of the agentdesk API:
// origin guard, rate limiting, session verification and the ambient
// request id, security header, tracing, metrics and profiling layers.
package middleware

import (
	"net/http"

	"github.com/agentdesk/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// TracingWithConfig returns OpenTelemetry tracing middleware. It wraps otelgin
// and tags the span with the request id. Session attributes are added later
// by SessionSpanAttributes, once the session is known.
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return otelgin.Middleware(cfg.ServiceName)
}

// RequestSpanAttributes tags the current span with the request id.
// Place it after TracingWithConfig and RequestID.
func RequestSpanAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			if id := c.GetString(logger.GinKeyRequestID); id != "" {
				span.SetAttributes(attribute.String("request_id", id))
			}
		}
		c.Next()
	}
}

// SessionSpanAttributes tags the current span with the verified identity.
// Place it after RequireSession.
func SessionSpanAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if session := GetSession(c); session != nil && span.IsRecording() {
			span.SetAttributes(
				attribute.String("user_id", session.UserID),
				attribute.String("role", session.Role.String()),
			)
			if tenant, ok := session.Tenant(); ok {
				span.SetAttributes(attribute.String("tenant_id", tenant))
			}
		}
		c.Next()
	}
}

// SpanErrorMarker marks the span as failed for 4xx/5xx responses and
// records the rejection reason, if any.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}

		status := c.Writer.Status()
		if status < http.StatusBadRequest {
			return
		}
		span.SetStatus(codes.Error, http.StatusText(status))
		if reason := c.GetString(logger.GinKeyReject); reason != "" {
			span.SetAttributes(attribute.String("reject_reason", reason))
		}
	}
}
