package logger

import (
	"context"

	"github.com/agentdesk/backend/internal/domain/identity"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey string

const (
	loggerKey    contextKey = "logger"
	requestIDKey contextKey = "request_id"
	tenantIDKey  contextKey = "tenant_id"
	userIDKey    contextKey = "user_id"
)

// WithContext attaches logger to ctx
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger attached to ctx, or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}

// WithRequestID records the request id in ctx and on the returned logger
func WithRequestID(ctx context.Context, logger *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, requestIDKey, requestID)
	l := logger.With(zap.String("request_id", requestID))
	return WithContext(ctx, l), l
}

// WithSession records the caller's identity in ctx and on the returned logger.
// Only identifiers are logged; the email and token never are.
func WithSession(ctx context.Context, logger *zap.Logger, session *identity.Session) (context.Context, *zap.Logger) {
	if session == nil {
		return ctx, logger
	}

	ctx = context.WithValue(ctx, userIDKey, session.UserID)
	fields := []zap.Field{
		zap.String("user_id", session.UserID),
		zap.Stringer("role", session.Role),
	}
	if tenant, ok := session.Tenant(); ok {
		ctx = context.WithValue(ctx, tenantIDKey, tenant)
		fields = append(fields, zap.String("tenant_id", tenant))
	}

	l := logger.With(fields...)
	return WithContext(ctx, l), l
}

// GetRequestID returns the request id stored in ctx
func GetRequestID(ctx context.Context) string {
	return stringValue(ctx, requestIDKey)
}

// GetTenantID returns the session tenant stored in ctx
func GetTenantID(ctx context.Context) string {
	return stringValue(ctx, tenantIDKey)
}

// GetUserID returns the session user stored in ctx
func GetUserID(ctx context.Context) string {
	return stringValue(ctx, userIDKey)
}

func stringValue(ctx context.Context, key contextKey) string {
	v, _ := ctx.Value(key).(string)
	return v
}

// L returns the context logger with trace correlation fields added
// when ctx carries a valid span.
func L(ctx context.Context) *zap.Logger {
	l := FromContext(ctx)
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return l
	}
	return l.With(
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	)
}
