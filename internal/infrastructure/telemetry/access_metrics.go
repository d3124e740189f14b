package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Rejection kinds
const (
	RejectUnauthenticated = "unauthenticated"
	RejectForbidden       = "forbidden"
	RejectRateLimited     = "rate_limited"
	RejectOrigin          = "origin"
)

// Attribute keys
var (
	AttrKind    = attribute.Key("kind")
	AttrBucket  = attribute.Key("bucket")
	AttrOutcome = attribute.Key("outcome")
	AttrRole    = attribute.Key("role")
)

// AccessMetrics counts decisions made by the session and access-control layer.
// A nil *AccessMetrics is valid and records nothing.
type AccessMetrics struct {
	rejections metric.Int64Counter
	logins     metric.Int64Counter
	issued     metric.Int64Counter
}

// NewAccessMetrics registers the instruments on meter
func NewAccessMetrics(meter metric.Meter) (*AccessMetrics, error) {
	rejections, err := meter.Int64Counter("access.rejections",
		metric.WithDescription("Requests rejected by the origin guard, rate limiter, session or policy checks"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create counter access.rejections: %w", err)
	}

	logins, err := meter.Int64Counter("auth.logins",
		metric.WithDescription("Login attempts by outcome"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create counter auth.logins: %w", err)
	}

	issued, err := meter.Int64Counter("auth.sessions.issued",
		metric.WithDescription("Session tokens issued by role"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create counter auth.sessions.issued: %w", err)
	}

	return &AccessMetrics{rejections: rejections, logins: logins, issued: issued}, nil
}

// RecordRejection counts one rejected request. bucket may be empty.
func (m *AccessMetrics) RecordRejection(ctx context.Context, kind, bucket string) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{AttrKind.String(kind)}
	if bucket != "" {
		attrs = append(attrs, AttrBucket.String(bucket))
	}
	m.rejections.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordLogin counts a login attempt; outcome is "success" or a failure reason
func (m *AccessMetrics) RecordLogin(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.logins.Add(ctx, 1, metric.WithAttributes(AttrOutcome.String(outcome)))
}

// RecordSessionIssued counts an issued session token
func (m *AccessMetrics) RecordSessionIssued(ctx context.Context, role string) {
	if m == nil {
		return
	}
	m.issued.Add(ctx, 1, metric.WithAttributes(AttrRole.String(role)))
}
