package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// httpDurationBuckets are the latency histogram boundaries, in seconds
var httpDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}

// HTTPMetrics returns a middleware recording request count and latency per
// route pattern. Tenant ids are left out to bound cardinality.
func HTTPMetrics(meter metric.Meter) (gin.HandlerFunc, error) {
	requestTotal, err := meter.Int64Counter("http.server.requests",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create request counter: %w", err)
	}
	requestDuration, err := meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("HTTP request latency"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(httpDurationBuckets...),
	)
	if err != nil {
		return nil, fmt.Errorf("create duration histogram: %w", err)
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		attrs := metric.WithAttributes(
			attribute.String("http.request.method", c.Request.Method),
			attribute.String("http.route", route),
			attribute.Int("http.response.status_code", c.Writer.Status()),
		)
		ctx := c.Request.Context()
		requestTotal.Add(ctx, 1, attrs)
		requestDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	}, nil
}
