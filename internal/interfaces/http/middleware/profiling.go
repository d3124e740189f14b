package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/grafana/pyroscope-go"
)

// Profiling label names
const (
	ProfilingLabelRoute  = "route"
	ProfilingLabelMethod = "method"
)

// Profiling attaches pyroscope labels for the matched route and method to
// everything the rest of the chain does. Unmatched routes are not labelled.
func Profiling(enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			c.Next()
			return
		}

		labels := pyroscope.Labels(
			ProfilingLabelRoute, route,
			ProfilingLabelMethod, c.Request.Method,
		)
		pyroscope.TagWrapper(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}
