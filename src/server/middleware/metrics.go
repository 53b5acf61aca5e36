package middleware

import (
	"regexp"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chipdesk/chipdesk/src/server/metrics"
)

// Numeric path segments are collapsed to keep label cardinality bounded.
var numericIDRegex = regexp.MustCompile(`/\d+(?:/|$)`)

// Metrics records request counts, durations and in-flight gauge.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		metrics.HTTPActiveRequests.Inc()
		defer metrics.HTTPActiveRequests.Dec()

		path := c.FullPath()
		if path == "" {
			path = normalizeMetricPath(c.Request.URL.Path)
		}

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(duration)
	}
}

func normalizeMetricPath(path string) string {
	if path == "" {
		return "/"
	}
	return numericIDRegex.ReplaceAllString(path, "/:id/")
}
