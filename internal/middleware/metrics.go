package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/service"
)

// unmatchedRoute labels requests no route claimed, keeping raw paths out of the label set.
const unmatchedRoute = "unmatched"

var unobservedPaths = []string{"/metrics", "/health", "/ready"}

// Metrics observes request latency per route template. Probe and scrape endpoints are skipped.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil || skipMetrics(c.Request.URL.Path) {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

func skipMetrics(path string) bool {
	for _, p := range unobservedPaths {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}
