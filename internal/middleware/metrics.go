package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/homework-tracker-api/internal/service"
)

// unmatchedRoute labels requests that hit no registered route so scanners cannot inflate label cardinality.
const unmatchedRoute = "unmatched"

// Metrics observes every request on the route template rather than the raw path.
func Metrics(metrics *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metrics == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		metrics.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
