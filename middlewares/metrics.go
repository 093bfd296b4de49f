package middlewares

import (
	"strconv"
	"time"

	"github.com/K-Thour/PointsServer/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records request counts and latency by route pattern.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		metrics.InFlightInc()
		defer metrics.InFlightDec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordHTTPRequest(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
