package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/farellandr/eventhub/internal/monitoring"
)

// Metrics records request counts and latency labelled by route template,
// so ids in paths do not explode label cardinality.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		monitoring.TrackRequest(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
