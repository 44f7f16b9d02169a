package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sharfuddin18/codemaster-ai/internal/metrics"
)

// unmatchedRoute labels requests that hit no registered route.
const unmatchedRoute = "unmatched"

// Metrics counts requests by route template, so path parameters do not
// explode label cardinality.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = unmatchedRoute
		}
		metrics.RequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
