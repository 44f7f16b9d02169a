package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RequestLogger writes one access line per request. Routes listed in quiet
// (e.g. /metrics, /health) are logged at debug when they succeed so that
// scrapes and probes do not flood the info stream.
func RequestLogger(logger *zap.Logger, quiet ...string) gin.HandlerFunc {
	quietRoutes := make(map[string]bool, len(quiet))
	for _, r := range quiet {
		quietRoutes[r] = true
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		status := c.Writer.Status()

		level := zapcore.InfoLevel
		msg := "request served"
		switch {
		case status >= 500:
			level, msg = zapcore.ErrorLevel, "request failed"
		case status >= 400:
			level, msg = zapcore.WarnLevel, "request rejected"
		case quietRoutes[route]:
			level = zapcore.DebugLevel
		}

		ce := logger.Check(level, msg)
		if ce == nil {
			return
		}
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Int("bytes", c.Writer.Size()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", GetRequestID(c)),
		}
		if q := c.Request.URL.RawQuery; q != "" {
			fields = append(fields, zap.String("query", q))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		ce.Write(fields...)
	}
}
