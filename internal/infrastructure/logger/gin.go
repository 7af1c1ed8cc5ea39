package logger

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ginKeyLogger is the gin context key for the request-scoped logger.
const ginKeyLogger = "logger"

// quietPaths are polled by orchestration and load balancers; they log at
// debug so they do not drown out sync traffic.
var quietPaths = map[string]bool{
	"/api/v1/system/health": true,
}

// GinMiddleware logs one line per request. The request-scoped logger carries
// the request id and, on channel routes, the channel being driven; handlers
// reach it through GetGinLogger.
func GinMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		reqLogger := logger.With(
			zap.String("request_id", c.GetString("X-Request-ID")),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
		)
		if ch := c.Param("channel"); ch != "" {
			reqLogger = WithChannel(reqLogger, ch)
		}
		c.Set(ginKeyLogger, reqLogger)

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.Int("body_size", c.Writer.Size()),
		}
		if q := c.Request.URL.RawQuery; q != "" {
			fields = append(fields, zap.String("query", q))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.Strings("errors", c.Errors.Errors()))
		}

		switch {
		case status >= http.StatusInternalServerError:
			reqLogger.Error("request", fields...)
		case status >= http.StatusBadRequest:
			reqLogger.Warn("request", fields...)
		case quietPaths[path]:
			reqLogger.Debug("request", fields...)
		default:
			reqLogger.Info("request", fields...)
		}
	}
}

// Recovery turns a handler panic into a 500 and an error log instead of a
// dropped connection.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					zap.String("request_id", c.GetString("X-Request-ID")),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.String("channel", c.Param("channel")),
					zap.Any("panic", r),
					zap.Stack("stacktrace"),
				)
				c.AbortWithStatus(http.StatusInternalServerError)
			}
		}()
		c.Next()
	}
}

// GetGinLogger returns the request-scoped logger, or a nop logger outside
// the middleware chain.
func GetGinLogger(c *gin.Context) *zap.Logger {
	if l, exists := c.Get(ginKeyLogger); exists {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return zap.NewNop()
}
