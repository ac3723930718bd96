package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	requestIDKey = "request_id"
	loggerKey    = "logger"
)

// RequestID injects an X-Request-ID header into the request and response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(requestIDKey, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// GetRequestID returns the request id set by RequestID, or "".
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// Logger logs each HTTP request with method, path, status, and latency, and
// stores a request-scoped logger for handlers to retrieve with GetLogger.
func Logger(logger *zap.Logger) gin.HandlerFunc {
	base := logger.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		reqLog := base.With(zap.String("request_id", GetRequestID(c)))
		c.Set(loggerKey, reqLog)

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
		}
		if status >= http.StatusInternalServerError {
			reqLog.Warn("request", fields...)
			return
		}
		reqLog.Info("request", fields...)
	}
}

// GetLogger returns the request-scoped logger, or a no-op logger outside the
// Logger middleware.
func GetLogger(c *gin.Context) *zap.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if l, ok := v.(*zap.Logger); ok {
			return l
		}
	}
	return zap.NewNop()
}

// Recovery recovers from panics and returns a 500 error in the API envelope.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	log := logger.Named("http")
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error("panic recovered",
			zap.String("request_id", GetRequestID(c)),
			zap.String("path", c.Request.URL.Path),
			zap.Any("panic", recovered),
			zap.Stack("stack"))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   gin.H{"code": "INTERNAL_ERROR", "message": "an internal error occurred"},
		})
	})
}
