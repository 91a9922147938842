// Package middleware provides HTTP middleware for the API.
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// maxRequestIDLength caps caller-supplied request IDs before they reach the logs.
const maxRequestIDLength = 128

const (
	requestIDKey = "request_id"
	loggerKey    = "logger"
)

// LoggingMiddleware tags every request with an ID and a request-scoped zerolog logger.
type LoggingMiddleware struct {
	logger zerolog.Logger
}

// NewLoggingMiddleware creates a LoggingMiddleware on the global logger.
func NewLoggingMiddleware() *LoggingMiddleware {
	return NewLoggingMiddlewareWithLogger(log.Logger)
}

// NewLoggingMiddlewareWithLogger creates a LoggingMiddleware on the given logger.
func NewLoggingMiddlewareWithLogger(logger zerolog.Logger) *LoggingMiddleware {
	return &LoggingMiddleware{logger: logger}
}

// RequestLogger assigns the request ID and stores the request-scoped logger on
// both the gin context and the request context, so services called with
// c.Request.Context() log with the same fields.
func (m *LoggingMiddleware) RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		requestLogger := m.logger.With().
			Str("request_id", requestID).
			Str("route", c.FullPath()).
			Logger()
		c.Set(loggerKey, requestLogger)
		c.Request = c.Request.WithContext(requestLogger.WithContext(c.Request.Context()))

		c.Next()
	}
}

// Logger writes one access line per request once the handler chain returns.
// 4xx responses log at warn and 5xx at error.
func (m *LoggingMiddleware) Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		requestLogger := GetRequestLogger(c)

		var event *zerolog.Event
		switch {
		case status >= 500:
			event = requestLogger.Error()
		case status >= 400:
			event = requestLogger.Warn()
		default:
			event = requestLogger.Info()
		}

		if errs := c.Errors.ByType(gin.ErrorTypeAny); len(errs) > 0 {
			event = event.Strs("errors", errs.Errors())
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("query", c.Request.URL.RawQuery).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent()).
			Int("body_size", c.Writer.Size()).
			Msg("request completed")
	}
}

// GetRequestLogger returns the request-scoped logger, or the global logger
// outside a RequestLogger chain.
func GetRequestLogger(c *gin.Context) zerolog.Logger {
	if value, ok := c.Get(loggerKey); ok {
		if logger, ok := value.(zerolog.Logger); ok {
			return logger
		}
	}
	return log.Logger
}

// GetRequestID returns the request ID, or "" outside a RequestLogger chain.
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
