package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unifiedui/donation-service/internal/api/dto"
	domainerrors "github.com/unifiedui/donation-service/internal/domain/errors"
)

// ErrorMiddleware turns panics into the JSON error envelope.
type ErrorMiddleware struct{}

// NewErrorMiddleware creates a new ErrorMiddleware.
func NewErrorMiddleware() *ErrorMiddleware {
	return &ErrorMiddleware{}
}

// Recovery recovers from handler panics and answers 500 with the error envelope.
func (m *ErrorMiddleware) Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if recovered := recover(); recovered != nil {
				requestLogger := GetRequestLogger(c)
				requestLogger.Error().
					Interface("panic", recovered).
					Str("method", c.Request.Method).
					Str("path", c.Request.URL.Path).
					Msg("panic recovered")

				c.AbortWithStatusJSON(http.StatusInternalServerError, internalErrorResponse())
			}
		}()
		c.Next()
	}
}

// HandleError maps err to its HTTP status and writes the error envelope.
// Connection, configuration and internal failures are logged at error level
// before they are answered.
func HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	requestLogger := GetRequestLogger(c)

	domainErr, ok := domainerrors.GetDomainError(err)
	if !ok {
		requestLogger.Error().Err(err).Msg("unhandled error")
		c.AbortWithStatusJSON(http.StatusInternalServerError, internalErrorResponse())
		return
	}

	switch domainErr.Code {
	case domainerrors.ErrCodeConnection, domainerrors.ErrCodeConfiguration:
		requestLogger.Error().Err(err).Str("code", domainErr.Code).Msg("database unavailable")
	case domainerrors.ErrCodeInternal:
		requestLogger.Error().Err(err).Msg("internal error")
	}

	c.AbortWithStatusJSON(domainErr.HTTPStatus, dto.ErrorResponse{
		Code:    domainErr.Code,
		Message: domainErr.Message,
		Details: domainErr.Details,
	})
}

// NotFound answers unknown routes with 404.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Code:    domainerrors.ErrCodeNotFound,
			Message: "resource not found",
			Details: c.Request.URL.Path,
		})
	}
}

// MethodNotAllowed answers known routes hit with the wrong method.
func MethodNotAllowed() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, dto.ErrorResponse{
			Code:    "METHOD_NOT_ALLOWED",
			Message: "method not allowed",
			Details: c.Request.Method,
		})
	}
}

func internalErrorResponse() dto.ErrorResponse {
	return dto.ErrorResponse{
		Code:    domainerrors.ErrCodeInternal,
		Message: "internal server error",
	}
}
