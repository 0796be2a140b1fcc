package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/invoicing/backend/internal/infrastructure/logger"
)

// RequestIDHeader is the header carrying the request correlation id
const RequestIDHeader = "X-Request-ID"

// requestIDKey is the gin context key the logging middleware reads
const requestIDKey = "request_id"

// RequestID attaches a correlation id to every request, honoring one the
// caller already supplied, and echoes it in the response. The id is also
// planted in the request context so storage-layer logs can carry it.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set(RequestIDHeader, id)

		ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, id)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetRequestID returns the correlation id attached to the request
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
