package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const headerRequestID = "X-Request-ID"

const ctxKeyRequestID = "request_id"

// RequestID echoes a caller-supplied request id or mints one, so every log
// line of a request can be correlated.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(headerRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(ctxKeyRequestID, requestID)
		c.Header(headerRequestID, requestID)

		c.Next()
	}
}

// RequestIDFrom returns the request id stored by the RequestID middleware.
func RequestIDFrom(c *gin.Context) string {
	return c.GetString(ctxKeyRequestID)
}
