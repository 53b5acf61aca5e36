// Package middleware provides gin middleware for request processing.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDKey is the context key the request ID is stored under.
const RequestIDKey = "request_id"

// Headers checked for an existing request ID, in priority order.
var requestIDHeaders = []string{
	"X-Request-ID",
	"X-Request-Id",
	"X-Correlation-ID",
	"CF-Ray",
}

// RequestID extracts a request ID from the incoming headers or generates
// a UUID, stores it in the context and echoes it in the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		var id string
		for _, h := range requestIDHeaders {
			if id = c.GetHeader(h); id != "" {
				break
			}
		}
		if id == "" {
			id = uuid.New().String()
		}

		c.Set(RequestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// GetRequestID returns the request ID set by RequestID, or "".
func GetRequestID(c *gin.Context) string {
	if id, exists := c.Get(RequestIDKey); exists {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}
