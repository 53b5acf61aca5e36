package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chipdesk/chipdesk/src/utils"
)

// AccessLogger logs one line per request and flags slow requests.
func AccessLogger(logger *utils.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start)
		size := int64(c.Writer.Size())
		if size < 0 {
			size = 0
		}

		logger.Access(
			c.ClientIP(),
			c.Request.Method,
			c.Request.URL.Path,
			c.Request.Proto,
			c.Writer.Status(),
			size,
			c.Request.UserAgent(),
			GetRequestID(c),
		)

		if duration > time.Second {
			logger.Error("Slow request: %s %s took %v", c.Request.Method, c.Request.URL.Path, duration)
		}
	}
}
