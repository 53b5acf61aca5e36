package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/httprate"
)

// Global per-IP rate limit.
const GlobalRPS = 100

// RateLimit applies a per-IP limit across all routes. When the limiter
// blocks a request it writes the 429 response itself.
func RateLimit() gin.HandlerFunc {
	limiter := httprate.NewRateLimiter(
		GlobalRPS,
		time.Second,
		httprate.WithKeyFuncs(httprate.KeyByIP),
	)

	return func(c *gin.Context) {
		allowed := false
		limiter.Handler(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			allowed = true
		})).ServeHTTP(c.Writer, c.Request)

		if !allowed {
			c.Abort()
			return
		}
		c.Next()
	}
}
