package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRequestIDGenerated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())

	var seen string
	router.GET("/", func(c *gin.Context) {
		seen = GetRequestID(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if seen == "" {
		t.Error("No request ID in context")
	}
	if got := w.Header().Get("X-Request-ID"); got != seen {
		t.Errorf("Response header = %q, context = %q", got, seen)
	}
}

func TestRequestIDPassthrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "upstream-42")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "upstream-42" {
		t.Errorf("Request ID = %q, want upstream value", got)
	}
}

func TestNormalizeMetricPath(t *testing.T) {
	cases := map[string]string{
		"":                "/",
		"/api/devices":    "/api/devices",
		"/api/devices/42": "/api/devices/:id/",
		"/api/numbers/7":  "/api/numbers/:id/",
	}
	for in, want := range cases {
		if got := normalizeMetricPath(in); got != want {
			t.Errorf("normalizeMetricPath(%q) = %q, want %q", in, got, want)
		}
	}
}
