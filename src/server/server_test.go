package server

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	_ "modernc.org/sqlite"

	"github.com/chipdesk/chipdesk/src/config"
	"github.com/chipdesk/chipdesk/src/database"
	"github.com/chipdesk/chipdesk/src/handlers"
	"github.com/chipdesk/chipdesk/src/utils"
)

func newTestRouter(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	db.SetMaxOpenConns(1)
	if err := database.EnsureSchema(db); err != nil {
		t.Fatalf("Failed to set up schema: %v", err)
	}

	logger, err := utils.NewLogger("")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	return NewRouter(cfg, handlers.NewAPI(db, logger), logger)
}

func TestRouterServesAPI(t *testing.T) {
	router := newTestRouter(t, &config.Config{Mode: "development"})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Health status = %d, want 200", w.Code)
	}
	if id := w.Header().Get("X-Request-ID"); id == "" {
		t.Error("Missing X-Request-ID header")
	}
}

func TestRouterMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t, &config.Config{Mode: "development"})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Metrics status = %d, want 200", w.Code)
	}
}

func TestRouterSPAFallback(t *testing.T) {
	dist := t.TempDir()
	index := "<!doctype html><title>chipdesk</title>"
	if err := os.WriteFile(filepath.Join(dist, "index.html"), []byte(index), 0644); err != nil {
		t.Fatalf("Failed to write index.html: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dist, "app.js"), []byte("console.log(1)"), 0644); err != nil {
		t.Fatalf("Failed to write app.js: %v", err)
	}

	router := newTestRouter(t, &config.Config{Mode: "production", ClientDistPath: dist})

	// Real asset served as-is.
	req := httptest.NewRequest(http.MethodGet, "/app.js", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "console.log") {
		t.Errorf("Asset response = %d %q", w.Code, w.Body.String())
	}

	// Client-side route falls back to index.html.
	req = httptest.NewRequest(http.MethodGet, "/devices/42", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "chipdesk") {
		t.Errorf("Fallback response = %d %q", w.Code, w.Body.String())
	}

	// Unknown API paths stay JSON 404s.
	req = httptest.NewRequest(http.MethodGet, "/api/nope", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("API 404 status = %d", w.Code)
	}
}

func TestRouterNoStaticInDevelopment(t *testing.T) {
	router := newTestRouter(t, &config.Config{Mode: "development"})

	req := httptest.NewRequest(http.MethodGet, "/devices/42", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("Development fallback status = %d, want 404", w.Code)
	}
}
