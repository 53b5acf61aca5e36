// Package server assembles the gin router: middleware chain, API routes,
// Prometheus endpoint and the production SPA fallback.
package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chipdesk/chipdesk/src/config"
	"github.com/chipdesk/chipdesk/src/handlers"
	"github.com/chipdesk/chipdesk/src/server/middleware"
	"github.com/chipdesk/chipdesk/src/utils"
)

// NewRouter builds the HTTP router.
func NewRouter(cfg *config.Config, api *handlers.API, logger *utils.Logger) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.AccessLogger(logger))
	router.Use(gin.Recovery())
	router.Use(cors.Default())
	router.Use(gzip.Gzip(gzip.DefaultCompression))
	router.Use(middleware.RateLimit())
	router.Use(middleware.Metrics())

	registerAPIRoutes(router, api)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.IsProduction() && cfg.ClientDistPath != "" {
		registerStatic(router, cfg.ClientDistPath)
	} else {
		router.NoRoute(notFound)
	}

	return router
}

func registerAPIRoutes(router *gin.Engine, api *handlers.API) {
	r := router.Group("/api")

	r.GET("/health", api.HealthCheck)

	r.GET("/devices", api.ListDevices)
	r.POST("/devices", api.CreateDevice)
	r.PATCH("/devices/:id", api.UpdateDevice)
	r.DELETE("/devices/:id", api.DeleteDevice)
	r.POST("/devices/:id/numbers", api.CreateNumber)

	r.PATCH("/numbers/:id", api.UpdateNumber)
	r.DELETE("/numbers/:id", api.DeleteNumber)
	r.GET("/numbers/:id/logs", api.ListNumberLogs)

	r.GET("/clients", api.ListClients)
	r.POST("/clients", api.CreateClient)
	r.PATCH("/clients/:id", api.UpdateClient)
	r.DELETE("/clients/:id", api.DeleteClient)

	r.GET("/stats", api.GetStats)
	r.GET("/last-update", api.GetLastUpdate)
	r.POST("/last-update", api.SetLastUpdate)
}

// registerStatic serves the built SPA. Unknown non-API paths fall back to
// index.html so client-side routing works on refresh.
func registerStatic(router *gin.Engine, dist string) {
	router.NoRoute(func(c *gin.Context) {
		path := c.Request.URL.Path
		if path == "/api" || strings.HasPrefix(path, "/api/") {
			notFound(c)
			return
		}
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			notFound(c)
			return
		}

		file := filepath.Join(dist, filepath.Clean("/"+path))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}
		c.File(filepath.Join(dist, "index.html"))
	})
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
}
