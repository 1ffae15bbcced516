package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/timcollins90/react-msger-app/internal/chat"
	"github.com/timcollins90/react-msger-app/internal/config"
	"github.com/timcollins90/react-msger-app/internal/metrics"
	"github.com/timcollins90/react-msger-app/internal/mw"
	"github.com/timcollins90/react-msger-app/internal/ws"
)

// SetupRouter wires the Gin middleware, REST API and WebSocket endpoint.
func SetupRouter(cfg config.Config, registry *chat.Registry, hub *ws.Hub) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(metrics.GinMiddleware())
	r.Use(mw.CORS(cfg.Env))
	r.Use(mw.RateLimit(rate.Every(time.Second/20), 40))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := NewHandler(registry, hub)
	api := r.Group("/api")
	api.GET("/data", h.Data)
	api.POST("/create-room", h.CreateRoom)
	api.GET("/rooms/:id", h.GetRoom)
	api.GET("/rooms/:id/messages", h.ListMessages)

	r.GET("/ws", ws.Serve(hub))

	// Serve the built React client when present, with an SPA fallback for
	// client-side routes.
	distDir := filepath.Join(".", "frontend", "dist")
	if _, err := os.Stat(filepath.Join(distDir, "index.html")); err == nil {
		r.NoRoute(func(c *gin.Context) {
			if c.Request.Method != http.MethodGet {
				c.Status(http.StatusNotFound)
				return
			}
			rel := strings.TrimPrefix(filepath.Clean(c.Request.URL.Path), "/")
			if strings.HasPrefix(rel, "api/") || rel == "metrics" || rel == "healthz" || strings.HasPrefix(rel, "ws") {
				c.Status(http.StatusNotFound)
				return
			}
			target := filepath.Join(distDir, rel)
			if fi, err := os.Stat(target); err == nil && !fi.IsDir() {
				c.File(target)
				return
			}
			if strings.Contains(rel, ".") {
				c.Status(http.StatusNotFound)
				return
			}
			c.File(filepath.Join(distDir, "index.html"))
		})
	}
	return r
}
