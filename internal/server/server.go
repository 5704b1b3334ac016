// Package server exposes llms.txt generation as an HTTP service.
package server

import (
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/arlenk2021/FreeLLMSTxTGenerator/internal/config"
)

// generateRatePerMinute bounds how many crawls one client may trigger.
const generateRatePerMinute = 10

// NewRouter assembles the gin engine with the full middleware chain.
func NewRouter(cfg config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(gzip.Gzip(gzip.DefaultCompression))
	router.Use(RequestContext())
	router.Use(CORS(cfg.AllowedOrigins))

	h := NewHandler(cfg)

	router.GET("/healthz", h.Health)

	limited := router.Group("/", RateLimit(generateRatePerMinute))
	limited.POST("/generate", h.Generate)
	limited.GET("/llms.txt", h.LLMsTxt)

	return router
}

// Run starts the service on the configured port.
func Run(cfg config.Config) error {
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: NewRouter(cfg),
	}
	return srv.ListenAndServe()
}
