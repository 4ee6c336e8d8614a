package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rowjay/spoome-go/internal/middleware"
	"github.com/rs/zerolog"
)

// NewRouter mounts the spoo.me endpoints. Extra middleware runs after
// recovery and logging, before the handlers.
func NewRouter(h *LinkHandler, logger zerolog.Logger, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))

	r.GET("/health", h.Health)

	api := r.Group("/", extra...)
	api.POST("/", h.Shorten)
	api.POST("/emoji", h.Emoji)
	api.POST("/stats/:shortCode", h.Stats)
	api.POST("/export/:shortCode/:format", h.Export)

	return r
}
