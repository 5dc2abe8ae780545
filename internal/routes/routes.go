package routes

import (
	"net/http"

	"delego_backend/internal/auth"
	"delego_backend/internal/handlers"
	"delego_backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires every handler under /api/v1. Auth routes manage their
// own middleware; everything else sits behind the token check.
func RegisterRoutes(r *gin.Engine, h *handlers.AppHandlers, tokens *auth.TokenManager) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")

	h.Auth.RegisterRoutes(api)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(tokens))
	{
		h.Project.RegisterRoutes(protected)
		h.Quote.RegisterRoutes(protected)
		h.Message.RegisterRoutes(protected)
		h.File.RegisterRoutes(protected)
		h.Review.RegisterRoutes(protected)
	}
}
