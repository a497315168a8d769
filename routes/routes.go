package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"courtbook/handlers"
	"courtbook/utils"
)

// RegisterCourtRoutes registers court management endpoints.
func RegisterCourtRoutes(r *gin.Engine, h *handlers.CourtHandler) {
	api := r.Group("/api/courts")
	{
		api.GET("", h.ListCourts)
		api.POST("", h.CreateCourt)
		api.GET("/:id", h.GetCourt)
		api.PATCH("/:id", h.UpdateCourt)
		api.POST("/:id/blocks", h.AddBlock)
		api.DELETE("/:id/blocks/:blockId", h.RemoveBlock)
	}
}

// RegisterHealthRoutes exposes the health snapshot.
func RegisterHealthRoutes(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, utils.GetHealthStatus())
	})
}

// CORSMiddleware returns the CORS policy applied to the whole router.
func CORSMiddleware() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		MaxAge:           12 * time.Hour,
		AllowCredentials: false,
	})
}
