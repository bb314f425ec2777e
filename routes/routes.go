package routes

import (
	"net/http"
	"time"

	"praxisagent/handlers"
	"praxisagent/middleware"
	"praxisagent/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterVoiceRoutes registers the telephony webhook endpoints.
func RegisterVoiceRoutes(r *gin.Engine, vh *handlers.VoiceHandler) {
	r.POST("/voice", vh.CallStartHandler)
	r.POST("/voice/handle", vh.UtteranceHandler)
}

// RegisterDashboardRoutes registers the operator's read-only endpoints.
func RegisterDashboardRoutes(r *gin.Engine, dh *handlers.DashboardHandler) {
	api := r.Group("/api/appointments")
	{
		api.Use(middleware.APIKeyAuthMiddleware())
		api.GET("/today", dh.TodayAppointmentsHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "services": utils.GetHealthStatus()})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, vh *handlers.VoiceHandler, dh *handlers.DashboardHandler) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "X-API-Key", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterVoiceRoutes(r, vh)
	RegisterDashboardRoutes(r, dh)
	RegisterHealthRoute(r)
}
