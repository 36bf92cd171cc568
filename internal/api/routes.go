package api

import (
	"github.com/gin-gonic/gin"

	"github.com/raagahub/moderation/internal/telemetry"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, handler *Handler, tp *telemetry.Provider) {
	// Health and readiness checks
	router.GET("/health", handler.HealthCheck)
	router.GET("/ready", handler.ReadyCheck)

	if tp != nil {
		router.GET("/metrics", gin.WrapH(tp.Handler()))
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		comments := v1.Group("/comments")
		{
			comments.POST("", handler.CreateComment)            // POST /api/v1/comments
			comments.GET("", handler.ListComments)              // GET /api/v1/comments?post_id=...
			comments.POST("/:id/pin", handler.PinComment)       // POST /api/v1/comments/:id/pin
			comments.POST("/:id/report", handler.ReportComment) // POST /api/v1/comments/:id/report
		}

		v1.GET("/posts/:post_id/comments", handler.GetPostComments)

		v1.POST("/analyze", handler.AnalyzeComment)
		v1.POST("/handles/check", handler.CheckHandle)

		v1.GET("/ratelimit/:identifier/:action", handler.RateLimitStatus)
	}
}
