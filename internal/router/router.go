package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pageza/mealmind/backend/config"
	"github.com/pageza/mealmind/backend/internal/api"
	"github.com/pageza/mealmind/backend/internal/database"
	"github.com/pageza/mealmind/backend/internal/middleware"
)

// SetupRouter configures the application routes
func SetupRouter(
	cfg *config.Config,
	db *gorm.DB,
	chatHandler *api.ChatHandler,
	profileHandler *api.ProfileHandler,
	validator middleware.TokenValidator,
	chatLimiter *middleware.RateLimiter,
) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORS(cfg.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		if err := database.HealthCheck(c.Request.Context(), db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(validator))
	{
		// Only chat turns are throttled; session reads are cheap.
		protected.POST("/chat", chatLimiter.RateLimitMiddleware(), chatHandler.Chat)

		sessions := protected.Group("/sessions")
		{
			sessions.GET("/:id", chatHandler.GetSession)
			sessions.DELETE("/:id", chatHandler.DeleteSession)
		}

		protected.GET("/profile", profileHandler.GetProfile)
	}

	return router
}
