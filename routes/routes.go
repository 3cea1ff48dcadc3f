package routes

import (
	"net/http"

	"playbox/handlers"
	"playbox/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	gameHandler *handlers.GameHandler,
	scoreHandler *handlers.ScoreHandler,
	jwtSecret string,
) {
	// API routes
	api := router.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware(jwtSecret))
		{
			// User profile
			protected.GET("/auth/profile", authHandler.GetProfile)

			// Authoring routes, one tree per game type
			gameTypes := protected.Group("/game/game-type/:slug")
			{
				gameTypes.POST("", gameHandler.Create)
				gameTypes.GET("/:game_id", gameHandler.GetDetail)
				gameTypes.PUT("/:game_id", gameHandler.Update)
				gameTypes.PATCH("/:game_id", gameHandler.Update)
				gameTypes.DELETE("/:game_id", gameHandler.Delete)
				gameTypes.GET("/:game_id/play/private", gameHandler.PlayPrivate)
			}

			// Score routes for the acting user
			scores := protected.Group("/score")
			{
				scores.POST("/submit", scoreHandler.Submit)
				scores.GET("/highest/:game_id", scoreHandler.Highest)
				scores.GET("/history/:game_id", scoreHandler.History)
				scores.GET("/user/all-scores", scoreHandler.UserAllScores)
			}
		}

		// Public play and leaderboard routes
		api.GET("/game/game-type/:slug/:game_id/play/public", gameHandler.PlayPublic)
		api.POST("/game/game-type/:slug/:game_id/check-answer", gameHandler.CheckAnswer)
		api.GET("/score/leaderboard/:game_id", scoreHandler.Leaderboard)
		api.GET("/score/template-leaderboard/:slug", scoreHandler.TemplateLeaderboard)
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
