package main

import (
	"log"

	"playbox/assets"
	"playbox/config"
	"playbox/games"
	"playbox/handlers"
	"playbox/middleware"
	"playbox/models"
	"playbox/routes"
	"playbox/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database models
	err = db.AutoMigrate(
		&models.User{},
		&models.GameTemplate{},
		&models.Game{},
		&models.GameScore{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Seed game templates for every registered game type
	if err := seedTemplates(db); err != nil {
		log.Fatal("Failed to seed game templates:", err)
	}

	// Initialize Redis
	redisClient := config.InitRedis(cfg)

	// Initialize asset storage
	assetStore := assets.NewDiskStore(cfg.UploadDir)

	// Initialize services
	authService := services.NewAuthService(db, cfg.JWTSecret)
	gameService := services.NewGameService(db, assetStore)
	scoreService := services.NewScoreService(db, services.NewScoreCache(redisClient))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	gameHandler := handlers.NewGameHandler(gameService)
	scoreHandler := handlers.NewScoreHandler(scoreService)

	// Setup Gin router
	router := gin.Default()

	// Add CORS middleware
	router.Use(middleware.CORS())

	// Setup routes
	routes.SetupRoutes(router, authHandler, gameHandler, scoreHandler, cfg.JWTSecret)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func seedTemplates(db *gorm.DB) error {
	for _, gameType := range games.All() {
		template := models.GameTemplate{
			ID:   uuid.NewString(),
			Slug: gameType.Slug(),
			Name: gameType.Name(),
		}
		err := db.Where(models.GameTemplate{Slug: gameType.Slug()}).
			Attrs(template).
			FirstOrCreate(&models.GameTemplate{}).Error
		if err != nil {
			return err
		}
	}
	return nil
}
