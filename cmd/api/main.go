package main

import (
	"log"

	"github.com/pageza/mealmind/backend/config"
	"github.com/pageza/mealmind/backend/internal/api"
	"github.com/pageza/mealmind/backend/internal/database"
	"github.com/pageza/mealmind/backend/internal/middleware"
	"github.com/pageza/mealmind/backend/internal/router"
	"github.com/pageza/mealmind/backend/internal/server"
	"github.com/pageza/mealmind/backend/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(db, "migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Redis
	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// External clients
	inference, err := service.NewInferenceClient(cfg)
	if err != nil {
		log.Fatalf("Failed to create inference client: %v", err)
	}
	var tool service.IToolClient
	if search, err := service.NewRecipeSearchClient(cfg); err != nil {
		log.Printf("Recipe search disabled: %v", err)
	} else {
		tool = search
	}

	// Stores and tasks
	profiles := service.NewProfileService(db)
	sessions := service.NewSessionService(redisClient, cfg.SessionTTL)
	orchestrator := service.NewOrchestrator(
		service.NewIntentClassifier(inference),
		service.NewProfileCollector(profiles),
		service.NewMealRecommender(inference, tool),
		service.NewSatisfactionEvaluator(inference),
		service.NewChatService(inference),
		profiles,
	)

	// HTTP layer
	chatHandler := api.NewChatHandler(orchestrator, sessions)
	profileHandler := api.NewProfileHandler(profiles)
	validator := middleware.NewJWTValidator(cfg.JWTSecret)
	chatLimiter := middleware.NewChatRateLimiter(redisClient, cfg.ChatRateLimit, cfg.ChatRateWindow)

	engine := router.SetupRouter(cfg, db, chatHandler, profileHandler, validator, chatLimiter)

	srv := server.NewServer(engine)
	if err := srv.Start(cfg.ServerPort); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
