package main

import (
	"log"

	"tablechat/internal/config"
	"tablechat/internal/container"
	"tablechat/ui"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load application configuration
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(appConfig.Server.GinMode)

	// Create dependency injection container. Each external capability falls
	// back to its mock variant when its credentials are missing, so the app
	// always starts.
	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}

	// Initialize web server
	server := ui.NewServer(
		appContainer.ChatService,
		appContainer.AnalyticsService,
		appContainer.IndexService,
		appContainer.SearchProxy,
	)

	// Start the server
	log.Printf("Starting tablechat server on port %s", appConfig.Server.Port)
	log.Fatal(server.Start(appConfig.Server.Port))
}
