package main

import (
	"log"

	"github.com/arnold/manifest-api/internal/config"
	"github.com/arnold/manifest-api/internal/database"
	"github.com/arnold/manifest-api/internal/routes"
	"github.com/arnold/manifest-api/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments configure through the environment
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	services.InitPush(cfg.FCMServiceAccount)

	app := fiber.New(fiber.Config{
		AppName: "manifest-api",
	})

	app.Use(cors.New())

	routes.Setup(app)

	log.Printf("Listening on :%s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
