package routes

import (
	"github.com/arnold/manifest-api/internal/handlers"
	"github.com/arnold/manifest-api/internal/middleware"
	"github.com/gofiber/fiber/v2"
)

func Setup(app *fiber.App) {
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handlers.Register)
	auth.Post("/login", handlers.Login)
	auth.Post("/google", handlers.GoogleLogin)

	protected := api.Group("/", middleware.Protected())

	protected.Get("/me", handlers.GetMe)
	protected.Put("/me", handlers.UpdateProfile)

	goals := protected.Group("/goals")
	goals.Get("/", handlers.GetGoals)
	goals.Post("/", handlers.CreateGoal)
	goals.Put("/:id", handlers.UpdateGoal)
	goals.Delete("/:id", handlers.DeleteGoal)
	goals.Put("/:id/select", handlers.SelectGoal)

	// Daily ritual
	goals.Get("/:id/entries/today", handlers.GetTodayEntry)
	goals.Put("/:id/entries/today/steps/:step", handlers.UpdateStep)
	goals.Post("/:id/entries/today/steps/:step/complete", handlers.CompleteStep)

	protected.Get("/entries", handlers.GetEntryHistory)

	// Completion celebrations (one per goal per day)
	celebrations := protected.Group("/celebrations")
	celebrations.Get("/pending", handlers.GetPendingCelebrations)
	celebrations.Post("/:goalId/ack", handlers.AcknowledgeCelebration)

	// Support tickets
	protected.Post("/support", handlers.CreateSupportTicket)
	protected.Get("/support", handlers.GetSupportTickets)

	// Device token for push notifications
	protected.Post("/device-token", handlers.RegisterDeviceToken)
}
