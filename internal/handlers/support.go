package handlers

import (
	"strings"

	"github.com/arnold/manifest-api/internal/database"
	"github.com/arnold/manifest-api/internal/middleware"
	"github.com/arnold/manifest-api/internal/models"
	"github.com/arnold/manifest-api/internal/services"
	"github.com/gofiber/fiber/v2"
)

// CreateSupportTicket files a feedback ticket. Unlike the ritual's
// fire-and-forget writes, a failure here is surfaced to the caller — the
// user explicitly asked for the submission.
func CreateSupportTicket(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.CreateSupportTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Description) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Title and description are required",
		})
	}
	if req.Rating < 1 || req.Rating > 5 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Rating must be between 1 and 5",
		})
	}

	var user models.User
	database.DB.Select("email").First(&user, userID)

	ticket := models.SupportTicket{
		UserID:      userID,
		Email:       user.Email,
		Title:       req.Title,
		Description: req.Description,
		Rating:      req.Rating,
		Image:       req.Image,
	}

	if err := database.DB.Create(&ticket).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to submit ticket",
		})
	}

	services.Track(userID, "support_ticket_created", map[string]interface{}{"rating": req.Rating})

	return c.Status(fiber.StatusCreated).JSON(ticket)
}

// GetSupportTickets returns the caller's own tickets, newest first.
func GetSupportTickets(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var tickets []models.SupportTicket
	database.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&tickets)

	if tickets == nil {
		tickets = []models.SupportTicket{}
	}
	return c.JSON(tickets)
}
