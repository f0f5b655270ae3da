package handlers

import (
	"strings"

	"github.com/arnold/manifest-api/internal/database"
	"github.com/arnold/manifest-api/internal/middleware"
	"github.com/arnold/manifest-api/internal/models"
	"github.com/arnold/manifest-api/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// GetGoals returns the user's active goals plus the current selection.
func GetGoals(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var goals []models.Goal
	if err := database.DB.
		Where("user_id = ? AND active = ?", userID, true).
		Order("created_at ASC").
		Find(&goals).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch goals",
		})
	}

	var user models.User
	database.DB.Select("selected_goal_id").First(&user, userID)

	return c.JSON(fiber.Map{
		"goals":          goals,
		"selectedGoalId": user.SelectedGoalID,
	})
}

func CreateGoal(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.CreateGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	// All three fields are required; a blank request creates nothing.
	if strings.TrimSpace(req.Title) == "" ||
		strings.TrimSpace(req.Description) == "" ||
		strings.TrimSpace(req.EndDate) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Title, description and end date are required",
		})
	}

	goal := models.Goal{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		EndDate:     req.EndDate,
		Active:      true,
	}

	if err := database.DB.Create(&goal).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create goal",
		})
	}

	// First goal (or nothing selected) becomes the selected goal.
	var user models.User
	if err := database.DB.First(&user, userID).Error; err == nil && user.SelectedGoalID == nil {
		user.SelectedGoalID = &goal.ID
		database.DB.Save(&user)
	}

	services.Track(userID, "goal_created", map[string]interface{}{"goalId": goal.ID.String()})

	return c.Status(fiber.StatusCreated).JSON(goal)
}

func UpdateGoal(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	var goal models.Goal
	if err := database.DB.Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Goal not found",
		})
	}

	var req models.UpdateGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	// In-place replacement; ID, CreatedAt and Active are never touched here.
	if req.Title != nil {
		goal.Title = *req.Title
	}
	if req.Description != nil {
		goal.Description = *req.Description
	}
	if req.EndDate != nil {
		goal.EndDate = *req.EndDate
	}

	if err := database.DB.Save(&goal).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update goal",
		})
	}

	services.Track(userID, "goal_edited", map[string]interface{}{"goalId": goal.ID.String()})

	return c.JSON(goal)
}

// DeleteGoal soft-deletes: the goal drops out of selection and the day view
// but its entry history is retained.
func DeleteGoal(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	var goal models.Goal
	if err := database.DB.Where("id = ? AND user_id = ? AND active = ?", goalID, userID, true).First(&goal).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Goal not found",
		})
	}

	goal.Active = false
	if err := database.DB.Save(&goal).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete goal",
		})
	}

	// Selection must never point at an inactive goal: fall back to the next
	// active goal, else clear it.
	var user models.User
	if err := database.DB.First(&user, userID).Error; err == nil &&
		user.SelectedGoalID != nil && *user.SelectedGoalID == goal.ID {
		var next models.Goal
		if err := database.DB.
			Where("user_id = ? AND active = ? AND id != ?", userID, true, goal.ID).
			Order("created_at ASC").
			First(&next).Error; err == nil {
			user.SelectedGoalID = &next.ID
		} else {
			user.SelectedGoalID = nil
		}
		database.DB.Save(&user)
	}

	services.Track(userID, "goal_deleted", map[string]interface{}{"goalId": goal.ID.String()})

	return c.JSON(fiber.Map{
		"success":        true,
		"selectedGoalId": user.SelectedGoalID,
	})
}

// SelectGoal makes a goal the one shown in the day view.
func SelectGoal(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	var goal models.Goal
	if err := database.DB.Where("id = ? AND user_id = ? AND active = ?", goalID, userID, true).First(&goal).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Goal not found",
		})
	}

	if err := database.DB.Model(&models.User{}).Where("id = ?", userID).
		Update("selected_goal_id", goal.ID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to select goal",
		})
	}

	return c.JSON(fiber.Map{"selectedGoalId": goal.ID})
}
