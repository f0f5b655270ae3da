package handlers

import (
	"time"

	"github.com/arnold/manifest-api/internal/database"
	"github.com/arnold/manifest-api/internal/middleware"
	"github.com/arnold/manifest-api/internal/models"
	"github.com/arnold/manifest-api/internal/ritual"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// PendingCelebration is a goal whose ritual finished today and whose
// celebration has not been acknowledged yet.
type PendingCelebration struct {
	GoalID    uuid.UUID `json:"goalId"`
	GoalTitle string    `json:"goalTitle"`
}

// GetPendingCelebrations returns the goals that should show the completion
// celebration right now. A goal appears at most once per calendar day no
// matter how often the completion condition is re-evaluated; acknowledged
// goals drop out until the next day.
func GetPendingCelebrations(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	today := ritual.DateKey(time.Now())

	var entries []models.DailyEntry
	database.DB.Where(
		"user_id = ? AND date = ? AND completed_intention = ? AND completed_visualization = ? AND completed_gratitude = ? AND completed_reflection = ? AND completed_affirmations = ?",
		userID, today, true, true, true, true, true,
	).Find(&entries)

	if len(entries) == 0 {
		return c.JSON([]PendingCelebration{})
	}

	// Goals already celebrated today are excluded.
	var celebrated []models.CelebratedGoal
	database.DB.Where("user_id = ? AND date = ?", userID, today).Find(&celebrated)
	celebratedToday := make(map[uuid.UUID]bool, len(celebrated))
	for _, cg := range celebrated {
		celebratedToday[cg.GoalID] = true
	}

	pending := []PendingCelebration{}
	for _, entry := range entries {
		if celebratedToday[entry.GoalID] {
			continue
		}
		var goal models.Goal
		if err := database.DB.Where("id = ? AND user_id = ? AND active = ?", entry.GoalID, userID, true).First(&goal).Error; err != nil {
			continue
		}
		pending = append(pending, PendingCelebration{
			GoalID:    goal.ID,
			GoalTitle: goal.Title,
		})
	}

	return c.JSON(pending)
}

// AcknowledgeCelebration records that the celebration for a goal was shown
// and dismissed today. Upserts on (user, goal), so re-acknowledging just
// refreshes the date.
func AcknowledgeCelebration(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	goalID, err := uuid.Parse(c.Params("goalId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	today := ritual.DateKey(time.Now())

	var cg models.CelebratedGoal
	if err := database.DB.Where("user_id = ? AND goal_id = ?", userID, goalID).First(&cg).Error; err != nil {
		cg = models.CelebratedGoal{
			UserID: userID,
			GoalID: goalID,
		}
	}
	cg.Date = today

	if err := database.DB.Save(&cg).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to acknowledge celebration",
		})
	}

	return c.JSON(fiber.Map{"success": true, "date": cg.Date})
}
