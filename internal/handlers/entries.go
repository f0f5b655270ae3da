package handlers

import (
	"time"

	"github.com/arnold/manifest-api/internal/database"
	"github.com/arnold/manifest-api/internal/middleware"
	"github.com/arnold/manifest-api/internal/models"
	"github.com/arnold/manifest-api/internal/ritual"
	"github.com/arnold/manifest-api/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// findActiveGoal resolves the :id route param to one of the caller's active
// goals. Inactive goals 404 here: soft-deleted goals keep their history but
// accept no new ritual writes.
func findActiveGoal(c *fiber.Ctx) (models.Goal, uuid.UUID, error) {
	userID := middleware.GetUserID(c)

	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return models.Goal{}, userID, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	var goal models.Goal
	if err := database.DB.Where("id = ? AND user_id = ? AND active = ?", goalID, userID, true).First(&goal).Error; err != nil {
		return models.Goal{}, userID, c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Goal not found",
		})
	}

	return goal, userID, nil
}

func entryResponse(entry *models.DailyEntry, now time.Time) fiber.Map {
	resp := fiber.Map{
		"entry":  entry,
		"locked": ritual.Locked(entry, now),
	}
	if entry != nil && entry.CompletedAt != nil {
		resp["nextAllowedAt"] = ritual.NextAllowedAt(*entry.CompletedAt)
	}
	return resp
}

// GetTodayEntry returns today's entry for a goal, if any, along with the
// lock state. Entries are created lazily on the first step write, so a fresh
// day returns entry: null.
func GetTodayEntry(c *fiber.Ctx) error {
	goal, userID, fiberErr := findActiveGoal(c)
	if fiberErr != nil {
		return fiberErr
	}

	now := time.Now()
	date := ritual.DateKey(now)

	var entry models.DailyEntry
	if err := database.DB.Where("user_id = ? AND goal_id = ? AND date = ?", userID, goal.ID, date).First(&entry).Error; err != nil {
		return c.JSON(entryResponse(nil, now))
	}

	return c.JSON(entryResponse(&entry, now))
}

// UpdateStep writes the new value for one ritual step into today's entry,
// creating the entry on first write. The step's completion flag is
// re-derived from the content; the other four flags carry over. A single
// step edit is a merge-write of just that step's columns; the write that
// completes the fifth step is a full replace so completedAt lands together
// with the final field state.
func UpdateStep(c *fiber.Ctx) error {
	goal, userID, fiberErr := findActiveGoal(c)
	if fiberErr != nil {
		return fiberErr
	}

	step, ok := ritual.ParseStep(c.Params("step"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown ritual step",
		})
	}

	var req models.UpdateStepRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	now := time.Now()
	date := ritual.DateKey(now)

	var entry models.DailyEntry
	isNew := false
	if err := database.DB.Where("user_id = ? AND goal_id = ? AND date = ?", userID, goal.ID, date).First(&entry).Error; err != nil {
		entry = ritual.NewEntry(userID, goal.ID, date)
		isNew = true
	}

	if ritual.Locked(&entry, now) {
		return c.Status(fiber.StatusConflict).JSON(entryResponse(&entry, now))
	}

	wasStamped := entry.CompletedAt != nil
	updated := ritual.Apply(entry, step, ritual.Value{Text: req.Value, Slots: req.Values}, now)

	if err := persistEntry(&updated, step, isNew, wasStamped); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save entry",
		})
	}

	services.Track(userID, "step_updated", map[string]interface{}{
		"goalId": goal.ID.String(),
		"step":   string(step),
	})

	if updated.CompletedAt != nil && !wasStamped {
		services.Track(userID, "entry_completed", map[string]interface{}{"goalId": goal.ID.String()})
		services.Push.SendCompletionCelebration(userID, goal.Title)
	}

	return c.JSON(entryResponse(&updated, now))
}

// CompleteStep marks a step done without editing its content — the check
// button next to each card. It only ever sets the flag; clearing happens by
// editing the field, which re-derives completion from content.
func CompleteStep(c *fiber.Ctx) error {
	goal, userID, fiberErr := findActiveGoal(c)
	if fiberErr != nil {
		return fiberErr
	}

	step, ok := ritual.ParseStep(c.Params("step"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown ritual step",
		})
	}

	now := time.Now()
	date := ritual.DateKey(now)

	var entry models.DailyEntry
	isNew := false
	if err := database.DB.Where("user_id = ? AND goal_id = ? AND date = ?", userID, goal.ID, date).First(&entry).Error; err != nil {
		entry = ritual.NewEntry(userID, goal.ID, date)
		isNew = true
	}

	if ritual.Locked(&entry, now) {
		return c.Status(fiber.StatusConflict).JSON(entryResponse(&entry, now))
	}

	wasStamped := entry.CompletedAt != nil
	updated := ritual.ForceComplete(entry, step, now)

	if err := persistEntry(&updated, step, isNew, wasStamped); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save entry",
		})
	}

	services.Track(userID, "step_completed", map[string]interface{}{
		"goalId": goal.ID.String(),
		"step":   string(step),
	})

	if updated.CompletedAt != nil && !wasStamped {
		services.Track(userID, "entry_completed", map[string]interface{}{"goalId": goal.ID.String()})
		services.Push.SendCompletionCelebration(userID, goal.Title)
	}

	return c.JSON(entryResponse(&updated, now))
}

// persistEntry writes an applied entry back. New entries insert the full
// row; the completion transition saves the full row so completedAt is
// durable alongside the final field state; everything else merges only the
// mutated step's columns.
func persistEntry(entry *models.DailyEntry, step ritual.Step, isNew, wasStamped bool) error {
	if isNew {
		return database.DB.Create(entry).Error
	}
	if entry.CompletedAt != nil && !wasStamped {
		return database.DB.Save(entry).Error
	}
	return database.DB.Model(&models.DailyEntry{}).
		Where("id = ?", entry.ID).
		Updates(stepColumns(step, entry)).Error
}

func stepColumns(step ritual.Step, e *models.DailyEntry) map[string]interface{} {
	switch step {
	case ritual.StepIntention:
		return map[string]interface{}{
			"intention":           e.Intention,
			"completed_intention": e.Completed.Intention,
		}
	case ritual.StepVisualization:
		return map[string]interface{}{
			"visualizations":          e.Visualizations,
			"completed_visualization": e.Completed.Visualization,
		}
	case ritual.StepGratitude:
		return map[string]interface{}{
			"gratitudes":          e.Gratitudes,
			"completed_gratitude": e.Completed.Gratitude,
		}
	case ritual.StepReflection:
		return map[string]interface{}{
			"wins":                 e.Wins,
			"lesson":               e.Lesson,
			"completed_reflection": e.Completed.Reflection,
		}
	case ritual.StepAffirmations:
		return map[string]interface{}{
			"affirmations":           e.Affirmations,
			"completed_affirmations": e.Completed.Affirmations,
		}
	}
	return map[string]interface{}{}
}

// GetEntryHistory returns the caller's entries newest first, optionally
// filtered to one goal. Entries for soft-deleted goals are included: history
// outlives the goal.
func GetEntryHistory(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	q := database.DB.Where("user_id = ?", userID)
	if goalParam := c.Query("goalId"); goalParam != "" {
		goalID, err := uuid.Parse(goalParam)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid goal ID",
			})
		}
		q = q.Where("goal_id = ?", goalID)
	}

	var entries []models.DailyEntry
	if err := q.Order("date DESC").Find(&entries).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch entries",
		})
	}

	if entries == nil {
		entries = []models.DailyEntry{}
	}
	return c.JSON(entries)
}
