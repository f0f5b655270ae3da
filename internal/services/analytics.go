package services

import (
	"encoding/json"
	"log"

	"github.com/arnold/manifest-api/internal/database"
	"github.com/arnold/manifest-api/internal/models"
	"github.com/google/uuid"
)

// Track records a named user action. Fire-and-forget: failures are logged
// and swallowed, and no app behavior ever depends on these rows existing.
func Track(userID uuid.UUID, action string, metadata map[string]interface{}) {
	event := models.AnalyticsEvent{
		UserID: userID,
		Action: action,
	}

	if metadata != nil {
		data, err := json.Marshal(metadata)
		if err == nil {
			s := string(data)
			event.Metadata = &s
		}
	}

	if err := database.DB.Create(&event).Error; err != nil {
		log.Printf("analytics: failed to record %s: %v", action, err)
	}
}
