package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AnalyticsEvent is a named user action. Purely observational; nothing in
// the app reads these back.
type AnalyticsEvent struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;index;not null"`
	Action    string    `json:"action" gorm:"not null"` // goal_created, step_updated, entry_completed, ...
	Metadata  *string   `json:"metadata"`               // JSON string for extra context
	CreatedAt time.Time `json:"createdAt"`
}

func (a *AnalyticsEvent) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
