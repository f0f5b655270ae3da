package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CelebratedGoal records the last calendar day a goal's completion
// celebration was shown, so the prompt fires at most once per goal per day.
// Independent from DailyEntry.CompletedAt.
type CelebratedGoal struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;not null;index:idx_celebrated_user_goal,unique"`
	GoalID    uuid.UUID `json:"goalId" gorm:"type:uuid;not null;index:idx_celebrated_user_goal,unique"`
	Date      string    `json:"date" gorm:"not null"` // YYYY-MM-DD
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (cg *CelebratedGoal) BeforeCreate(tx *gorm.DB) error {
	if cg.ID == uuid.Nil {
		cg.ID = uuid.New()
	}
	return nil
}
