package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StringSlots is a fixed-order sequence of text slots stored as a JSON array.
// An empty string means the slot is unset.
type StringSlots []string

func (s StringSlots) Value() (driver.Value, error) {
	if s == nil {
		s = StringSlots{}
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (s *StringSlots) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlots{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return errors.New("unsupported type for StringSlots")
	}
}

// CompletionFlags holds the per-step completion state of a daily entry.
type CompletionFlags struct {
	Intention     bool `json:"intention"`
	Visualization bool `json:"visualization"`
	Gratitude     bool `json:"gratitude"`
	Reflection    bool `json:"reflection"`
	Affirmations  bool `json:"affirmations"`
}

// All reports whether every ritual step is complete.
func (f CompletionFlags) All() bool {
	return f.Intention && f.Visualization && f.Gratitude && f.Reflection && f.Affirmations
}

// DailyEntry is one user's ritual record for one goal on one calendar day.
// The (user, goal, date) triple is the entry's identity; repeated writes for
// the same triple collapse onto a single row.
type DailyEntry struct {
	ID             uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID       `json:"userId" gorm:"type:uuid;not null;index:idx_entries_user_goal_date,unique"`
	GoalID         uuid.UUID       `json:"goalId" gorm:"type:uuid;not null;index:idx_entries_user_goal_date,unique"`
	Date           string          `json:"date" gorm:"not null;index:idx_entries_user_goal_date,unique"` // YYYY-MM-DD
	Intention      string          `json:"intention"`
	Visualizations StringSlots     `json:"visualizations" gorm:"type:text"`
	Gratitudes     StringSlots     `json:"gratitudes" gorm:"type:text"`
	Wins           StringSlots     `json:"wins" gorm:"type:text"`
	Lesson         string          `json:"lesson"`
	Affirmations   StringSlots     `json:"affirmations" gorm:"type:text"`
	Completed      CompletionFlags `json:"completed" gorm:"embedded;embeddedPrefix:completed_"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
	CompletedAt    *time.Time      `json:"completedAt"`
	DeletedAt      gorm.DeletedAt  `json:"-" gorm:"index"`
}

func (e *DailyEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// UpdateStepRequest carries the new value for a single ritual step. Text
// steps use Value; slot steps use Values. The reflection step accepts both
// (Values for wins, Value for the lesson).
type UpdateStepRequest struct {
	Value  *string  `json:"value"`
	Values []string `json:"values"`
}
