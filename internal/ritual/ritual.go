// Package ritual implements the daily-entry completion engine: which fields
// belong to which ritual step, when a step counts as complete, when the
// completion timestamp is stamped, and when the day's entry is locked.
// Everything here is a pure function over entry values so the whole state
// machine is testable without HTTP or a database.
package ritual

import (
	"strings"
	"time"

	"github.com/arnold/manifest-api/internal/models"
	"github.com/google/uuid"
)

// Step identifies one of the five fixed daily ritual steps.
type Step string

const (
	StepIntention     Step = "intention"
	StepVisualization Step = "visualization"
	StepGratitude     Step = "gratitude"
	StepReflection    Step = "reflection"
	StepAffirmations  Step = "affirmations"
)

// SlotCount is the number of text slots in each slot-based field.
const SlotCount = 3

// seededAffirmations is how many canned affirmations a fresh entry starts with.
const seededAffirmations = 3

// unlockHour is the local hour at which a completed ritual unlocks the next day.
const unlockHour = 8

// DefaultAffirmations is the canned pool new entries draw from.
var DefaultAffirmations = []string{
	"I attract the right opportunities and people effortlessly.",
	"Every day, I move closer to achieving my dreams.",
	"I am confident, capable, and deserving of success.",
	"I trust the process and embrace each step of my journey.",
	"I am grateful for all the abundance flowing into my life.",
	"I have the power to create positive change in my life.",
	"I am becoming the person I've always wanted to be.",
	"Success comes naturally to me in all areas of my life.",
	"I am open to receiving all the blessings the universe has for me.",
	"I radiate positive energy and attract positive experiences.",
}

// ParseStep maps a route parameter onto a Step.
func ParseStep(s string) (Step, bool) {
	switch Step(s) {
	case StepIntention, StepVisualization, StepGratitude, StepReflection, StepAffirmations:
		return Step(s), true
	}
	return "", false
}

// Value is the new content for a step. Text steps use Text; slot steps use
// Slots. The reflection step may carry both (Slots for wins, Text for the
// lesson); a nil member leaves that field untouched.
type Value struct {
	Text  *string
	Slots []string
}

// DateKey formats a moment as the calendar-date string used in entry and
// celebration identities.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// NewEntry returns a blank entry for the given day with the default
// affirmations seeded. The seeded slots are non-empty text, so the
// affirmations step derives complete on the entry's first applied write;
// that card is rendered read-only and never blocks the ritual.
func NewEntry(userID, goalID uuid.UUID, date string) models.DailyEntry {
	return models.DailyEntry{
		UserID:         userID,
		GoalID:         goalID,
		Date:           date,
		Visualizations: blankSlots(),
		Gratitudes:     blankSlots(),
		Wins:           blankSlots(),
		Affirmations:   append(models.StringSlots{}, DefaultAffirmations[:seededAffirmations]...),
	}
}

func blankSlots() models.StringSlots {
	return make(models.StringSlots, SlotCount)
}

// Filled reports whether a text value counts as set.
func Filled(s string) bool {
	return strings.TrimSpace(s) != ""
}

// AnyFilled reports whether at least one slot is set. Deliberately not
// all-of: a single win counts.
func AnyFilled(values []string) bool {
	for _, v := range values {
		if Filled(v) {
			return true
		}
	}
	return false
}

// Apply writes the given value into the entry's field(s) for one step and
// recomputes that step's completion flag from the resulting content. All
// other flags carry over unchanged. When the write makes all five flags true
// and CompletedAt is unset, CompletedAt is stamped with now — exactly once;
// an already-set stamp is never overwritten. Applying the same value twice
// yields the same completion state.
func Apply(entry models.DailyEntry, step Step, v Value, now time.Time) models.DailyEntry {
	switch step {
	case StepIntention:
		if v.Text != nil {
			entry.Intention = *v.Text
		}
		entry.Completed.Intention = Filled(entry.Intention)
	case StepVisualization:
		if v.Slots != nil {
			entry.Visualizations = cloneSlots(v.Slots)
		}
		entry.Completed.Visualization = AnyFilled(entry.Visualizations)
	case StepGratitude:
		if v.Slots != nil {
			entry.Gratitudes = cloneSlots(v.Slots)
		}
		entry.Completed.Gratitude = AnyFilled(entry.Gratitudes)
	case StepReflection:
		if v.Slots != nil {
			entry.Wins = cloneSlots(v.Slots)
		}
		if v.Text != nil {
			entry.Lesson = *v.Text
		}
		entry.Completed.Reflection = AnyFilled(entry.Wins) || Filled(entry.Lesson)
	case StepAffirmations:
		if v.Slots != nil {
			entry.Affirmations = cloneSlots(v.Slots)
		}
		entry.Completed.Affirmations = AnyFilled(entry.Affirmations)
	}

	return stampIfComplete(entry, now)
}

// ForceComplete marks a step done without touching its content — the check
// button in the UI. It only ever sets the flag; unmarking happens by editing
// the field, which re-derives the flag from content.
func ForceComplete(entry models.DailyEntry, step Step, now time.Time) models.DailyEntry {
	switch step {
	case StepIntention:
		entry.Completed.Intention = true
	case StepVisualization:
		entry.Completed.Visualization = true
	case StepGratitude:
		entry.Completed.Gratitude = true
	case StepReflection:
		entry.Completed.Reflection = true
	case StepAffirmations:
		entry.Completed.Affirmations = true
	}

	return stampIfComplete(entry, now)
}

func stampIfComplete(entry models.DailyEntry, now time.Time) models.DailyEntry {
	if entry.Completed.All() && entry.CompletedAt == nil {
		t := now
		entry.CompletedAt = &t
	}
	return entry
}

func cloneSlots(values []string) models.StringSlots {
	return append(models.StringSlots{}, values...)
}

// NextAllowedAt returns when the ritual reopens after a completion: the next
// calendar day at 08:00 in the completion's location.
func NextAllowedAt(completedAt time.Time) time.Time {
	y, m, d := completedAt.Date()
	return time.Date(y, m, d+1, unlockHour, 0, 0, 0, completedAt.Location())
}

// Locked reports whether today's ritual is closed for further edits. A
// missing entry, an incomplete entry, or a complete entry with no
// CompletedAt (possible only through corrupt or partially migrated data) is
// never locked. The lock gates edits only; the entry stays as the day's
// historical record.
func Locked(entry *models.DailyEntry, now time.Time) bool {
	if entry == nil || !entry.Completed.All() || entry.CompletedAt == nil {
		return false
	}
	return now.Before(NextAllowedAt(*entry.CompletedAt))
}
