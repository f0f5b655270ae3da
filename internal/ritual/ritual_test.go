package ritual

import (
	"testing"
	"time"

	"github.com/arnold/manifest-api/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func newTestEntry() models.DailyEntry {
	return NewEntry(uuid.New(), uuid.New(), "2024-01-10")
}

func TestNewEntry_SeedsAffirmations(t *testing.T) {
	e := newTestEntry()

	require.Len(t, e.Affirmations, 3)
	assert.Equal(t, DefaultAffirmations[0], e.Affirmations[0])
	assert.Len(t, e.Visualizations, SlotCount)
	assert.Len(t, e.Gratitudes, SlotCount)
	assert.Len(t, e.Wins, SlotCount)
	assert.False(t, e.Completed.All())
	assert.Nil(t, e.CompletedAt)
}

func TestParseStep(t *testing.T) {
	for _, s := range []string{"intention", "visualization", "gratitude", "reflection", "affirmations"} {
		step, ok := ParseStep(s)
		assert.True(t, ok)
		assert.Equal(t, Step(s), step)
	}

	_, ok := ParseStep("wins")
	assert.False(t, ok)
}

func TestApply_FlagTracksContent(t *testing.T) {
	now := time.Now()
	e := newTestEntry()

	e = Apply(e, StepIntention, Value{Text: strp("finish the draft")}, now)
	assert.True(t, e.Completed.Intention)

	// Whitespace-only does not count as set
	e = Apply(e, StepIntention, Value{Text: strp("   ")}, now)
	assert.False(t, e.Completed.Intention, "flag must follow content, never go stale")

	// Other flags are untouched by an intention write
	assert.False(t, e.Completed.Visualization)
	assert.False(t, e.Completed.Gratitude)
}

func TestApply_AnyNonEmptySlotCompletes(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name  string
		slots []string
		want  bool
	}{
		{"all empty", []string{"", "", ""}, false},
		{"middle slot only", []string{"", "win", ""}, true},
		{"whitespace only", []string{" ", "\t", ""}, false},
		{"all filled", []string{"a", "b", "c"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Apply(newTestEntry(), StepGratitude, Value{Slots: tt.slots}, now)
			assert.Equal(t, tt.want, e.Completed.Gratitude)
		})
	}
}

func TestApply_ReflectionWinsOrLesson(t *testing.T) {
	now := time.Now()

	e := Apply(newTestEntry(), StepReflection, Value{Slots: []string{"", "", ""}}, now)
	assert.False(t, e.Completed.Reflection)

	e = Apply(e, StepReflection, Value{Text: strp("slow mornings help")}, now)
	assert.True(t, e.Completed.Reflection, "a lesson alone completes reflection")
	assert.Equal(t, "slow mornings help", e.Lesson)

	// Clearing the lesson while a win exists keeps the step complete
	e = Apply(e, StepReflection, Value{Slots: []string{"shipped it", "", ""}, Text: strp("")}, now)
	assert.True(t, e.Completed.Reflection)

	// Clearing everything re-opens the step
	e = Apply(e, StepReflection, Value{Slots: []string{"", "", ""}, Text: strp("")}, now)
	assert.False(t, e.Completed.Reflection)
}

func TestApply_Idempotent(t *testing.T) {
	now := time.Now()
	e := newTestEntry()

	v := Value{Slots: []string{"sunrise", "", ""}}
	once := Apply(e, StepVisualization, v, now)
	twice := Apply(once, StepVisualization, v, now)

	assert.Equal(t, once.Completed, twice.Completed)
	assert.Equal(t, once.Visualizations, twice.Visualizations)
	assert.Equal(t, once.CompletedAt, twice.CompletedAt)
}

func completeAllSteps(e models.DailyEntry, now time.Time) models.DailyEntry {
	e = Apply(e, StepIntention, Value{Text: strp("stay present")}, now)
	e = Apply(e, StepVisualization, Value{Slots: []string{"the finish line", "", ""}}, now)
	e = Apply(e, StepGratitude, Value{Slots: []string{"", "coffee", ""}}, now)
	e = Apply(e, StepReflection, Value{Slots: []string{"said no once", "", ""}}, now)
	// Affirmations derive complete from the seeded slots
	return Apply(e, StepAffirmations, Value{}, now)
}

func TestApply_StampsCompletedAtOnce(t *testing.T) {
	t0 := time.Date(2024, 1, 10, 14, 0, 0, 0, time.Local)
	e := completeAllSteps(newTestEntry(), t0)

	require.True(t, e.Completed.All())
	require.NotNil(t, e.CompletedAt)
	assert.Equal(t, t0, *e.CompletedAt)

	// A later edit must not move the stamp
	later := t0.Add(2 * time.Hour)
	e = Apply(e, StepIntention, Value{Text: strp("stay very present")}, later)
	require.NotNil(t, e.CompletedAt)
	assert.Equal(t, t0, *e.CompletedAt, "completedAt is stamped exactly once")

	// Replaying the completing write is a no-op on the stamp
	e = Apply(e, StepAffirmations, Value{}, later)
	assert.Equal(t, t0, *e.CompletedAt)
}

func TestForceComplete(t *testing.T) {
	t0 := time.Date(2024, 3, 5, 9, 30, 0, 0, time.Local)
	e := newTestEntry()

	e = ForceComplete(e, StepIntention, t0)
	assert.True(t, e.Completed.Intention)
	assert.Nil(t, e.CompletedAt)

	e = ForceComplete(e, StepVisualization, t0)
	e = ForceComplete(e, StepGratitude, t0)
	e = ForceComplete(e, StepReflection, t0)
	e = ForceComplete(e, StepAffirmations, t0)

	require.NotNil(t, e.CompletedAt)
	assert.Equal(t, t0, *e.CompletedAt)

	// A field edit after a forced flag re-derives from content
	e2 := Apply(e, StepIntention, Value{Text: strp("")}, t0.Add(time.Minute))
	assert.False(t, e2.Completed.Intention)
	assert.Equal(t, t0, *e2.CompletedAt, "re-opening a field does not erase the stamp")
}

func TestNextAllowedAt(t *testing.T) {
	completedAt := time.Date(2024, 1, 10, 14, 0, 0, 0, time.Local)
	next := NextAllowedAt(completedAt)
	assert.Equal(t, time.Date(2024, 1, 11, 8, 0, 0, 0, time.Local), next)

	// Completion after midnight still unlocks at 8am the following day
	lateNight := time.Date(2024, 1, 11, 0, 30, 0, 0, time.Local)
	assert.Equal(t, time.Date(2024, 1, 12, 8, 0, 0, 0, time.Local), NextAllowedAt(lateNight))

	// Month rollover
	endOfMonth := time.Date(2024, 1, 31, 23, 0, 0, 0, time.Local)
	assert.Equal(t, time.Date(2024, 2, 1, 8, 0, 0, 0, time.Local), NextAllowedAt(endOfMonth))
}

func TestLocked_Window(t *testing.T) {
	completedAt := time.Date(2024, 1, 10, 14, 0, 0, 0, time.Local)
	e := completeAllSteps(newTestEntry(), completedAt)
	require.NotNil(t, e.CompletedAt)

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"at completion", completedAt, true},
		{"same evening", time.Date(2024, 1, 10, 23, 59, 0, 0, time.Local), true},
		{"next morning before unlock", time.Date(2024, 1, 11, 7, 59, 59, 0, time.Local), true},
		{"exactly at unlock", time.Date(2024, 1, 11, 8, 0, 0, 0, time.Local), false},
		{"after unlock", time.Date(2024, 1, 11, 9, 0, 0, 0, time.Local), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Locked(&e, tt.now))
		})
	}
}

func TestLocked_DefensiveCases(t *testing.T) {
	now := time.Now()

	assert.False(t, Locked(nil, now), "no entry is never locked")

	e := newTestEntry()
	assert.False(t, Locked(&e, now), "incomplete entry is never locked")

	// All flags true but no stamp (corrupt/migrated data): treated as unlocked
	e.Completed = models.CompletionFlags{
		Intention: true, Visualization: true, Gratitude: true,
		Reflection: true, Affirmations: true,
	}
	e.CompletedAt = nil
	assert.False(t, Locked(&e, now))
}

func TestDateKey(t *testing.T) {
	assert.Equal(t, "2024-01-10", DateKey(time.Date(2024, 1, 10, 23, 59, 0, 0, time.Local)))
}
