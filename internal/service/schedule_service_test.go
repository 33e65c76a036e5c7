package service

import (
	"testing"
	"time"

	"lifehub/training-core/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleWorkout_NormalizesDate(t *testing.T) {
	f := newFixture()
	tmpl, err := f.templates.CreateTemplate(testCtx, f.userID, threeExerciseInput())
	require.NoError(t, err)

	entry, err := f.schedules.ScheduleWorkout(testCtx, f.userID,
		tmpl.ID, time.Date(2025, 1, 6, 18, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, date(2025, 1, 6), entry.ScheduledDate)
	assert.Equal(t, domain.ScheduleStatusScheduled, entry.Status)
}

func TestRescheduleWorkout_ChainStaysConsistent(t *testing.T) {
	f := newFixture()
	tmpl, err := f.templates.CreateTemplate(testCtx, f.userID, threeExerciseInput())
	require.NoError(t, err)
	original, err := f.schedules.ScheduleWorkout(testCtx, f.userID, tmpl.ID, date(2025, 1, 6))
	require.NoError(t, err)

	replacement, err := f.schedules.RescheduleWorkout(testCtx, f.userID, original.ID, date(2025, 1, 8))
	require.NoError(t, err)

	assert.Equal(t, date(2025, 1, 8), replacement.ScheduledDate)
	assert.Equal(t, domain.ScheduleStatusScheduled, replacement.Status)
	require.NotNil(t, replacement.RescheduledFromID)
	assert.Equal(t, original.ID, *replacement.RescheduledFromID)

	superseded, err := f.schedules.GetScheduledWorkout(testCtx, f.userID, original.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ScheduleStatusRescheduled, superseded.Status)
	require.NotNil(t, superseded.RescheduledTo)
	assert.Equal(t, date(2025, 1, 8), *superseded.RescheduledTo)
}

func TestRescheduleWorkout_RejectsNonScheduledEntry(t *testing.T) {
	f := newFixture()
	tmpl, err := f.templates.CreateTemplate(testCtx, f.userID, threeExerciseInput())
	require.NoError(t, err)
	original, err := f.schedules.ScheduleWorkout(testCtx, f.userID, tmpl.ID, date(2025, 1, 6))
	require.NoError(t, err)
	_, err = f.schedules.RescheduleWorkout(testCtx, f.userID, original.ID, date(2025, 1, 8))
	require.NoError(t, err)

	// A superseded entry is final, so a chain never grows past two.
	_, err = f.schedules.RescheduleWorkout(testCtx, f.userID, original.ID, date(2025, 1, 10))
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestListScheduledWorkouts_RangeAndOrder(t *testing.T) {
	f := newFixture()
	tmpl, err := f.templates.CreateTemplate(testCtx, f.userID, threeExerciseInput())
	require.NoError(t, err)
	for _, d := range []time.Time{date(2025, 1, 10), date(2025, 1, 6), date(2025, 2, 1)} {
		_, err := f.schedules.ScheduleWorkout(testCtx, f.userID, tmpl.ID, d)
		require.NoError(t, err)
	}

	entries, err := f.schedules.ListScheduledWorkouts(testCtx, f.userID, date(2025, 1, 1), date(2025, 1, 31))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, date(2025, 1, 6), entries[0].ScheduledDate)
	assert.Equal(t, date(2025, 1, 10), entries[1].ScheduledDate)
}

func TestCancelScheduledWorkout(t *testing.T) {
	f := newFixture()
	tmpl, err := f.templates.CreateTemplate(testCtx, f.userID, threeExerciseInput())
	require.NoError(t, err)
	entry, err := f.schedules.ScheduleWorkout(testCtx, f.userID, tmpl.ID, date(2025, 1, 6))
	require.NoError(t, err)

	require.NoError(t, f.schedules.CancelScheduledWorkout(testCtx, f.userID, entry.ID))
	_, err = f.schedules.GetScheduledWorkout(testCtx, f.userID, entry.ID)
	assert.ErrorIs(t, err, ErrScheduleEntryNotFound)
}

func TestCancelScheduledWorkout_RejectsSuperseded(t *testing.T) {
	f := newFixture()
	tmpl, err := f.templates.CreateTemplate(testCtx, f.userID, threeExerciseInput())
	require.NoError(t, err)
	entry, err := f.schedules.ScheduleWorkout(testCtx, f.userID, tmpl.ID, date(2025, 1, 6))
	require.NoError(t, err)
	_, err = f.schedules.RescheduleWorkout(testCtx, f.userID, entry.ID, date(2025, 1, 8))
	require.NoError(t, err)

	err = f.schedules.CancelScheduledWorkout(testCtx, f.userID, entry.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}
