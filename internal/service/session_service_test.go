package service

import (
	"sync"
	"testing"
	"time"

	"lifehub/training-core/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// startScheduled creates a template, schedules it, and starts a session from
// the entry.
func startScheduled(t *testing.T, f *fixture) (*domain.GymSession, *domain.ScheduledWorkout) {
	t.Helper()
	tmpl, err := f.templates.CreateTemplate(testCtx, f.userID, threeExerciseInput())
	require.NoError(t, err)
	entry, err := f.schedules.ScheduleWorkout(testCtx, f.userID, tmpl.ID, date(2025, 1, 6))
	require.NoError(t, err)
	session, err := f.sessions.StartSession(testCtx, f.userID, &entry.ID)
	require.NoError(t, err)
	return session, entry
}

func TestStartSession_SnapshotsTemplateExercises(t *testing.T) {
	f := newFixture()
	session, entry := startScheduled(t, f)

	assert.Equal(t, domain.SessionStatusActive, session.Status)
	require.NotNil(t, session.ScheduledWorkoutID)
	assert.Equal(t, entry.ID, *session.ScheduledWorkoutID)
	require.NotNil(t, session.TemplateID)

	detail, err := f.sessions.GetSessionDetail(testCtx, f.userID, session.ID)
	require.NoError(t, err)
	require.Len(t, detail.Exercises, 3)
	for i, ex := range detail.Exercises {
		assert.Equal(t, i, ex.Exercise.SortOrder)
		assert.False(t, ex.Exercise.IsAdditional)
		assert.False(t, ex.Exercise.WasSkipped)
	}
	assert.Equal(t, "Back Squat", detail.Exercises[0].Exercise.ExerciseName)
}

func TestStartSession_SnapshotSurvivesTemplateEdit(t *testing.T) {
	f := newFixture()
	session, _ := startScheduled(t, f)

	_, err := f.templates.UpdateTemplate(testCtx, f.userID, *session.TemplateID, TemplateInput{
		Name:           "Rewritten",
		TrainingIntent: "recovery",
		Exercises: []TemplateExerciseInput{
			{ExerciseName: "Walking", SortOrder: 0, TargetSets: 1, TargetReps: 1},
		},
	})
	require.NoError(t, err)

	detail, err := f.sessions.GetSessionDetail(testCtx, f.userID, session.ID)
	require.NoError(t, err)
	require.Len(t, detail.Exercises, 3)
	assert.Equal(t, "Back Squat", detail.Exercises[0].Exercise.ExerciseName)
}

func TestStartSession_Free(t *testing.T) {
	f := newFixture()
	session, err := f.sessions.StartSession(testCtx, f.userID, nil)
	require.NoError(t, err)
	assert.Nil(t, session.ScheduledWorkoutID)
	assert.Nil(t, session.TemplateID)

	detail, err := f.sessions.GetSessionDetail(testCtx, f.userID, session.ID)
	require.NoError(t, err)
	assert.Empty(t, detail.Exercises)
}

func TestStartSession_RejectsSupersededEntry(t *testing.T) {
	f := newFixture()
	tmpl, err := f.templates.CreateTemplate(testCtx, f.userID, threeExerciseInput())
	require.NoError(t, err)
	entry, err := f.schedules.ScheduleWorkout(testCtx, f.userID, tmpl.ID, date(2025, 1, 6))
	require.NoError(t, err)
	_, err = f.schedules.RescheduleWorkout(testCtx, f.userID, entry.ID, date(2025, 1, 8))
	require.NoError(t, err)

	_, err = f.sessions.StartSession(testCtx, f.userID, &entry.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestLogSet_SequentialNumbers(t *testing.T) {
	f := newFixture()
	session, _ := startScheduled(t, f)
	detail, err := f.sessions.GetSessionDetail(testCtx, f.userID, session.ID)
	require.NoError(t, err)
	exerciseID := detail.Exercises[0].Exercise.ID

	for want := 1; want <= 3; want++ {
		set, err := f.sessions.LogSet(testCtx, f.userID, exerciseID, 100, 5, "")
		require.NoError(t, err)
		assert.Equal(t, want, set.SetNumber)
	}
}

func TestLogSet_ConcurrentNumbersAreGapFree(t *testing.T) {
	f := newFixture()
	session, _ := startScheduled(t, f)
	detail, err := f.sessions.GetSessionDetail(testCtx, f.userID, session.ID)
	require.NoError(t, err)
	exerciseID := detail.Exercises[0].Exercise.ID

	const n = 20
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := f.sessions.LogSet(testCtx, f.userID, exerciseID, 60, 8, "")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	sets, err := f.store.ExecutionSets().GetByExerciseID(testCtx, exerciseID)
	require.NoError(t, err)
	require.Len(t, sets, n)
	for i, set := range sets {
		assert.Equal(t, i+1, set.SetNumber)
	}
}

func TestLogSet_Validation(t *testing.T) {
	f := newFixture()
	session, _ := startScheduled(t, f)
	detail, err := f.sessions.GetSessionDetail(testCtx, f.userID, session.ID)
	require.NoError(t, err)
	exerciseID := detail.Exercises[0].Exercise.ID

	_, err = f.sessions.LogSet(testCtx, f.userID, exerciseID, -1, 5, "")
	assert.True(t, IsValidationError(err))
	_, err = f.sessions.LogSet(testCtx, f.userID, exerciseID, 100, 0, "")
	assert.True(t, IsValidationError(err))

	// Weight zero is fine (bodyweight work).
	set, err := f.sessions.LogSet(testCtx, f.userID, exerciseID, 0, 12, "")
	require.NoError(t, err)
	assert.Zero(t, set.ActualWeightKg)
}

func TestAddExercise_AppendsWithNextSortOrder(t *testing.T) {
	f := newFixture()
	session, _ := startScheduled(t, f)

	added, err := f.sessions.AddExercise(testCtx, f.userID, session.ID, "Calf Raise")
	require.NoError(t, err)
	assert.Equal(t, 3, added.SortOrder)
	assert.True(t, added.IsAdditional)

	// On a free session the first addition starts at zero.
	free, err := f.sessions.StartSession(testCtx, f.userID, nil)
	require.NoError(t, err)
	first, err := f.sessions.AddExercise(testCtx, f.userID, free.ID, "Pull Up")
	require.NoError(t, err)
	assert.Equal(t, 0, first.SortOrder)
}

func TestSkipExercise_KeepsLoggedSets(t *testing.T) {
	f := newFixture()
	session, _ := startScheduled(t, f)
	detail, err := f.sessions.GetSessionDetail(testCtx, f.userID, session.ID)
	require.NoError(t, err)
	exerciseID := detail.Exercises[0].Exercise.ID

	_, err = f.sessions.LogSet(testCtx, f.userID, exerciseID, 100, 5, "")
	require.NoError(t, err)
	require.NoError(t, f.sessions.SkipExercise(testCtx, f.userID, exerciseID))

	// Skipping is a flag, not a gate: further logging still works.
	_, err = f.sessions.LogSet(testCtx, f.userID, exerciseID, 100, 5, "")
	require.NoError(t, err)

	detail, err = f.sessions.GetSessionDetail(testCtx, f.userID, session.ID)
	require.NoError(t, err)
	assert.True(t, detail.Exercises[0].Exercise.WasSkipped)
	assert.Len(t, detail.Exercises[0].Sets, 2)
}

func TestUpdateSessionStatus_TransitionMatrix(t *testing.T) {
	legal := map[domain.SessionStatus][]domain.SessionStatus{
		domain.SessionStatusActive:    {domain.SessionStatusPaused, domain.SessionStatusCompleted, domain.SessionStatusAbandoned},
		domain.SessionStatusPaused:    {domain.SessionStatusActive, domain.SessionStatusCompleted, domain.SessionStatusAbandoned},
		domain.SessionStatusCompleted: nil,
		domain.SessionStatusAbandoned: nil,
	}
	all := []domain.SessionStatus{
		domain.SessionStatusActive, domain.SessionStatusPaused,
		domain.SessionStatusCompleted, domain.SessionStatusAbandoned,
	}
	for from, allowed := range legal {
		for _, to := range all {
			if from == to {
				continue
			}
			want := false
			for _, a := range allowed {
				if a == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestUpdateSessionStatus_PauseResume(t *testing.T) {
	f := newFixture()
	session, err := f.sessions.StartSession(testCtx, f.userID, nil)
	require.NoError(t, err)

	paused, err := f.sessions.UpdateSessionStatus(testCtx, f.userID, session.ID, domain.SessionStatusPaused)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionStatusPaused, paused.Status)

	resumed, err := f.sessions.UpdateSessionStatus(testCtx, f.userID, session.ID, domain.SessionStatusActive)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionStatusActive, resumed.Status)
}

func TestCompleteSession_ComputesTotalsAndCascades(t *testing.T) {
	f := newFixture()
	started := date(2025, 1, 6).Add(18 * time.Hour)
	f.setClock(func() time.Time { return started })
	session, entry := startScheduled(t, f)

	detail, err := f.sessions.GetSessionDetail(testCtx, f.userID, session.ID)
	require.NoError(t, err)
	exerciseID := detail.Exercises[0].Exercise.ID
	for i := 0; i < 3; i++ {
		_, err := f.sessions.LogSet(testCtx, f.userID, exerciseID, 100, 5, "")
		require.NoError(t, err)
	}

	f.setClock(func() time.Time { return started.Add(45 * time.Minute) })
	completed, err := f.sessions.UpdateSessionStatus(testCtx, f.userID, session.ID, domain.SessionStatusCompleted)
	require.NoError(t, err)

	assert.Equal(t, domain.SessionStatusCompleted, completed.Status)
	require.NotNil(t, completed.TotalVolumeKg)
	assert.Equal(t, 1500.0, *completed.TotalVolumeKg)
	require.NotNil(t, completed.TotalDurationSec)
	assert.Equal(t, int64(2700), *completed.TotalDurationSec)
	require.NotNil(t, completed.EndedAt)

	cascaded, err := f.schedules.GetScheduledWorkout(testCtx, f.userID, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ScheduleStatusCompleted, cascaded.Status)
}

func TestCompleteSession_SkippedExerciseSetsCount(t *testing.T) {
	f := newFixture()
	session, _ := startScheduled(t, f)
	detail, err := f.sessions.GetSessionDetail(testCtx, f.userID, session.ID)
	require.NoError(t, err)

	exerciseID := detail.Exercises[0].Exercise.ID
	_, err = f.sessions.LogSet(testCtx, f.userID, exerciseID, 80, 10, "")
	require.NoError(t, err)
	require.NoError(t, f.sessions.SkipExercise(testCtx, f.userID, exerciseID))

	completed, err := f.sessions.UpdateSessionStatus(testCtx, f.userID, session.ID, domain.SessionStatusCompleted)
	require.NoError(t, err)
	require.NotNil(t, completed.TotalVolumeKg)
	assert.Equal(t, 800.0, *completed.TotalVolumeKg)
}

func TestAbandonSession_NoTotals(t *testing.T) {
	f := newFixture()
	session, entry := startScheduled(t, f)

	abandoned, err := f.sessions.UpdateSessionStatus(testCtx, f.userID, session.ID, domain.SessionStatusAbandoned)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionStatusAbandoned, abandoned.Status)
	assert.NotNil(t, abandoned.EndedAt)
	assert.Nil(t, abandoned.TotalVolumeKg)
	assert.Nil(t, abandoned.TotalDurationSec)

	// Abandonment does not complete the calendar entry.
	unchanged, err := f.schedules.GetScheduledWorkout(testCtx, f.userID, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ScheduleStatusScheduled, unchanged.Status)
}

func TestTerminalSession_RejectsFurtherWrites(t *testing.T) {
	f := newFixture()
	session, _ := startScheduled(t, f)
	detail, err := f.sessions.GetSessionDetail(testCtx, f.userID, session.ID)
	require.NoError(t, err)
	exerciseID := detail.Exercises[0].Exercise.ID

	_, err = f.sessions.UpdateSessionStatus(testCtx, f.userID, session.ID, domain.SessionStatusCompleted)
	require.NoError(t, err)

	_, err = f.sessions.LogSet(testCtx, f.userID, exerciseID, 100, 5, "")
	assert.ErrorIs(t, err, ErrSessionNotInProgress)
	_, err = f.sessions.AddExercise(testCtx, f.userID, session.ID, "Curl")
	assert.ErrorIs(t, err, ErrSessionNotInProgress)
	_, err = f.sessions.UpdateSessionStatus(testCtx, f.userID, session.ID, domain.SessionStatusAbandoned)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = f.sessions.UpdateSessionStatus(testCtx, f.userID, session.ID, domain.SessionStatusActive)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSessionOwnership(t *testing.T) {
	f := newFixture()
	session, _ := startScheduled(t, f)

	stranger := primitive.NewObjectID()
	_, err := f.sessions.GetSessionDetail(testCtx, stranger, session.ID)
	assert.ErrorIs(t, err, ErrSessionAccessDenied)
	_, err = f.sessions.UpdateSessionStatus(testCtx, stranger, session.ID, domain.SessionStatusPaused)
	assert.ErrorIs(t, err, ErrSessionAccessDenied)
}
