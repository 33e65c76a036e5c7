package service

import (
	"testing"

	"lifehub/training-core/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// completeScheduledSession starts a session from a fresh scheduled entry,
// logs the given sets on its first exercise, and completes it.
func completeScheduledSession(t *testing.T, f *fixture, input TemplateInput, weights []float64, reps int) *domain.GymSession {
	t.Helper()
	tmpl, err := f.templates.CreateTemplate(testCtx, f.userID, input)
	require.NoError(t, err)
	entry, err := f.schedules.ScheduleWorkout(testCtx, f.userID, tmpl.ID, date(2025, 1, 6))
	require.NoError(t, err)
	session, err := f.sessions.StartSession(testCtx, f.userID, &entry.ID)
	require.NoError(t, err)

	detail, err := f.sessions.GetSessionDetail(testCtx, f.userID, session.ID)
	require.NoError(t, err)
	for _, w := range weights {
		_, err := f.sessions.LogSet(testCtx, f.userID, detail.Exercises[0].Exercise.ID, w, reps, "")
		require.NoError(t, err)
	}
	completed, err := f.sessions.UpdateSessionStatus(testCtx, f.userID, session.ID, domain.SessionStatusCompleted)
	require.NoError(t, err)
	return completed
}

func TestCreateReflection_MatchedPlanHasZeroDelta(t *testing.T) {
	f := newFixture()
	// Planned 1500 kg, executed 3 x (100 kg x 5) = 1500 kg.
	session := completeScheduledSession(t, f, threeExerciseInput(), []float64{100, 100, 100}, 5)

	reflection, err := f.reflection.CreateReflection(testCtx, f.userID, session.ID, domain.RatingStrong, "moved well")
	require.NoError(t, err)

	assert.Equal(t, 1500.0, reflection.ExecutedVolumeKg)
	require.NotNil(t, reflection.PlannedVolumeKg)
	assert.Equal(t, 1500.0, *reflection.PlannedVolumeKg)
	require.NotNil(t, reflection.VolumeDeltaPct)
	assert.Equal(t, 0.0, *reflection.VolumeDeltaPct)
	assert.Equal(t, domain.RatingStrong, reflection.SessionRating)
}

func TestCreateReflection_DeltaAgainstPlan(t *testing.T) {
	f := newFixture()
	// Executed 3 x (110 kg x 5) = 1650 kg against a 1500 kg plan: +10%.
	session := completeScheduledSession(t, f, threeExerciseInput(), []float64{110, 110, 110}, 5)

	reflection, err := f.reflection.CreateReflection(testCtx, f.userID, session.ID, domain.RatingNormal, "")
	require.NoError(t, err)
	require.NotNil(t, reflection.VolumeDeltaPct)
	assert.InDelta(t, 10.0, *reflection.VolumeDeltaPct, 1e-9)
}

func TestCreateReflection_BodyweightExercisesCountAsZeroPlan(t *testing.T) {
	f := newFixture()
	input := TemplateInput{
		Name:           "Mixed",
		TrainingIntent: "hypertrophy",
		Exercises: []TemplateExerciseInput{
			{ExerciseName: "Bench Press", SortOrder: 0, TargetSets: 2, TargetReps: 10, TargetLoadKg: ptrFloat(60)},
			{ExerciseName: "Push Up", SortOrder: 1, TargetSets: 3, TargetReps: 15},
		},
	}
	session := completeScheduledSession(t, f, input, []float64{60, 60}, 10)

	reflection, err := f.reflection.CreateReflection(testCtx, f.userID, session.ID, domain.RatingNormal, "")
	require.NoError(t, err)
	// The unloaded push-ups contribute nothing to the plan figure.
	require.NotNil(t, reflection.PlannedVolumeKg)
	assert.Equal(t, 1200.0, *reflection.PlannedVolumeKg)
	assert.Equal(t, 1200.0, reflection.ExecutedVolumeKg)
}

func TestCreateReflection_ZeroPlanHasNoDelta(t *testing.T) {
	f := newFixture()
	input := TemplateInput{
		Name:           "Bodyweight Only",
		TrainingIntent: "conditioning",
		Exercises: []TemplateExerciseInput{
			{ExerciseName: "Burpee", SortOrder: 0, TargetSets: 5, TargetReps: 10},
		},
	}
	session := completeScheduledSession(t, f, input, []float64{0}, 10)

	reflection, err := f.reflection.CreateReflection(testCtx, f.userID, session.ID, domain.RatingOff, "")
	require.NoError(t, err)
	require.NotNil(t, reflection.PlannedVolumeKg)
	assert.Zero(t, *reflection.PlannedVolumeKg)
	assert.Nil(t, reflection.VolumeDeltaPct)
}

func TestCreateReflection_FreeSessionHasNoPlan(t *testing.T) {
	f := newFixture()
	session, err := f.sessions.StartSession(testCtx, f.userID, nil)
	require.NoError(t, err)
	_, err = f.sessions.UpdateSessionStatus(testCtx, f.userID, session.ID, domain.SessionStatusCompleted)
	require.NoError(t, err)

	reflection, err := f.reflection.CreateReflection(testCtx, f.userID, session.ID, domain.RatingNormal, "")
	require.NoError(t, err)
	assert.Nil(t, reflection.PlannedVolumeKg)
	assert.Nil(t, reflection.VolumeDeltaPct)
	assert.Zero(t, reflection.ExecutedVolumeKg)
}

func TestCreateReflection_RequiresCompletedSession(t *testing.T) {
	f := newFixture()
	session, err := f.sessions.StartSession(testCtx, f.userID, nil)
	require.NoError(t, err)

	_, err = f.reflection.CreateReflection(testCtx, f.userID, session.ID, domain.RatingNormal, "")
	assert.ErrorIs(t, err, ErrSessionNotCompleted)

	_, err = f.sessions.UpdateSessionStatus(testCtx, f.userID, session.ID, domain.SessionStatusAbandoned)
	require.NoError(t, err)
	_, err = f.reflection.CreateReflection(testCtx, f.userID, session.ID, domain.RatingNormal, "")
	assert.ErrorIs(t, err, ErrSessionNotCompleted)
}

func TestCreateReflection_OncePerSession(t *testing.T) {
	f := newFixture()
	session := completeScheduledSession(t, f, threeExerciseInput(), []float64{100}, 5)

	_, err := f.reflection.CreateReflection(testCtx, f.userID, session.ID, domain.RatingNormal, "")
	require.NoError(t, err)
	_, err = f.reflection.CreateReflection(testCtx, f.userID, session.ID, domain.RatingStrong, "again")
	assert.ErrorIs(t, err, ErrReflectionExists)
}

func TestUpdateReflection_PatchesQualitativeOnly(t *testing.T) {
	f := newFixture()
	session := completeScheduledSession(t, f, threeExerciseInput(), []float64{100, 100, 100}, 5)
	created, err := f.reflection.CreateReflection(testCtx, f.userID, session.ID, domain.RatingNormal, "ok")
	require.NoError(t, err)

	rating := domain.RatingStrong
	updated, err := f.reflection.UpdateReflection(testCtx, f.userID, session.ID, &rating, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.RatingStrong, updated.SessionRating)
	assert.Equal(t, "ok", updated.ReflectionNote)
	assert.Equal(t, created.ExecutedVolumeKg, updated.ExecutedVolumeKg)
	require.NotNil(t, updated.VolumeDeltaPct)
	assert.Equal(t, *created.VolumeDeltaPct, *updated.VolumeDeltaPct)

	note := "legs cooked"
	updated, err = f.reflection.UpdateReflection(testCtx, f.userID, session.ID, nil, &note)
	require.NoError(t, err)
	assert.Equal(t, domain.RatingStrong, updated.SessionRating)
	assert.Equal(t, "legs cooked", updated.ReflectionNote)

	_, err = f.reflection.UpdateReflection(testCtx, f.userID, session.ID, nil, nil)
	assert.True(t, IsValidationError(err))
}
