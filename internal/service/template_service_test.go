package service

import (
	"testing"

	"lifehub/training-core/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateTemplate(t *testing.T) {
	f := newFixture()

	tmpl, err := f.templates.CreateTemplate(testCtx, f.userID, threeExerciseInput())
	require.NoError(t, err)
	require.NotEqual(t, primitive.NilObjectID, tmpl.ID)
	assert.Equal(t, "Lower A", tmpl.Name)
	assert.Equal(t, domain.IntentStrength, tmpl.TrainingIntent)
	assert.False(t, tmpl.IsArchived)
	require.Len(t, tmpl.Exercises, 3)
	assert.Equal(t, "Back Squat", tmpl.Exercises[0].ExerciseName)
}

func TestCreateTemplate_Validation(t *testing.T) {
	f := newFixture()

	cases := []struct {
		name   string
		mutate func(*TemplateInput)
	}{
		{"empty name", func(in *TemplateInput) { in.Name = "" }},
		{"unknown intent", func(in *TemplateInput) { in.TrainingIntent = "cardio-ish" }},
		{"no exercises", func(in *TemplateInput) { in.Exercises = nil }},
		{"duplicate sort order", func(in *TemplateInput) { in.Exercises[1].SortOrder = 0 }},
		{"zero sets", func(in *TemplateInput) { in.Exercises[0].TargetSets = 0 }},
		{"zero reps", func(in *TemplateInput) { in.Exercises[0].TargetReps = 0 }},
		{"negative load", func(in *TemplateInput) { in.Exercises[0].TargetLoadKg = ptrFloat(-5) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := threeExerciseInput()
			tc.mutate(&input)
			_, err := f.templates.CreateTemplate(testCtx, f.userID, input)
			assert.True(t, IsValidationError(err), "expected validation error, got %v", err)
		})
	}
}

func TestUpdateTemplate_ReplacesExerciseList(t *testing.T) {
	f := newFixture()
	tmpl, err := f.templates.CreateTemplate(testCtx, f.userID, threeExerciseInput())
	require.NoError(t, err)

	updated, err := f.templates.UpdateTemplate(testCtx, f.userID, tmpl.ID, TemplateInput{
		Name:           "Lower B",
		TrainingIntent: "hypertrophy",
		Exercises: []TemplateExerciseInput{
			{ExerciseName: "Front Squat", SortOrder: 0, TargetSets: 3, TargetReps: 8},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Lower B", updated.Name)
	require.Len(t, updated.Exercises, 1)
	assert.Equal(t, "Front Squat", updated.Exercises[0].ExerciseName)
}

func TestArchiveTemplate(t *testing.T) {
	f := newFixture()
	tmpl, err := f.templates.CreateTemplate(testCtx, f.userID, threeExerciseInput())
	require.NoError(t, err)

	require.NoError(t, f.templates.ArchiveTemplate(testCtx, f.userID, tmpl.ID))

	// Archived templates leave the default listing but stay retrievable.
	visible, err := f.templates.ListTemplates(testCtx, f.userID, false)
	require.NoError(t, err)
	assert.Empty(t, visible)

	all, err := f.templates.ListTemplates(testCtx, f.userID, true)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].IsArchived)

	// No edits and no new schedule entries once archived.
	_, err = f.templates.UpdateTemplate(testCtx, f.userID, tmpl.ID, threeExerciseInput())
	assert.ErrorIs(t, err, ErrTemplateArchived)
	_, err = f.schedules.ScheduleWorkout(testCtx, f.userID, tmpl.ID, date(2025, 1, 6))
	assert.ErrorIs(t, err, ErrTemplateArchived)
}

func TestTemplateOwnership(t *testing.T) {
	f := newFixture()
	tmpl, err := f.templates.CreateTemplate(testCtx, f.userID, threeExerciseInput())
	require.NoError(t, err)

	stranger := primitive.NewObjectID()
	_, err = f.templates.GetTemplate(testCtx, stranger, tmpl.ID)
	assert.ErrorIs(t, err, ErrTemplateAccessDenied)
	_, err = f.templates.GetTemplate(testCtx, f.userID, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}
