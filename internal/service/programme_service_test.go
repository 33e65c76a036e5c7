package service

import (
	"strings"
	"testing"
	"time"

	"lifehub/training-core/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoWeekPlan builds a 2-week, 3-days-per-week plan that alternates between
// two workout names.
func twoWeekPlan() *domain.GeneratedPlan {
	day := func(n int, name string) domain.PlanDay {
		return domain.PlanDay{
			DayNumber:      n,
			WorkoutName:    name,
			TrainingIntent: domain.IntentStrength,
			Exercises: []domain.PlanExercise{
				{ExerciseName: "Back Squat", Sets: 3, Reps: "8-12", LoadSuggestion: ptrFloat(80)},
				{ExerciseName: "Bench Press", Sets: 3, Reps: "5", LoadSuggestion: ptrFloat(60)},
			},
		}
	}
	return &domain.GeneratedPlan{
		ProgrammeName: "Strength Block",
		Description:   "Linear progression over two weeks",
		DurationWeeks: 2,
		DaysPerWeek:   3,
		Weeks: []domain.PlanWeek{
			{WeekNumber: 1, Days: []domain.PlanDay{day(1, "Full Body A"), day(3, "Full Body B"), day(5, "Full Body A")}},
			{WeekNumber: 2, Days: []domain.PlanDay{day(1, "Full Body B"), day(3, "Full Body A"), day(5, "Full Body B")}},
		},
	}
}

func TestCreateProgramme(t *testing.T) {
	f := newFixture()
	questionnaire := map[string]any{"goal": "strength", "days_per_week": 3}

	programme, err := f.programmes.CreateProgramme(testCtx, f.userID, questionnaire, twoWeekPlan())
	require.NoError(t, err)

	assert.Equal(t, domain.ProgrammeStatusDraft, programme.Status)
	assert.Equal(t, "Strength Block", programme.Name)
	assert.Equal(t, 2, programme.DurationWeeks)
	assert.Equal(t, 3, programme.DaysPerWeek)
	assert.NotEmpty(t, programme.PlanObjectKey)
	require.Len(t, programme.Workouts, 6)
	// Rows come out ordered by (week, day).
	assert.Equal(t, 1, programme.Workouts[0].WeekNumber)
	assert.Equal(t, 1, programme.Workouts[0].DayNumber)
	assert.Equal(t, 2, programme.Workouts[5].WeekNumber)
	assert.Equal(t, 5, programme.Workouts[5].DayNumber)
}

func TestCreateProgramme_Validation(t *testing.T) {
	f := newFixture()

	cases := []struct {
		name   string
		mutate func(*domain.GeneratedPlan)
	}{
		{"empty name", func(p *domain.GeneratedPlan) { p.ProgrammeName = "" }},
		{"zero weeks", func(p *domain.GeneratedPlan) { p.DurationWeeks = 0 }},
		{"too many days", func(p *domain.GeneratedPlan) { p.DaysPerWeek = 8 }},
		{"no weeks", func(p *domain.GeneratedPlan) { p.Weeks = nil }},
		{"week out of range", func(p *domain.GeneratedPlan) { p.Weeks[1].WeekNumber = 3 }},
		{"day out of range", func(p *domain.GeneratedPlan) { p.Weeks[0].Days[0].DayNumber = 8 }},
		{"empty workout name", func(p *domain.GeneratedPlan) { p.Weeks[0].Days[0].WorkoutName = "" }},
		{"unknown intent", func(p *domain.GeneratedPlan) { p.Weeks[0].Days[0].TrainingIntent = "yoga" }},
		{"zero sets", func(p *domain.GeneratedPlan) { p.Weeks[0].Days[0].Exercises[0].Sets = 0 }},
		{"garbage reps", func(p *domain.GeneratedPlan) { p.Weeks[0].Days[0].Exercises[0].Reps = "amrap" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			plan := twoWeekPlan()
			tc.mutate(plan)
			_, err := f.programmes.CreateProgramme(testCtx, f.userID, nil, plan)
			assert.True(t, IsValidationError(err), "expected validation error, got %v", err)
		})
	}
}

func TestParseRepLowerBound(t *testing.T) {
	cases := []struct {
		reps    string
		want    int
		wantErr bool
	}{
		{"8-12", 8, false},
		{"5", 5, false},
		{" 10 - 12 ", 10, false},
		{"amrap", 0, true},
		{"0", 0, true},
		{"", 0, true},
	}
	for _, tc := range cases {
		got, err := parseRepLowerBound(tc.reps)
		if tc.wantErr {
			assert.Error(t, err, "reps %q", tc.reps)
			continue
		}
		require.NoError(t, err, "reps %q", tc.reps)
		assert.Equal(t, tc.want, got, "reps %q", tc.reps)
	}
}

func TestActivateProgramme_MaterializesTemplatesAndSchedule(t *testing.T) {
	f := newFixture()
	programme, err := f.programmes.CreateProgramme(testCtx, f.userID, nil, twoWeekPlan())
	require.NoError(t, err)

	// Monday 2025-01-06.
	result, err := f.programmes.ActivateProgramme(testCtx, f.userID, programme.ID, date(2025, 1, 6))
	require.NoError(t, err)

	assert.Equal(t, domain.ProgrammeStatusActive, result.Programme.Status)
	assert.NotNil(t, result.Programme.ActivatedAt)

	// Two distinct workout names, in first-appearance order.
	require.Len(t, result.Templates, 2)
	assert.Equal(t, "Full Body A", result.Templates[0].Name)
	assert.Equal(t, "Full Body B", result.Templates[1].Name)
	for _, tmpl := range result.Templates {
		require.NotNil(t, tmpl.ProgrammeID)
		assert.Equal(t, programme.ID, *tmpl.ProgrammeID)
		require.Len(t, tmpl.Exercises, 2)
		// Rep ranges collapse to their lower bound; the range string survives.
		assert.Equal(t, 0, tmpl.Exercises[0].SortOrder)
		assert.Equal(t, 8, tmpl.Exercises[0].TargetReps)
		assert.Equal(t, "8-12", tmpl.Exercises[0].TargetRepRange)
		assert.Equal(t, 1, tmpl.Exercises[1].SortOrder)
		assert.Equal(t, 5, tmpl.Exercises[1].TargetReps)
	}

	// One entry per planned day, anchored at the start date.
	require.Len(t, result.Scheduled, 6)
	wantDates := []time.Time{
		date(2025, 1, 6), date(2025, 1, 8), date(2025, 1, 10),
		date(2025, 1, 13), date(2025, 1, 15), date(2025, 1, 17),
	}
	for i, entry := range result.Scheduled {
		assert.Equal(t, wantDates[i], entry.ScheduledDate, "entry %d", i)
		assert.Equal(t, domain.ScheduleStatusScheduled, entry.Status)
		require.NotNil(t, entry.ProgrammeID)
		assert.Equal(t, programme.ID, *entry.ProgrammeID)
	}
	// Alternating A/B pattern maps each entry to the right template.
	assert.Equal(t, result.Templates[0].ID, result.Scheduled[0].TemplateID)
	assert.Equal(t, result.Templates[1].ID, result.Scheduled[1].TemplateID)
	assert.Equal(t, result.Templates[0].ID, result.Scheduled[2].TemplateID)

	entries, err := f.schedules.ListScheduledWorkouts(testCtx, f.userID, date(2025, 1, 1), date(2025, 1, 31))
	require.NoError(t, err)
	assert.Len(t, entries, 6)
}

func TestActivateProgramme_SecondActivationFails(t *testing.T) {
	f := newFixture()
	programme, err := f.programmes.CreateProgramme(testCtx, f.userID, nil, twoWeekPlan())
	require.NoError(t, err)
	_, err = f.programmes.ActivateProgramme(testCtx, f.userID, programme.ID, date(2025, 1, 6))
	require.NoError(t, err)

	_, err = f.programmes.ActivateProgramme(testCtx, f.userID, programme.ID, date(2025, 2, 3))
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// Nothing extra was materialized.
	templates, err := f.templates.ListTemplates(testCtx, f.userID, true)
	require.NoError(t, err)
	assert.Len(t, templates, 2)
}

func TestUpdateProgrammeStatus(t *testing.T) {
	f := newFixture()

	draft, err := f.programmes.CreateProgramme(testCtx, f.userID, nil, twoWeekPlan())
	require.NoError(t, err)
	_, err = f.programmes.UpdateProgrammeStatus(testCtx, f.userID, draft.ID, domain.ProgrammeStatusCompleted)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	abandoned, err := f.programmes.UpdateProgrammeStatus(testCtx, f.userID, draft.ID, domain.ProgrammeStatusAbandoned)
	require.NoError(t, err)
	assert.Equal(t, domain.ProgrammeStatusAbandoned, abandoned.Status)

	active, err := f.programmes.CreateProgramme(testCtx, f.userID, nil, twoWeekPlan())
	require.NoError(t, err)
	_, err = f.programmes.ActivateProgramme(testCtx, f.userID, active.ID, date(2025, 1, 6))
	require.NoError(t, err)
	completed, err := f.programmes.UpdateProgrammeStatus(testCtx, f.userID, active.ID, domain.ProgrammeStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.ProgrammeStatusCompleted, completed.Status)
	assert.NotNil(t, completed.CompletedAt)

	_, err = f.programmes.UpdateProgrammeStatus(testCtx, f.userID, completed.ID, domain.ProgrammeStatusAbandoned)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestDeleteProgramme_LeavesMaterializedRows(t *testing.T) {
	f := newFixture()
	programme, err := f.programmes.CreateProgramme(testCtx, f.userID, nil, twoWeekPlan())
	require.NoError(t, err)
	_, err = f.programmes.ActivateProgramme(testCtx, f.userID, programme.ID, date(2025, 1, 6))
	require.NoError(t, err)

	require.NoError(t, f.programmes.DeleteProgramme(testCtx, f.userID, programme.ID))

	_, err = f.programmes.GetProgramme(testCtx, f.userID, programme.ID)
	assert.ErrorIs(t, err, ErrProgrammeNotFound)

	templates, err := f.templates.ListTemplates(testCtx, f.userID, true)
	require.NoError(t, err)
	assert.Len(t, templates, 2)
	entries, err := f.schedules.ListScheduledWorkouts(testCtx, f.userID, date(2025, 1, 1), date(2025, 1, 31))
	require.NoError(t, err)
	assert.Len(t, entries, 6)
}

func TestGetProgrammePlanURL(t *testing.T) {
	f := newFixture()
	programme, err := f.programmes.CreateProgramme(testCtx, f.userID, nil, twoWeekPlan())
	require.NoError(t, err)

	url, err := f.programmes.GetProgrammePlanURL(testCtx, f.userID, programme.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "memory://plans/"), "got %q", url)
}
