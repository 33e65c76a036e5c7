package domain

// GeneratedPlan is the document produced by the external plan-generation
// service. It arrives schema-validated; this core consumes it as-is and never
// produces one.
type GeneratedPlan struct {
	ProgrammeName    string     `json:"programme_name"`
	Description      string     `json:"description,omitempty"`
	DurationWeeks    int        `json:"duration_weeks"`
	DaysPerWeek      int        `json:"days_per_week"`
	TrainingSplit    string     `json:"training_split,omitempty"`
	ProgressionNotes string     `json:"progression_notes,omitempty"`
	Weeks            []PlanWeek `json:"weeks"`
}

// PlanWeek is one week of the generated plan.
type PlanWeek struct {
	WeekNumber int       `json:"week_number"`
	Focus      string    `json:"focus,omitempty"`
	Days       []PlanDay `json:"days"`
}

// PlanDay is one training day of a plan week.
type PlanDay struct {
	DayNumber      int            `json:"day_number"` // 1-7
	WorkoutName    string         `json:"workout_name"`
	TrainingIntent TrainingIntent `json:"training_intent"`
	Exercises      []PlanExercise `json:"exercises"`
	Notes          string         `json:"notes,omitempty"`
}

// PlanExercise is one exercise row of a plan day. Reps is a range string
// such as "8-12" or a single number such as "5".
type PlanExercise struct {
	ExerciseName   string   `json:"exercise_name"`
	Sets           int      `json:"sets"`
	Reps           string   `json:"reps"`
	LoadSuggestion *float64 `json:"load_suggestion,omitempty"`
	RestSeconds    *int     `json:"rest_seconds,omitempty"`
	Notes          string   `json:"notes,omitempty"`
}
