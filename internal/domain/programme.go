package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgrammeStatus type for the training-programme lifecycle.
type ProgrammeStatus string

const (
	ProgrammeStatusDraft     ProgrammeStatus = "draft"
	ProgrammeStatusActive    ProgrammeStatus = "active"
	ProgrammeStatusCompleted ProgrammeStatus = "completed"
	ProgrammeStatusAbandoned ProgrammeStatus = "abandoned"
)

// IsValid reports whether the status is one of the known values.
func (s ProgrammeStatus) IsValid() bool {
	switch s {
	case ProgrammeStatusDraft, ProgrammeStatusActive, ProgrammeStatusCompleted, ProgrammeStatusAbandoned:
		return true
	}
	return false
}

// TrainingProgramme is a multi-week plan produced by the external generation
// service. Workouts holds the flattened week/day rows, embedded so programme
// creation is a single-document write. The raw generated payload is archived
// to object storage; PlanObjectKey points at it.
type TrainingProgramme struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`
	Name          string             `bson:"name" json:"name"`
	Goal          string             `bson:"goal,omitempty" json:"goal,omitempty"`
	DurationWeeks int                `bson:"durationWeeks" json:"durationWeeks"`
	DaysPerWeek   int                `bson:"daysPerWeek" json:"daysPerWeek"`
	Status        ProgrammeStatus    `bson:"status" json:"status"`
	Questionnaire map[string]any     `bson:"questionnaire,omitempty" json:"questionnaire,omitempty"`
	Workouts      []ProgrammeWorkout `bson:"workouts" json:"workouts"`
	PlanObjectKey string             `bson:"planObjectKey,omitempty" json:"planObjectKey,omitempty"`
	ActivatedAt   *time.Time         `bson:"activatedAt,omitempty" json:"activatedAt,omitempty"`
	CompletedAt   *time.Time         `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ProgrammeWorkout is one planned training day within a programme, keyed by
// (WeekNumber, DayNumber).
type ProgrammeWorkout struct {
	WeekNumber     int                 `bson:"weekNumber" json:"weekNumber"`
	DayNumber      int                 `bson:"dayNumber" json:"dayNumber"` // 1-7
	WorkoutName    string              `bson:"workoutName" json:"workoutName"`
	TrainingIntent TrainingIntent      `bson:"trainingIntent" json:"trainingIntent"`
	Exercises      []ProgrammeExercise `bson:"exercises" json:"exercises"`
	Notes          string              `bson:"notes,omitempty" json:"notes,omitempty"`
}

// ProgrammeExercise is one exercise row of a planned training day. Reps is
// the plan's range string (e.g. "8-12"); the numeric target is derived only
// at activation time.
type ProgrammeExercise struct {
	ExerciseName   string   `bson:"exerciseName" json:"exerciseName"`
	Sets           int      `bson:"sets" json:"sets"`
	Reps           string   `bson:"reps" json:"reps"`
	LoadSuggestion *float64 `bson:"loadSuggestion,omitempty" json:"loadSuggestion,omitempty"`
	RestSeconds    *int     `bson:"restSeconds,omitempty" json:"restSeconds,omitempty"`
	Notes          string   `bson:"notes,omitempty" json:"notes,omitempty"`
}
