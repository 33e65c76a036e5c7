package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrainingIntent classifies the purpose of a workout.
type TrainingIntent string

const (
	IntentStrength     TrainingIntent = "strength"
	IntentHypertrophy  TrainingIntent = "hypertrophy"
	IntentRecovery     TrainingIntent = "recovery"
	IntentConditioning TrainingIntent = "conditioning"
)

// IsValid reports whether the intent is one of the known values.
func (i TrainingIntent) IsValid() bool {
	switch i {
	case IntentStrength, IntentHypertrophy, IntentRecovery, IntentConditioning:
		return true
	}
	return false
}

// WorkoutTemplate is a reusable workout definition. The exercise list is
// embedded so a template and its exercises are written as one document.
type WorkoutTemplate struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID  `bson:"userId" json:"userId"`
	Name           string              `bson:"name" json:"name"`
	TrainingIntent TrainingIntent      `bson:"trainingIntent" json:"trainingIntent"`
	IsArchived     bool                `bson:"isArchived" json:"isArchived"`
	Exercises      []TemplateExercise  `bson:"exercises" json:"exercises"`
	ProgrammeID    *primitive.ObjectID `bson:"programmeId,omitempty" json:"programmeId,omitempty"` // set when materialized from a programme
	CreatedAt      time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// TemplateExercise is one planned exercise within a template.
// TargetRepRange keeps the original range string (e.g. "8-12") when the
// numeric target was derived from a generated plan.
type TemplateExercise struct {
	ExerciseName   string   `bson:"exerciseName" json:"exerciseName"`
	SortOrder      int      `bson:"sortOrder" json:"sortOrder"` // unique within the template
	TargetSets     int      `bson:"targetSets" json:"targetSets"`
	TargetReps     int      `bson:"targetReps" json:"targetReps"`
	TargetLoadKg   *float64 `bson:"targetLoadKg,omitempty" json:"targetLoadKg,omitempty"`
	TargetRepRange string   `bson:"targetRepRange,omitempty" json:"targetRepRange,omitempty"`
	RestSeconds    *int     `bson:"restSeconds,omitempty" json:"restSeconds,omitempty"`
	Notes          string   `bson:"notes,omitempty" json:"notes,omitempty"`
}
