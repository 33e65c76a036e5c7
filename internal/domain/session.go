package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionStatus type for the gym-session lifecycle.
type SessionStatus string

const (
	SessionStatusActive    SessionStatus = "active"
	SessionStatusPaused    SessionStatus = "paused"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusAbandoned SessionStatus = "abandoned"
)

// sessionTransitions holds the legal lifecycle edges. completed and abandoned
// are terminal.
var sessionTransitions = map[SessionStatus][]SessionStatus{
	SessionStatusActive: {SessionStatusPaused, SessionStatusCompleted, SessionStatusAbandoned},
	SessionStatusPaused: {SessionStatusActive, SessionStatusCompleted, SessionStatusAbandoned},
}

// IsValid reports whether the status is one of the known values.
func (s SessionStatus) IsValid() bool {
	switch s {
	case SessionStatusActive, SessionStatusPaused, SessionStatusCompleted, SessionStatusAbandoned:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is legal out of s.
func (s SessionStatus) IsTerminal() bool {
	return s == SessionStatusCompleted || s == SessionStatusAbandoned
}

// CanTransitionTo reports whether s -> next is a legal lifecycle edge.
func (s SessionStatus) CanTransitionTo(next SessionStatus) bool {
	for _, t := range sessionTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// GymSession is a single workout occurrence. Created when training starts,
// mutated only through status transitions, never deleted.
type GymSession struct {
	ID                 primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID             primitive.ObjectID  `bson:"userId" json:"userId"`
	ScheduledWorkoutID *primitive.ObjectID `bson:"scheduledWorkoutId,omitempty" json:"scheduledWorkoutId,omitempty"`
	TemplateID         *primitive.ObjectID `bson:"templateId,omitempty" json:"templateId,omitempty"` // nil for free sessions
	Status             SessionStatus       `bson:"status" json:"status"`
	StartedAt          time.Time           `bson:"startedAt" json:"startedAt"`
	EndedAt            *time.Time          `bson:"endedAt,omitempty" json:"endedAt,omitempty"` // set only on a terminal transition
	TotalDurationSec   *int64              `bson:"totalDurationSec,omitempty" json:"totalDurationSec,omitempty"`
	TotalVolumeKg      *float64            `bson:"totalVolumeKg,omitempty" json:"totalVolumeKg,omitempty"`
	CreatedAt          time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// ExecutionExercise is an exercise as it exists inside one session. It is a
// copy of the template exercise taken at session start, never a reference, so
// later template edits do not rewrite history.
//
// SetCount backs the atomic set numbering: it is incremented by the store when
// a set is logged and the incremented value becomes the set number.
type ExecutionExercise struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GymSessionID primitive.ObjectID `bson:"gymSessionId" json:"gymSessionId"`
	UserID       primitive.ObjectID `bson:"userId" json:"userId"`
	ExerciseName string             `bson:"exerciseName" json:"exerciseName"`
	SortOrder    int                `bson:"sortOrder" json:"sortOrder"`
	WasSkipped   bool               `bson:"wasSkipped" json:"wasSkipped"`
	IsAdditional bool               `bson:"isAdditional" json:"isAdditional"`
	SetCount     int                `bson:"setCount" json:"setCount"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

// ExecutionSet is one logged set. Append-only: there is no update or delete
// path. SetNumber values are 1-based and gap-free per exercise.
type ExecutionSet struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ExecutionExerciseID primitive.ObjectID `bson:"executionExerciseId" json:"executionExerciseId"`
	GymSessionID        primitive.ObjectID `bson:"gymSessionId" json:"gymSessionId"` // denormalized for volume queries
	SetNumber           int                `bson:"setNumber" json:"setNumber"`
	ActualWeightKg      float64            `bson:"actualWeightKg" json:"actualWeightKg"`
	ActualReps          int                `bson:"actualReps" json:"actualReps"`
	Notes               string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
}

// Volume returns the mechanical work proxy for this set.
func (s ExecutionSet) Volume() float64 {
	return s.ActualWeightKg * float64(s.ActualReps)
}
