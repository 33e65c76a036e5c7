package repository

import (
	"context"
	"time"

	"lifehub/training-core/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound = RepositoryError("not found")
	// ErrConflict signals a guarded write that matched nothing: a
	// compare-and-swap against a stale status, or a uniqueness violation.
	ErrConflict = RepositoryError("conflict")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// TxRunner executes fn inside a single transactional unit. Repository calls
// made with the ctx passed to fn join that unit; fn returning an error rolls
// everything back.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// TemplateRepository defines the interface for workout-template data.
// A template and its embedded exercise list are always written together.
type TemplateRepository interface {
	Create(ctx context.Context, template *domain.WorkoutTemplate) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutTemplate, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID, includeArchived bool) ([]domain.WorkoutTemplate, error)
	// Update replaces name, intent, and the whole exercise list.
	Update(ctx context.Context, template *domain.WorkoutTemplate) error
	Archive(ctx context.Context, id primitive.ObjectID) error
}

// ScheduleRepository defines the interface for scheduled-workout data.
//
// MarkRescheduled and MarkCompleted are compare-and-swap writes: they match
// only an entry still in `scheduled` status and return ErrConflict otherwise.
type ScheduleRepository interface {
	Create(ctx context.Context, entry *domain.ScheduledWorkout) (primitive.ObjectID, error)
	CreateMany(ctx context.Context, entries []*domain.ScheduledWorkout) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ScheduledWorkout, error)
	GetByUserAndRange(ctx context.Context, userID primitive.ObjectID, from, to time.Time) ([]domain.ScheduledWorkout, error)
	MarkRescheduled(ctx context.Context, id primitive.ObjectID, newDate time.Time) error
	MarkCompleted(ctx context.Context, id primitive.ObjectID) error
	DeleteScheduled(ctx context.Context, id, userID primitive.ObjectID) error
}

// SessionRepository defines the interface for gym-session data. All status
// writes are compare-and-swap against the allowed prior statuses; a blind
// overwrite path deliberately does not exist.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.GymSession) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.GymSession, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.GymSession, error)
	// UpdateStatus moves the session between the non-terminal statuses.
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from []domain.SessionStatus, to domain.SessionStatus) error
	// Complete sets ended-at, duration, and total volume in one write.
	Complete(ctx context.Context, id primitive.ObjectID, from []domain.SessionStatus, endedAt time.Time, durationSec int64, volumeKg float64) error
	// Abandon sets ended-at only.
	Abandon(ctx context.Context, id primitive.ObjectID, from []domain.SessionStatus, endedAt time.Time) error
}

// ExecutionExerciseRepository defines the interface for per-session exercise
// snapshots.
type ExecutionExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.ExecutionExercise) (primitive.ObjectID, error)
	CreateMany(ctx context.Context, exercises []*domain.ExecutionExercise) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ExecutionExercise, error)
	GetBySessionID(ctx context.Context, sessionID primitive.ObjectID) ([]domain.ExecutionExercise, error)
	MarkSkipped(ctx context.Context, id primitive.ObjectID) error
	// NextSetNumber atomically increments the exercise's set counter and
	// returns the new value. Concurrent callers never observe the same number.
	NextSetNumber(ctx context.Context, id primitive.ObjectID) (int, error)
}

// ExecutionSetRepository defines the interface for logged sets. Insert-only.
type ExecutionSetRepository interface {
	Create(ctx context.Context, set *domain.ExecutionSet) (primitive.ObjectID, error)
	GetByExerciseID(ctx context.Context, exerciseID primitive.ObjectID) ([]domain.ExecutionSet, error)
	GetBySessionID(ctx context.Context, sessionID primitive.ObjectID) ([]domain.ExecutionSet, error)
}

// ReflectionRepository defines the interface for workout reflections.
// Create returns ErrConflict when the session already has one.
type ReflectionRepository interface {
	Create(ctx context.Context, reflection *domain.WorkoutReflection) (primitive.ObjectID, error)
	GetBySessionID(ctx context.Context, sessionID primitive.ObjectID) (*domain.WorkoutReflection, error)
	// UpdateQualitative patches rating and/or note; volume figures are immutable.
	UpdateQualitative(ctx context.Context, sessionID primitive.ObjectID, rating *domain.SessionRating, note *string) error
}

// ProgrammeRepository defines the interface for training-programme data.
type ProgrammeRepository interface {
	Create(ctx context.Context, programme *domain.TrainingProgramme) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainingProgramme, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.TrainingProgramme, error)
	// MarkActive compare-and-swaps draft -> active; ErrConflict when the
	// programme is no longer a draft.
	MarkActive(ctx context.Context, id primitive.ObjectID, activatedAt time.Time) error
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from []domain.ProgrammeStatus, to domain.ProgrammeStatus, completedAt *time.Time) error
	Delete(ctx context.Context, id, userID primitive.ObjectID) error
}
