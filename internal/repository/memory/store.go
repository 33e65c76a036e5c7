// Package memory provides in-memory implementations of the repository
// interfaces. They back the service tests the same way a real deployment is
// backed by MongoDB, including the compare-and-swap semantics of the guarded
// writes.
package memory

import (
	"context"
	"sync"
	"time"

	"lifehub/training-core/internal/domain"
	"lifehub/training-core/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store holds every in-memory collection behind a single mutex. Individual
// repositories are views over the same store.
type Store struct {
	mu sync.Mutex

	users       map[primitive.ObjectID]domain.User
	templates   map[primitive.ObjectID]domain.WorkoutTemplate
	schedules   map[primitive.ObjectID]domain.ScheduledWorkout
	sessions    map[primitive.ObjectID]domain.GymSession
	exercises   map[primitive.ObjectID]domain.ExecutionExercise
	sets        map[primitive.ObjectID]domain.ExecutionSet
	reflections map[primitive.ObjectID]domain.WorkoutReflection
	programmes  map[primitive.ObjectID]domain.TrainingProgramme
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		users:       make(map[primitive.ObjectID]domain.User),
		templates:   make(map[primitive.ObjectID]domain.WorkoutTemplate),
		schedules:   make(map[primitive.ObjectID]domain.ScheduledWorkout),
		sessions:    make(map[primitive.ObjectID]domain.GymSession),
		exercises:   make(map[primitive.ObjectID]domain.ExecutionExercise),
		sets:        make(map[primitive.ObjectID]domain.ExecutionSet),
		reflections: make(map[primitive.ObjectID]domain.WorkoutReflection),
		programmes:  make(map[primitive.ObjectID]domain.TrainingProgramme),
	}
}

// WithinTx satisfies repository.TxRunner. A single process with a single
// mutex has no partial visibility to protect against, so fn simply runs.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// Users returns the user repository view.
func (s *Store) Users() repository.UserRepository { return &userRepo{s} }

// Templates returns the template repository view.
func (s *Store) Templates() repository.TemplateRepository { return &templateRepo{s} }

// Schedules returns the schedule repository view.
func (s *Store) Schedules() repository.ScheduleRepository { return &scheduleRepo{s} }

// Sessions returns the gym-session repository view.
func (s *Store) Sessions() repository.SessionRepository { return &sessionRepo{s} }

// ExecutionExercises returns the execution-exercise repository view.
func (s *Store) ExecutionExercises() repository.ExecutionExerciseRepository {
	return &executionExerciseRepo{s}
}

// ExecutionSets returns the execution-set repository view.
func (s *Store) ExecutionSets() repository.ExecutionSetRepository { return &executionSetRepo{s} }

// Reflections returns the reflection repository view.
func (s *Store) Reflections() repository.ReflectionRepository { return &reflectionRepo{s} }

// Programmes returns the programme repository view.
func (s *Store) Programmes() repository.ProgrammeRepository { return &programmeRepo{s} }

// --- users ---

type userRepo struct{ s *Store }

func (r *userRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, repository.ErrConflict
		}
	}
	user.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.s.users[user.ID] = *user
	return user.ID, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := u
	return &cp, nil
}
