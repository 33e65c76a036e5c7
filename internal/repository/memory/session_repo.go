package memory

import (
	"context"
	"sort"
	"time"

	"lifehub/training-core/internal/domain"
	"lifehub/training-core/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type sessionRepo struct{ s *Store }

func (r *sessionRepo) Create(ctx context.Context, session *domain.GymSession) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	session.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now
	r.s.sessions[session.ID] = *session
	return session.ID, nil
}

func (r *sessionRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.GymSession, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	session, ok := r.s.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := session
	return &cp, nil
}

func (r *sessionRepo) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.GymSession, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var sessions []domain.GymSession
	for _, session := range r.s.sessions {
		if session.UserID == userID {
			sessions = append(sessions, session)
		}
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].StartedAt.After(sessions[j].StartedAt)
	})
	return sessions, nil
}

func (r *sessionRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, from []domain.SessionStatus, to domain.SessionStatus) error {
	return r.cas(id, from, func(session *domain.GymSession) {
		session.Status = to
	})
}

func (r *sessionRepo) Complete(ctx context.Context, id primitive.ObjectID, from []domain.SessionStatus, endedAt time.Time, durationSec int64, volumeKg float64) error {
	return r.cas(id, from, func(session *domain.GymSession) {
		session.Status = domain.SessionStatusCompleted
		session.EndedAt = &endedAt
		session.TotalDurationSec = &durationSec
		session.TotalVolumeKg = &volumeKg
	})
}

func (r *sessionRepo) Abandon(ctx context.Context, id primitive.ObjectID, from []domain.SessionStatus, endedAt time.Time) error {
	return r.cas(id, from, func(session *domain.GymSession) {
		session.Status = domain.SessionStatusAbandoned
		session.EndedAt = &endedAt
	})
}

func (r *sessionRepo) cas(id primitive.ObjectID, from []domain.SessionStatus, apply func(*domain.GymSession)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	session, ok := r.s.sessions[id]
	if !ok {
		return repository.ErrConflict
	}
	matched := false
	for _, status := range from {
		if session.Status == status {
			matched = true
			break
		}
	}
	if !matched {
		return repository.ErrConflict
	}
	apply(&session)
	session.UpdatedAt = time.Now().UTC()
	r.s.sessions[id] = session
	return nil
}

type executionExerciseRepo struct{ s *Store }

func (r *executionExerciseRepo) Create(ctx context.Context, exercise *domain.ExecutionExercise) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	exercise.ID = primitive.NewObjectID()
	exercise.CreatedAt = time.Now().UTC()
	r.s.exercises[exercise.ID] = *exercise
	return exercise.ID, nil
}

func (r *executionExerciseRepo) CreateMany(ctx context.Context, exercises []*domain.ExecutionExercise) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := time.Now().UTC()
	for _, ex := range exercises {
		ex.ID = primitive.NewObjectID()
		ex.CreatedAt = now
		r.s.exercises[ex.ID] = *ex
	}
	return nil
}

func (r *executionExerciseRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ExecutionExercise, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ex, ok := r.s.exercises[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := ex
	return &cp, nil
}

func (r *executionExerciseRepo) GetBySessionID(ctx context.Context, sessionID primitive.ObjectID) ([]domain.ExecutionExercise, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var exercises []domain.ExecutionExercise
	for _, ex := range r.s.exercises {
		if ex.GymSessionID == sessionID {
			exercises = append(exercises, ex)
		}
	}
	sort.Slice(exercises, func(i, j int) bool { return exercises[i].SortOrder < exercises[j].SortOrder })
	return exercises, nil
}

func (r *executionExerciseRepo) MarkSkipped(ctx context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ex, ok := r.s.exercises[id]
	if !ok {
		return repository.ErrNotFound
	}
	ex.WasSkipped = true
	r.s.exercises[id] = ex
	return nil
}

// NextSetNumber increments the exercise's counter under the store mutex, so
// concurrent callers each receive a distinct consecutive value.
func (r *executionExerciseRepo) NextSetNumber(ctx context.Context, id primitive.ObjectID) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ex, ok := r.s.exercises[id]
	if !ok {
		return 0, repository.ErrNotFound
	}
	ex.SetCount++
	r.s.exercises[id] = ex
	return ex.SetCount, nil
}

type executionSetRepo struct{ s *Store }

func (r *executionSetRepo) Create(ctx context.Context, set *domain.ExecutionSet) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.sets {
		if existing.ExecutionExerciseID == set.ExecutionExerciseID && existing.SetNumber == set.SetNumber {
			return primitive.NilObjectID, repository.ErrConflict
		}
	}
	set.ID = primitive.NewObjectID()
	set.CreatedAt = time.Now().UTC()
	r.s.sets[set.ID] = *set
	return set.ID, nil
}

func (r *executionSetRepo) GetByExerciseID(ctx context.Context, exerciseID primitive.ObjectID) ([]domain.ExecutionSet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var sets []domain.ExecutionSet
	for _, set := range r.s.sets {
		if set.ExecutionExerciseID == exerciseID {
			sets = append(sets, set)
		}
	}
	sort.Slice(sets, func(i, j int) bool { return sets[i].SetNumber < sets[j].SetNumber })
	return sets, nil
}

func (r *executionSetRepo) GetBySessionID(ctx context.Context, sessionID primitive.ObjectID) ([]domain.ExecutionSet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var sets []domain.ExecutionSet
	for _, set := range r.s.sets {
		if set.GymSessionID == sessionID {
			sets = append(sets, set)
		}
	}
	return sets, nil
}
