package memory

import (
	"context"
	"time"

	"lifehub/training-core/internal/domain"
	"lifehub/training-core/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type reflectionRepo struct{ s *Store }

func (r *reflectionRepo) Create(ctx context.Context, reflection *domain.WorkoutReflection) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.reflections {
		if existing.GymSessionID == reflection.GymSessionID {
			return primitive.NilObjectID, repository.ErrConflict
		}
	}
	reflection.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	reflection.CreatedAt = now
	reflection.UpdatedAt = now
	r.s.reflections[reflection.ID] = *reflection
	return reflection.ID, nil
}

func (r *reflectionRepo) GetBySessionID(ctx context.Context, sessionID primitive.ObjectID) (*domain.WorkoutReflection, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, reflection := range r.s.reflections {
		if reflection.GymSessionID == sessionID {
			cp := reflection
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *reflectionRepo) UpdateQualitative(ctx context.Context, sessionID primitive.ObjectID, rating *domain.SessionRating, note *string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, reflection := range r.s.reflections {
		if reflection.GymSessionID != sessionID {
			continue
		}
		if rating != nil {
			reflection.SessionRating = *rating
		}
		if note != nil {
			reflection.ReflectionNote = *note
		}
		reflection.UpdatedAt = time.Now().UTC()
		r.s.reflections[id] = reflection
		return nil
	}
	return repository.ErrNotFound
}
