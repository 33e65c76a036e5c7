package memory

import (
	"context"
	"sort"
	"time"

	"lifehub/training-core/internal/domain"
	"lifehub/training-core/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type programmeRepo struct{ s *Store }

func (r *programmeRepo) Create(ctx context.Context, programme *domain.TrainingProgramme) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	programme.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	programme.CreatedAt = now
	programme.UpdatedAt = now
	r.s.programmes[programme.ID] = cloneProgramme(*programme)
	return programme.ID, nil
}

func (r *programmeRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainingProgramme, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	programme, ok := r.s.programmes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := cloneProgramme(programme)
	return &cp, nil
}

func (r *programmeRepo) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.TrainingProgramme, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var programmes []domain.TrainingProgramme
	for _, programme := range r.s.programmes {
		if programme.UserID == userID {
			programmes = append(programmes, cloneProgramme(programme))
		}
	}
	sort.Slice(programmes, func(i, j int) bool {
		return programmes[i].CreatedAt.After(programmes[j].CreatedAt)
	})
	return programmes, nil
}

func (r *programmeRepo) MarkActive(ctx context.Context, id primitive.ObjectID, activatedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	programme, ok := r.s.programmes[id]
	if !ok || programme.Status != domain.ProgrammeStatusDraft {
		return repository.ErrConflict
	}
	programme.Status = domain.ProgrammeStatusActive
	programme.ActivatedAt = &activatedAt
	programme.UpdatedAt = time.Now().UTC()
	r.s.programmes[id] = programme
	return nil
}

func (r *programmeRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, from []domain.ProgrammeStatus, to domain.ProgrammeStatus, completedAt *time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	programme, ok := r.s.programmes[id]
	if !ok {
		return repository.ErrConflict
	}
	matched := false
	for _, status := range from {
		if programme.Status == status {
			matched = true
			break
		}
	}
	if !matched {
		return repository.ErrConflict
	}
	programme.Status = to
	if completedAt != nil {
		programme.CompletedAt = completedAt
	}
	programme.UpdatedAt = time.Now().UTC()
	r.s.programmes[id] = programme
	return nil
}

func (r *programmeRepo) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	programme, ok := r.s.programmes[id]
	if !ok || programme.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.s.programmes, id)
	return nil
}

func cloneProgramme(p domain.TrainingProgramme) domain.TrainingProgramme {
	p.Workouts = append([]domain.ProgrammeWorkout(nil), p.Workouts...)
	return p
}
