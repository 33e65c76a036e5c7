package memory

import (
	"context"
	"sort"
	"time"

	"lifehub/training-core/internal/domain"
	"lifehub/training-core/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type scheduleRepo struct{ s *Store }

func (r *scheduleRepo) Create(ctx context.Context, entry *domain.ScheduledWorkout) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	entry.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	entry.CreatedAt = now
	entry.UpdatedAt = now
	r.s.schedules[entry.ID] = *entry
	return entry.ID, nil
}

func (r *scheduleRepo) CreateMany(ctx context.Context, entries []*domain.ScheduledWorkout) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := time.Now().UTC()
	for _, entry := range entries {
		entry.ID = primitive.NewObjectID()
		entry.CreatedAt = now
		entry.UpdatedAt = now
		r.s.schedules[entry.ID] = *entry
	}
	return nil
}

func (r *scheduleRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ScheduledWorkout, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	entry, ok := r.s.schedules[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := entry
	return &cp, nil
}

func (r *scheduleRepo) GetByUserAndRange(ctx context.Context, userID primitive.ObjectID, from, to time.Time) ([]domain.ScheduledWorkout, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var entries []domain.ScheduledWorkout
	for _, entry := range r.s.schedules {
		if entry.UserID != userID {
			continue
		}
		if entry.ScheduledDate.Before(from) || entry.ScheduledDate.After(to) {
			continue
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ScheduledDate.Before(entries[j].ScheduledDate)
	})
	return entries, nil
}

func (r *scheduleRepo) MarkRescheduled(ctx context.Context, id primitive.ObjectID, newDate time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	entry, ok := r.s.schedules[id]
	if !ok || entry.Status != domain.ScheduleStatusScheduled {
		return repository.ErrConflict
	}
	entry.Status = domain.ScheduleStatusRescheduled
	entry.RescheduledTo = &newDate
	entry.UpdatedAt = time.Now().UTC()
	r.s.schedules[id] = entry
	return nil
}

func (r *scheduleRepo) MarkCompleted(ctx context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	entry, ok := r.s.schedules[id]
	if !ok || entry.Status != domain.ScheduleStatusScheduled {
		return repository.ErrConflict
	}
	entry.Status = domain.ScheduleStatusCompleted
	entry.UpdatedAt = time.Now().UTC()
	r.s.schedules[id] = entry
	return nil
}

func (r *scheduleRepo) DeleteScheduled(ctx context.Context, id, userID primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	entry, ok := r.s.schedules[id]
	if !ok || entry.UserID != userID || entry.Status != domain.ScheduleStatusScheduled {
		return repository.ErrConflict
	}
	delete(r.s.schedules, id)
	return nil
}
