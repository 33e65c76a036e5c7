package memory

import (
	"context"
	"sort"
	"time"

	"lifehub/training-core/internal/domain"
	"lifehub/training-core/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type templateRepo struct{ s *Store }

func (r *templateRepo) Create(ctx context.Context, template *domain.WorkoutTemplate) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	template.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	template.CreatedAt = now
	template.UpdatedAt = now
	r.s.templates[template.ID] = cloneTemplate(*template)
	return template.ID, nil
}

func (r *templateRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutTemplate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.templates[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := cloneTemplate(t)
	return &cp, nil
}

func (r *templateRepo) GetByUserID(ctx context.Context, userID primitive.ObjectID, includeArchived bool) ([]domain.WorkoutTemplate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var templates []domain.WorkoutTemplate
	for _, t := range r.s.templates {
		if t.UserID != userID {
			continue
		}
		if t.IsArchived && !includeArchived {
			continue
		}
		templates = append(templates, cloneTemplate(t))
	}
	sort.Slice(templates, func(i, j int) bool { return templates[i].Name < templates[j].Name })
	return templates, nil
}

func (r *templateRepo) Update(ctx context.Context, template *domain.WorkoutTemplate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.templates[template.ID]
	if !ok {
		return repository.ErrNotFound
	}
	existing.Name = template.Name
	existing.TrainingIntent = template.TrainingIntent
	existing.Exercises = append([]domain.TemplateExercise(nil), template.Exercises...)
	existing.UpdatedAt = time.Now().UTC()
	r.s.templates[template.ID] = existing
	return nil
}

func (r *templateRepo) Archive(ctx context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.templates[id]
	if !ok {
		return repository.ErrNotFound
	}
	existing.IsArchived = true
	existing.UpdatedAt = time.Now().UTC()
	r.s.templates[id] = existing
	return nil
}

// cloneTemplate copies the template including its exercise slice so callers
// never alias stored state.
func cloneTemplate(t domain.WorkoutTemplate) domain.WorkoutTemplate {
	t.Exercises = append([]domain.TemplateExercise(nil), t.Exercises...)
	return t
}
