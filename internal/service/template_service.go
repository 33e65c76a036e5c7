package service

import (
	"context"
	"errors"
	"fmt"

	"lifehub/training-core/internal/domain"
	"lifehub/training-core/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrTemplateNotFound     = errors.New("workout template not found")
	ErrTemplateAccessDenied = errors.New("access denied to this workout template")
	ErrTemplateArchived     = errors.New("workout template is archived")
)

// TemplateInput carries everything needed to create or fully replace a
// template. Update has full-replace semantics: the existing exercise list is
// discarded, never diffed.
type TemplateInput struct {
	Name           string
	TrainingIntent domain.TrainingIntent
	Exercises      []TemplateExerciseInput
}

// TemplateExerciseInput is one exercise row of a TemplateInput.
type TemplateExerciseInput struct {
	ExerciseName string
	SortOrder    int
	TargetSets   int
	TargetReps   int
	TargetLoadKg *float64
	RestSeconds  *int
	Notes        string
}

// --- Service Interface ---
type TemplateService interface {
	CreateTemplate(ctx context.Context, userID primitive.ObjectID, input TemplateInput) (*domain.WorkoutTemplate, error)
	GetTemplate(ctx context.Context, userID, templateID primitive.ObjectID) (*domain.WorkoutTemplate, error)
	ListTemplates(ctx context.Context, userID primitive.ObjectID, includeArchived bool) ([]domain.WorkoutTemplate, error)
	UpdateTemplate(ctx context.Context, userID, templateID primitive.ObjectID, input TemplateInput) (*domain.WorkoutTemplate, error)
	ArchiveTemplate(ctx context.Context, userID, templateID primitive.ObjectID) error
}

// --- Service Implementation ---

// templateService implements the TemplateService interface.
type templateService struct {
	templateRepo repository.TemplateRepository
}

// NewTemplateService creates a new instance of templateService.
func NewTemplateService(templateRepo repository.TemplateRepository) TemplateService {
	return &templateService{templateRepo: templateRepo}
}

// CreateTemplate validates the input and writes the template with its
// embedded exercise list as one unit.
func (s *templateService) CreateTemplate(ctx context.Context, userID primitive.ObjectID, input TemplateInput) (*domain.WorkoutTemplate, error) {
	if userID == primitive.NilObjectID {
		return nil, errors.New("user ID is required")
	}
	exercises, err := validateTemplateInput(input)
	if err != nil {
		return nil, err
	}

	template := &domain.WorkoutTemplate{
		UserID:         userID,
		Name:           input.Name,
		TrainingIntent: input.TrainingIntent,
		Exercises:      exercises,
	}
	templateID, err := s.templateRepo.Create(ctx, template)
	if err != nil {
		return nil, err
	}
	template.ID = templateID
	return template, nil
}

// GetTemplate retrieves a template owned by the user.
func (s *templateService) GetTemplate(ctx context.Context, userID, templateID primitive.ObjectID) (*domain.WorkoutTemplate, error) {
	return s.getOwned(ctx, userID, templateID)
}

// ListTemplates retrieves the user's templates; archived ones only on request.
func (s *templateService) ListTemplates(ctx context.Context, userID primitive.ObjectID, includeArchived bool) ([]domain.WorkoutTemplate, error) {
	if userID == primitive.NilObjectID {
		return nil, errors.New("user ID is required")
	}
	return s.templateRepo.GetByUserID(ctx, userID, includeArchived)
}

// UpdateTemplate replaces the template's name, intent, and whole exercise
// list. Execution snapshots taken from the old version are copies and keep
// their history.
func (s *templateService) UpdateTemplate(ctx context.Context, userID, templateID primitive.ObjectID, input TemplateInput) (*domain.WorkoutTemplate, error) {
	template, err := s.getOwned(ctx, userID, templateID)
	if err != nil {
		return nil, err
	}
	if template.IsArchived {
		return nil, ErrTemplateArchived
	}
	exercises, err := validateTemplateInput(input)
	if err != nil {
		return nil, err
	}

	template.Name = input.Name
	template.TrainingIntent = input.TrainingIntent
	template.Exercises = exercises
	if err := s.templateRepo.Update(ctx, template); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return template, nil
}

// ArchiveTemplate soft-deletes the template. History referencing it stays
// valid.
func (s *templateService) ArchiveTemplate(ctx context.Context, userID, templateID primitive.ObjectID) error {
	if _, err := s.getOwned(ctx, userID, templateID); err != nil {
		return err
	}
	if err := s.templateRepo.Archive(ctx, templateID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTemplateNotFound
		}
		return err
	}
	return nil
}

func (s *templateService) getOwned(ctx context.Context, userID, templateID primitive.ObjectID) (*domain.WorkoutTemplate, error) {
	if userID == primitive.NilObjectID || templateID == primitive.NilObjectID {
		return nil, errors.New("user ID and template ID are required")
	}
	template, err := s.templateRepo.GetByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	if template.UserID != userID {
		return nil, ErrTemplateAccessDenied
	}
	return template, nil
}

func validateTemplateInput(input TemplateInput) ([]domain.TemplateExercise, error) {
	if input.Name == "" {
		return nil, ValidationError("template name is required")
	}
	if !input.TrainingIntent.IsValid() {
		return nil, ValidationError(fmt.Sprintf("unknown training intent %q", input.TrainingIntent))
	}
	if len(input.Exercises) == 0 {
		return nil, ValidationError("template requires at least one exercise")
	}

	seenOrders := make(map[int]bool, len(input.Exercises))
	exercises := make([]domain.TemplateExercise, 0, len(input.Exercises))
	for _, ex := range input.Exercises {
		if ex.ExerciseName == "" {
			return nil, ValidationError("exercise name is required")
		}
		if seenOrders[ex.SortOrder] {
			return nil, ValidationError(fmt.Sprintf("duplicate sort order %d", ex.SortOrder))
		}
		seenOrders[ex.SortOrder] = true
		if ex.TargetSets < 1 || ex.TargetReps < 1 {
			return nil, ValidationError("target sets and reps must be at least 1")
		}
		if ex.TargetLoadKg != nil && *ex.TargetLoadKg < 0 {
			return nil, ValidationError("target load cannot be negative")
		}
		exercises = append(exercises, domain.TemplateExercise{
			ExerciseName: ex.ExerciseName,
			SortOrder:    ex.SortOrder,
			TargetSets:   ex.TargetSets,
			TargetReps:   ex.TargetReps,
			TargetLoadKg: ex.TargetLoadKg,
			RestSeconds:  ex.RestSeconds,
			Notes:        ex.Notes,
		})
	}
	return exercises, nil
}
