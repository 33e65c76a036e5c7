package service

import (
	"context"
	"errors"

	"lifehub/training-core/internal/domain"
	"lifehub/training-core/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrReflectionNotFound     = errors.New("workout reflection not found")
	ErrReflectionExists       = errors.New("reflection already exists for this session")
	ErrSessionNotCompleted    = errors.New("gym session is not completed")
	ErrReflectionAccessDenied = errors.New("access denied to this reflection")
)

// --- Service Interface ---
type ReflectionService interface {
	// CreateReflection runs exactly once per completed session. It computes
	// the executed volume from the logged sets and, when the session came
	// from a template, the planned volume from that template's targets.
	CreateReflection(ctx context.Context, userID, sessionID primitive.ObjectID, rating domain.SessionRating, note string) (*domain.WorkoutReflection, error)
	// UpdateReflection patches the qualitative fields only; the volume
	// figures are computed once and never revised.
	UpdateReflection(ctx context.Context, userID, sessionID primitive.ObjectID, rating *domain.SessionRating, note *string) (*domain.WorkoutReflection, error)
	GetReflection(ctx context.Context, userID, sessionID primitive.ObjectID) (*domain.WorkoutReflection, error)
}

// --- Service Implementation ---

// reflectionService implements the ReflectionService interface.
type reflectionService struct {
	reflectionRepo repository.ReflectionRepository
	sessionRepo    repository.SessionRepository
	setRepo        repository.ExecutionSetRepository
	templateRepo   repository.TemplateRepository
}

// NewReflectionService creates a new instance of reflectionService.
func NewReflectionService(
	reflectionRepo repository.ReflectionRepository,
	sessionRepo repository.SessionRepository,
	setRepo repository.ExecutionSetRepository,
	templateRepo repository.TemplateRepository,
) ReflectionService {
	return &reflectionService{
		reflectionRepo: reflectionRepo,
		sessionRepo:    sessionRepo,
		setRepo:        setRepo,
		templateRepo:   templateRepo,
	}
}

// CreateReflection computes the planned-vs-executed figures and persists the
// reflection. The unique store constraint makes a duplicate create fail, so
// the computation happens at most once per session.
func (s *reflectionService) CreateReflection(ctx context.Context, userID, sessionID primitive.ObjectID, rating domain.SessionRating, note string) (*domain.WorkoutReflection, error) {
	if userID == primitive.NilObjectID || sessionID == primitive.NilObjectID {
		return nil, errors.New("user ID and session ID are required")
	}
	if !rating.IsValid() {
		return nil, ValidationError("unknown session rating")
	}

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if session.UserID != userID {
		return nil, ErrSessionAccessDenied
	}
	if session.Status != domain.SessionStatusCompleted {
		return nil, ErrSessionNotCompleted
	}

	executed, err := s.executedVolume(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	reflection := &domain.WorkoutReflection{
		UserID:           userID,
		GymSessionID:     sessionID,
		ExecutedVolumeKg: executed,
		SessionRating:    rating,
		ReflectionNote:   note,
	}

	if session.TemplateID != nil {
		planned, err := s.plannedVolume(ctx, *session.TemplateID)
		if err != nil {
			return nil, err
		}
		reflection.PlannedVolumeKg = &planned
		// Delta is undefined against a zero plan (e.g. an all-bodyweight
		// template, whose nil loads count as zero).
		if planned > 0 {
			delta := (executed - planned) / planned * 100
			reflection.VolumeDeltaPct = &delta
		}
	}

	if _, err := s.reflectionRepo.Create(ctx, reflection); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrReflectionExists
		}
		return nil, err
	}
	return reflection, nil
}

// UpdateReflection patches rating and/or note.
func (s *reflectionService) UpdateReflection(ctx context.Context, userID, sessionID primitive.ObjectID, rating *domain.SessionRating, note *string) (*domain.WorkoutReflection, error) {
	if rating == nil && note == nil {
		return nil, ValidationError("nothing to update")
	}
	if rating != nil && !rating.IsValid() {
		return nil, ValidationError("unknown session rating")
	}
	if _, err := s.getOwned(ctx, userID, sessionID); err != nil {
		return nil, err
	}

	if err := s.reflectionRepo.UpdateQualitative(ctx, sessionID, rating, note); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReflectionNotFound
		}
		return nil, err
	}
	return s.reflectionRepo.GetBySessionID(ctx, sessionID)
}

// GetReflection retrieves the reflection for a session.
func (s *reflectionService) GetReflection(ctx context.Context, userID, sessionID primitive.ObjectID) (*domain.WorkoutReflection, error) {
	return s.getOwned(ctx, userID, sessionID)
}

// executedVolume sums weight x reps over every logged set of the session,
// matching the completion-time total exactly (skipped exercises included).
func (s *reflectionService) executedVolume(ctx context.Context, sessionID primitive.ObjectID) (float64, error) {
	sets, err := s.setRepo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	var volume float64
	for _, set := range sets {
		volume += set.Volume()
	}
	return volume, nil
}

// plannedVolume sums targetLoad x targetReps x targetSets over the template's
// exercises. A nil target load counts as zero, which undercounts bodyweight
// work.
func (s *reflectionService) plannedVolume(ctx context.Context, templateID primitive.ObjectID) (float64, error) {
	template, err := s.templateRepo.GetByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrTemplateNotFound
		}
		return 0, err
	}
	var volume float64
	for _, ex := range template.Exercises {
		if ex.TargetLoadKg == nil {
			continue
		}
		volume += *ex.TargetLoadKg * float64(ex.TargetReps) * float64(ex.TargetSets)
	}
	return volume, nil
}

func (s *reflectionService) getOwned(ctx context.Context, userID, sessionID primitive.ObjectID) (*domain.WorkoutReflection, error) {
	if userID == primitive.NilObjectID || sessionID == primitive.NilObjectID {
		return nil, errors.New("user ID and session ID are required")
	}
	reflection, err := s.reflectionRepo.GetBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReflectionNotFound
		}
		return nil, err
	}
	if reflection.UserID != userID {
		return nil, ErrReflectionAccessDenied
	}
	return reflection, nil
}
