package service

import (
	"context"
	"errors"
	"time"

	"lifehub/training-core/internal/domain"
	"lifehub/training-core/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrScheduleEntryNotFound = errors.New("scheduled workout not found")
	ErrScheduleAccessDenied  = errors.New("access denied to this scheduled workout")
)

// --- Service Interface ---
type ScheduleService interface {
	ScheduleWorkout(ctx context.Context, userID, templateID primitive.ObjectID, date time.Time) (*domain.ScheduledWorkout, error)
	// RescheduleWorkout supersedes the entry with a new one at newDate and
	// links the two. Only a `scheduled` entry may be rescheduled, so a chain
	// never grows past two entries.
	RescheduleWorkout(ctx context.Context, userID, entryID primitive.ObjectID, newDate time.Time) (*domain.ScheduledWorkout, error)
	GetScheduledWorkout(ctx context.Context, userID, entryID primitive.ObjectID) (*domain.ScheduledWorkout, error)
	ListScheduledWorkouts(ctx context.Context, userID primitive.ObjectID, from, to time.Time) ([]domain.ScheduledWorkout, error)
	CancelScheduledWorkout(ctx context.Context, userID, entryID primitive.ObjectID) error
}

// --- Service Implementation ---

// scheduleService implements the ScheduleService interface.
type scheduleService struct {
	scheduleRepo repository.ScheduleRepository
	templateRepo repository.TemplateRepository
	tx           repository.TxRunner
}

// NewScheduleService creates a new instance of scheduleService.
func NewScheduleService(
	scheduleRepo repository.ScheduleRepository,
	templateRepo repository.TemplateRepository,
	tx repository.TxRunner,
) ScheduleService {
	return &scheduleService{
		scheduleRepo: scheduleRepo,
		templateRepo: templateRepo,
		tx:           tx,
	}
}

// ScheduleWorkout places a template on a calendar date.
func (s *scheduleService) ScheduleWorkout(ctx context.Context, userID, templateID primitive.ObjectID, date time.Time) (*domain.ScheduledWorkout, error) {
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
	if template.IsArchived {
		return nil, ErrTemplateArchived
	}

	entry := &domain.ScheduledWorkout{
		UserID:        userID,
		TemplateID:    templateID,
		ScheduledDate: NormalizeDate(date),
		Status:        domain.ScheduleStatusScheduled,
	}
	entryID, err := s.scheduleRepo.Create(ctx, entry)
	if err != nil {
		return nil, err
	}
	entry.ID = entryID
	return entry, nil
}

// RescheduleWorkout marks the original entry rescheduled and inserts its
// replacement, both inside one transaction so the chain pointers always
// agree.
func (s *scheduleService) RescheduleWorkout(ctx context.Context, userID, entryID primitive.ObjectID, newDate time.Time) (*domain.ScheduledWorkout, error) {
	original, err := s.getOwned(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}
	// A completed or already-rescheduled entry is final. This also rejects
	// rescheduling a reschedule, which keeps chains acyclic.
	if original.Status != domain.ScheduleStatusScheduled {
		return nil, ErrInvalidTransition
	}

	date := NormalizeDate(newDate)
	replacement := &domain.ScheduledWorkout{
		UserID:            userID,
		TemplateID:        original.TemplateID,
		ScheduledDate:     date,
		Status:            domain.ScheduleStatusScheduled,
		RescheduledFromID: &original.ID,
		ProgrammeID:       original.ProgrammeID,
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.scheduleRepo.MarkRescheduled(ctx, original.ID, date); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return ErrInvalidTransition
			}
			return err
		}
		newID, err := s.scheduleRepo.Create(ctx, replacement)
		if err != nil {
			return err
		}
		replacement.ID = newID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return replacement, nil
}

// GetScheduledWorkout retrieves a single entry owned by the user.
func (s *scheduleService) GetScheduledWorkout(ctx context.Context, userID, entryID primitive.ObjectID) (*domain.ScheduledWorkout, error) {
	return s.getOwned(ctx, userID, entryID)
}

// ListScheduledWorkouts retrieves the user's calendar entries within [from, to].
func (s *scheduleService) ListScheduledWorkouts(ctx context.Context, userID primitive.ObjectID, from, to time.Time) ([]domain.ScheduledWorkout, error) {
	if userID == primitive.NilObjectID {
		return nil, errors.New("user ID is required")
	}
	return s.scheduleRepo.GetByUserAndRange(ctx, userID, NormalizeDate(from), NormalizeDate(to))
}

// CancelScheduledWorkout removes an entry that has not been trained or
// rescheduled yet.
func (s *scheduleService) CancelScheduledWorkout(ctx context.Context, userID, entryID primitive.ObjectID) error {
	if userID == primitive.NilObjectID || entryID == primitive.NilObjectID {
		return errors.New("user ID and entry ID are required")
	}
	err := s.scheduleRepo.DeleteScheduled(ctx, entryID, userID)
	if errors.Is(err, repository.ErrConflict) {
		// Missing, foreign, or already past `scheduled`.
		original, getErr := s.scheduleRepo.GetByID(ctx, entryID)
		if getErr != nil || original.UserID != userID {
			return ErrScheduleEntryNotFound
		}
		return ErrInvalidTransition
	}
	return err
}

func (s *scheduleService) getOwned(ctx context.Context, userID, entryID primitive.ObjectID) (*domain.ScheduledWorkout, error) {
	if userID == primitive.NilObjectID || entryID == primitive.NilObjectID {
		return nil, errors.New("user ID and entry ID are required")
	}
	entry, err := s.scheduleRepo.GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrScheduleEntryNotFound
		}
		return nil, err
	}
	if entry.UserID != userID {
		return nil, ErrScheduleAccessDenied
	}
	return entry, nil
}

// NormalizeDate truncates a timestamp to its calendar date at UTC midnight.
// Schedule entries compare and sort by date only.
func NormalizeDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
