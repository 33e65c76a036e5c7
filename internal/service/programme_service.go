package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"lifehub/training-core/internal/domain"
	"lifehub/training-core/internal/repository"
	"lifehub/training-core/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrProgrammeNotFound     = errors.New("training programme not found")
	ErrProgrammeAccessDenied = errors.New("access denied to this training programme")
)

// ActivationResult reports what a programme activation materialized.
type ActivationResult struct {
	Programme *domain.TrainingProgramme
	Templates []domain.WorkoutTemplate
	Scheduled []domain.ScheduledWorkout
}

// --- Service Interface ---
type ProgrammeService interface {
	// CreateProgramme persists the externally generated plan as a draft
	// programme, flattening its week/day structure into workout rows and
	// archiving the raw payload.
	CreateProgramme(ctx context.Context, userID primitive.ObjectID, questionnaire map[string]any, plan *domain.GeneratedPlan) (*domain.TrainingProgramme, error)
	// ActivateProgramme materializes a draft: deduplicated templates plus one
	// schedule entry per planned day, all inside one transaction guarded by
	// the draft->active status swap. It can succeed at most once per
	// programme.
	ActivateProgramme(ctx context.Context, userID, programmeID primitive.ObjectID, startDate time.Time) (*ActivationResult, error)
	UpdateProgrammeStatus(ctx context.Context, userID, programmeID primitive.ObjectID, newStatus domain.ProgrammeStatus) (*domain.TrainingProgramme, error)
	DeleteProgramme(ctx context.Context, userID, programmeID primitive.ObjectID) error
	GetProgramme(ctx context.Context, userID, programmeID primitive.ObjectID) (*domain.TrainingProgramme, error)
	ListProgrammes(ctx context.Context, userID primitive.ObjectID) ([]domain.TrainingProgramme, error)
	// GetProgrammePlanURL returns a presigned link to the archived raw plan.
	GetProgrammePlanURL(ctx context.Context, userID, programmeID primitive.ObjectID) (string, error)
}

// --- Service Implementation ---

// programmeService implements the ProgrammeService interface.
type programmeService struct {
	programmeRepo repository.ProgrammeRepository
	templateRepo  repository.TemplateRepository
	scheduleRepo  repository.ScheduleRepository
	tx            repository.TxRunner
	archive       storage.PlanArchive // nil disables payload archiving
}

// NewProgrammeService creates a new instance of programmeService.
func NewProgrammeService(
	programmeRepo repository.ProgrammeRepository,
	templateRepo repository.TemplateRepository,
	scheduleRepo repository.ScheduleRepository,
	tx repository.TxRunner,
	archive storage.PlanArchive,
) ProgrammeService {
	return &programmeService{
		programmeRepo: programmeRepo,
		templateRepo:  templateRepo,
		scheduleRepo:  scheduleRepo,
		tx:            tx,
		archive:       archive,
	}
}

// CreateProgramme validates and flattens the plan, archives the raw payload,
// and stores the programme as a draft.
func (s *programmeService) CreateProgramme(ctx context.Context, userID primitive.ObjectID, questionnaire map[string]any, plan *domain.GeneratedPlan) (*domain.TrainingProgramme, error) {
	if userID == primitive.NilObjectID {
		return nil, errors.New("user ID is required")
	}
	workouts, err := flattenPlan(plan)
	if err != nil {
		return nil, err
	}

	programme := &domain.TrainingProgramme{
		UserID:        userID,
		Name:          plan.ProgrammeName,
		Goal:          plan.Description,
		DurationWeeks: plan.DurationWeeks,
		DaysPerWeek:   plan.DaysPerWeek,
		Status:        domain.ProgrammeStatusDraft,
		Questionnaire: questionnaire,
		Workouts:      workouts,
	}

	if s.archive != nil {
		payload, err := json.Marshal(plan)
		if err != nil {
			return nil, err
		}
		key := fmt.Sprintf("plans/%s.json", uuid.NewString())
		// Archiving is best effort; the programme itself holds everything
		// activation needs.
		if err := s.archive.SaveDocument(ctx, key, payload, "application/json"); err != nil {
			log.Printf("WARN: Failed to archive plan payload: %v", err)
		} else {
			programme.PlanObjectKey = key
		}
	}

	programmeID, err := s.programmeRepo.Create(ctx, programme)
	if err != nil {
		return nil, err
	}
	programme.ID = programmeID
	return programme, nil
}

// ActivateProgramme materializes the draft into templates and schedule
// entries. The draft->active swap runs inside the same transaction as the
// materialization writes, so a retried or double-clicked activation cannot
// duplicate anything: the second attempt loses the swap and fails whole.
func (s *programmeService) ActivateProgramme(ctx context.Context, userID, programmeID primitive.ObjectID, startDate time.Time) (*ActivationResult, error) {
	programme, err := s.getOwned(ctx, userID, programmeID)
	if err != nil {
		return nil, err
	}
	if programme.Status != domain.ProgrammeStatusDraft {
		return nil, ErrInvalidTransition
	}
	if len(programme.Workouts) == 0 {
		return nil, ValidationError("programme has no workouts to activate")
	}

	start := NormalizeDate(startDate)
	activatedAt := time.Now().UTC()
	result := &ActivationResult{Programme: programme}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.programmeRepo.MarkActive(ctx, programmeID, activatedAt); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return ErrInvalidTransition
			}
			return err
		}

		// One template per distinct workout name, in first-appearance order.
		templateIDs := make(map[string]primitive.ObjectID)
		for _, workout := range programme.Workouts {
			if _, ok := templateIDs[workout.WorkoutName]; ok {
				continue
			}
			template, err := materializeTemplate(userID, programmeID, workout)
			if err != nil {
				return err
			}
			templateID, err := s.templateRepo.Create(ctx, template)
			if err != nil {
				return err
			}
			template.ID = templateID
			templateIDs[workout.WorkoutName] = templateID
			result.Templates = append(result.Templates, *template)
		}

		entries := make([]*domain.ScheduledWorkout, 0, len(programme.Workouts))
		for _, workout := range programme.Workouts {
			offsetDays := (workout.WeekNumber-1)*7 + (workout.DayNumber - 1)
			entries = append(entries, &domain.ScheduledWorkout{
				UserID:        userID,
				TemplateID:    templateIDs[workout.WorkoutName],
				ScheduledDate: start.AddDate(0, 0, offsetDays),
				Status:        domain.ScheduleStatusScheduled,
				ProgrammeID:   &programmeID,
			})
		}
		if err := s.scheduleRepo.CreateMany(ctx, entries); err != nil {
			return err
		}
		for _, entry := range entries {
			result.Scheduled = append(result.Scheduled, *entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	programme.Status = domain.ProgrammeStatusActive
	programme.ActivatedAt = &activatedAt
	return result, nil
}

// UpdateProgrammeStatus applies a lifecycle change: a draft may be abandoned,
// an active programme completed or abandoned.
func (s *programmeService) UpdateProgrammeStatus(ctx context.Context, userID, programmeID primitive.ObjectID, newStatus domain.ProgrammeStatus) (*domain.TrainingProgramme, error) {
	if !newStatus.IsValid() {
		return nil, ValidationError("unknown programme status")
	}
	programme, err := s.getOwned(ctx, userID, programmeID)
	if err != nil {
		return nil, err
	}

	var from []domain.ProgrammeStatus
	var completedAt *time.Time
	switch newStatus {
	case domain.ProgrammeStatusAbandoned:
		from = []domain.ProgrammeStatus{domain.ProgrammeStatusDraft, domain.ProgrammeStatusActive}
	case domain.ProgrammeStatusCompleted:
		from = []domain.ProgrammeStatus{domain.ProgrammeStatusActive}
		now := time.Now().UTC()
		completedAt = &now
	default:
		// draft and active are only ever entered via Create/Activate.
		return nil, ErrInvalidTransition
	}

	if err := s.programmeRepo.UpdateStatus(ctx, programmeID, from, newStatus, completedAt); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrInvalidTransition
		}
		return nil, err
	}
	programme.Status = newStatus
	if completedAt != nil {
		programme.CompletedAt = completedAt
	}
	return programme, nil
}

// DeleteProgramme removes the programme record. Templates and schedule
// entries already materialized from it are deliberately left in place.
func (s *programmeService) DeleteProgramme(ctx context.Context, userID, programmeID primitive.ObjectID) error {
	programme, err := s.getOwned(ctx, userID, programmeID)
	if err != nil {
		return err
	}
	if err := s.programmeRepo.Delete(ctx, programmeID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProgrammeNotFound
		}
		return err
	}
	if s.archive != nil && programme.PlanObjectKey != "" {
		if err := s.archive.DeleteObject(ctx, programme.PlanObjectKey); err != nil {
			log.Printf("WARN: Failed to delete archived plan %s: %v", programme.PlanObjectKey, err)
		}
	}
	return nil
}

// GetProgramme retrieves a programme owned by the user.
func (s *programmeService) GetProgramme(ctx context.Context, userID, programmeID primitive.ObjectID) (*domain.TrainingProgramme, error) {
	return s.getOwned(ctx, userID, programmeID)
}

// ListProgrammes retrieves the user's programmes, newest first.
func (s *programmeService) ListProgrammes(ctx context.Context, userID primitive.ObjectID) ([]domain.TrainingProgramme, error) {
	if userID == primitive.NilObjectID {
		return nil, errors.New("user ID is required")
	}
	return s.programmeRepo.GetByUserID(ctx, userID)
}

// GetProgrammePlanURL returns a presigned download link for the archived raw
// plan payload.
func (s *programmeService) GetProgrammePlanURL(ctx context.Context, userID, programmeID primitive.ObjectID) (string, error) {
	programme, err := s.getOwned(ctx, userID, programmeID)
	if err != nil {
		return "", err
	}
	if s.archive == nil || programme.PlanObjectKey == "" {
		return "", ErrProgrammeNotFound
	}
	return s.archive.GeneratePresignedDownloadURL(ctx, programme.PlanObjectKey, storage.DefaultPresignedURLExpiry)
}

func (s *programmeService) getOwned(ctx context.Context, userID, programmeID primitive.ObjectID) (*domain.TrainingProgramme, error) {
	if userID == primitive.NilObjectID || programmeID == primitive.NilObjectID {
		return nil, errors.New("user ID and programme ID are required")
	}
	programme, err := s.programmeRepo.GetByID(ctx, programmeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgrammeNotFound
		}
		return nil, err
	}
	if programme.UserID != userID {
		return nil, ErrProgrammeAccessDenied
	}
	return programme, nil
}

// flattenPlan validates the generated plan and turns its nested
// week->day->exercise structure into one row per (week, day), ordered.
func flattenPlan(plan *domain.GeneratedPlan) ([]domain.ProgrammeWorkout, error) {
	if plan == nil {
		return nil, ValidationError("plan is required")
	}
	if plan.ProgrammeName == "" {
		return nil, ValidationError("programme name is required")
	}
	if plan.DurationWeeks < 1 {
		return nil, ValidationError("duration must be at least one week")
	}
	if plan.DaysPerWeek < 1 || plan.DaysPerWeek > 7 {
		return nil, ValidationError("days per week must be between 1 and 7")
	}
	if len(plan.Weeks) == 0 {
		return nil, ValidationError("plan has no weeks")
	}

	var workouts []domain.ProgrammeWorkout
	for _, week := range plan.Weeks {
		if week.WeekNumber < 1 || week.WeekNumber > plan.DurationWeeks {
			return nil, ValidationError(fmt.Sprintf("week number %d outside 1-%d", week.WeekNumber, plan.DurationWeeks))
		}
		for _, day := range week.Days {
			if day.DayNumber < 1 || day.DayNumber > 7 {
				return nil, ValidationError(fmt.Sprintf("day number %d outside 1-7", day.DayNumber))
			}
			if day.WorkoutName == "" {
				return nil, ValidationError("workout name is required")
			}
			if !day.TrainingIntent.IsValid() {
				return nil, ValidationError(fmt.Sprintf("unknown training intent %q", day.TrainingIntent))
			}
			exercises := make([]domain.ProgrammeExercise, 0, len(day.Exercises))
			for _, ex := range day.Exercises {
				if ex.ExerciseName == "" {
					return nil, ValidationError("exercise name is required")
				}
				if ex.Sets < 1 {
					return nil, ValidationError("exercise sets must be at least 1")
				}
				if _, err := parseRepLowerBound(ex.Reps); err != nil {
					return nil, err
				}
				exercises = append(exercises, domain.ProgrammeExercise{
					ExerciseName:   ex.ExerciseName,
					Sets:           ex.Sets,
					Reps:           ex.Reps,
					LoadSuggestion: ex.LoadSuggestion,
					RestSeconds:    ex.RestSeconds,
					Notes:          ex.Notes,
				})
			}
			workouts = append(workouts, domain.ProgrammeWorkout{
				WeekNumber:     week.WeekNumber,
				DayNumber:      day.DayNumber,
				WorkoutName:    day.WorkoutName,
				TrainingIntent: day.TrainingIntent,
				Exercises:      exercises,
				Notes:          day.Notes,
			})
		}
	}

	sort.SliceStable(workouts, func(i, j int) bool {
		if workouts[i].WeekNumber != workouts[j].WeekNumber {
			return workouts[i].WeekNumber < workouts[j].WeekNumber
		}
		return workouts[i].DayNumber < workouts[j].DayNumber
	})
	return workouts, nil
}

// materializeTemplate builds a template from one programme workout. The rep
// range collapses to its lower bound; the original string is kept on the
// exercise so the range is recoverable.
func materializeTemplate(userID, programmeID primitive.ObjectID, workout domain.ProgrammeWorkout) (*domain.WorkoutTemplate, error) {
	exercises := make([]domain.TemplateExercise, 0, len(workout.Exercises))
	for i, ex := range workout.Exercises {
		reps, err := parseRepLowerBound(ex.Reps)
		if err != nil {
			return nil, err
		}
		exercises = append(exercises, domain.TemplateExercise{
			ExerciseName:   ex.ExerciseName,
			SortOrder:      i,
			TargetSets:     ex.Sets,
			TargetReps:     reps,
			TargetLoadKg:   ex.LoadSuggestion,
			TargetRepRange: ex.Reps,
			RestSeconds:    ex.RestSeconds,
			Notes:          ex.Notes,
		})
	}
	return &domain.WorkoutTemplate{
		UserID:         userID,
		Name:           workout.WorkoutName,
		TrainingIntent: workout.TrainingIntent,
		Exercises:      exercises,
		ProgrammeID:    &programmeID,
	}, nil
}

// parseRepLowerBound extracts the numeric target from a rep string: the lower
// bound of a range ("8-12" -> 8) or the number itself ("5" -> 5).
func parseRepLowerBound(reps string) (int, error) {
	lower := strings.TrimSpace(strings.SplitN(reps, "-", 2)[0])
	n, err := strconv.Atoi(lower)
	if err != nil || n < 1 {
		return 0, ValidationError(fmt.Sprintf("invalid rep range %q", reps))
	}
	return n, nil
}
