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
	ErrSessionNotFound      = errors.New("gym session not found")
	ErrSessionAccessDenied  = errors.New("access denied to this gym session")
	ErrSessionNotInProgress = errors.New("gym session is not in progress")
	ErrExerciseNotFound     = errors.New("execution exercise not found")
	ErrExerciseAccessDenied = errors.New("access denied to this execution exercise")
)

// SessionDetail bundles a session with its exercises and their sets for the
// live training screen.
type SessionDetail struct {
	Session   domain.GymSession
	Exercises []ExerciseDetail
}

// ExerciseDetail is one exercise of a SessionDetail with its logged sets in
// set-number order.
type ExerciseDetail struct {
	Exercise domain.ExecutionExercise
	Sets     []domain.ExecutionSet
}

// --- Service Interface ---
type SessionService interface {
	// StartSession creates an active session. With a scheduled origin the
	// template's exercises are snapshotted into the session; without one the
	// session starts empty and exercises are added ad hoc.
	StartSession(ctx context.Context, userID primitive.ObjectID, scheduledWorkoutID *primitive.ObjectID) (*domain.GymSession, error)
	LogSet(ctx context.Context, userID, executionExerciseID primitive.ObjectID, weightKg float64, reps int, notes string) (*domain.ExecutionSet, error)
	AddExercise(ctx context.Context, userID, sessionID primitive.ObjectID, exerciseName string) (*domain.ExecutionExercise, error)
	SkipExercise(ctx context.Context, userID, executionExerciseID primitive.ObjectID) error
	UpdateSessionStatus(ctx context.Context, userID, sessionID primitive.ObjectID, newStatus domain.SessionStatus) (*domain.GymSession, error)
	GetSessionDetail(ctx context.Context, userID, sessionID primitive.ObjectID) (*SessionDetail, error)
	ListSessions(ctx context.Context, userID primitive.ObjectID) ([]domain.GymSession, error)
}

// --- Service Implementation ---

// sessionService implements the SessionService interface.
type sessionService struct {
	sessionRepo  repository.SessionRepository
	exerciseRepo repository.ExecutionExerciseRepository
	setRepo      repository.ExecutionSetRepository
	scheduleRepo repository.ScheduleRepository
	templateRepo repository.TemplateRepository
	tx           repository.TxRunner
	now          func() time.Time
}

// NewSessionService creates a new instance of sessionService.
func NewSessionService(
	sessionRepo repository.SessionRepository,
	exerciseRepo repository.ExecutionExerciseRepository,
	setRepo repository.ExecutionSetRepository,
	scheduleRepo repository.ScheduleRepository,
	templateRepo repository.TemplateRepository,
	tx repository.TxRunner,
) SessionService {
	return &sessionService{
		sessionRepo:  sessionRepo,
		exerciseRepo: exerciseRepo,
		setRepo:      setRepo,
		scheduleRepo: scheduleRepo,
		templateRepo: templateRepo,
		tx:           tx,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// StartSession creates the session and, for a scheduled origin, copies the
// template's exercises into execution rows in the same transaction. The copy
// is a snapshot: later template edits never touch it.
func (s *sessionService) StartSession(ctx context.Context, userID primitive.ObjectID, scheduledWorkoutID *primitive.ObjectID) (*domain.GymSession, error) {
	if userID == primitive.NilObjectID {
		return nil, errors.New("user ID is required")
	}

	session := &domain.GymSession{
		UserID:    userID,
		Status:    domain.SessionStatusActive,
		StartedAt: s.now(),
	}

	var snapshot []*domain.ExecutionExercise
	if scheduledWorkoutID != nil {
		entry, err := s.scheduleRepo.GetByID(ctx, *scheduledWorkoutID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrScheduleEntryNotFound
			}
			return nil, err
		}
		if entry.UserID != userID {
			return nil, ErrScheduleAccessDenied
		}
		if entry.Status != domain.ScheduleStatusScheduled {
			return nil, ErrInvalidTransition
		}

		template, err := s.templateRepo.GetByID(ctx, entry.TemplateID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrTemplateNotFound
			}
			return nil, err
		}

		session.ScheduledWorkoutID = scheduledWorkoutID
		session.TemplateID = &template.ID
		for _, ex := range template.Exercises {
			snapshot = append(snapshot, &domain.ExecutionExercise{
				UserID:       userID,
				ExerciseName: ex.ExerciseName,
				SortOrder:    ex.SortOrder,
			})
		}
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		sessionID, err := s.sessionRepo.Create(ctx, session)
		if err != nil {
			return err
		}
		session.ID = sessionID
		for _, ex := range snapshot {
			ex.GymSessionID = sessionID
		}
		return s.exerciseRepo.CreateMany(ctx, snapshot)
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// LogSet appends a set to an exercise. The set number comes from the
// exercise's atomic counter and the counter bump plus the insert share a
// transaction, so concurrent callers produce a gap-free 1..N sequence.
func (s *sessionService) LogSet(ctx context.Context, userID, executionExerciseID primitive.ObjectID, weightKg float64, reps int, notes string) (*domain.ExecutionSet, error) {
	if weightKg < 0 {
		return nil, ValidationError("weight cannot be negative")
	}
	if reps < 1 {
		return nil, ValidationError("reps must be at least 1")
	}

	exercise, err := s.getOwnedExercise(ctx, userID, executionExerciseID)
	if err != nil {
		return nil, err
	}
	session, err := s.sessionRepo.GetByID(ctx, exercise.GymSessionID)
	if err != nil {
		return nil, err
	}
	if session.Status.IsTerminal() {
		return nil, ErrSessionNotInProgress
	}

	set := &domain.ExecutionSet{
		ExecutionExerciseID: executionExerciseID,
		GymSessionID:        exercise.GymSessionID,
		ActualWeightKg:      weightKg,
		ActualReps:          reps,
		Notes:               notes,
	}
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		number, err := s.exerciseRepo.NextSetNumber(ctx, executionExerciseID)
		if err != nil {
			return err
		}
		set.SetNumber = number
		_, err = s.setRepo.Create(ctx, set)
		return err
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

// AddExercise appends an ad-hoc exercise to a running session with the next
// sort order and the additional flag set.
func (s *sessionService) AddExercise(ctx context.Context, userID, sessionID primitive.ObjectID, exerciseName string) (*domain.ExecutionExercise, error) {
	if exerciseName == "" {
		return nil, ValidationError("exercise name is required")
	}
	session, err := s.getOwnedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status.IsTerminal() {
		return nil, ErrSessionNotInProgress
	}

	exercise := &domain.ExecutionExercise{
		GymSessionID: sessionID,
		UserID:       userID,
		ExerciseName: exerciseName,
		IsAdditional: true,
	}
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := s.exerciseRepo.GetBySessionID(ctx, sessionID)
		if err != nil {
			return err
		}
		exercise.SortOrder = 0
		for _, ex := range existing {
			if ex.SortOrder >= exercise.SortOrder {
				exercise.SortOrder = ex.SortOrder + 1
			}
		}
		id, err := s.exerciseRepo.Create(ctx, exercise)
		if err != nil {
			return err
		}
		exercise.ID = id
		return nil
	})
	if err != nil {
		return nil, err
	}
	return exercise, nil
}

// SkipExercise flags the exercise skipped. Sets already logged stay in the
// log and further logging remains possible; they count toward totals.
func (s *sessionService) SkipExercise(ctx context.Context, userID, executionExerciseID primitive.ObjectID) error {
	if _, err := s.getOwnedExercise(ctx, userID, executionExerciseID); err != nil {
		return err
	}
	return s.exerciseRepo.MarkSkipped(ctx, executionExerciseID)
}

// UpdateSessionStatus validates and applies a lifecycle transition. The
// store-side write is a compare-and-swap against the statuses that may
// legally precede newStatus, so two racing terminal transitions cannot both
// win; the loser gets ErrInvalidTransition.
func (s *sessionService) UpdateSessionStatus(ctx context.Context, userID, sessionID primitive.ObjectID, newStatus domain.SessionStatus) (*domain.GymSession, error) {
	if !newStatus.IsValid() {
		return nil, ValidationError("unknown session status")
	}
	session, err := s.getOwnedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.Status.CanTransitionTo(newStatus) {
		return nil, ErrInvalidTransition
	}

	from := legalPredecessors(newStatus)
	switch newStatus {
	case domain.SessionStatusCompleted:
		err = s.completeSession(ctx, session, from)
	case domain.SessionStatusAbandoned:
		endedAt := s.now()
		err = s.sessionRepo.Abandon(ctx, sessionID, from, endedAt)
	default:
		err = s.sessionRepo.UpdateStatus(ctx, sessionID, from, newStatus)
	}
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrInvalidTransition
		}
		return nil, err
	}
	return s.sessionRepo.GetByID(ctx, sessionID)
}

// completeSession computes the summary totals and performs the terminal
// write plus the schedule cascade in one transaction. The volume sum covers
// every logged set, including those on skipped exercises.
func (s *sessionService) completeSession(ctx context.Context, session *domain.GymSession, from []domain.SessionStatus) error {
	sets, err := s.setRepo.GetBySessionID(ctx, session.ID)
	if err != nil {
		return err
	}
	var volume float64
	for _, set := range sets {
		volume += set.Volume()
	}
	endedAt := s.now()
	durationSec := int64(endedAt.Sub(session.StartedAt) / time.Second)

	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.sessionRepo.Complete(ctx, session.ID, from, endedAt, durationSec, volume); err != nil {
			return err
		}
		if session.ScheduledWorkoutID != nil {
			return s.scheduleRepo.MarkCompleted(ctx, *session.ScheduledWorkoutID)
		}
		return nil
	})
}

// GetSessionDetail returns the session with its exercises and sets.
func (s *sessionService) GetSessionDetail(ctx context.Context, userID, sessionID primitive.ObjectID) (*SessionDetail, error) {
	session, err := s.getOwnedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	exercises, err := s.exerciseRepo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	detail := &SessionDetail{Session: *session}
	for _, ex := range exercises {
		sets, err := s.setRepo.GetByExerciseID(ctx, ex.ID)
		if err != nil {
			return nil, err
		}
		detail.Exercises = append(detail.Exercises, ExerciseDetail{Exercise: ex, Sets: sets})
	}
	return detail, nil
}

// ListSessions retrieves the user's sessions, newest first.
func (s *sessionService) ListSessions(ctx context.Context, userID primitive.ObjectID) ([]domain.GymSession, error) {
	if userID == primitive.NilObjectID {
		return nil, errors.New("user ID is required")
	}
	return s.sessionRepo.GetByUserID(ctx, userID)
}

func (s *sessionService) getOwnedSession(ctx context.Context, userID, sessionID primitive.ObjectID) (*domain.GymSession, error) {
	if userID == primitive.NilObjectID || sessionID == primitive.NilObjectID {
		return nil, errors.New("user ID and session ID are required")
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
	return session, nil
}

func (s *sessionService) getOwnedExercise(ctx context.Context, userID, exerciseID primitive.ObjectID) (*domain.ExecutionExercise, error) {
	if userID == primitive.NilObjectID || exerciseID == primitive.NilObjectID {
		return nil, errors.New("user ID and exercise ID are required")
	}
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	if exercise.UserID != userID {
		return nil, ErrExerciseAccessDenied
	}
	return exercise, nil
}

// legalPredecessors returns the statuses out of which next may be entered.
// Used as the compare set of the CAS write.
func legalPredecessors(next domain.SessionStatus) []domain.SessionStatus {
	var from []domain.SessionStatus
	for _, status := range []domain.SessionStatus{domain.SessionStatusActive, domain.SessionStatusPaused} {
		if status.CanTransitionTo(next) {
			from = append(from, status)
		}
	}
	return from
}
