package service

import (
	"context"
	"time"

	"lifehub/training-core/internal/repository/memory"
	"lifehub/training-core/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fixture wires every service over one in-memory store, the same shape main
// wires them over MongoDB.
type fixture struct {
	store      *memory.Store
	userID     primitive.ObjectID
	templates  TemplateService
	schedules  ScheduleService
	sessions   SessionService
	reflection ReflectionService
	programmes ProgrammeService
}

func newFixture() *fixture {
	store := memory.NewStore()
	templateRepo := store.Templates()
	scheduleRepo := store.Schedules()
	sessionRepo := store.Sessions()
	exerciseRepo := store.ExecutionExercises()
	setRepo := store.ExecutionSets()

	return &fixture{
		store:      store,
		userID:     primitive.NewObjectID(),
		templates:  NewTemplateService(templateRepo),
		schedules:  NewScheduleService(scheduleRepo, templateRepo, store),
		sessions:   NewSessionService(sessionRepo, exerciseRepo, setRepo, scheduleRepo, templateRepo, store),
		reflection: NewReflectionService(store.Reflections(), sessionRepo, setRepo, templateRepo),
		programmes: NewProgrammeService(store.Programmes(), templateRepo, scheduleRepo, store, storage.NewMemoryArchive()),
	}
}

// setClock pins the session service's clock for duration assertions.
func (f *fixture) setClock(now func() time.Time) {
	f.sessions.(*sessionService).now = now
}

func ptrFloat(v float64) *float64 { return &v }

// threeExerciseInput builds a template whose planned volume is 1500 kg:
// 3 exercises x (100 kg x 5 reps) x 1 set.
func threeExerciseInput() TemplateInput {
	return TemplateInput{
		Name:           "Lower A",
		TrainingIntent: "strength",
		Exercises: []TemplateExerciseInput{
			{ExerciseName: "Back Squat", SortOrder: 0, TargetSets: 1, TargetReps: 5, TargetLoadKg: ptrFloat(100)},
			{ExerciseName: "Romanian Deadlift", SortOrder: 1, TargetSets: 1, TargetReps: 5, TargetLoadKg: ptrFloat(100)},
			{ExerciseName: "Leg Press", SortOrder: 2, TargetSets: 1, TargetReps: 5, TargetLoadKg: ptrFloat(100)},
		},
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var testCtx = context.Background()
