package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lifehub/training-core/internal/api"
	"lifehub/training-core/internal/config"
	"lifehub/training-core/internal/repository/mongo"
	"lifehub/training-core/internal/service"
	"lifehub/training-core/internal/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("Starting Training Core Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	// --- Ensure Indexes ---
	log.Println("Ensuring database indexes...")
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongo.EnsureTemplateIndexes(ctx, appDB.Collection("workout_templates"))
		mongo.EnsureScheduleIndexes(ctx, appDB.Collection("scheduled_workouts"))
		mongo.EnsureSessionIndexes(ctx, appDB.Collection("gym_sessions"))
		mongo.EnsureExecutionExerciseIndexes(ctx, appDB.Collection("execution_exercises"))
		mongo.EnsureExecutionSetIndexes(ctx, appDB.Collection("execution_sets"))
		mongo.EnsureReflectionIndexes(ctx, appDB.Collection("workout_reflections"))
		mongo.EnsureProgrammeIndexes(ctx, appDB.Collection("training_programmes"))
		log.Println("Index creation process completed.")
	}()

	// --- Initialize Storage ---
	log.Println("Initializing plan archive...")
	planArchive, err := storage.NewS3Archive(cfg.S3)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize S3 archive: %v", err)
	}

	// --- Initialize Repositories ---
	log.Println("Initializing repositories...")
	userRepo := mongo.NewMongoUserRepository(appDB)
	templateRepo := mongo.NewMongoTemplateRepository(appDB)
	scheduleRepo := mongo.NewMongoScheduleRepository(appDB)
	sessionRepo := mongo.NewMongoSessionRepository(appDB)
	exerciseRepo := mongo.NewMongoExecutionExerciseRepository(appDB)
	setRepo := mongo.NewMongoExecutionSetRepository(appDB)
	reflectionRepo := mongo.NewMongoReflectionRepository(appDB)
	programmeRepo := mongo.NewMongoProgrammeRepository(appDB)
	txRunner := mongo.NewTxRunner(dbClient)

	// --- Initialize Services ---
	log.Println("Initializing services...")
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	templateService := service.NewTemplateService(templateRepo)
	scheduleService := service.NewScheduleService(scheduleRepo, templateRepo, txRunner)
	sessionService := service.NewSessionService(sessionRepo, exerciseRepo, setRepo, scheduleRepo, templateRepo, txRunner)
	reflectionService := service.NewReflectionService(reflectionRepo, sessionRepo, setRepo, templateRepo)
	programmeService := service.NewProgrammeService(programmeRepo, templateRepo, scheduleRepo, txRunner, planArchive)

	// --- Initialize Gin Engine ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.Default()

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg.JWT.Secret,
		authService, templateService, scheduleService,
		sessionService, reflectionService, programmeService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
