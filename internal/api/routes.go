package api

import (
	"net/http"

	"lifehub/training-core/internal/service"

	"github.com/gin-gonic/gin"
)

// SetupRoutes mounts the full HTTP surface on the given engine.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	templateService service.TemplateService,
	scheduleService service.ScheduleService,
	sessionService service.SessionService,
	reflectionService service.ReflectionService,
	programmeService service.ProgrammeService,
) {
	authHandler := NewAuthHandler(authService)
	templateHandler := NewTemplateHandler(templateService)
	scheduleHandler := NewScheduleHandler(scheduleService)
	sessionHandler := NewSessionHandler(sessionService)
	reflectionHandler := NewReflectionHandler(reflectionService)
	programmeHandler := NewProgrammeHandler(programmeService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		templateGroup := protected.Group("/templates")
		{
			templateGroup.POST("", templateHandler.CreateTemplate)
			templateGroup.GET("", templateHandler.ListTemplates)
			templateGroup.GET("/:id", templateHandler.GetTemplate)
			templateGroup.PUT("/:id", templateHandler.UpdateTemplate)
			templateGroup.DELETE("/:id", templateHandler.ArchiveTemplate)
		}

		scheduleGroup := protected.Group("/schedule")
		{
			scheduleGroup.POST("", scheduleHandler.ScheduleWorkout)
			scheduleGroup.GET("", scheduleHandler.ListScheduledWorkouts)
			scheduleGroup.POST("/:id/reschedule", scheduleHandler.RescheduleWorkout)
			scheduleGroup.DELETE("/:id", scheduleHandler.CancelScheduledWorkout)
		}

		sessionGroup := protected.Group("/sessions")
		{
			sessionGroup.POST("", sessionHandler.StartSession)
			sessionGroup.GET("", sessionHandler.ListSessions)
			sessionGroup.GET("/:id", sessionHandler.GetSessionDetail)
			sessionGroup.PATCH("/:id/status", sessionHandler.UpdateSessionStatus)
			sessionGroup.POST("/:id/exercises", sessionHandler.AddExercise)

			sessionGroup.POST("/:id/reflection", reflectionHandler.CreateReflection)
			sessionGroup.GET("/:id/reflection", reflectionHandler.GetReflection)
			sessionGroup.PATCH("/:id/reflection", reflectionHandler.UpdateReflection)
		}

		// Set logging and skipping address the execution-exercise row, not the
		// session, so they live under their own group.
		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.POST("/:exerciseId/sets", sessionHandler.LogSet)
			exerciseGroup.POST("/:exerciseId/skip", sessionHandler.SkipExercise)
		}

		programmeGroup := protected.Group("/programmes")
		{
			programmeGroup.POST("", programmeHandler.CreateProgramme)
			programmeGroup.GET("", programmeHandler.ListProgrammes)
			programmeGroup.GET("/:id", programmeHandler.GetProgramme)
			programmeGroup.POST("/:id/activate", programmeHandler.ActivateProgramme)
			programmeGroup.PATCH("/:id/status", programmeHandler.UpdateProgrammeStatus)
			programmeGroup.DELETE("/:id", programmeHandler.DeleteProgramme)
			programmeGroup.GET("/:id/plan-url", programmeHandler.GetProgrammePlanURL)
		}
	}
}
