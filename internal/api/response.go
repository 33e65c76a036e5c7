package api

import (
	"errors"
	"net/http"

	"lifehub/training-core/internal/service"

	"github.com/gin-gonic/gin"
)

// abortWithError stops the request with a JSON error body.
func abortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// handleServiceError translates the service error taxonomy into HTTP status
// codes: validation 400, not-found 404, access-denied 403, illegal
// transitions and uniqueness conflicts 409, everything else (store errors)
// 500.
func handleServiceError(c *gin.Context, err error) {
	switch {
	case service.IsValidationError(err):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrTemplateNotFound),
		errors.Is(err, service.ErrScheduleEntryNotFound),
		errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrExerciseNotFound),
		errors.Is(err, service.ErrReflectionNotFound),
		errors.Is(err, service.ErrProgrammeNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrTemplateAccessDenied),
		errors.Is(err, service.ErrScheduleAccessDenied),
		errors.Is(err, service.ErrSessionAccessDenied),
		errors.Is(err, service.ErrExerciseAccessDenied),
		errors.Is(err, service.ErrReflectionAccessDenied),
		errors.Is(err, service.ErrProgrammeAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrTemplateArchived),
		errors.Is(err, service.ErrSessionNotInProgress),
		errors.Is(err, service.ErrSessionNotCompleted),
		errors.Is(err, service.ErrReflectionExists):
		abortWithError(c, http.StatusConflict, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "internal server error")
	}
}
