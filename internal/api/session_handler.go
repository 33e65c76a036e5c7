package api

import (
	"net/http"
	"time"

	"lifehub/training-core/internal/domain"
	"lifehub/training-core/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionHandler holds the session service dependency.
type SessionHandler struct {
	sessionService service.SessionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessionService service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// --- DTOs ---

// StartSessionRequest defines the expected JSON for starting a session.
// ScheduledWorkoutID is optional; without it the session starts free.
type StartSessionRequest struct {
	ScheduledWorkoutID string `json:"scheduledWorkoutId,omitempty"`
}

// LogSetRequest defines the expected JSON for logging a set.
type LogSetRequest struct {
	WeightKg float64 `json:"weightKg" binding:"min=0"`
	Reps     int     `json:"reps" binding:"required,min=1"`
	Notes    string  `json:"notes,omitempty"`
}

// AddExerciseRequest defines the expected JSON for a mid-session exercise.
type AddExerciseRequest struct {
	ExerciseName string `json:"exerciseName" binding:"required"`
}

// UpdateSessionStatusRequest defines the expected JSON for a transition.
type UpdateSessionStatusRequest struct {
	Status domain.SessionStatus `json:"status" binding:"required"`
}

// SessionResponse is the DTO for returning session details.
type SessionResponse struct {
	ID                 string               `json:"id"`
	ScheduledWorkoutID string               `json:"scheduledWorkoutId,omitempty"`
	TemplateID         string               `json:"templateId,omitempty"`
	Status             domain.SessionStatus `json:"status"`
	StartedAt          time.Time            `json:"startedAt"`
	EndedAt            *time.Time           `json:"endedAt,omitempty"`
	TotalDurationSec   *int64               `json:"totalDurationSec,omitempty"`
	TotalVolumeKg      *float64             `json:"totalVolumeKg,omitempty"`
}

// ExecutionExerciseResponse is the DTO for a session exercise.
type ExecutionExerciseResponse struct {
	ID           string `json:"id"`
	ExerciseName string `json:"exerciseName"`
	SortOrder    int    `json:"sortOrder"`
	WasSkipped   bool   `json:"wasSkipped"`
	IsAdditional bool   `json:"isAdditional"`
}

// ExecutionSetResponse is the DTO for a logged set.
type ExecutionSetResponse struct {
	ID             string  `json:"id"`
	SetNumber      int     `json:"setNumber"`
	ActualWeightKg float64 `json:"actualWeightKg"`
	ActualReps     int     `json:"actualReps"`
	Notes          string  `json:"notes,omitempty"`
}

// SessionDetailResponse bundles a session with exercises and sets.
type SessionDetailResponse struct {
	Session   SessionResponse                 `json:"session"`
	Exercises []SessionDetailExerciseResponse `json:"exercises"`
}

// SessionDetailExerciseResponse is one exercise with its sets.
type SessionDetailExerciseResponse struct {
	ExecutionExerciseResponse
	Sets []ExecutionSetResponse `json:"sets"`
}

// MapSessionToResponse converts a domain.GymSession to its DTO.
func MapSessionToResponse(s *domain.GymSession) SessionResponse {
	if s == nil {
		return SessionResponse{}
	}
	resp := SessionResponse{
		ID:               s.ID.Hex(),
		Status:           s.Status,
		StartedAt:        s.StartedAt,
		EndedAt:          s.EndedAt,
		TotalDurationSec: s.TotalDurationSec,
		TotalVolumeKg:    s.TotalVolumeKg,
	}
	if s.ScheduledWorkoutID != nil {
		resp.ScheduledWorkoutID = s.ScheduledWorkoutID.Hex()
	}
	if s.TemplateID != nil {
		resp.TemplateID = s.TemplateID.Hex()
	}
	return resp
}

func mapExecutionExerciseToResponse(ex *domain.ExecutionExercise) ExecutionExerciseResponse {
	return ExecutionExerciseResponse{
		ID:           ex.ID.Hex(),
		ExerciseName: ex.ExerciseName,
		SortOrder:    ex.SortOrder,
		WasSkipped:   ex.WasSkipped,
		IsAdditional: ex.IsAdditional,
	}
}

func mapExecutionSetToResponse(set *domain.ExecutionSet) ExecutionSetResponse {
	return ExecutionSetResponse{
		ID:             set.ID.Hex(),
		SetNumber:      set.SetNumber,
		ActualWeightKg: set.ActualWeightKg,
		ActualReps:     set.ActualReps,
		Notes:          set.Notes,
	}
}

// --- Handler Methods ---

// StartSession godoc
// @Summary Start a gym session
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param session body StartSessionRequest true "Optional scheduled origin"
// @Success 201 {object} SessionResponse
// @Router /sessions [post]
func (h *SessionHandler) StartSession(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	// The body is optional: an empty request starts a free session.
	var req StartSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
	}

	var scheduledID *primitive.ObjectID
	if req.ScheduledWorkoutID != "" {
		id, err := primitive.ObjectIDFromHex(req.ScheduledWorkoutID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid scheduled workout ID format")
			return
		}
		scheduledID = &id
	}

	session, err := h.sessionService.StartSession(c.Request.Context(), userID, scheduledID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapSessionToResponse(session))
}

// LogSet appends a set to an exercise.
func (h *SessionHandler) LogSet(c *gin.Context) {
	userID, exerciseID, ok := userAndParamID(c, "exerciseId")
	if !ok {
		return
	}
	var req LogSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	set, err := h.sessionService.LogSet(c.Request.Context(), userID, exerciseID, req.WeightKg, req.Reps, req.Notes)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapExecutionSetToResponse(set))
}

// AddExercise appends an ad-hoc exercise to a session.
func (h *SessionHandler) AddExercise(c *gin.Context) {
	userID, sessionID, ok := userAndParamID(c, "id")
	if !ok {
		return
	}
	var req AddExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	exercise, err := h.sessionService.AddExercise(c.Request.Context(), userID, sessionID, req.ExerciseName)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapExecutionExerciseToResponse(exercise))
}

// SkipExercise flags an exercise as skipped.
func (h *SessionHandler) SkipExercise(c *gin.Context) {
	userID, exerciseID, ok := userAndParamID(c, "exerciseId")
	if !ok {
		return
	}
	if err := h.sessionService.SkipExercise(c.Request.Context(), userID, exerciseID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UpdateSessionStatus applies a lifecycle transition.
func (h *SessionHandler) UpdateSessionStatus(c *gin.Context) {
	userID, sessionID, ok := userAndParamID(c, "id")
	if !ok {
		return
	}
	var req UpdateSessionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	session, err := h.sessionService.UpdateSessionStatus(c.Request.Context(), userID, sessionID, req.Status)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapSessionToResponse(session))
}

// GetSessionDetail returns the session with its exercises and sets.
func (h *SessionHandler) GetSessionDetail(c *gin.Context) {
	userID, sessionID, ok := userAndParamID(c, "id")
	if !ok {
		return
	}
	detail, err := h.sessionService.GetSessionDetail(c.Request.Context(), userID, sessionID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	resp := SessionDetailResponse{Session: MapSessionToResponse(&detail.Session)}
	for i := range detail.Exercises {
		ex := SessionDetailExerciseResponse{
			ExecutionExerciseResponse: mapExecutionExerciseToResponse(&detail.Exercises[i].Exercise),
		}
		for j := range detail.Exercises[i].Sets {
			ex.Sets = append(ex.Sets, mapExecutionSetToResponse(&detail.Exercises[i].Sets[j]))
		}
		resp.Exercises = append(resp.Exercises, ex)
	}
	c.JSON(http.StatusOK, resp)
}

// ListSessions returns the user's sessions, newest first.
func (h *SessionHandler) ListSessions(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	sessions, err := h.sessionService.ListSessions(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	responses := make([]SessionResponse, len(sessions))
	for i := range sessions {
		responses[i] = MapSessionToResponse(&sessions[i])
	}
	c.JSON(http.StatusOK, responses)
}
