package api

import (
	"net/http"
	"time"

	"lifehub/training-core/internal/domain"
	"lifehub/training-core/internal/service"

	"github.com/gin-gonic/gin"
)

// ProgrammeHandler holds the programme service dependency.
type ProgrammeHandler struct {
	programmeService service.ProgrammeService
}

// NewProgrammeHandler creates a new ProgrammeHandler.
func NewProgrammeHandler(programmeService service.ProgrammeService) *ProgrammeHandler {
	return &ProgrammeHandler{programmeService: programmeService}
}

// CreateProgrammeRequest carries the questionnaire that drove the external
// generation plus the plan document it produced.
type CreateProgrammeRequest struct {
	Questionnaire map[string]any        `json:"questionnaire,omitempty"`
	Plan          *domain.GeneratedPlan `json:"plan" binding:"required"`
}

// ActivateProgrammeRequest defines the expected JSON for activation.
type ActivateProgrammeRequest struct {
	StartDate string `json:"startDate" binding:"required"` // YYYY-MM-DD
}

// UpdateProgrammeStatusRequest defines the expected JSON for a transition.
type UpdateProgrammeStatusRequest struct {
	Status domain.ProgrammeStatus `json:"status" binding:"required"`
}

// ProgrammeWorkoutResponse is the DTO for one planned training day.
type ProgrammeWorkoutResponse struct {
	WeekNumber     int                        `json:"weekNumber"`
	DayNumber      int                        `json:"dayNumber"`
	WorkoutName    string                     `json:"workoutName"`
	TrainingIntent domain.TrainingIntent      `json:"trainingIntent"`
	Exercises      []domain.ProgrammeExercise `json:"exercises"`
	Notes          string                     `json:"notes,omitempty"`
}

// ProgrammeResponse is the DTO for returning programme details.
type ProgrammeResponse struct {
	ID            string                     `json:"id"`
	Name          string                     `json:"name"`
	Goal          string                     `json:"goal,omitempty"`
	DurationWeeks int                        `json:"durationWeeks"`
	DaysPerWeek   int                        `json:"daysPerWeek"`
	Status        domain.ProgrammeStatus     `json:"status"`
	Workouts      []ProgrammeWorkoutResponse `json:"workouts"`
	ActivatedAt   *time.Time                 `json:"activatedAt,omitempty"`
	CompletedAt   *time.Time                 `json:"completedAt,omitempty"`
	CreatedAt     time.Time                  `json:"createdAt"`
}

// ActivationResponse reports what an activation materialized.
type ActivationResponse struct {
	Programme ProgrammeResponse          `json:"programme"`
	Templates []TemplateResponse         `json:"templates"`
	Scheduled []ScheduledWorkoutResponse `json:"scheduled"`
}

// PlanURLResponse wraps a presigned download link.
type PlanURLResponse struct {
	URL string `json:"url"`
}

// MapProgrammeToResponse converts a domain.TrainingProgramme to its DTO.
func MapProgrammeToResponse(p *domain.TrainingProgramme) ProgrammeResponse {
	if p == nil {
		return ProgrammeResponse{}
	}
	resp := ProgrammeResponse{
		ID:            p.ID.Hex(),
		Name:          p.Name,
		Goal:          p.Goal,
		DurationWeeks: p.DurationWeeks,
		DaysPerWeek:   p.DaysPerWeek,
		Status:        p.Status,
		ActivatedAt:   p.ActivatedAt,
		CompletedAt:   p.CompletedAt,
		CreatedAt:     p.CreatedAt,
	}
	for _, w := range p.Workouts {
		resp.Workouts = append(resp.Workouts, ProgrammeWorkoutResponse{
			WeekNumber:     w.WeekNumber,
			DayNumber:      w.DayNumber,
			WorkoutName:    w.WorkoutName,
			TrainingIntent: w.TrainingIntent,
			Exercises:      w.Exercises,
			Notes:          w.Notes,
		})
	}
	return resp
}

// CreateProgramme stores an externally generated plan as a draft programme.
func (h *ProgrammeHandler) CreateProgramme(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	var req CreateProgrammeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	programme, err := h.programmeService.CreateProgramme(c.Request.Context(), userID, req.Questionnaire, req.Plan)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapProgrammeToResponse(programme))
}

// ActivateProgramme materializes a draft programme into templates and
// schedule entries anchored at the given start date.
func (h *ProgrammeHandler) ActivateProgramme(c *gin.Context) {
	userID, programmeID, ok := userAndParamID(c, "id")
	if !ok {
		return
	}
	var req ActivateProgrammeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid start date format, expected YYYY-MM-DD")
		return
	}

	result, err := h.programmeService.ActivateProgramme(c.Request.Context(), userID, programmeID, startDate)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	resp := ActivationResponse{Programme: MapProgrammeToResponse(result.Programme)}
	for i := range result.Templates {
		resp.Templates = append(resp.Templates, MapTemplateToResponse(&result.Templates[i]))
	}
	for i := range result.Scheduled {
		resp.Scheduled = append(resp.Scheduled, MapScheduledWorkoutToResponse(&result.Scheduled[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateProgrammeStatus applies a lifecycle transition.
func (h *ProgrammeHandler) UpdateProgrammeStatus(c *gin.Context) {
	userID, programmeID, ok := userAndParamID(c, "id")
	if !ok {
		return
	}
	var req UpdateProgrammeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	programme, err := h.programmeService.UpdateProgrammeStatus(c.Request.Context(), userID, programmeID, req.Status)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapProgrammeToResponse(programme))
}

// DeleteProgramme removes a programme record. Materialized templates and
// schedule entries are left in place.
func (h *ProgrammeHandler) DeleteProgramme(c *gin.Context) {
	userID, programmeID, ok := userAndParamID(c, "id")
	if !ok {
		return
	}
	if err := h.programmeService.DeleteProgramme(c.Request.Context(), userID, programmeID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetProgramme returns a single programme.
func (h *ProgrammeHandler) GetProgramme(c *gin.Context) {
	userID, programmeID, ok := userAndParamID(c, "id")
	if !ok {
		return
	}
	programme, err := h.programmeService.GetProgramme(c.Request.Context(), userID, programmeID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapProgrammeToResponse(programme))
}

// ListProgrammes returns the user's programmes.
func (h *ProgrammeHandler) ListProgrammes(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	programmes, err := h.programmeService.ListProgrammes(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	responses := make([]ProgrammeResponse, len(programmes))
	for i := range programmes {
		responses[i] = MapProgrammeToResponse(&programmes[i])
	}
	c.JSON(http.StatusOK, responses)
}

// GetProgrammePlanURL returns a presigned link to the archived raw plan.
func (h *ProgrammeHandler) GetProgrammePlanURL(c *gin.Context) {
	userID, programmeID, ok := userAndParamID(c, "id")
	if !ok {
		return
	}
	url, err := h.programmeService.GetProgrammePlanURL(c.Request.Context(), userID, programmeID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, PlanURLResponse{URL: url})
}
