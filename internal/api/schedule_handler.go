package api

import (
	"net/http"
	"time"

	"lifehub/training-core/internal/domain"
	"lifehub/training-core/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const dateLayout = "2006-01-02"

// ScheduleHandler holds the schedule service dependency.
type ScheduleHandler struct {
	scheduleService service.ScheduleService
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(scheduleService service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

// --- DTOs ---

// ScheduleWorkoutRequest defines the expected JSON for scheduling a workout.
type ScheduleWorkoutRequest struct {
	TemplateID string `json:"templateId" binding:"required"`
	Date       string `json:"date" binding:"required"` // YYYY-MM-DD
}

// RescheduleRequest defines the expected JSON for rescheduling.
type RescheduleRequest struct {
	NewDate string `json:"newDate" binding:"required"` // YYYY-MM-DD
}

// ScheduledWorkoutResponse is the DTO for returning a schedule entry.
type ScheduledWorkoutResponse struct {
	ID                string                `json:"id"`
	TemplateID        string                `json:"templateId"`
	ScheduledDate     string                `json:"scheduledDate"`
	Status            domain.ScheduleStatus `json:"status"`
	RescheduledTo     string                `json:"rescheduledTo,omitempty"`
	RescheduledFromID string                `json:"rescheduledFromId,omitempty"`
	ProgrammeID       string                `json:"programmeId,omitempty"`
}

// MapScheduledWorkoutToResponse converts a domain.ScheduledWorkout to its DTO.
func MapScheduledWorkoutToResponse(entry *domain.ScheduledWorkout) ScheduledWorkoutResponse {
	if entry == nil {
		return ScheduledWorkoutResponse{}
	}
	resp := ScheduledWorkoutResponse{
		ID:            entry.ID.Hex(),
		TemplateID:    entry.TemplateID.Hex(),
		ScheduledDate: entry.ScheduledDate.Format(dateLayout),
		Status:        entry.Status,
	}
	if entry.RescheduledTo != nil {
		resp.RescheduledTo = entry.RescheduledTo.Format(dateLayout)
	}
	if entry.RescheduledFromID != nil {
		resp.RescheduledFromID = entry.RescheduledFromID.Hex()
	}
	if entry.ProgrammeID != nil {
		resp.ProgrammeID = entry.ProgrammeID.Hex()
	}
	return resp
}

// --- Handler Methods ---

// ScheduleWorkout places a template on a date.
func (h *ScheduleHandler) ScheduleWorkout(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	var req ScheduleWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	templateID, err := primitive.ObjectIDFromHex(req.TemplateID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid template ID format")
		return
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}

	entry, err := h.scheduleService.ScheduleWorkout(c.Request.Context(), userID, templateID, date)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapScheduledWorkoutToResponse(entry))
}

// RescheduleWorkout moves an entry to a new date via the reschedule chain.
func (h *ScheduleHandler) RescheduleWorkout(c *gin.Context) {
	userID, entryID, ok := userAndParamID(c, "id")
	if !ok {
		return
	}
	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	newDate, err := time.Parse(dateLayout, req.NewDate)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}

	replacement, err := h.scheduleService.RescheduleWorkout(c.Request.Context(), userID, entryID, newDate)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapScheduledWorkoutToResponse(replacement))
}

// ListScheduledWorkouts returns entries within ?from=...&to=... (YYYY-MM-DD).
func (h *ScheduleHandler) ListScheduledWorkouts(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	from, err := time.Parse(dateLayout, c.Query("from"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid 'from' date, expected YYYY-MM-DD")
		return
	}
	to, err := time.Parse(dateLayout, c.Query("to"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid 'to' date, expected YYYY-MM-DD")
		return
	}

	entries, err := h.scheduleService.ListScheduledWorkouts(c.Request.Context(), userID, from, to)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	responses := make([]ScheduledWorkoutResponse, len(entries))
	for i := range entries {
		responses[i] = MapScheduledWorkoutToResponse(&entries[i])
	}
	c.JSON(http.StatusOK, responses)
}

// CancelScheduledWorkout deletes an entry that has not been trained yet.
func (h *ScheduleHandler) CancelScheduledWorkout(c *gin.Context) {
	userID, entryID, ok := userAndParamID(c, "id")
	if !ok {
		return
	}
	if err := h.scheduleService.CancelScheduledWorkout(c.Request.Context(), userID, entryID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
