package api

import (
	"net/http"
	"time"

	"lifehub/training-core/internal/domain"
	"lifehub/training-core/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TemplateHandler holds the template service dependency.
type TemplateHandler struct {
	templateService service.TemplateService
}

// NewTemplateHandler creates a new TemplateHandler.
func NewTemplateHandler(templateService service.TemplateService) *TemplateHandler {
	return &TemplateHandler{templateService: templateService}
}

// --- DTOs ---

// TemplateExerciseRequest is one exercise row of a template request.
type TemplateExerciseRequest struct {
	ExerciseName string   `json:"exerciseName" binding:"required"`
	SortOrder    int      `json:"sortOrder"`
	TargetSets   int      `json:"targetSets" binding:"required,min=1"`
	TargetReps   int      `json:"targetReps" binding:"required,min=1"`
	TargetLoadKg *float64 `json:"targetLoadKg,omitempty"`
	RestSeconds  *int     `json:"restSeconds,omitempty"`
	Notes        string   `json:"notes,omitempty"`
}

// TemplateRequest defines the expected JSON for creating or replacing a
// template.
type TemplateRequest struct {
	Name           string                    `json:"name" binding:"required"`
	TrainingIntent domain.TrainingIntent     `json:"trainingIntent" binding:"required"`
	Exercises      []TemplateExerciseRequest `json:"exercises" binding:"required,min=1,dive"`
}

// TemplateExerciseResponse is one exercise row of a template response.
type TemplateExerciseResponse struct {
	ExerciseName   string   `json:"exerciseName"`
	SortOrder      int      `json:"sortOrder"`
	TargetSets     int      `json:"targetSets"`
	TargetReps     int      `json:"targetReps"`
	TargetLoadKg   *float64 `json:"targetLoadKg,omitempty"`
	TargetRepRange string   `json:"targetRepRange,omitempty"`
	RestSeconds    *int     `json:"restSeconds,omitempty"`
	Notes          string   `json:"notes,omitempty"`
}

// TemplateResponse is the DTO for returning template details.
type TemplateResponse struct {
	ID             string                     `json:"id"`
	Name           string                     `json:"name"`
	TrainingIntent domain.TrainingIntent      `json:"trainingIntent"`
	IsArchived     bool                       `json:"isArchived"`
	Exercises      []TemplateExerciseResponse `json:"exercises"`
	ProgrammeID    string                     `json:"programmeId,omitempty"`
	CreatedAt      time.Time                  `json:"createdAt"`
	UpdatedAt      time.Time                  `json:"updatedAt"`
}

// MapTemplateToResponse converts a domain.WorkoutTemplate to its DTO.
func MapTemplateToResponse(t *domain.WorkoutTemplate) TemplateResponse {
	if t == nil {
		return TemplateResponse{}
	}
	exercises := make([]TemplateExerciseResponse, len(t.Exercises))
	for i, ex := range t.Exercises {
		exercises[i] = TemplateExerciseResponse{
			ExerciseName:   ex.ExerciseName,
			SortOrder:      ex.SortOrder,
			TargetSets:     ex.TargetSets,
			TargetReps:     ex.TargetReps,
			TargetLoadKg:   ex.TargetLoadKg,
			TargetRepRange: ex.TargetRepRange,
			RestSeconds:    ex.RestSeconds,
			Notes:          ex.Notes,
		}
	}
	resp := TemplateResponse{
		ID:             t.ID.Hex(),
		Name:           t.Name,
		TrainingIntent: t.TrainingIntent,
		IsArchived:     t.IsArchived,
		Exercises:      exercises,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
	if t.ProgrammeID != nil {
		resp.ProgrammeID = t.ProgrammeID.Hex()
	}
	return resp
}

func templateInputFromRequest(req TemplateRequest) service.TemplateInput {
	input := service.TemplateInput{
		Name:           req.Name,
		TrainingIntent: req.TrainingIntent,
	}
	for _, ex := range req.Exercises {
		input.Exercises = append(input.Exercises, service.TemplateExerciseInput{
			ExerciseName: ex.ExerciseName,
			SortOrder:    ex.SortOrder,
			TargetSets:   ex.TargetSets,
			TargetReps:   ex.TargetReps,
			TargetLoadKg: ex.TargetLoadKg,
			RestSeconds:  ex.RestSeconds,
			Notes:        ex.Notes,
		})
	}
	return input
}

// --- Handler Methods ---

// CreateTemplate godoc
// @Summary Create a workout template
// @Tags Templates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param template body TemplateRequest true "Template details"
// @Success 201 {object} TemplateResponse
// @Router /templates [post]
func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	var req TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	template, err := h.templateService.CreateTemplate(c.Request.Context(), userID, templateInputFromRequest(req))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapTemplateToResponse(template))
}

// GetTemplate returns one template.
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	userID, templateID, ok := userAndParamID(c, "id")
	if !ok {
		return
	}
	template, err := h.templateService.GetTemplate(c.Request.Context(), userID, templateID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapTemplateToResponse(template))
}

// ListTemplates returns the user's templates. Pass ?includeArchived=true to
// include archived ones.
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	includeArchived := c.Query("includeArchived") == "true"

	templates, err := h.templateService.ListTemplates(c.Request.Context(), userID, includeArchived)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	responses := make([]TemplateResponse, len(templates))
	for i := range templates {
		responses[i] = MapTemplateToResponse(&templates[i])
	}
	c.JSON(http.StatusOK, responses)
}

// UpdateTemplate fully replaces a template's definition.
func (h *TemplateHandler) UpdateTemplate(c *gin.Context) {
	userID, templateID, ok := userAndParamID(c, "id")
	if !ok {
		return
	}
	var req TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	template, err := h.templateService.UpdateTemplate(c.Request.Context(), userID, templateID, templateInputFromRequest(req))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapTemplateToResponse(template))
}

// ArchiveTemplate soft-deletes a template.
func (h *TemplateHandler) ArchiveTemplate(c *gin.Context) {
	userID, templateID, ok := userAndParamID(c, "id")
	if !ok {
		return
	}
	if err := h.templateService.ArchiveTemplate(c.Request.Context(), userID, templateID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// userAndParamID pulls the authenticated user id plus an ObjectID path
// parameter, aborting the request on failure.
func userAndParamID(c *gin.Context, param string) (primitive.ObjectID, primitive.ObjectID, bool) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	paramID, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid ID format")
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	return userID, paramID, true
}
