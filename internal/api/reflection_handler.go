package api

import (
	"net/http"
	"time"

	"lifehub/training-core/internal/domain"
	"lifehub/training-core/internal/service"

	"github.com/gin-gonic/gin"
)

// ReflectionHandler holds the reflection service dependency.
type ReflectionHandler struct {
	reflectionService service.ReflectionService
}

// NewReflectionHandler creates a new ReflectionHandler.
func NewReflectionHandler(reflectionService service.ReflectionService) *ReflectionHandler {
	return &ReflectionHandler{reflectionService: reflectionService}
}

// CreateReflectionRequest defines the expected JSON for a new reflection.
type CreateReflectionRequest struct {
	SessionRating  domain.SessionRating `json:"sessionRating" binding:"required"`
	ReflectionNote string               `json:"reflectionNote,omitempty"`
}

// UpdateReflectionRequest patches the qualitative fields only. Omitted
// fields keep their stored values.
type UpdateReflectionRequest struct {
	SessionRating  *domain.SessionRating `json:"sessionRating,omitempty"`
	ReflectionNote *string               `json:"reflectionNote,omitempty"`
}

// ReflectionResponse is the DTO for returning reflection details.
type ReflectionResponse struct {
	ID               string               `json:"id"`
	GymSessionID     string               `json:"gymSessionId"`
	PlannedVolumeKg  *float64             `json:"plannedVolumeKg,omitempty"`
	ExecutedVolumeKg float64              `json:"executedVolumeKg"`
	VolumeDeltaPct   *float64             `json:"volumeDeltaPct,omitempty"`
	SessionRating    domain.SessionRating `json:"sessionRating"`
	ReflectionNote   string               `json:"reflectionNote,omitempty"`
	CreatedAt        time.Time            `json:"createdAt"`
}

// MapReflectionToResponse converts a domain.WorkoutReflection to its DTO.
func MapReflectionToResponse(r *domain.WorkoutReflection) ReflectionResponse {
	if r == nil {
		return ReflectionResponse{}
	}
	return ReflectionResponse{
		ID:               r.ID.Hex(),
		GymSessionID:     r.GymSessionID.Hex(),
		PlannedVolumeKg:  r.PlannedVolumeKg,
		ExecutedVolumeKg: r.ExecutedVolumeKg,
		VolumeDeltaPct:   r.VolumeDeltaPct,
		SessionRating:    r.SessionRating,
		ReflectionNote:   r.ReflectionNote,
		CreatedAt:        r.CreatedAt,
	}
}

// CreateReflection records the post-session review for a completed session.
func (h *ReflectionHandler) CreateReflection(c *gin.Context) {
	userID, sessionID, ok := userAndParamID(c, "id")
	if !ok {
		return
	}
	var req CreateReflectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	reflection, err := h.reflectionService.CreateReflection(c.Request.Context(), userID, sessionID, req.SessionRating, req.ReflectionNote)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapReflectionToResponse(reflection))
}

// UpdateReflection amends the rating and/or note of an existing reflection.
func (h *ReflectionHandler) UpdateReflection(c *gin.Context) {
	userID, sessionID, ok := userAndParamID(c, "id")
	if !ok {
		return
	}
	var req UpdateReflectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	reflection, err := h.reflectionService.UpdateReflection(c.Request.Context(), userID, sessionID, req.SessionRating, req.ReflectionNote)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapReflectionToResponse(reflection))
}

// GetReflection returns the reflection attached to a session.
func (h *ReflectionHandler) GetReflection(c *gin.Context) {
	userID, sessionID, ok := userAndParamID(c, "id")
	if !ok {
		return
	}
	reflection, err := h.reflectionService.GetReflection(c.Request.Context(), userID, sessionID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapReflectionToResponse(reflection))
}
