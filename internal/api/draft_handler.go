package api

import (
	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/draft"
	"net/http"

	"github.com/gin-gonic/gin"
)

// DraftHandler drives the single in-progress logging flow of an identity.
type DraftHandler struct{}

func NewDraftHandler() *DraftHandler {
	return &DraftHandler{}
}

type StartDraftRequest struct {
	MuscleGroup domain.MuscleGroup `json:"muscleGroup"`
	ExerciseID  string             `json:"exerciseId"`
}

type SelectExerciseRequest struct {
	ExerciseID string `json:"exerciseId" binding:"required"`
}

// UpdateSetRequest changes one field. Value is a number for reps and weight
// and a boolean for completed.
type UpdateSetRequest struct {
	Field draft.SetField `json:"field" binding:"required,oneof=reps weight completed"`
	Value any            `json:"value"`
}

// GetDraft returns the draft, or 404 when nothing is being logged.
// @Router /draft [get]
func (h *DraftHandler) GetDraft(c *gin.Context) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	d := ctrl.Draft()
	if d == nil {
		abortWithError(c, http.StatusNotFound, "No workout is being logged")
		return
	}
	c.JSON(http.StatusOK, d)
}

// StartDraft opens a new draft and switches to the logger.
// @Router /draft [post]
func (h *DraftHandler) StartDraft(c *gin.Context) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	var req StartDraftRequest
	// An empty body starts an unscoped draft.
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
			return
		}
	}
	if err := ctrl.StartLogging(req.MuscleGroup, req.ExerciseID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ctrl.Draft())
}

// CancelDraft discards the draft and returns home.
// @Router /draft [delete]
func (h *DraftHandler) CancelDraft(c *gin.Context) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	if err := ctrl.Cancel(); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Router /draft/exercise [post]
func (h *DraftHandler) SelectExercise(c *gin.Context) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	var req SelectExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	if err := ctrl.SelectExercise(req.ExerciseID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctrl.Draft())
}

// CreateExercise mints an exercise, adds it to the catalog and selects it.
// @Router /draft/exercise/new [post]
func (h *DraftHandler) CreateExercise(c *gin.Context) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	var req CreateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	if _, err := ctrl.CreateExercise(c.Request.Context(), req.Name, req.MuscleGroup, req.Equipment); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ctrl.Draft())
}

// @Router /draft/sets [post]
func (h *DraftHandler) AddSet(c *gin.Context) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	set, err := ctrl.AddSet()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, set)
}

// @Router /draft/sets/{setId} [patch]
func (h *DraftHandler) UpdateSet(c *gin.Context) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	var req UpdateSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	if err := ctrl.UpdateSet(c.Param("setId"), req.Field, req.Value); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctrl.Draft())
}

// @Router /draft/sets/{setId} [delete]
func (h *DraftHandler) RemoveSet(c *gin.Context) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	if err := ctrl.RemoveSet(c.Param("setId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctrl.Draft())
}

// Finish finalizes and saves the draft. Repeating it after a failed save retries.
// @Router /draft/finish [post]
func (h *DraftHandler) Finish(c *gin.Context) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	result, err := ctrl.Finish(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	status := http.StatusCreated
	if result.Session == nil {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{
		"session":       result.Session,
		"discardedSets": result.Discarded,
		"view":          ctrl.Snapshot().View,
	})
}
