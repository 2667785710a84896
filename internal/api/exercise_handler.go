package api

import (
	"alcyxob/workout-tracker/internal/domain"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ExerciseHandler serves the exercise catalog.
type ExerciseHandler struct{}

func NewExerciseHandler() *ExerciseHandler {
	return &ExerciseHandler{}
}

// CreateExerciseRequest defines the expected JSON for creating an exercise.
// An empty muscleGroup is only accepted while a draft provides one.
type CreateExerciseRequest struct {
	Name        string             `json:"name" binding:"required"`
	MuscleGroup domain.MuscleGroup `json:"muscleGroup"`
	Equipment   string             `json:"equipment"`
}

// ListExercises returns the catalog, optionally filtered with ?muscle=.
// @Router /exercises [get]
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	muscle := domain.MuscleGroup(c.Query("muscle"))
	if muscle != "" && !domain.IsValidMuscleGroup(muscle) {
		abortWithError(c, http.StatusBadRequest, "Unknown muscle group")
		return
	}
	c.JSON(http.StatusOK, ctrl.Exercises(muscle))
}

// CreateExercise adds an exercise to the catalog.
// @Router /exercises [post]
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	var req CreateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	ex, err := ctrl.AddExercise(c.Request.Context(), req.Name, req.MuscleGroup, req.Equipment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ex)
}

// ListMuscleGroups returns the muscle groups in display order.
// @Router /muscle-groups [get]
func (h *ExerciseHandler) ListMuscleGroups(c *gin.Context) {
	c.JSON(http.StatusOK, domain.MuscleGroups)
}
