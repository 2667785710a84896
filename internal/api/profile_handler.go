package api

import (
	"alcyxob/workout-tracker/internal/domain"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct{}

func NewProfileHandler() *ProfileHandler {
	return &ProfileHandler{}
}

type UpdateProfileRequest struct {
	Name   string      `json:"name"`
	Weight float64     `json:"weight" binding:"gte=0"`
	Height float64     `json:"height" binding:"gte=0"`
	Goal   domain.Goal `json:"goal" binding:"required"`
}

// @Router /profile [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ctrl.Profile())
}

// UpdateProfile replaces the profile. A profile without a name is kept for
// this session only and is not stored.
// @Router /profile [put]
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	profile := domain.UserProfile{Name: req.Name, Weight: req.Weight, Height: req.Height, Goal: req.Goal}
	if err := ctrl.UpdateProfile(c.Request.Context(), profile); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctrl.Profile())
}
