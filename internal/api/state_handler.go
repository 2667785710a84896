package api

import (
	"alcyxob/workout-tracker/internal/app"
	"alcyxob/workout-tracker/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// StateHandler serves navigation and the read-only history views.
type StateHandler struct {
	exportService service.ExportService
}

func NewStateHandler(exportService service.ExportService) *StateHandler {
	return &StateHandler{exportService: exportService}
}

type NavigateRequest struct {
	View app.View `json:"view" binding:"required"`
}

// @Router /state [get]
func (h *StateHandler) GetState(c *gin.Context) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ctrl.Snapshot())
}

// @Router /navigate [post]
func (h *StateHandler) Navigate(c *gin.Context) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	var req NavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	if err := ctrl.Navigate(req.View); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctrl.Snapshot())
}

// @Router /home [get]
func (h *StateHandler) Home(c *gin.Context) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ctrl.Home())
}

// @Router /history [get]
func (h *StateHandler) History(c *gin.Context) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ctrl.History())
}

// @Router /stats [get]
func (h *StateHandler) Stats(c *gin.Context) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ctrl.Stats())
}

// ExportHistory uploads the confirmed history and returns a download link.
// @Router /history/export [post]
func (h *StateHandler) ExportHistory(c *gin.Context) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	sessions, catalog := ctrl.ConfirmedHistory()
	export, err := h.exportService.ExportHistory(c.Request.Context(), ctrl.UserID(), sessions, catalog)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, export)
}
