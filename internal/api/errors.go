package api

import (
	"alcyxob/workout-tracker/internal/app"
	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/draft"
	"alcyxob/workout-tracker/internal/gateway"
	"alcyxob/workout-tracker/internal/service"
	"alcyxob/workout-tracker/internal/storage"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// respondError maps domain, workflow and persistence errors to HTTP responses.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	var verr *domain.ValidationError
	var perr *gateway.PersistenceError
	switch {
	case errors.As(err, &verr):
		abortWithError(c, http.StatusBadRequest, verr.Error())
	case errors.Is(err, app.ErrUnknownView):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, app.ErrExerciseNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, app.ErrNoDraft),
		errors.Is(err, app.ErrSaveInProgress),
		errors.Is(err, draft.ErrInvalidTransition):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, storage.ErrDisabled):
		abortWithError(c, http.StatusNotImplemented, "History export is not configured")
	case errors.As(err, &perr):
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
			"error":    "Could not reach storage, your change was not saved",
			"op":       perr.Op,
			"orphaned": perr.Orphaned,
		})
	case errors.Is(err, service.ErrUserAlreadyExists):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrAuthenticationFailed),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrTokenRevoked):
		abortWithError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrUnknownProvider):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidOAuthState):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrProviderFailure):
		abortWithError(c, http.StatusBadGateway, "Sign-in with the identity provider failed")
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
