package api

import (
	"alcyxob/workout-tracker/internal/app"
	"alcyxob/workout-tracker/internal/metrics"
	"alcyxob/workout-tracker/internal/service"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

// Constants for context keys
const (
	ContextUserIDKey     = "userID"
	ContextIdentityKey   = "identity"
	ContextTokenKey      = "token"
	ContextControllerKey = "controller"
)

// AuthMiddleware creates a Gin middleware for JWT authentication.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			return
		}

		identity, err := authService.ValidateToken(tokenString)
		if err != nil {
			if errors.Is(err, service.ErrTokenRevoked) {
				abortWithError(c, http.StatusUnauthorized, "Token has been revoked")
			} else {
				abortWithError(c, http.StatusUnauthorized, "Invalid or expired token")
			}
			return
		}
		if identity.UserID == "" {
			abortWithError(c, http.StatusUnauthorized, "Invalid token or missing claims")
			return
		}

		c.Set(ContextUserIDKey, identity.UserID)
		c.Set(ContextIdentityKey, identity)
		c.Set(ContextTokenKey, tokenString)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		abortWithError(c, http.StatusUnauthorized, "Authorization header is missing")
		return "", false
	}
	// Expecting "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		abortWithError(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
		return "", false
	}
	return parts[1], true
}

// ControllerMiddleware attaches the identity's application controller.
// Must run AFTER AuthMiddleware.
func ControllerMiddleware(registry *app.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := getUserIDFromContext(c)
		if err != nil {
			abortWithError(c, http.StatusInternalServerError, "User ID not found in context")
			return
		}
		ctrl, err := registry.Get(c.Request.Context(), userID)
		if err != nil {
			abortWithError(c, http.StatusServiceUnavailable, "Workout state is still loading, try again")
			return
		}
		c.Set(ContextControllerKey, ctrl)
		c.Next()
	}
}

// RequestLogger logs every request through logrus.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.WithFields(log.Fields{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
			"clientIP": c.ClientIP(),
		})
		if userID, ok := c.Get(ContextUserIDKey); ok {
			entry = entry.WithField("userId", userID)
		}
		if len(c.Errors) > 0 {
			entry.Warn(c.Errors.String())
			return
		}
		entry.Debug("Request served")
	}
}

// RequestMetrics records request counts and durations.
func RequestMetrics(m *metrics.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func(begin time.Time) {
			m.HistRequestDuration.Observe(time.Since(begin).Seconds())
		}(time.Now())

		c.Next()

		m.CounterRequests.With(prometheus.Labels{
			"method": c.Request.Method,
			"status": strconv.Itoa(c.Writer.Status()),
		}).Inc()
	}
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// Helper function to get User ID from context (used by handlers)
func getUserIDFromContext(c *gin.Context) (string, error) {
	idRaw, exists := c.Get(ContextUserIDKey)
	if !exists {
		return "", errors.New("user ID not found in context")
	}
	idStr, ok := idRaw.(string)
	if !ok {
		return "", errors.New("invalid user ID type in context")
	}
	return idStr, nil
}

func getIdentityFromContext(c *gin.Context) (*service.Identity, error) {
	raw, exists := c.Get(ContextIdentityKey)
	if !exists {
		return nil, errors.New("identity not found in context")
	}
	identity, ok := raw.(*service.Identity)
	if !ok {
		return nil, errors.New("invalid identity type in context")
	}
	return identity, nil
}

// controllerFrom returns the controller set by ControllerMiddleware, aborting
// the request when it is missing.
func controllerFrom(c *gin.Context) (*app.Controller, bool) {
	raw, exists := c.Get(ContextControllerKey)
	if !exists {
		abortWithError(c, http.StatusInternalServerError, "Controller not found in context")
		return nil, false
	}
	ctrl, ok := raw.(*app.Controller)
	if !ok {
		abortWithError(c, http.StatusInternalServerError, "Invalid controller type in context")
		return nil, false
	}
	return ctrl, true
}
