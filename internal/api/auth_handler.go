package api

import (
	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/service"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// --- Request/Response Structs ---

type CredentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserResponse excludes sensitive info like password hash
type UserResponse struct {
	ID        string          `json:"id"`
	Email     string          `json:"email"`
	Provider  domain.Provider `json:"provider"`
	CreatedAt time.Time       `json:"createdAt"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// --- Handler Methods ---

// SignUp registers a password account and returns a token for it.
// @Router /auth/signup [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	token, user, err := h.authService.SignUp(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, LoginResponse{Token: token, User: MapUserToResponse(user)})
}

// Login godoc
// @Summary Log in a user
// @Description Authenticates a user and returns a JWT token.
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	token, user, err := h.authService.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{Token: token, User: MapUserToResponse(user)})
}

// OAuthStart redirects to the provider's consent page.
// @Router /auth/oauth/{provider} [get]
func (h *AuthHandler) OAuthStart(c *gin.Context) {
	redirectURL, err := h.authService.FederatedSignIn(c.Param("provider"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Redirect(http.StatusFound, redirectURL)
}

// OAuthCallback receives the provider redirect and returns a token.
// @Router /auth/oauth/{provider}/callback [get]
func (h *AuthHandler) OAuthCallback(c *gin.Context) {
	if reason := c.Query("error"); reason != "" {
		abortWithError(c, http.StatusUnauthorized, "Sign-in was cancelled: "+reason)
		return
	}

	token, user, err := h.authService.FederatedCallback(c.Request.Context(), c.Param("provider"), c.Query("state"), c.Query("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{Token: token, User: MapUserToResponse(user)})
}

// Logout revokes the presented token.
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	tokenString, ok := bearerToken(c)
	if !ok {
		return
	}
	if err := h.authService.SignOut(c.Request.Context(), tokenString); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Me returns the identity carried by the token.
// @Router /me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	identity, err := getIdentityFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get identity from token")
		return
	}
	c.JSON(http.StatusOK, identity)
}

// MapUserToResponse converts a domain User to a UserResponse DTO.
func MapUserToResponse(user *domain.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Provider:  user.Provider,
		CreatedAt: user.CreatedAt,
	}
}
