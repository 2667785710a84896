package service

import (
	"alcyxob/workout-tracker/internal/config"
	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

// --- Error Definitions ---
var (
	ErrUserAlreadyExists    = errors.New("user with this email already exists")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid email or password")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrTokenRevoked         = errors.New("token has been revoked")
	ErrUnknownProvider      = errors.New("unknown identity provider")
	ErrInvalidOAuthState    = errors.New("invalid or expired oauth state")
	ErrProviderFailure      = errors.New("identity provider request failed")
)

const (
	minPasswordLength = 6
	oauthStateTTL     = 10 * time.Minute
	tokenIssuer       = "workout-tracker"
)

// AuthEventKind distinguishes identity change notifications.
type AuthEventKind int

const (
	EventSignedIn AuthEventKind = iota
	EventSignedOut
)

// AuthEvent is published whenever an identity signs in or out.
type AuthEvent struct {
	Kind   AuthEventKind
	UserID string
}

// Identity is the authenticated principal carried by a valid token.
type Identity struct {
	UserID   string          `json:"userId"`
	Email    string          `json:"email"`
	Provider domain.Provider `json:"provider"`
	TokenID  string          `json:"-"`
	Expires  time.Time       `json:"expiresAt"`
}

// OAuthProvider is a federated identity provider reachable over OAuth2.
type OAuthProvider struct {
	Name        domain.Provider
	Config      *oauth2.Config
	UserInfoURL string
}

// GoogleProvider builds the Google provider, or returns nil when it is not configured.
func GoogleProvider(cfg config.OAuthProviderConfig) *OAuthProvider {
	if cfg.ClientID == "" {
		return nil
	}
	return &OAuthProvider{
		Name: domain.ProviderGoogle,
		Config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "email"},
			Endpoint:     endpoints.Google,
		},
		UserInfoURL: cfg.UserInfoURL,
	}
}

type AuthService interface {
	SignUp(ctx context.Context, email, password string) (token string, user *domain.User, err error)
	SignIn(ctx context.Context, email, password string) (token string, user *domain.User, err error)
	// FederatedSignIn returns the provider URL the caller must be redirected to.
	FederatedSignIn(provider string) (redirectURL string, err error)
	FederatedCallback(ctx context.Context, provider, state, code string) (token string, user *domain.User, err error)
	SignOut(ctx context.Context, token string) error
	ValidateToken(token string) (*Identity, error)
	// Subscribe registers fn for every later sign-in and sign-out.
	Subscribe(fn func(AuthEvent))
}

// authService implements the AuthService interface.
type authService struct {
	userRepo      repository.UserRepository
	jwtSecret     string
	jwtExpiration time.Duration
	providers     map[string]*OAuthProvider
	now           func() time.Time

	mu          sync.Mutex
	states      map[string]pendingState
	revoked     map[string]time.Time // jti -> token expiry
	subscribers []func(AuthEvent)
}

type pendingState struct {
	provider string
	expires  time.Time
}

// NewAuthService creates a new instance of authService. Nil providers are skipped.
func NewAuthService(userRepo repository.UserRepository, jwtSecret string, jwtExpiration time.Duration, providers ...*OAuthProvider) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty")
	}
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour
	}
	byName := make(map[string]*OAuthProvider, len(providers))
	for _, p := range providers {
		if p != nil {
			byName[string(p.Name)] = p
		}
	}
	return &authService{
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
		providers:     byName,
		now:           time.Now,
		states:        make(map[string]pendingState),
		revoked:       make(map[string]time.Time),
	}
}

// SignUp registers a password account and signs it in.
func (s *authService) SignUp(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !strings.Contains(email, "@") {
		return "", nil, domain.NewValidationError("email", "a valid email is required")
	}
	if len(password) < minPasswordLength {
		return "", nil, domain.NewValidationError("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}

	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return "", nil, ErrUserAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return "", nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, ErrHashingFailed
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hashedPassword),
		Provider:     domain.ProviderPassword,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// Lost a race against another sign-up for the same email.
		if errors.Is(err, repository.ErrDuplicate) {
			return "", nil, ErrUserAlreadyExists
		}
		return "", nil, err
	}

	return s.establish(user)
}

// SignIn authenticates a password account.
func (s *authService) SignIn(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.NewValidationError("credentials", "email and password cannot be empty")
	}

	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrAuthenticationFailed
		}
		return "", nil, err
	}
	// Federated accounts have no hash and can never match.
	if user.PasswordHash == "" {
		return "", nil, ErrAuthenticationFailed
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrAuthenticationFailed
	}

	return s.establish(user)
}

func (s *authService) FederatedSignIn(provider string) (string, error) {
	p, ok := s.providers[provider]
	if !ok {
		return "", ErrUnknownProvider
	}

	state, err := randomState()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.pruneLocked()
	s.states[state] = pendingState{provider: provider, expires: s.now().Add(oauthStateTTL)}
	s.mu.Unlock()

	return p.Config.AuthCodeURL(state), nil
}

// userInfo is the subset of the OpenID Connect userinfo response we use.
type userInfo struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
}

// FederatedCallback completes the provider round trip. The state is single use.
func (s *authService) FederatedCallback(ctx context.Context, provider, state, code string) (string, *domain.User, error) {
	p, ok := s.providers[provider]
	if !ok {
		return "", nil, ErrUnknownProvider
	}

	s.mu.Lock()
	pending, found := s.states[state]
	delete(s.states, state)
	s.mu.Unlock()
	if !found || pending.provider != provider || s.now().After(pending.expires) {
		return "", nil, ErrInvalidOAuthState
	}
	if code == "" {
		return "", nil, domain.NewValidationError("code", "authorization code is missing")
	}

	tok, err := p.Config.Exchange(ctx, code)
	if err != nil {
		log.WithError(err).WithField("provider", provider).Warn("OAuth code exchange failed")
		return "", nil, fmt.Errorf("%w: %v", ErrProviderFailure, err)
	}

	info, err := fetchUserInfo(ctx, p.Config.Client(ctx, tok), p.UserInfoURL)
	if err != nil {
		log.WithError(err).WithField("provider", provider).Warn("OAuth userinfo request failed")
		return "", nil, fmt.Errorf("%w: %v", ErrProviderFailure, err)
	}
	if info.Email == "" {
		return "", nil, fmt.Errorf("%w: provider returned no email", ErrProviderFailure)
	}

	user, err := s.userRepo.GetByEmail(ctx, info.Email)
	if errors.Is(err, repository.ErrNotFound) {
		user = &domain.User{
			ID:        uuid.NewString(),
			Email:     strings.ToLower(info.Email),
			Provider:  p.Name,
			CreatedAt: s.now().UTC(),
		}
		err = s.userRepo.Create(ctx, user)
	}
	if err != nil {
		return "", nil, err
	}

	return s.establish(user)
}

func fetchUserInfo(ctx context.Context, client *http.Client, url string) (*userInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo returned status %d", resp.StatusCode)
	}
	var info userInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	return &info, nil
}

// SignOut revokes the token. Signing out with an already revoked token is a no-op.
func (s *authService) SignOut(_ context.Context, token string) error {
	identity, err := s.ValidateToken(token)
	if errors.Is(err, ErrTokenRevoked) {
		return nil
	}
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.pruneLocked()
	s.revoked[identity.TokenID] = identity.Expires
	s.mu.Unlock()

	s.publish(AuthEvent{Kind: EventSignedOut, UserID: identity.UserID})
	return nil
}

// ValidateToken checks signature, expiry and revocation.
func (s *authService) ValidateToken(tokenString string) (*Identity, error) {
	claims := &jwtClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	s.mu.Lock()
	_, revoked := s.revoked[claims.ID]
	s.mu.Unlock()
	if revoked {
		return nil, ErrTokenRevoked
	}

	identity := &Identity{
		UserID:   claims.Subject,
		Email:    claims.Email,
		Provider: claims.Provider,
		TokenID:  claims.ID,
	}
	if claims.ExpiresAt != nil {
		identity.Expires = claims.ExpiresAt.Time
	}
	return identity, nil
}

func (s *authService) Subscribe(fn func(AuthEvent)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *authService) publish(ev AuthEvent) {
	s.mu.Lock()
	subs := make([]func(AuthEvent), len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(ev)
	}
}

// establish issues a token for user and announces the sign-in.
func (s *authService) establish(user *domain.User) (string, *domain.User, error) {
	token, err := s.generateJWT(user)
	if err != nil {
		log.WithError(err).WithField("userId", user.ID).Error("Failed to sign token")
		return "", nil, ErrTokenGeneration
	}
	user.PasswordHash = ""
	s.publish(AuthEvent{Kind: EventSignedIn, UserID: user.ID})
	return token, user, nil
}

// pruneLocked drops expired oauth states and revocations of expired tokens.
func (s *authService) pruneLocked() {
	now := s.now()
	for k, v := range s.states {
		if now.After(v.expires) {
			delete(s.states, k)
		}
	}
	for k, exp := range s.revoked {
		if now.After(exp) {
			delete(s.revoked, k)
		}
	}
}

func randomState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// --- JWT Helper ---

// jwtClaims defines the structure of the JWT payload.
type jwtClaims struct {
	Email    string          `json:"email"`
	Provider domain.Provider `json:"provider"`
	jwt.RegisteredClaims
}

func (s *authService) generateJWT(user *domain.User) (string, error) {
	now := s.now()
	claims := &jwtClaims{
		Email:    user.Email,
		Provider: user.Provider,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}
