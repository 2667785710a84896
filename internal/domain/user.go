package domain

import "time"

// Provider identifies how an account authenticates.
type Provider string

const (
	ProviderPassword Provider = "password"
	ProviderGoogle   Provider = "google"
)

// User is an authenticated identity. It is owned by the identity provider,
// not by the workout workflow; the workflow only sees User.ID.
type User struct {
	ID           string    `bson:"_id" json:"id"`
	Email        string    `bson:"email" json:"email"`              // unique
	PasswordHash string    `bson:"passwordHash,omitempty" json:"-"` // empty for federated accounts
	Provider     Provider  `bson:"provider" json:"provider"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}

// Goal is the training goal stored on a profile.
type Goal string

const (
	GoalBuildMuscle Goal = "build_muscle"
	GoalLoseWeight  Goal = "lose_weight"
	GoalFitness     Goal = "fitness"
)

// IsValidGoal reports whether x is one of the known goals.
func IsValidGoal(x Goal) bool {
	switch x {
	case GoalBuildMuscle, GoalLoseWeight, GoalFitness:
		return true
	}
	return false
}

// UserProfile is the per-identity singleton edited on the profile screen.
type UserProfile struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"` // kg
	Height float64 `json:"height"` // cm
	Goal   Goal    `json:"goal"`
}

// DefaultProfile is used until a stored profile has been loaded.
func DefaultProfile() UserProfile {
	return UserProfile{
		Name:   "Guest",
		Weight: 75,
		Height: 180,
		Goal:   GoalBuildMuscle,
	}
}
