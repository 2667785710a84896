package repository

import (
	"alcyxob/workout-tracker/internal/domain"
	"context"
	"time"
)

var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate key")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// ProfileRecord is a row of the profiles table. Zero values mean the column was never set.
type ProfileRecord struct {
	UserID    string    `bson:"_id"`
	Name      string    `bson:"name,omitempty"`
	Weight    float64   `bson:"weight,omitempty"`
	Height    float64   `bson:"height,omitempty"`
	Goal      string    `bson:"goal,omitempty"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// SessionRecord is the header row of a workout session.
// ExerciseID may be empty for rows written before it moved onto the header.
type SessionRecord struct {
	ID         string    `bson:"_id"`
	UserID     string    `bson:"userId"`
	ExerciseID string    `bson:"exerciseId,omitempty"`
	Date       time.Time `bson:"date"`
}

// SetRecord is a child row of a workout session.
// ExerciseID is only present on legacy rows and is never written.
type SetRecord struct {
	ID         string  `bson:"_id"`
	SessionID  string  `bson:"sessionId"`
	Position   int     `bson:"position"`
	ExerciseID string  `bson:"exerciseId,omitempty"`
	Reps       int     `bson:"reps"`
	Weight     float64 `bson:"weight"`
	Completed  bool    `bson:"completed"`
}

// UserRepository stores authentication accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// ProfileRepository stores one profile per user.
type ProfileRepository interface {
	// GetByUserID returns ErrNotFound when the user never saved a profile.
	GetByUserID(ctx context.Context, userID string) (*ProfileRecord, error)
	// Upsert creates or fully replaces the profile.
	Upsert(ctx context.Context, profile *ProfileRecord) error
}

// ExerciseRepository stores the exercise catalog.
type ExerciseRepository interface {
	List(ctx context.Context) ([]domain.Exercise, error)
	Create(ctx context.Context, exercise *domain.Exercise) error
}

// SessionRepository stores workout session headers.
type SessionRepository interface {
	Create(ctx context.Context, session *SessionRecord) error
	// ListByUser returns the user's sessions ordered by date, newest first.
	ListByUser(ctx context.Context, userID string) ([]SessionRecord, error)
	Delete(ctx context.Context, id string) error
}

// SetRepository stores the sets belonging to workout sessions.
type SetRepository interface {
	CreateMany(ctx context.Context, sets []SetRecord) error
	// ListBySessionIDs returns the sets of the given sessions ordered by position.
	ListBySessionIDs(ctx context.Context, sessionIDs []string) ([]SetRecord, error)
	// DeleteBySessionID removes every set of the session. Deleting nothing is not an error.
	DeleteBySessionID(ctx context.Context, sessionID string) error
}
