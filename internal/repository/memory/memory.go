// Package memory implements the repository interfaces in process memory.
// It backs the "memory" database driver and the tests of the upper layers.
package memory

import (
	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// Store holds every table. The zero value is not usable; call New.
type Store struct {
	mu        sync.RWMutex
	users     map[string]domain.User
	profiles  map[string]repository.ProfileRecord
	exercises []domain.Exercise
	sessions  map[string]repository.SessionRecord
	sets      []repository.SetRecord
}

func New() *Store {
	return &Store{
		users:    make(map[string]domain.User),
		profiles: make(map[string]repository.ProfileRecord),
		sessions: make(map[string]repository.SessionRecord),
	}
}

func (s *Store) Users() repository.UserRepository { return userRepo{s} }
func (s *Store) Profiles() repository.ProfileRepository { return profileRepo{s} }
func (s *Store) Exercises() repository.ExerciseRepository { return exerciseRepo{s} }
func (s *Store) Sessions() repository.SessionRepository { return sessionRepo{s} }
func (s *Store) Sets() repository.SetRepository { return setRepo{s} }

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user.Email = strings.ToLower(user.Email)
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	if _, ok := r.s.users[user.ID]; ok {
		return repository.ErrDuplicate
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	email = strings.ToLower(email)
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r userRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

type profileRepo struct{ s *Store }

func (r profileRepo) GetByUserID(_ context.Context, userID string) (*repository.ProfileRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r profileRepo) Upsert(_ context.Context, profile *repository.ProfileRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	profile.UpdatedAt = time.Now().UTC()
	r.s.profiles[profile.UserID] = *profile
	return nil
}

type exerciseRepo struct{ s *Store }

func (r exerciseRepo) List(_ context.Context) ([]domain.Exercise, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Exercise, len(r.s.exercises))
	copy(out, r.s.exercises)
	return out, nil
}

func (r exerciseRepo) Create(_ context.Context, exercise *domain.Exercise) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, ex := range r.s.exercises {
		if ex.ID == exercise.ID {
			return repository.ErrDuplicate
		}
	}
	r.s.exercises = append(r.s.exercises, *exercise)
	return nil
}

type sessionRepo struct{ s *Store }

func (r sessionRepo) Create(_ context.Context, session *repository.SessionRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.sessions[session.ID]; ok {
		return repository.ErrDuplicate
	}
	r.s.sessions[session.ID] = *session
	return nil
}

func (r sessionRepo) ListByUser(_ context.Context, userID string) ([]repository.SessionRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []repository.SessionRecord{}
	for _, sess := range r.s.sessions {
		if sess.UserID == userID {
			out = append(out, sess)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r sessionRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.sessions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.sessions, id)
	return nil
}

type setRepo struct{ s *Store }

// CreateMany rejects the whole batch when any id is already stored or repeated.
func (r setRepo) CreateMany(_ context.Context, sets []repository.SetRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	seen := make(map[string]bool, len(r.s.sets)+len(sets))
	for _, set := range r.s.sets {
		seen[set.ID] = true
	}
	for _, set := range sets {
		if seen[set.ID] {
			return repository.ErrDuplicate
		}
		seen[set.ID] = true
	}
	r.s.sets = append(r.s.sets, sets...)
	return nil
}

func (r setRepo) DeleteBySessionID(_ context.Context, sessionID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.sets[:0]
	for _, set := range r.s.sets {
		if set.SessionID != sessionID {
			kept = append(kept, set)
		}
	}
	r.s.sets = kept
	return nil
}

func (r setRepo) ListBySessionIDs(_ context.Context, sessionIDs []string) ([]repository.SetRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	wanted := make(map[string]bool, len(sessionIDs))
	for _, id := range sessionIDs {
		wanted[id] = true
	}
	out := []repository.SetRecord{}
	for _, set := range r.s.sets {
		if wanted[set.SessionID] {
			out = append(out, set)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SessionID != out[j].SessionID {
			return out[i].SessionID < out[j].SessionID
		}
		return out[i].Position < out[j].Position
	})
	return out, nil
}
