// Package app owns the per-identity application state: profile, history,
// catalog, navigation and the single in-progress draft.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/draft"
	"alcyxob/workout-tracker/internal/gateway"
	"alcyxob/workout-tracker/internal/metrics"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNoDraft          = errors.New("no workout is being logged")
	ErrSaveInProgress   = errors.New("a workout is already being saved")
	ErrExerciseNotFound = errors.New("exercise not found in catalog")
	ErrUnknownView      = errors.New("unknown view")
)

// View is the screen the identity is currently on.
type View string

const (
	ViewHome    View = "HOME"
	ViewLogger  View = "LOGGER"
	ViewStats   View = "STATS"
	ViewProfile View = "PROFILE"
)

func IsValidView(v View) bool {
	switch v {
	case ViewHome, ViewLogger, ViewStats, ViewProfile:
		return true
	}
	return false
}

// Store is the persistence boundary used by the controller.
type Store interface {
	GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error)
	UpdateProfile(ctx context.Context, userID string, profile domain.UserProfile) error
	GetExercises(ctx context.Context) ([]domain.Exercise, error)
	AddExercise(ctx context.Context, exercise domain.Exercise) error
	GetHistory(ctx context.Context, userID string) ([]domain.WorkoutSession, error)
	SaveSession(ctx context.Context, userID string, session domain.WorkoutSession) error
}

// Controller is safe for concurrent use. Writes are applied locally first,
// tagged pending, and confirmed or reverted once the store answers.
type Controller struct {
	userID      string
	store       Store
	metrics     *metrics.Manager
	builderOpts []draft.Option

	mu             sync.Mutex
	loaded         bool
	view           View
	profile        domain.UserProfile
	profileVersion int
	history        []domain.WorkoutSession
	catalog        []domain.Exercise
	pendingSession map[string]bool
	pendingCatalog map[string]bool

	draft     *draft.Builder
	finalized *domain.WorkoutSession // awaiting a successful save
	saving    bool
}

func NewController(userID string, store Store, m *metrics.Manager, opts ...draft.Option) *Controller {
	return &Controller{
		userID:         userID,
		store:          store,
		metrics:        m,
		builderOpts:    opts,
		view:           ViewHome,
		profile:        domain.DefaultProfile(),
		history:        []domain.WorkoutSession{},
		catalog:        domain.DefaultCatalog(),
		pendingSession: make(map[string]bool),
		pendingCatalog: make(map[string]bool),
	}
}

func (c *Controller) UserID() string {
	return c.userID
}

// Load fetches profile, history and catalog in parallel. Whatever fails keeps
// its default value; an empty catalog is replaced by the bundled one.
func (c *Controller) Load(ctx context.Context) error {
	var (
		g         errgroup.Group
		profile   *domain.UserProfile
		history   []domain.WorkoutSession
		exercises []domain.Exercise
		errs      [3]error
	)
	// Each fetch reports through its own slot and returns nil, so one failure
	// neither cancels the other fetches nor hides their errors.
	g.Go(func() error {
		profile, errs[0] = c.store.GetProfile(ctx, c.userID)
		return nil
	})
	g.Go(func() error {
		history, errs[1] = c.store.GetHistory(ctx, c.userID)
		return nil
	})
	g.Go(func() error {
		exercises, errs[2] = c.store.GetExercises(ctx)
		return nil
	})
	_ = g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()

	entry := log.WithField("userId", c.userID)
	if errs[0] == nil && profile != nil {
		c.profile = *profile
	}
	if errs[1] == nil {
		c.history = history
	}
	if errs[2] == nil {
		if len(exercises) == 0 {
			entry.Info("Exercise catalog is empty, using the default catalog")
			exercises = domain.DefaultCatalog()
		}
		c.catalog = exercises
	}
	c.loaded = true

	err := errors.Join(errs[0], errs[1], errs[2])
	for _, e := range errs {
		c.recordFailure(e)
	}
	if err != nil {
		entry.WithError(err).Error("Failed to load application state")
	}
	return err
}

// Navigate switches the current view. Leaving the logger discards an unsaved draft.
func (c *Controller) Navigate(view View) error {
	if !IsValidView(view) {
		return fmt.Errorf("%w: %s", ErrUnknownView, view)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if view == c.view {
		return nil
	}
	if c.saving {
		return ErrSaveInProgress
	}
	if view == ViewLogger {
		if c.draft == nil {
			c.draft = draft.NewBuilder("", c.builderOpts...)
		}
	} else {
		c.clearDraftLocked()
	}
	c.view = view
	return nil
}

// StartLogging opens a fresh draft scoped to muscle and switches to the logger.
// A non-empty exerciseID selects that exercise right away.
func (c *Controller) StartLogging(muscle domain.MuscleGroup, exerciseID string) error {
	if muscle != "" && !domain.IsValidMuscleGroup(muscle) {
		return domain.NewValidationError("muscleGroup", "unknown muscle group")
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.saving {
		return ErrSaveInProgress
	}
	b := draft.NewBuilder(muscle, c.builderOpts...)
	if exerciseID != "" {
		ex, ok := c.findExerciseLocked(exerciseID)
		if !ok {
			return ErrExerciseNotFound
		}
		if err := b.SelectExercise(ex); err != nil {
			return err
		}
	}
	c.draft = b
	c.finalized = nil
	c.view = ViewLogger
	return nil
}

func (c *Controller) SelectExercise(exerciseID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.draft == nil {
		return ErrNoDraft
	}
	ex, ok := c.findExerciseLocked(exerciseID)
	if !ok {
		return ErrExerciseNotFound
	}
	return c.draft.SelectExercise(ex)
}

// AddExercise adds a new exercise to the catalog outside of any draft.
func (c *Controller) AddExercise(ctx context.Context, name string, muscle domain.MuscleGroup, equipment string) (*domain.Exercise, error) {
	ex, err := domain.NewExercise(name, muscle, equipment)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.catalog = append(c.catalog, *ex)
	c.pendingCatalog[ex.ID] = true
	c.mu.Unlock()

	if err := c.confirmExercise(ctx, *ex, nil); err != nil {
		return nil, err
	}
	return ex, nil
}

// CreateExercise adds a new exercise to the catalog and selects it in the draft.
// The catalog entry is visible immediately; if the store rejects it both the
// entry and the selection are rolled back.
func (c *Controller) CreateExercise(ctx context.Context, name string, muscle domain.MuscleGroup, equipment string) (*domain.Exercise, error) {
	c.mu.Lock()
	if c.draft == nil {
		c.mu.Unlock()
		return nil, ErrNoDraft
	}
	b := c.draft
	ex, err := b.CreateExercise(name, muscle, equipment)
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}
	c.catalog = append(c.catalog, *ex)
	c.pendingCatalog[ex.ID] = true
	c.mu.Unlock()

	if err := c.confirmExercise(ctx, *ex, b); err != nil {
		return nil, err
	}
	return ex, nil
}

// confirmExercise writes a pending catalog entry. On failure the entry is
// removed and, when b is still the current draft, the draft restarts.
func (c *Controller) confirmExercise(ctx context.Context, ex domain.Exercise, b *draft.Builder) error {
	err := c.store.AddExercise(ctx, ex)

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pendingCatalog, ex.ID)
	if err != nil {
		c.catalog = removeExercise(c.catalog, ex.ID)
		if b != nil && c.draft == b {
			c.draft = draft.NewBuilder(b.Muscle(), c.builderOpts...)
		}
		c.recordFailure(err)
		log.WithError(err).WithFields(log.Fields{"userId": c.userID, "exerciseId": ex.ID}).Error("Failed to add exercise")
		return err
	}
	c.metrics.CounterExercisesCreated.Inc()
	return nil
}

func (c *Controller) AddSet() (domain.WorkoutSet, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.draft == nil {
		return domain.WorkoutSet{}, ErrNoDraft
	}
	return c.draft.AddSet()
}

func (c *Controller) UpdateSet(setID string, field draft.SetField, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.draft == nil {
		return ErrNoDraft
	}
	return c.draft.UpdateSet(setID, field, value)
}

func (c *Controller) RemoveSet(setID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.draft == nil {
		return ErrNoDraft
	}
	return c.draft.RemoveSet(setID)
}

// FinishResult reports the outcome of Finish. Session is nil when no set was completed.
type FinishResult struct {
	Session   *domain.WorkoutSession `json:"session"`
	Discarded int                    `json:"discardedSets"`
}

// Finish finalizes the draft and saves the resulting session.
//
// The session is prepended to history before the write. On success the draft
// is cleared and the view moves to STATS. On failure the prepend is reverted
// and the finalized session is kept so that calling Finish again retries the
// same save. A draft without completed sets is dropped and the view returns to HOME.
func (c *Controller) Finish(ctx context.Context) (*FinishResult, error) {
	c.mu.Lock()
	if c.draft == nil {
		c.mu.Unlock()
		return nil, ErrNoDraft
	}
	if c.saving {
		c.mu.Unlock()
		return nil, ErrSaveInProgress
	}

	session := c.finalized
	if session == nil {
		s, err := c.draft.Finalize()
		if err != nil {
			c.mu.Unlock()
			return nil, err
		}
		if discarded := c.draft.Discarded(); discarded > 0 {
			c.metrics.CounterSetsDiscarded.Add(float64(discarded))
		}
		if s == nil {
			result := &FinishResult{Discarded: c.draft.Discarded()}
			c.clearDraftLocked()
			c.view = ViewHome
			c.mu.Unlock()
			return result, nil
		}
		session = s
		c.finalized = s
	}
	discarded := c.draft.Discarded()

	c.saving = true
	c.history = append([]domain.WorkoutSession{*session}, c.history...)
	c.pendingSession[session.ID] = true
	c.mu.Unlock()

	err := c.store.SaveSession(ctx, c.userID, *session)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.saving = false
	delete(c.pendingSession, session.ID)

	entry := log.WithFields(log.Fields{"userId": c.userID, "sessionId": session.ID})
	if err != nil {
		c.history = removeSession(c.history, session.ID)
		c.recordFailure(err)
		entry.WithError(err).Error("Failed to save workout session")
		return nil, err
	}

	c.clearDraftLocked()
	c.view = ViewStats
	c.metrics.CounterSessionsSaved.Inc()
	entry.WithField("sets", len(session.Sets)).Info("Workout session saved")
	return &FinishResult{Session: session, Discarded: discarded}, nil
}

// Cancel drops the draft and returns home.
func (c *Controller) Cancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.saving {
		return ErrSaveInProgress
	}
	c.clearDraftLocked()
	c.view = ViewHome
	return nil
}

// UpdateProfile replaces the profile locally and upserts it. A profile without
// a name is kept locally only. A failed upsert restores the previous profile
// unless a newer edit has replaced it in the meantime.
func (c *Controller) UpdateProfile(ctx context.Context, profile domain.UserProfile) error {
	if !domain.IsValidGoal(profile.Goal) {
		return domain.NewValidationError("goal", "unknown goal")
	}
	if profile.Weight < 0 || profile.Height < 0 {
		return domain.NewValidationError("profile", "weight and height must not be negative")
	}

	c.mu.Lock()
	previous := c.profile
	c.profile = profile
	c.profileVersion++
	version := c.profileVersion
	c.mu.Unlock()

	if profile.Name == "" {
		return nil
	}

	err := c.store.UpdateProfile(ctx, c.userID, profile)
	if err == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.profileVersion == version {
		c.profile = previous
	}
	c.recordFailure(err)
	log.WithError(err).WithField("userId", c.userID).Error("Failed to update profile")
	return err
}

func (c *Controller) clearDraftLocked() {
	c.draft = nil
	c.finalized = nil
}

func (c *Controller) findExerciseLocked(id string) (domain.Exercise, bool) {
	for _, ex := range c.catalog {
		if ex.ID == id {
			return ex, true
		}
	}
	return domain.Exercise{}, false
}

func (c *Controller) recordFailure(err error) {
	var perr *gateway.PersistenceError
	if errors.As(err, &perr) {
		c.metrics.CounterPersistenceFailures.WithLabelValues(perr.Op).Inc()
	}
}

func removeSession(history []domain.WorkoutSession, id string) []domain.WorkoutSession {
	out := make([]domain.WorkoutSession, 0, len(history))
	for _, s := range history {
		if s.ID != id {
			out = append(out, s)
		}
	}
	return out
}

func removeExercise(catalog []domain.Exercise, id string) []domain.Exercise {
	out := make([]domain.Exercise, 0, len(catalog))
	for _, ex := range catalog {
		if ex.ID != id {
			out = append(out, ex)
		}
	}
	return out
}
