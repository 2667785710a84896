package app

import (
	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/history"
)

// CatalogEntry is an exercise as shown to the identity. Pending entries have
// not been confirmed by the store yet.
type CatalogEntry struct {
	domain.Exercise
	Pending bool `json:"pending"`
}

// HistoryEntry is a session as shown to the identity.
type HistoryEntry struct {
	domain.WorkoutSession
	Pending bool `json:"pending"`
}

// DraftView describes the in-progress draft.
type DraftView struct {
	State              string              `json:"state"`
	Muscle             domain.MuscleGroup  `json:"muscle,omitempty"`
	Exercise           *domain.Exercise    `json:"exercise,omitempty"`
	Sets               []domain.WorkoutSet `json:"sets"`
	AvailableExercises []domain.Exercise   `json:"availableExercises,omitempty"`
	AwaitingSave       bool                `json:"awaitingSave"`
}

// State is a point-in-time copy of the controller.
type State struct {
	UserID          string             `json:"userId"`
	Loaded          bool               `json:"loaded"`
	View            View               `json:"view"`
	Profile         domain.UserProfile `json:"profile"`
	Draft           *DraftView         `json:"draft,omitempty"`
	HistorySize     int                `json:"historySize"`
	CatalogSize     int                `json:"catalogSize"`
	PendingSessions int                `json:"pendingSessions"`
	Saving          bool               `json:"saving"`
}

// HomeView is the dashboard: greeting name and the most recent sessions.
type HomeView struct {
	Name   string                `json:"name"`
	Recent []history.RecentEntry `json:"recent"`
}

func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		UserID:          c.userID,
		Loaded:          c.loaded,
		View:            c.view,
		Profile:         c.profile,
		Draft:           c.draftViewLocked(),
		HistorySize:     len(c.history),
		CatalogSize:     len(c.catalog),
		PendingSessions: len(c.pendingSession),
		Saving:          c.saving,
	}
}

func (c *Controller) Profile() domain.UserProfile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.profile
}

// Draft returns nil when nothing is being logged.
func (c *Controller) Draft() *DraftView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draftViewLocked()
}

func (c *Controller) draftViewLocked() *DraftView {
	if c.draft == nil {
		return nil
	}
	v := &DraftView{
		State:        c.draft.State().String(),
		Muscle:       c.draft.Muscle(),
		Exercise:     c.draft.Exercise(),
		Sets:         c.draft.Sets(),
		AwaitingSave: c.finalized != nil,
	}
	if c.finalized != nil {
		v.Sets = c.finalized.Sets
	}
	if v.Exercise == nil {
		v.AvailableExercises = c.draft.AvailableExercises(c.catalog)
	}
	return v
}

// Exercises lists the catalog, filtered by muscle when it is not empty.
func (c *Controller) Exercises(muscle domain.MuscleGroup) []CatalogEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	filtered := domain.FilterByMuscle(c.catalog, muscle)
	out := make([]CatalogEntry, len(filtered))
	for i, ex := range filtered {
		out[i] = CatalogEntry{Exercise: ex, Pending: c.pendingCatalog[ex.ID]}
	}
	return out
}

// History lists every session, newest first, including pending ones.
func (c *Controller) History() []HistoryEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]HistoryEntry, len(c.history))
	for i, s := range c.history {
		out[i] = HistoryEntry{WorkoutSession: s, Pending: c.pendingSession[s.ID]}
	}
	return out
}

// ConfirmedHistory returns the sessions known to be stored together with the
// catalog needed to name them.
func (c *Controller) ConfirmedHistory() ([]domain.WorkoutSession, []domain.Exercise) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sessions := make([]domain.WorkoutSession, 0, len(c.history))
	for _, s := range c.history {
		if !c.pendingSession[s.ID] {
			sessions = append(sessions, s)
		}
	}
	catalog := make([]domain.Exercise, len(c.catalog))
	copy(catalog, c.catalog)
	return sessions, catalog
}

func (c *Controller) Home() HomeView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return HomeView{
		Name:   c.profile.Name,
		Recent: history.Recent(c.history, c.catalog, history.RecentWindow),
	}
}

func (c *Controller) Stats() history.Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return history.Summarize(c.history, c.catalog, history.StatsWindow)
}
