package app

import (
	"context"
	"sync"
	"time"

	"alcyxob/workout-tracker/internal/draft"
	"alcyxob/workout-tracker/internal/metrics"
	"alcyxob/workout-tracker/internal/service"

	log "github.com/sirupsen/logrus"
)

// DefaultLoadTimeout bounds the initial Load of a controller.
const DefaultLoadTimeout = 30 * time.Second

type registryEntry struct {
	ctrl  *Controller
	ready chan struct{}
}

// Registry keeps one Controller per signed-in identity. It follows identity
// changes through Observe and loads controllers lazily for tokens issued
// before the process started.
type Registry struct {
	store       Store
	metrics     *metrics.Manager
	loadTimeout time.Duration
	builderOpts []draft.Option

	mu      sync.Mutex
	entries map[string]*registryEntry
}

func NewRegistry(store Store, m *metrics.Manager, opts ...draft.Option) *Registry {
	return &Registry{
		store:       store,
		metrics:     m,
		loadTimeout: DefaultLoadTimeout,
		builderOpts: opts,
		entries:     make(map[string]*registryEntry),
	}
}

// Observe reacts to identity changes. A sign-in starts loading the
// identity's state in the background; a sign-out drops it.
func (r *Registry) Observe(ev service.AuthEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch ev.Kind {
	case service.EventSignedIn:
		if _, ok := r.entries[ev.UserID]; !ok {
			r.startLocked(ev.UserID)
		}
	case service.EventSignedOut:
		if _, ok := r.entries[ev.UserID]; ok {
			delete(r.entries, ev.UserID)
			r.metrics.GaugeActiveControllers.Set(float64(len(r.entries)))
			log.WithField("userId", ev.UserID).Debug("Controller released")
		}
	}
}

// Get returns the identity's controller once its initial load has finished.
func (r *Registry) Get(ctx context.Context, userID string) (*Controller, error) {
	r.mu.Lock()
	e, ok := r.entries[userID]
	if !ok {
		e = r.startLocked(userID)
	}
	r.mu.Unlock()

	select {
	case <-e.ready:
		return e.ctrl, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Len reports how many identities have a controller.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Registry) startLocked(userID string) *registryEntry {
	e := &registryEntry{
		ctrl:  NewController(userID, r.store, r.metrics, r.builderOpts...),
		ready: make(chan struct{}),
	}
	r.entries[userID] = e
	r.metrics.GaugeActiveControllers.Set(float64(len(r.entries)))

	go func() {
		defer close(e.ready)
		ctx, cancel := context.WithTimeout(context.Background(), r.loadTimeout)
		defer cancel()
		// Load failures are logged by the controller; defaults stay in place.
		_ = e.ctrl.Load(ctx)
	}()
	return e
}
