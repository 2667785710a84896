// Package draft holds the mutable state of one in-progress logging flow.
package draft

import (
	"errors"
	"fmt"
	"math"
	"time"

	"alcyxob/workout-tracker/internal/domain"

	"github.com/google/uuid"
)

// ErrInvalidTransition is returned when an operation is not allowed in the builder's current state.
var ErrInvalidTransition = errors.New("operation not valid in current draft state")

// State of a draft.
type State int

const (
	StateSelectingExercise State = iota
	StateLogging
	StateFinalized
)

func (s State) String() string {
	switch s {
	case StateSelectingExercise:
		return "selecting_exercise"
	case StateLogging:
		return "logging"
	case StateFinalized:
		return "finalized"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// SetField names a mutable field of a draft set.
type SetField string

const (
	FieldReps      SetField = "reps"
	FieldWeight    SetField = "weight"
	FieldCompleted SetField = "completed"
)

// MaxReps is the largest rep count a set accepts.
const MaxReps = math.MaxInt32

// Builder accumulates sets for a single exercise and finalizes them into a session.
// A Builder is not safe for concurrent use.
type Builder struct {
	state    State
	muscle   domain.MuscleGroup
	exercise *domain.Exercise
	sets     []domain.WorkoutSet

	now   func() time.Time
	newID func() string
}

// Option customizes a Builder.
type Option func(*Builder)

// WithClock overrides the clock used to timestamp finalized sessions.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// WithIDGenerator overrides the generator used for set and session ids.
func WithIDGenerator(gen func() string) Option {
	return func(b *Builder) { b.newID = gen }
}

// NewBuilder starts a draft in SelectingExercise, optionally scoped to a muscle group.
func NewBuilder(muscle domain.MuscleGroup, opts ...Option) *Builder {
	b := &Builder{
		state:  StateSelectingExercise,
		muscle: muscle,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Builder) State() State {
	return b.state
}

// Muscle returns the target muscle group; empty when the draft is unscoped.
func (b *Builder) Muscle() domain.MuscleGroup {
	return b.muscle
}

// Exercise returns the bound exercise, or nil while selecting.
func (b *Builder) Exercise() *domain.Exercise {
	if b.exercise == nil {
		return nil
	}
	ex := *b.exercise
	return &ex
}

// Sets returns a copy of the draft sets in logging order.
func (b *Builder) Sets() []domain.WorkoutSet {
	out := make([]domain.WorkoutSet, len(b.sets))
	copy(out, b.sets)
	return out
}

// AvailableExercises filters the catalog by the draft's target muscle group.
func (b *Builder) AvailableExercises(catalog []domain.Exercise) []domain.Exercise {
	return domain.FilterByMuscle(catalog, b.muscle)
}

// SelectExercise binds the draft to ex and seeds it with one default set.
func (b *Builder) SelectExercise(ex domain.Exercise) error {
	if b.state != StateSelectingExercise {
		return ErrInvalidTransition
	}
	if ex.ID == "" {
		return domain.NewValidationError("exerciseId", "exercise id is required")
	}
	b.exercise = &ex
	if b.muscle == "" {
		b.muscle = ex.MuscleGroup
	}
	b.sets = []domain.WorkoutSet{{
		ID:     b.newID(),
		Reps:   domain.DefaultReps,
		Weight: domain.DefaultWeight,
	}}
	b.state = StateLogging
	return nil
}

// CreateExercise mints a new exercise and selects it. An empty muscle falls back
// to the draft's target muscle group; one of the two must be known.
// The returned exercise must be added to the catalog by the caller.
func (b *Builder) CreateExercise(name string, muscle domain.MuscleGroup, equipment string) (*domain.Exercise, error) {
	if b.state != StateSelectingExercise {
		return nil, ErrInvalidTransition
	}
	if muscle == "" {
		muscle = b.muscle
	}
	if muscle == "" {
		return nil, domain.NewValidationError("muscleGroup", "a target muscle group is required")
	}
	ex, err := domain.NewExercise(name, muscle, equipment)
	if err != nil {
		return nil, err
	}
	if err := b.SelectExercise(*ex); err != nil {
		return nil, err
	}
	return ex, nil
}

// AddSet appends a set seeded from the last set's reps and weight.
func (b *Builder) AddSet() (domain.WorkoutSet, error) {
	if b.state != StateLogging {
		return domain.WorkoutSet{}, ErrInvalidTransition
	}
	set := domain.WorkoutSet{ID: b.newID(), Reps: domain.DefaultReps}
	if n := len(b.sets); n > 0 {
		set.Reps = b.sets[n-1].Reps
		set.Weight = b.sets[n-1].Weight
	}
	b.sets = append(b.sets, set)
	return set, nil
}

// UpdateSet changes one field of the set with the given id. Unknown ids are ignored.
// Numeric values must be int or float; non-finite and negative numbers become 0.
// Reps above MaxReps are rejected.
func (b *Builder) UpdateSet(setID string, field SetField, value any) error {
	if b.state != StateLogging {
		return ErrInvalidTransition
	}
	idx := b.indexOf(setID)
	switch field {
	case FieldReps, FieldWeight:
		n, ok := toNumber(value)
		if !ok {
			return domain.NewValidationError(string(field), "must be a number")
		}
		if field == FieldReps && n > MaxReps {
			return domain.NewValidationError(string(field), fmt.Sprintf("must not exceed %d", MaxReps))
		}
		if idx < 0 {
			return nil
		}
		if field == FieldReps {
			b.sets[idx].Reps = int(n)
		} else {
			b.sets[idx].Weight = n
		}
	case FieldCompleted:
		done, ok := value.(bool)
		if !ok {
			return domain.NewValidationError(string(field), "must be a boolean")
		}
		if idx < 0 {
			return nil
		}
		b.sets[idx].Completed = done
	default:
		return domain.NewValidationError("field", "unknown set field "+string(field))
	}
	return nil
}

// RemoveSet deletes the set with the given id. The last remaining set is never removed.
func (b *Builder) RemoveSet(setID string) error {
	if b.state != StateLogging {
		return ErrInvalidTransition
	}
	if len(b.sets) <= 1 {
		return nil
	}
	idx := b.indexOf(setID)
	if idx < 0 {
		return nil
	}
	b.sets = append(b.sets[:idx], b.sets[idx+1:]...)
	return nil
}

// Finalize closes the draft. Only completed sets are kept, in logging order.
// When no set is completed the draft is discarded and a nil session is returned.
func (b *Builder) Finalize() (*domain.WorkoutSession, error) {
	if b.state != StateLogging {
		return nil, ErrInvalidTransition
	}
	b.state = StateFinalized

	completed := make([]domain.WorkoutSet, 0, len(b.sets))
	for _, s := range b.sets {
		if s.Completed {
			completed = append(completed, s)
		}
	}
	if len(completed) == 0 {
		return nil, nil
	}
	return &domain.WorkoutSession{
		ID:         b.newID(),
		Date:       b.now(),
		ExerciseID: b.exercise.ID,
		Sets:       completed,
	}, nil
}

// Discarded returns how many draft sets Finalize dropped for being incomplete.
func (b *Builder) Discarded() int {
	if b.state != StateFinalized {
		return 0
	}
	n := 0
	for _, s := range b.sets {
		if !s.Completed {
			n++
		}
	}
	return n
}

func (b *Builder) indexOf(setID string) int {
	for i, s := range b.sets {
		if s.ID == setID {
			return i
		}
	}
	return -1
}

func toNumber(value any) (float64, bool) {
	var n float64
	switch v := value.(type) {
	case int:
		n = float64(v)
	case int64:
		n = float64(v)
	case float32:
		n = float64(v)
	case float64:
		n = v
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) || n < 0 {
		return 0, true
	}
	return n, true
}
