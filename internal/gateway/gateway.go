// Package gateway translates between domain values and the stored row shapes.
// Every call is bounded by a timeout and every store failure is reported
// as a *PersistenceError.
package gateway

import (
	"context"
	"errors"
	"sort"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"

	log "github.com/sirupsen/logrus"
)

const DefaultTimeout = 10 * time.Second

type Gateway struct {
	profiles  repository.ProfileRepository
	exercises repository.ExerciseRepository
	sessions  repository.SessionRepository
	sets      repository.SetRepository
	timeout   time.Duration
}

func New(
	profiles repository.ProfileRepository,
	exercises repository.ExerciseRepository,
	sessions repository.SessionRepository,
	sets repository.SetRepository,
	timeout time.Duration,
) *Gateway {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Gateway{
		profiles:  profiles,
		exercises: exercises,
		sessions:  sessions,
		sets:      sets,
		timeout:   timeout,
	}
}

// GetProfile returns the stored profile, or nil when the user has none.
// Fields that were never stored come back as zero values; the goal
// falls back to build_muscle.
func (g *Gateway) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	rec, err := g.profiles.GetByUserID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, &PersistenceError{Op: OpGetProfile, Err: err}
	}

	profile := domain.UserProfile{
		Name:   rec.Name,
		Weight: rec.Weight,
		Height: rec.Height,
		Goal:   domain.GoalBuildMuscle,
	}
	if goal := domain.Goal(rec.Goal); domain.IsValidGoal(goal) {
		profile.Goal = goal
	}
	return &profile, nil
}

// UpdateProfile creates or replaces the user's profile.
func (g *Gateway) UpdateProfile(ctx context.Context, userID string, profile domain.UserProfile) error {
	if userID == "" {
		return domain.NewValidationError("userId", "is required")
	}
	if !domain.IsValidGoal(profile.Goal) {
		return domain.NewValidationError("goal", "unknown goal")
	}
	if profile.Weight < 0 || profile.Height < 0 {
		return domain.NewValidationError("profile", "weight and height must not be negative")
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	rec := &repository.ProfileRecord{
		UserID: userID,
		Name:   profile.Name,
		Weight: profile.Weight,
		Height: profile.Height,
		Goal:   string(profile.Goal),
	}
	if err := g.profiles.Upsert(ctx, rec); err != nil {
		return &PersistenceError{Op: OpUpdateProfile, Err: err}
	}
	return nil
}

// GetExercises returns the whole catalog. The result may be empty.
func (g *Gateway) GetExercises(ctx context.Context) ([]domain.Exercise, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	list, err := g.exercises.List(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: OpGetExercises, Err: err}
	}
	if list == nil {
		list = []domain.Exercise{}
	}
	return list, nil
}

// AddExercise persists a new catalog entry.
func (g *Gateway) AddExercise(ctx context.Context, exercise domain.Exercise) error {
	if exercise.ID == "" || exercise.Name == "" {
		return domain.NewValidationError("exercise", "id and name are required")
	}
	if !domain.IsValidMuscleGroup(exercise.MuscleGroup) {
		return domain.NewValidationError("muscleGroup", "unknown muscle group")
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if err := g.exercises.Create(ctx, &exercise); err != nil {
		return &PersistenceError{Op: OpAddExercise, Err: err}
	}
	return nil
}

// SeedCatalog stores the bundled catalog when the store has no exercises yet.
// It reports how many exercises were written.
func (g *Gateway) SeedCatalog(ctx context.Context) (int, error) {
	existing, err := g.GetExercises(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}
	seeded := 0
	for _, ex := range domain.DefaultCatalog() {
		if err := g.AddExercise(ctx, ex); err != nil {
			return seeded, err
		}
		seeded++
	}
	log.WithField("exercises", seeded).Info("Seeded default exercise catalog")
	return seeded, nil
}

// GetHistory rebuilds the user's sessions from header and set rows, newest first.
// Sessions without sets or whose exercise cannot be determined are dropped.
func (g *Gateway) GetHistory(ctx context.Context, userID string) ([]domain.WorkoutSession, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	headers, err := g.sessions.ListByUser(ctx, userID)
	if err != nil {
		return nil, &PersistenceError{Op: OpGetHistory, Err: err}
	}
	if len(headers) == 0 {
		return []domain.WorkoutSession{}, nil
	}

	ids := make([]string, len(headers))
	for i, h := range headers {
		ids[i] = h.ID
	}
	rows, err := g.sets.ListBySessionIDs(ctx, ids)
	if err != nil {
		return nil, &PersistenceError{Op: OpGetHistory, Err: err}
	}

	bySession := make(map[string][]repository.SetRecord, len(headers))
	for _, row := range rows {
		bySession[row.SessionID] = append(bySession[row.SessionID], row)
	}

	history := make([]domain.WorkoutSession, 0, len(headers))
	dropped := 0
	for _, h := range headers {
		children := bySession[h.ID]
		sort.SliceStable(children, func(i, j int) bool { return children[i].Position < children[j].Position })

		if len(children) == 0 {
			dropped++
			continue
		}
		exerciseID := h.ExerciseID
		if exerciseID == "" {
			exerciseID = children[0].ExerciseID
		}
		if exerciseID == "" {
			dropped++
			continue
		}

		sets := make([]domain.WorkoutSet, len(children))
		for i, c := range children {
			sets[i] = domain.WorkoutSet{
				ID:        c.ID,
				Reps:      c.Reps,
				Weight:    c.Weight,
				Completed: c.Completed,
			}
		}
		history = append(history, domain.WorkoutSession{
			ID:         h.ID,
			Date:       h.Date,
			ExerciseID: exerciseID,
			Sets:       sets,
		})
	}
	if dropped > 0 {
		log.WithFields(log.Fields{"userId": userID, "dropped": dropped}).Warn("Dropped sessions without sets or exercise")
	}

	sort.SliceStable(history, func(i, j int) bool { return history[i].Date.After(history[j].Date) })
	return history, nil
}

// SaveSession writes the session header and then its sets.
// When the sets cannot be written, any set rows that did land and the header
// are deleted again, so the same session can be saved later; if either delete
// fails the returned error is marked Orphaned.
func (g *Gateway) SaveSession(ctx context.Context, userID string, session domain.WorkoutSession) error {
	if userID == "" {
		return domain.NewValidationError("userId", "is required")
	}
	if session.ID == "" || session.ExerciseID == "" {
		return domain.NewValidationError("session", "id and exerciseId are required")
	}
	if len(session.Sets) == 0 {
		return domain.NewValidationError("sets", "a session needs at least one set")
	}

	opCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	header := &repository.SessionRecord{
		ID:         session.ID,
		UserID:     userID,
		ExerciseID: session.ExerciseID,
		Date:       session.Date,
	}
	if err := g.sessions.Create(opCtx, header); err != nil {
		return &PersistenceError{Op: OpSaveSession, Err: err}
	}

	rows := make([]repository.SetRecord, len(session.Sets))
	for i, s := range session.Sets {
		rows[i] = repository.SetRecord{
			ID:        s.ID,
			SessionID: session.ID,
			Position:  i,
			Reps:      s.Reps,
			Weight:    s.Weight,
			Completed: s.Completed,
		}
	}
	setsErr := g.sets.CreateMany(opCtx, rows)
	if setsErr == nil {
		return nil
	}

	// The write context may already be spent; cleanup gets its own budget.
	cleanupCtx, cleanupCancel := context.WithTimeout(context.WithoutCancel(ctx), g.timeout)
	defer cleanupCancel()

	entry := log.WithFields(log.Fields{"sessionId": session.ID, "userId": userID})
	orphaned := false
	if err := g.sets.DeleteBySessionID(cleanupCtx, session.ID); err != nil {
		entry.WithError(err).Error("Failed to remove partial set rows after set write failure")
		orphaned = true
	}
	if err := g.sessions.Delete(cleanupCtx, session.ID); err != nil {
		entry.WithError(err).Error("Failed to remove session header after set write failure")
		orphaned = true
	}
	if orphaned {
		return &PersistenceError{Op: OpSaveSession, Err: setsErr, Orphaned: true}
	}
	entry.WithError(setsErr).Warn("Set write failed; session removed")
	return &PersistenceError{Op: OpSaveSession, Err: setsErr}
}
