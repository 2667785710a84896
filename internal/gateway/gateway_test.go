package gateway_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/gateway"
	"alcyxob/workout-tracker/internal/repository"
	"alcyxob/workout-tracker/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

type failingSets struct {
	repository.SetRepository
	createErr error
}

func (f failingSets) CreateMany(ctx context.Context, sets []repository.SetRecord) error {
	if f.createErr != nil {
		return f.createErr
	}
	return f.SetRepository.CreateMany(ctx, sets)
}

// partialSets writes only the first row of a batch and then fails, the given
// number of times, before behaving normally.
type partialSets struct {
	repository.SetRepository
	failures  int
	deleteErr error
}

func (p *partialSets) CreateMany(ctx context.Context, sets []repository.SetRecord) error {
	if p.failures > 0 {
		p.failures--
		if err := p.SetRepository.CreateMany(ctx, sets[:1]); err != nil {
			return err
		}
		return errBoom
	}
	return p.SetRepository.CreateMany(ctx, sets)
}

func (p *partialSets) DeleteBySessionID(ctx context.Context, sessionID string) error {
	if p.deleteErr != nil {
		return p.deleteErr
	}
	return p.SetRepository.DeleteBySessionID(ctx, sessionID)
}

type failingSessions struct {
	repository.SessionRepository
	createErr error
	deleteErr error
	listErr   error
	deleted   []string
}

func (f *failingSessions) Create(ctx context.Context, s *repository.SessionRecord) error {
	if f.createErr != nil {
		return f.createErr
	}
	return f.SessionRepository.Create(ctx, s)
}

func (f *failingSessions) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return f.SessionRepository.Delete(ctx, id)
}

func (f *failingSessions) ListByUser(ctx context.Context, userID string) ([]repository.SessionRecord, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.SessionRepository.ListByUser(ctx, userID)
}

type slowProfiles struct {
	repository.ProfileRepository
}

func (slowProfiles) GetByUserID(ctx context.Context, _ string) (*repository.ProfileRecord, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func newGateway(store *memory.Store) *gateway.Gateway {
	return gateway.New(store.Profiles(), store.Exercises(), store.Sessions(), store.Sets(), time.Second)
}

func session(id, exerciseID string, date time.Time, sets ...domain.WorkoutSet) domain.WorkoutSession {
	return domain.WorkoutSession{ID: id, Date: date, ExerciseID: exerciseID, Sets: sets}
}

func TestProfileRoundTrip(t *testing.T) {
	ctx := context.Background()
	gw := newGateway(memory.New())

	p, err := gw.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, p, "absent profile")

	want := domain.UserProfile{Name: "Sam", Weight: 82.5, Height: 177, Goal: domain.GoalLoseWeight}
	require.NoError(t, gw.UpdateProfile(ctx, "u1", want))

	p, err = gw.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, want, *p)
}

func TestGetProfileDefaultsMissingFields(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.Profiles().Upsert(ctx, &repository.ProfileRecord{UserID: "u1", Name: "Sam", Goal: "nonsense"}))

	p, err := newGateway(store).GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.UserProfile{Name: "Sam", Goal: domain.GoalBuildMuscle}, *p)
}

func TestUpdateProfileValidates(t *testing.T) {
	gw := newGateway(memory.New())
	err := gw.UpdateProfile(context.Background(), "u1", domain.UserProfile{Name: "x", Goal: "sleep"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestGetProfileTimesOut(t *testing.T) {
	store := memory.New()
	gw := gateway.New(slowProfiles{}, store.Exercises(), store.Sessions(), store.Sets(), 10*time.Millisecond)

	_, err := gw.GetProfile(context.Background(), "u1")
	var perr *gateway.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, gateway.OpGetProfile, perr.Op)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestExercises(t *testing.T) {
	ctx := context.Background()
	gw := newGateway(memory.New())

	list, err := gw.GetExercises(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	require.NoError(t, gw.AddExercise(ctx, domain.Exercise{ID: "e1", Name: "Squat", MuscleGroup: domain.MuscleLegs}))
	assert.ErrorIs(t, gw.AddExercise(ctx, domain.Exercise{ID: "e2", Name: "Nap", MuscleGroup: "Brain"}), domain.ErrValidation)

	var perr *gateway.PersistenceError
	err = gw.AddExercise(ctx, domain.Exercise{ID: "e1", Name: "Squat", MuscleGroup: domain.MuscleLegs})
	require.ErrorAs(t, err, &perr)
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	list, err = gw.GetExercises(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	gw := newGateway(memory.New())
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	first := session("s1", "5", base,
		domain.WorkoutSet{ID: "a", Reps: 10, Weight: 60, Completed: true},
		domain.WorkoutSet{ID: "b", Reps: 8, Weight: 65, Completed: true},
		domain.WorkoutSet{ID: "c", Reps: 6, Weight: 70, Completed: true},
	)
	second := session("s2", "1", base.Add(24*time.Hour),
		domain.WorkoutSet{ID: "d", Reps: 5, Weight: 100, Completed: true},
	)
	require.NoError(t, gw.SaveSession(ctx, "u1", first))
	require.NoError(t, gw.SaveSession(ctx, "u1", second))

	history, err := gw.GetHistory(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, second, history[0])
	assert.Equal(t, first, history[1])

	other, err := gw.GetHistory(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestGetHistoryLegacyRows(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, store.Sessions().Create(ctx, &repository.SessionRecord{ID: "legacy", UserID: "u1", Date: base}))
	require.NoError(t, store.Sessions().Create(ctx, &repository.SessionRecord{ID: "lost", UserID: "u1", Date: base.Add(time.Hour)}))
	require.NoError(t, store.Sets().CreateMany(ctx, []repository.SetRecord{
		{ID: "y", SessionID: "legacy", Position: 1, ExerciseID: "9", Reps: 12, Weight: 15, Completed: true},
		{ID: "x", SessionID: "legacy", Position: 0, ExerciseID: "9", Reps: 10, Weight: 15, Completed: true},
		{ID: "z", SessionID: "lost", Position: 0, Reps: 1, Weight: 1, Completed: true},
	}))

	history, err := newGateway(store).GetHistory(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "9", history[0].ExerciseID)
	require.Len(t, history[0].Sets, 2)
	assert.Equal(t, "x", history[0].Sets[0].ID)
	assert.Equal(t, "y", history[0].Sets[1].ID)
}

func TestGetHistorySkipsHeadersWithoutSets(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, store.Sessions().Create(ctx, &repository.SessionRecord{ID: "empty", UserID: "u1", ExerciseID: "1", Date: base}))
	gw := newGateway(store)
	require.NoError(t, gw.SaveSession(ctx, "u1", session("s1", "2", base.Add(-time.Hour), domain.WorkoutSet{ID: "a", Reps: 5, Weight: 50, Completed: true})))

	history, err := gw.GetHistory(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "s1", history[0].ID)
}

func TestGetHistoryFailure(t *testing.T) {
	store := memory.New()
	sessions := &failingSessions{SessionRepository: store.Sessions(), listErr: errBoom}
	gw := gateway.New(store.Profiles(), store.Exercises(), sessions, store.Sets(), time.Second)

	_, err := gw.GetHistory(context.Background(), "u1")
	var perr *gateway.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, gateway.OpGetHistory, perr.Op)
	assert.ErrorIs(t, err, errBoom)
}

func TestSaveSessionValidates(t *testing.T) {
	gw := newGateway(memory.New())
	ctx := context.Background()
	now := time.Now()

	assert.ErrorIs(t, gw.SaveSession(ctx, "u1", session("s1", "", now, domain.WorkoutSet{ID: "a"})), domain.ErrValidation)
	assert.ErrorIs(t, gw.SaveSession(ctx, "u1", session("s1", "1", now)), domain.ErrValidation)
	assert.ErrorIs(t, gw.SaveSession(ctx, "", session("s1", "1", now, domain.WorkoutSet{ID: "a"})), domain.ErrValidation)
}

func TestSaveSessionHeaderFailure(t *testing.T) {
	store := memory.New()
	sessions := &failingSessions{SessionRepository: store.Sessions(), createErr: errBoom}
	gw := gateway.New(store.Profiles(), store.Exercises(), sessions, store.Sets(), time.Second)

	err := gw.SaveSession(context.Background(), "u1", session("s1", "1", time.Now(), domain.WorkoutSet{ID: "a", Completed: true}))
	var perr *gateway.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.False(t, perr.Orphaned)
	assert.Empty(t, sessions.deleted)
}

func TestSaveSessionCompensatesSetFailure(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	sessions := &failingSessions{SessionRepository: store.Sessions()}
	gw := gateway.New(store.Profiles(), store.Exercises(), sessions, failingSets{store.Sets(), errBoom}, time.Second)

	err := gw.SaveSession(ctx, "u1", session("s1", "1", time.Now(), domain.WorkoutSet{ID: "a", Completed: true}))
	var perr *gateway.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, gateway.OpSaveSession, perr.Op)
	assert.False(t, perr.Orphaned)
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, []string{"s1"}, sessions.deleted)

	headers, err := store.Sessions().ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, headers, "no header survives a failed save")
}

func TestSaveSessionRetryAfterPartialSetWrite(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	sets := &partialSets{SetRepository: store.Sets(), failures: 1}
	gw := gateway.New(store.Profiles(), store.Exercises(), store.Sessions(), sets, time.Second)

	s := session("s1", "1", time.Now(),
		domain.WorkoutSet{ID: "a", Reps: 10, Weight: 20, Completed: true},
		domain.WorkoutSet{ID: "b", Reps: 8, Weight: 25, Completed: true},
	)
	err := gw.SaveSession(ctx, "u1", s)
	var perr *gateway.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.False(t, perr.Orphaned)

	left, err := store.Sets().ListBySessionIDs(ctx, []string{"s1"})
	require.NoError(t, err)
	assert.Empty(t, left, "partial set rows are removed with the header")

	require.NoError(t, gw.SaveSession(ctx, "u1", s))
	history, err := gw.GetHistory(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Len(t, history[0].Sets, 2)
	assert.Equal(t, "a", history[0].Sets[0].ID)
	assert.Equal(t, "b", history[0].Sets[1].ID)
}

func TestSaveSessionOrphanedSets(t *testing.T) {
	store := memory.New()
	sessions := &failingSessions{SessionRepository: store.Sessions()}
	sets := &partialSets{SetRepository: store.Sets(), failures: 1, deleteErr: errors.New("gone away")}
	gw := gateway.New(store.Profiles(), store.Exercises(), sessions, sets, time.Second)

	err := gw.SaveSession(context.Background(), "u1", session("s1", "1", time.Now(),
		domain.WorkoutSet{ID: "a", Completed: true},
		domain.WorkoutSet{ID: "b", Completed: true},
	))
	var perr *gateway.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.True(t, perr.Orphaned)
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, []string{"s1"}, sessions.deleted, "the header is still removed")
}

func TestSaveSessionOrphaned(t *testing.T) {
	store := memory.New()
	sessions := &failingSessions{SessionRepository: store.Sessions(), deleteErr: errors.New("gone away")}
	gw := gateway.New(store.Profiles(), store.Exercises(), sessions, failingSets{store.Sets(), errBoom}, time.Second)

	err := gw.SaveSession(context.Background(), "u1", session("s1", "1", time.Now(), domain.WorkoutSet{ID: "a", Completed: true}))
	var perr *gateway.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.True(t, perr.Orphaned)
	assert.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "orphaned")
}

func TestSeedCatalog(t *testing.T) {
	ctx := context.Background()
	gw := newGateway(memory.New())

	n, err := gw.SeedCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(domain.DefaultCatalog()), n)

	n, err = gw.SeedCatalog(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "seeding only happens on an empty catalog")

	list, err := gw.GetExercises(ctx)
	require.NoError(t, err)
	assert.Len(t, list, len(domain.DefaultCatalog()))
}
