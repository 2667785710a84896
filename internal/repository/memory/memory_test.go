package memory_test

import (
	"context"
	"testing"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
	"alcyxob/workout-tracker/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsers(t *testing.T) {
	ctx := context.Background()
	users := memory.New().Users()

	require.NoError(t, users.Create(ctx, &domain.User{ID: "u1", Email: "A@B.c", Provider: domain.ProviderPassword}))
	assert.ErrorIs(t, users.Create(ctx, &domain.User{ID: "u2", Email: "a@b.C"}), repository.ErrDuplicate)

	u, err := users.GetByEmail(ctx, "a@B.c")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)

	_, err = users.GetByID(ctx, "u2")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSessionsAndSets(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Sessions().Create(ctx, &repository.SessionRecord{ID: "old", UserID: "u1", Date: base}))
	require.NoError(t, store.Sessions().Create(ctx, &repository.SessionRecord{ID: "new", UserID: "u1", Date: base.Add(time.Hour)}))
	require.NoError(t, store.Sessions().Create(ctx, &repository.SessionRecord{ID: "other", UserID: "u2", Date: base}))
	assert.ErrorIs(t, store.Sessions().Create(ctx, &repository.SessionRecord{ID: "old"}), repository.ErrDuplicate)

	list, err := store.Sessions().ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].ID)

	require.NoError(t, store.Sets().CreateMany(ctx, []repository.SetRecord{
		{ID: "b", SessionID: "old", Position: 1},
		{ID: "a", SessionID: "old", Position: 0},
		{ID: "c", SessionID: "other", Position: 0},
	}))
	sets, err := store.Sets().ListBySessionIDs(ctx, []string{"old"})
	require.NoError(t, err)
	require.Len(t, sets, 2)
	assert.Equal(t, "a", sets[0].ID)

	err = store.Sets().CreateMany(ctx, []repository.SetRecord{{ID: "d", SessionID: "new"}, {ID: "a", SessionID: "new"}})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
	err = store.Sets().CreateMany(ctx, []repository.SetRecord{{ID: "e", SessionID: "new"}, {ID: "e", SessionID: "new"}})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
	sets, err = store.Sets().ListBySessionIDs(ctx, []string{"new"})
	require.NoError(t, err)
	assert.Empty(t, sets, "a rejected batch writes nothing")

	require.NoError(t, store.Sets().DeleteBySessionID(ctx, "old"))
	require.NoError(t, store.Sets().DeleteBySessionID(ctx, "old"))
	sets, err = store.Sets().ListBySessionIDs(ctx, []string{"old", "other"})
	require.NoError(t, err)
	require.Len(t, sets, 1)
	assert.Equal(t, "c", sets[0].ID)

	require.NoError(t, store.Sessions().Delete(ctx, "old"))
	assert.ErrorIs(t, store.Sessions().Delete(ctx, "old"), repository.ErrNotFound)
}

func TestProfilesAndExercises(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	_, err := store.Profiles().GetByUserID(ctx, "u1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	require.NoError(t, store.Profiles().Upsert(ctx, &repository.ProfileRecord{UserID: "u1", Name: "Sam"}))
	require.NoError(t, store.Profiles().Upsert(ctx, &repository.ProfileRecord{UserID: "u1", Name: "Alex"}))
	p, err := store.Profiles().GetByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Alex", p.Name)

	require.NoError(t, store.Exercises().Create(ctx, &domain.Exercise{ID: "e1", Name: "Squat"}))
	assert.ErrorIs(t, store.Exercises().Create(ctx, &domain.Exercise{ID: "e1", Name: "Squat"}), repository.ErrDuplicate)
	list, err := store.Exercises().List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
