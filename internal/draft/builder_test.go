package draft_test

import (
	"fmt"
	"math"
	"testing"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/draft"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var benchPress = domain.Exercise{ID: "1", Name: "Barbell Bench Press", MuscleGroup: domain.MuscleChest, Equipment: "Barbell"}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newLoggingBuilder(t *testing.T) *draft.Builder {
	t.Helper()
	b := draft.NewBuilder(domain.MuscleChest, draft.WithIDGenerator(sequentialIDs()))
	require.NoError(t, b.SelectExercise(benchPress))
	return b
}

func TestSelectExercise(t *testing.T) {
	b := draft.NewBuilder(domain.MuscleChest)
	assert.Equal(t, draft.StateSelectingExercise, b.State())
	assert.Nil(t, b.Exercise())

	require.NoError(t, b.SelectExercise(benchPress))
	assert.Equal(t, draft.StateLogging, b.State())
	assert.Equal(t, benchPress, *b.Exercise())

	sets := b.Sets()
	require.Len(t, sets, 1)
	assert.Equal(t, 10, sets[0].Reps)
	assert.Equal(t, 20.0, sets[0].Weight)
	assert.False(t, sets[0].Completed)
	assert.NotEmpty(t, sets[0].ID)

	assert.ErrorIs(t, b.SelectExercise(benchPress), draft.ErrInvalidTransition)
}

func TestSelectExerciseAdoptsMuscleWhenUnscoped(t *testing.T) {
	b := draft.NewBuilder("")
	require.NoError(t, b.SelectExercise(benchPress))
	assert.Equal(t, domain.MuscleChest, b.Muscle())
}

func TestAvailableExercises(t *testing.T) {
	catalog := domain.DefaultCatalog()
	back := draft.NewBuilder(domain.MuscleBack).AvailableExercises(catalog)
	require.Len(t, back, 2)
	for _, ex := range back {
		assert.Equal(t, domain.MuscleBack, ex.MuscleGroup)
	}
	assert.Len(t, draft.NewBuilder("").AvailableExercises(catalog), len(catalog))
}

func TestCreateExercise(t *testing.T) {
	t.Run("empty name", func(t *testing.T) {
		b := draft.NewBuilder(domain.MuscleChest)
		_, err := b.CreateExercise("", domain.MuscleChest, "")
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Equal(t, draft.StateSelectingExercise, b.State())
	})
	t.Run("whitespace name", func(t *testing.T) {
		b := draft.NewBuilder(domain.MuscleChest)
		_, err := b.CreateExercise("   ", "", "")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
	t.Run("no muscle known", func(t *testing.T) {
		b := draft.NewBuilder("")
		_, err := b.CreateExercise("Cable Row", "", "")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
	t.Run("success", func(t *testing.T) {
		b := draft.NewBuilder("")
		ex, err := b.CreateExercise("Cable Row", domain.MuscleBack, "")
		require.NoError(t, err)
		assert.NotEmpty(t, ex.ID)
		assert.Equal(t, "Cable Row", ex.Name)
		assert.Equal(t, domain.DefaultEquipment, ex.Equipment)
		assert.Equal(t, draft.StateLogging, b.State())
		assert.Equal(t, ex.ID, b.Exercise().ID)
		assert.Len(t, b.Sets(), 1)
	})
	t.Run("falls back to target muscle", func(t *testing.T) {
		b := draft.NewBuilder(domain.MuscleLegs)
		ex, err := b.CreateExercise("Hack Squat", "", "Machine")
		require.NoError(t, err)
		assert.Equal(t, domain.MuscleLegs, ex.MuscleGroup)
		assert.Equal(t, "Machine", ex.Equipment)
	})
	t.Run("not while logging", func(t *testing.T) {
		b := newLoggingBuilder(t)
		_, err := b.CreateExercise("Cable Row", domain.MuscleBack, "")
		assert.ErrorIs(t, err, draft.ErrInvalidTransition)
	})
}

func TestAddSet(t *testing.T) {
	t.Run("requires logging", func(t *testing.T) {
		_, err := draft.NewBuilder(domain.MuscleChest).AddSet()
		assert.ErrorIs(t, err, draft.ErrInvalidTransition)
	})
	t.Run("seeds from last set", func(t *testing.T) {
		b := newLoggingBuilder(t)
		first := b.Sets()[0]
		require.NoError(t, b.UpdateSet(first.ID, draft.FieldReps, 8))
		require.NoError(t, b.UpdateSet(first.ID, draft.FieldWeight, 40.0))
		require.NoError(t, b.UpdateSet(first.ID, draft.FieldCompleted, true))

		set, err := b.AddSet()
		require.NoError(t, err)
		assert.Equal(t, 8, set.Reps)
		assert.Equal(t, 40.0, set.Weight)
		assert.False(t, set.Completed)
		assert.NotEqual(t, first.ID, set.ID)
		assert.Len(t, b.Sets(), 2)
	})
}

func TestUpdateSet(t *testing.T) {
	b := newLoggingBuilder(t)
	id := b.Sets()[0].ID

	require.NoError(t, b.UpdateSet(id, draft.FieldReps, 12.0))
	require.NoError(t, b.UpdateSet(id, draft.FieldWeight, 32.5))
	require.NoError(t, b.UpdateSet(id, draft.FieldCompleted, true))
	set := b.Sets()[0]
	assert.Equal(t, 12, set.Reps)
	assert.Equal(t, 32.5, set.Weight)
	assert.True(t, set.Completed)

	t.Run("non-finite coerced to zero", func(t *testing.T) {
		require.NoError(t, b.UpdateSet(id, draft.FieldWeight, math.NaN()))
		assert.Equal(t, 0.0, b.Sets()[0].Weight)
		require.NoError(t, b.UpdateSet(id, draft.FieldReps, math.Inf(1)))
		assert.Equal(t, 0, b.Sets()[0].Reps)
	})
	t.Run("negative coerced to zero", func(t *testing.T) {
		require.NoError(t, b.UpdateSet(id, draft.FieldWeight, -5.0))
		assert.Equal(t, 0.0, b.Sets()[0].Weight)
	})
	t.Run("reps above the limit are rejected", func(t *testing.T) {
		require.NoError(t, b.UpdateSet(id, draft.FieldReps, 7))
		assert.ErrorIs(t, b.UpdateSet(id, draft.FieldReps, 1e300), domain.ErrValidation)
		assert.ErrorIs(t, b.UpdateSet(id, draft.FieldReps, float64(draft.MaxReps)+1), domain.ErrValidation)
		assert.Equal(t, 7, b.Sets()[0].Reps)

		require.NoError(t, b.UpdateSet(id, draft.FieldReps, draft.MaxReps))
		assert.Equal(t, draft.MaxReps, b.Sets()[0].Reps)
	})
	t.Run("unknown id is a no-op", func(t *testing.T) {
		before := b.Sets()
		require.NoError(t, b.UpdateSet("missing", draft.FieldReps, 3))
		assert.Equal(t, before, b.Sets())
	})
	t.Run("wrong value type", func(t *testing.T) {
		assert.ErrorIs(t, b.UpdateSet(id, draft.FieldReps, "ten"), domain.ErrValidation)
		assert.ErrorIs(t, b.UpdateSet(id, draft.FieldCompleted, 1), domain.ErrValidation)
	})
	t.Run("unknown field", func(t *testing.T) {
		assert.ErrorIs(t, b.UpdateSet(id, "tempo", 3), domain.ErrValidation)
	})
}

func TestRemoveSet(t *testing.T) {
	b := newLoggingBuilder(t)
	only := b.Sets()[0].ID

	require.NoError(t, b.RemoveSet(only))
	assert.Len(t, b.Sets(), 1, "the last set is never removed")

	second, err := b.AddSet()
	require.NoError(t, err)
	third, err := b.AddSet()
	require.NoError(t, err)

	require.NoError(t, b.RemoveSet(second.ID))
	sets := b.Sets()
	require.Len(t, sets, 2)
	assert.Equal(t, only, sets[0].ID)
	assert.Equal(t, third.ID, sets[1].ID)

	require.NoError(t, b.RemoveSet("missing"))
	assert.Len(t, b.Sets(), 2)

	require.NoError(t, b.RemoveSet(only))
	require.NoError(t, b.RemoveSet(third.ID))
	assert.Len(t, b.Sets(), 1)
}

func TestFinalize(t *testing.T) {
	now := time.Date(2026, 3, 1, 18, 30, 0, 0, time.UTC)

	build := func(t *testing.T, completed ...bool) *draft.Builder {
		t.Helper()
		b := draft.NewBuilder(domain.MuscleChest,
			draft.WithIDGenerator(sequentialIDs()),
			draft.WithClock(func() time.Time { return now }),
		)
		require.NoError(t, b.SelectExercise(benchPress))
		for i := 1; i < len(completed); i++ {
			_, err := b.AddSet()
			require.NoError(t, err)
		}
		for i, set := range b.Sets() {
			require.NoError(t, b.UpdateSet(set.ID, draft.FieldReps, 10-i))
			require.NoError(t, b.UpdateSet(set.ID, draft.FieldCompleted, completed[i]))
		}
		return b
	}

	t.Run("none completed yields no session", func(t *testing.T) {
		b := build(t, false, false, false)
		session, err := b.Finalize()
		require.NoError(t, err)
		assert.Nil(t, session)
		assert.Equal(t, draft.StateFinalized, b.State())
		assert.Equal(t, 3, b.Discarded())
	})
	t.Run("only completed sets survive", func(t *testing.T) {
		b := build(t, false, true, false)
		session, err := b.Finalize()
		require.NoError(t, err)
		require.NotNil(t, session)
		require.Len(t, session.Sets, 1)
		assert.Equal(t, 9, session.Sets[0].Reps)
		assert.Equal(t, benchPress.ID, session.ExerciseID)
		assert.Equal(t, now, session.Date)
		assert.NotEmpty(t, session.ID)
		assert.True(t, domain.IsLoggable(*session))
		assert.Equal(t, 2, b.Discarded())
	})
	t.Run("order preserved", func(t *testing.T) {
		b := build(t, true, false, true, true)
		session, err := b.Finalize()
		require.NoError(t, err)
		require.Len(t, session.Sets, 3)
		assert.Equal(t, []int{10, 8, 7}, []int{session.Sets[0].Reps, session.Sets[1].Reps, session.Sets[2].Reps})
	})
	t.Run("terminal", func(t *testing.T) {
		b := build(t, true)
		_, err := b.Finalize()
		require.NoError(t, err)
		_, err = b.Finalize()
		assert.ErrorIs(t, err, draft.ErrInvalidTransition)
		_, err = b.AddSet()
		assert.ErrorIs(t, err, draft.ErrInvalidTransition)
		assert.ErrorIs(t, b.RemoveSet("id-1"), draft.ErrInvalidTransition)
	})
	t.Run("requires logging", func(t *testing.T) {
		_, err := draft.NewBuilder(domain.MuscleChest).Finalize()
		assert.ErrorIs(t, err, draft.ErrInvalidTransition)
	})
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "selecting_exercise", draft.StateSelectingExercise.String())
	assert.Equal(t, "logging", draft.StateLogging.String())
	assert.Equal(t, "finalized", draft.StateFinalized.String())
}
