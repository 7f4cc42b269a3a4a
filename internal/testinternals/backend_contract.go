package testinternals

import (
	"context"
	"testing"

	"github.com/2beens/gymbros/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunBackendContract checks the behaviour every storage.Backend must share.
// The backend is expected to be empty.
func RunBackendContract(t *testing.T, b storage.Backend) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing_key", func(t *testing.T) {
		_, err := b.Get(ctx, "gym-bros-routines")
		assert.ErrorIs(t, err, storage.ErrKeyNotFound)
	})

	t.Run("set_get_overwrite", func(t *testing.T) {
		require.NoError(t, b.Set(ctx, "gym-bros-routines", []byte(`[]`)))
		val, err := b.Get(ctx, "gym-bros-routines")
		require.NoError(t, err)
		assert.JSONEq(t, `[]`, string(val))

		require.NoError(t, b.Set(ctx, "gym-bros-routines", []byte(`[{"id":"r1","name":"Push"}]`)))
		val, err = b.Get(ctx, "gym-bros-routines")
		require.NoError(t, err)
		assert.JSONEq(t, `[{"id":"r1","name":"Push"}]`, string(val))
	})

	t.Run("keys_are_independent", func(t *testing.T) {
		require.NoError(t, b.Set(ctx, "gym-bros-settings", []byte(`{"darkMode":true,"defaultWeightUnit":"lbs"}`)))
		require.NoError(t, b.Set(ctx, "gym-bros-workouts", []byte(`[]`)))

		val, err := b.Get(ctx, "gym-bros-settings")
		require.NoError(t, err)
		assert.JSONEq(t, `{"darkMode":true,"defaultWeightUnit":"lbs"}`, string(val))
	})

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, b.Remove(ctx, "gym-bros-workouts"))
		_, err := b.Get(ctx, "gym-bros-workouts")
		assert.ErrorIs(t, err, storage.ErrKeyNotFound)

		// removing again is fine
		require.NoError(t, b.Remove(ctx, "gym-bros-workouts"))

		// other keys untouched
		_, err = b.Get(ctx, "gym-bros-settings")
		assert.NoError(t, err)
	})

	t.Run("invalid_key", func(t *testing.T) {
		assert.ErrorIs(t, b.Set(ctx, "../escape", []byte(`{}`)), storage.ErrInvalidKey)
		_, err := b.Get(ctx, "")
		assert.ErrorIs(t, err, storage.ErrInvalidKey)
	})

	t.Run("cleanup", func(t *testing.T) {
		for _, key := range []string{"gym-bros-routines", "gym-bros-workouts", "gym-bros-settings"} {
			require.NoError(t, b.Remove(ctx, key))
		}
	})
}
