package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careslot/backend/internal/domain/providers"
)

func TestMemoryAdapter(t *testing.T) {
	ctx := context.Background()

	t.Run("load missing key", func(t *testing.T) {
		adapter := NewMemoryAdapter()

		_, err := adapter.Load(ctx, "doctors")
		assert.ErrorIs(t, err, providers.ErrSnapshotNotFound)
	})

	t.Run("save then load", func(t *testing.T) {
		adapter := NewMemoryAdapter()

		require.NoError(t, adapter.Save(ctx, "doctors", []byte(`[{"id":"d1"}]`)))

		data, err := adapter.Load(ctx, "doctors")
		require.NoError(t, err)
		assert.Equal(t, []byte(`[{"id":"d1"}]`), data)
	})

	t.Run("save overwrites", func(t *testing.T) {
		adapter := NewMemoryAdapter()

		require.NoError(t, adapter.Save(ctx, "doctors", []byte("old")))
		require.NoError(t, adapter.Save(ctx, "doctors", []byte("new")))

		data, err := adapter.Load(ctx, "doctors")
		require.NoError(t, err)
		assert.Equal(t, []byte("new"), data)
	})

	t.Run("returned snapshot is isolated from the store", func(t *testing.T) {
		adapter := NewMemoryAdapter()

		original := []byte("snapshot")
		require.NoError(t, adapter.Save(ctx, "doctors", original))
		original[0] = 'X'

		loaded, err := adapter.Load(ctx, "doctors")
		require.NoError(t, err)
		assert.Equal(t, []byte("snapshot"), loaded)

		loaded[0] = 'Y'
		again, err := adapter.Load(ctx, "doctors")
		require.NoError(t, err)
		assert.Equal(t, []byte("snapshot"), again)
	})

	t.Run("delete", func(t *testing.T) {
		adapter := NewMemoryAdapter()

		require.NoError(t, adapter.Save(ctx, "currentUser", []byte("{}")))
		require.NoError(t, adapter.Delete(ctx, "currentUser"))

		_, err := adapter.Load(ctx, "currentUser")
		assert.ErrorIs(t, err, providers.ErrSnapshotNotFound)

		// Deleting an absent key is not an error
		assert.NoError(t, adapter.Delete(ctx, "currentUser"))
	})
}
