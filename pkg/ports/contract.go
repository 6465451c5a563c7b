package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunArtifactStoreContract verifies that an ArtifactStore
// implementation adheres to the interface contract. Adapter test
// suites call this against their own backend.
func RunArtifactStoreContract(t *testing.T, store ArtifactStore) {
	ctx := context.Background()
	id := "contract-artifact-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		err := store.Save(ctx, id, []byte("package workflow"))
		require.NoError(t, err, "Save should not return error")

		data, err := store.Load(ctx, id)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, []byte("package workflow"), data)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+id)
		assert.ErrorIs(t, err, ErrArtifactNotFound)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, id, []byte("v1")))
		require.NoError(t, store.Save(ctx, id, []byte("v2")))

		data, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, []byte("v2"), data)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, id, []byte("to delete")))
		require.NoError(t, store.Delete(ctx, id))

		_, err := store.Load(ctx, id)
		assert.ErrorIs(t, err, ErrArtifactNotFound, "Load after Delete should return ErrArtifactNotFound")

		// Deleting again is not an error.
		assert.NoError(t, store.Delete(ctx, id))
	})
}
