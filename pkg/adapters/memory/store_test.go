package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nwalker85/agentfoundry/pkg/adapters/memory"
	"github.com/nwalker85/agentfoundry/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	ports.RunArtifactStoreContract(t, memory.NewStore())
}

func TestMemoryStore_CopiesBytes(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	payload := []byte("original")
	require.NoError(t, store.Save(ctx, "id", payload))
	payload[0] = 'X'

	data, err := store.Load(ctx, "id")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), data)

	// Mutating a loaded copy must not leak back into the store.
	data[0] = 'Y'
	again, err := store.Load(ctx, "id")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), again)
}
