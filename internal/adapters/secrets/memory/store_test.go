package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellarsig/msig/internal/domain"
)

func TestStoreRoundTrip(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "chat-1/owner", "SSEED"))

	value, err := store.Get(ctx, "chat-1/owner")
	require.NoError(t, err)
	assert.Equal(t, "SSEED", value)
}

func TestStoreGetMissing(t *testing.T) {
	store := NewStore()

	_, err := store.Get(context.Background(), "unknown")
	assert.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestStoreDelete(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "chat-1/owner", "SSEED"))
	require.NoError(t, store.Delete(ctx, "chat-1/owner"))

	_, err := store.Get(ctx, "chat-1/owner")
	assert.ErrorIs(t, err, domain.ErrSecretNotFound)

	// Deleting a missing key is fine.
	assert.NoError(t, store.Delete(ctx, "chat-1/owner"))
}
