package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellarsig/msig/internal/domain"
)

func TestRepositoryRoundTrip(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	session := domain.NewSession("chat-1", now)
	require.NoError(t, session.SetOwner("owner", "GOWNER", now))
	require.NoError(t, repo.Save(ctx, session))

	loaded, err := repo.GetByID(ctx, "chat-1")
	require.NoError(t, err)
	assert.Equal(t, domain.SessionID("chat-1"), loaded.ID)
	assert.Equal(t, domain.MemberID("owner"), loaded.OwnerID)
}

func TestRepositoryGetMissing(t *testing.T) {
	repo := NewRepository()

	_, err := repo.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestRepositorySaveAndGetAreIsolated(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()
	now := time.Now()

	session := domain.NewSession("chat-1", now)
	require.NoError(t, session.SetOwner("owner", "GOWNER", now))
	require.NoError(t, repo.Save(ctx, session))

	// Mutating the saved pointer must not leak into the store.
	require.NoError(t, session.AddMember("bob", "GBOB", now))

	loaded, err := repo.GetByID(ctx, "chat-1")
	require.NoError(t, err)
	assert.Len(t, loaded.Members, 1)

	// Mutating a loaded copy must not leak either.
	require.NoError(t, loaded.AddMember("carol", "GCAROL", now))
	reloaded, err := repo.GetByID(ctx, "chat-1")
	require.NoError(t, err)
	assert.Len(t, reloaded.Members, 1)
}

func TestRepositoryListSortedByID(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.Save(ctx, domain.NewSession("chat-b", now)))
	require.NoError(t, repo.Save(ctx, domain.NewSession("chat-a", now)))

	sessions, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, domain.SessionID("chat-a"), sessions[0].ID)
	assert.Equal(t, domain.SessionID("chat-b"), sessions[1].ID)
}

func TestRepositoryDelete(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, domain.NewSession("chat-1", time.Now())))
	require.NoError(t, repo.Delete(ctx, "chat-1"))

	_, err := repo.GetByID(ctx, "chat-1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	// Deleting twice is fine.
	assert.NoError(t, repo.Delete(ctx, "chat-1"))
}
