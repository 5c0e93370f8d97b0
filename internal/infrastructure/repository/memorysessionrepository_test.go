package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safyra/internal/domain/checkin"
	"safyra/internal/shared/errors"
)

func newStoredSession(t *testing.T, userID string) *checkin.Session {
	t.Helper()
	session, err := checkin.NewSession(userID, 60, checkin.Location{
		Latitude:  37.7749,
		Longitude: -122.4194,
		Address:   "Market St",
	})
	require.NoError(t, err)
	return session
}

func TestMemorySessionRepository_SaveAndGet(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	session := newStoredSession(t, "user-1")
	require.NoError(t, repo.Save(ctx, session))

	got, err := repo.GetByID(ctx, session.ID())
	require.NoError(t, err)
	assert.Equal(t, session.ID(), got.ID())
	assert.Equal(t, "user-1", got.UserID())
	assert.True(t, got.IsActive())
	assert.Equal(t, session.StartTime(), got.StartTime(), "timestamps must round-trip with full precision")
	assert.Equal(t, session.Location(), got.Location())
}

func TestMemorySessionRepository_GetMissing(t *testing.T) {
	repo := NewMemorySessionRepository()

	_, err := repo.GetByID(context.Background(), "ps_missing")
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
}

// TestMemorySessionRepository_SnapshotIsolation mutates the entity after
// Save and checks the stored state is unchanged until the next Save.
func TestMemorySessionRepository_SnapshotIsolation(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	session := newStoredSession(t, "user-1")
	require.NoError(t, repo.Save(ctx, session))

	require.NoError(t, session.RegisterTap())

	got, err := repo.GetByID(ctx, session.ID())
	require.NoError(t, err)
	assert.Equal(t, 1, got.TotalTaps(), "stored snapshot must not see post-save mutations")

	require.NoError(t, repo.Save(ctx, session))

	got, err = repo.GetByID(ctx, session.ID())
	require.NoError(t, err)
	assert.Equal(t, 2, got.TotalTaps())
}

func TestMemorySessionRepository_FindActiveByUserID(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	ended := newStoredSession(t, "user-1")
	require.NoError(t, ended.End())
	require.NoError(t, repo.Save(ctx, ended))

	_, err := repo.FindActiveByUserID(ctx, "user-1")
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))

	active := newStoredSession(t, "user-1")
	require.NoError(t, repo.Save(ctx, active))

	got, err := repo.FindActiveByUserID(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, active.ID(), got.ID())

	_, err = repo.FindActiveByUserID(ctx, "user-2")
	require.Error(t, err)
}

func TestMemorySessionRepository_ListByUserID_NewestFirst(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	first := newStoredSession(t, "user-1")
	require.NoError(t, repo.Save(ctx, first))

	time.Sleep(2 * time.Millisecond)

	second := newStoredSession(t, "user-1")
	require.NoError(t, repo.Save(ctx, second))
	require.NoError(t, repo.Save(ctx, newStoredSession(t, "user-2")))

	sessions, err := repo.ListByUserID(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, second.ID(), sessions[0].ID())
	assert.Equal(t, first.ID(), sessions[1].ID())
}

func TestMemorySessionRepository_Remove(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	session := newStoredSession(t, "user-1")
	require.NoError(t, repo.Save(ctx, session))
	require.NoError(t, repo.Remove(ctx, session.ID()))

	_, err := repo.GetByID(ctx, session.ID())
	require.Error(t, err)

	err = repo.Remove(ctx, session.ID())
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
}
