package report

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SnapshotStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})
	return NewSnapshotStore(client)
}

func TestSnapshotStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	builtAt := time.Date(2025, 3, 1, 3, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(ctx, []byte("%PDF-1.7 fake"), builtAt))

	pdf, at, err := store.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.7 fake"), pdf)
	assert.True(t, at.Equal(builtAt))
}

func TestSnapshotStoreEmpty(t *testing.T) {
	store := newTestStore(t)
	_, _, err := store.Latest(context.Background())
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestSnapshotStoreOverwrite(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, []byte("old"), time.Date(2025, 3, 1, 3, 0, 0, 0, time.UTC)))
	newer := time.Date(2025, 3, 2, 3, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(ctx, []byte("new"), newer))

	pdf, at, err := store.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), pdf)
	assert.True(t, at.Equal(newer))
}
