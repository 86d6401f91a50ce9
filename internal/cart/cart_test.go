package cart

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	mr := miniredis.RunT(t)
	return &Store{Redis: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
}

func TestSetItemAndGet(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetItem(ctx, "u1", "p1", 2))
	require.NoError(t, s.SetItem(ctx, "u1", "p2", 5))
	require.NoError(t, s.SetItem(ctx, "u1", "p2", 3)) // upsert overwrites

	entries, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	qty := map[string]int{}
	for _, e := range entries {
		qty[e.ProductID] = e.Qty
	}
	assert.Equal(t, 2, qty["p1"])
	assert.Equal(t, 3, qty["p2"])
}

func TestSetItemZeroRemovesLine(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetItem(ctx, "u1", "p1", 2))
	require.NoError(t, s.SetItem(ctx, "u1", "p1", 0))

	entries, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestClear(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetItem(ctx, "u1", "p1", 1))
	require.NoError(t, s.Clear(ctx, "u1"))

	entries, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCartsAreIsolatedPerUser(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetItem(ctx, "u1", "p1", 1))
	require.NoError(t, s.SetItem(ctx, "u2", "p2", 4))
	require.NoError(t, s.Clear(ctx, "u1"))

	entries, err := s.Get(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "p2", entries[0].ProductID)
}
