package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotCache_GetSet(t *testing.T) {
	c := NewSnapshotCache(time.Minute)
	id := uuid.New()

	_, _, ok := c.Get(id)
	assert.False(t, ok)

	c.Set(id, 3, []byte("png"))
	version, data, ok := c.Get(id)
	require.True(t, ok)
	assert.Equal(t, uint64(3), version)
	assert.Equal(t, []byte("png"), data)

	c.Invalidate(id)
	_, _, ok = c.Get(id)
	assert.False(t, ok)
}

func TestSnapshotCache_Expires(t *testing.T) {
	c := NewSnapshotCache(time.Second)
	now := time.Now()
	c.now = func() time.Time { return now }
	id := uuid.New()

	c.Set(id, 1, []byte("png"))
	now = now.Add(2 * time.Second)

	_, _, ok := c.Get(id)
	assert.False(t, ok)
}

func TestSnapshotCache_SetSweepsExpired(t *testing.T) {
	c := NewSnapshotCache(time.Second)
	now := time.Now()
	c.now = func() time.Time { return now }

	stale := uuid.New()
	c.Set(stale, 1, []byte("old"))
	now = now.Add(2 * time.Second)

	fresh := uuid.New()
	c.Set(fresh, 1, []byte("new"))

	assert.Equal(t, 1, c.Len())
	_, _, ok := c.Get(fresh)
	assert.True(t, ok)
}

func TestBlockList(t *testing.T) {
	ctx := context.Background()
	b := NewBlockList()

	ok, err := b.Contains(ctx, "spammer")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, b.Add(ctx, "spammer"))
	require.NoError(t, b.Add(ctx, "bot"))
	require.NoError(t, b.Add(ctx, "spammer"))

	ok, err = b.Contains(ctx, "spammer")
	require.NoError(t, err)
	assert.True(t, ok)

	users, err := b.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"bot", "spammer"}, users)
}
