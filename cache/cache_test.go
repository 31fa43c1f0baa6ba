package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_TTLExpiry(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStoreWithClock(func() time.Time { return now })
	ctx := context.Background()

	store.Set(ctx, "performance:week", []byte(`{"owner":"dana"}`), 60*time.Second)

	val, ok := store.Get(ctx, "performance:week")
	require.True(t, ok)
	assert.Equal(t, []byte(`{"owner":"dana"}`), val)

	// One second before expiry: still served.
	now = now.Add(59 * time.Second)
	_, ok = store.Get(ctx, "performance:week")
	assert.True(t, ok)

	// At exactly the TTL boundary the entry is gone.
	now = now.Add(time.Second)
	_, ok = store.Get(ctx, "performance:week")
	assert.False(t, ok)
}

func TestMemoryStore_MissingKey(t *testing.T) {
	store := NewMemoryStore()
	_, ok := store.Get(context.Background(), "nope")
	assert.False(t, ok)
}

func TestMemoryStore_IsolatedBetweenInstances(t *testing.T) {
	ctx := context.Background()
	a := NewMemoryStore()
	b := NewMemoryStore()

	a.Set(ctx, "k", []byte("v"), time.Minute)

	_, ok := b.Get(ctx, "k")
	assert.False(t, ok)
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStore(client)
	ctx := context.Background()

	store.Set(ctx, "performance:month", []byte("payload"), time.Minute)

	val, ok := store.Get(ctx, "performance:month")
	require.True(t, ok)
	assert.Equal(t, []byte("payload"), val)

	mr.FastForward(2 * time.Minute)

	_, ok = store.Get(ctx, "performance:month")
	assert.False(t, ok)
}
