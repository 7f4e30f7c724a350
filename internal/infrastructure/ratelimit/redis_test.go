package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisLimiter(t *testing.T) (*RedisLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisLimiter(client), mr
}

func TestRedisLimiter_AllowUpToLimit(t *testing.T) {
	l, _ := newRedisLimiter(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		d, err := l.Allow(ctx, "key-1", 3, time.Hour)
		require.NoError(t, err)
		assert.True(t, d.Allowed, "request %d should pass", i+1)
		assert.Equal(t, 2-i, d.Remaining)
	}

	d, err := l.Allow(ctx, "key-1", 3, time.Hour)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.True(t, d.ResetAt.After(time.Now()))
}

func TestRedisLimiter_WindowReset(t *testing.T) {
	l, mr := newRedisLimiter(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		d, err := l.Allow(ctx, "key-1", 2, time.Hour)
		require.NoError(t, err)
		assert.True(t, d.Allowed)
	}
	d, err := l.Allow(ctx, "key-1", 2, time.Hour)
	require.NoError(t, err)
	assert.False(t, d.Allowed)

	// Let the window expire server-side.
	mr.FastForward(time.Hour + time.Second)

	d, err = l.Allow(ctx, "key-1", 2, time.Hour)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 1, d.Remaining)
}

func TestRedisLimiter_KeysAreIndependent(t *testing.T) {
	l, _ := newRedisLimiter(t)
	ctx := context.Background()

	d, err := l.Allow(ctx, "key-a", 1, time.Hour)
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	d, err = l.Allow(ctx, "key-a", 1, time.Hour)
	require.NoError(t, err)
	assert.False(t, d.Allowed)

	d, err = l.Allow(ctx, "key-b", 1, time.Hour)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestRedisLimiter_ErrorWhenRedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	l := NewRedisLimiter(client)
	mr.Close()

	_, err := l.Allow(context.Background(), "key-1", 3, time.Hour)
	assert.Error(t, err)
}
