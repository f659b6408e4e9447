package store

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestRedis connects to the redis named by HITS_TEST_REDIS, or skips.
func openTestRedis(t *testing.T) *RedisStore {
	t.Helper()
	addr := os.Getenv("HITS_TEST_REDIS")
	if addr == "" {
		t.Skip("HITS_TEST_REDIS not set, skipping redis store tests")
	}
	s, err := OpenRedis(addr, os.Getenv("HITS_TEST_REDIS_AUTH"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRedisCounter(t *testing.T) {
	s := openTestRedis(t)
	ctx := context.Background()

	name := fmt.Sprintf("test-%d", time.Now().UnixNano())

	count, err := s.ReadCounter(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count, "absent counter must read as 0")

	count, err = s.IncrementCounter(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = s.IncrementCounter(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = s.ReadCounter(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestRedisDedup(t *testing.T) {
	s := openTestRedis(t)
	ctx := context.Background()

	fp := fmt.Sprintf("fp-%d", time.Now().UnixNano())

	dup, err := s.IsDuplicate(ctx, fp)
	require.NoError(t, err)
	assert.False(t, dup)

	require.NoError(t, s.RecordVisit(ctx, fp, 2*time.Second))

	dup, err = s.IsDuplicate(ctx, fp)
	require.NoError(t, err)
	assert.True(t, dup)

	// The record expires store-side.
	time.Sleep(2100 * time.Millisecond)
	dup, err = s.IsDuplicate(ctx, fp)
	require.NoError(t, err)
	assert.False(t, dup)
}

func TestRedisUnavailable(t *testing.T) {
	// Nothing listens on this port.
	s, err := OpenRedis("127.0.0.1:1", "")
	require.NoError(t, err)
	defer s.Close()

	_, err = s.IncrementCounter(context.Background(), "default")
	assert.ErrorIs(t, err, ErrUnavailable)
}
