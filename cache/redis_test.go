package cache

import (
	"context"
	"net"
	"os"
	"testing"
	"time"

	"github.com/IWTDPLZZZ/Habit-Tracker/config"
	"github.com/IWTDPLZZZ/Habit-Tracker/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Нужен живой сервер: REDIS_TEST_ADDR=host:port.
func connectTestStore(t *testing.T) *RedisStore {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}

	cfg := config.Default()
	host, port, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	cfg.Redis.Host = host
	cfg.Redis.Port = port
	cfg.Redis.Prefix = "test:" + uuid.NewString() + ":"

	s, err := Connect(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRedisStore_GetSet(t *testing.T) {
	ctx := context.Background()
	s := connectTestStore(t)

	_, ok, err := s.Get(ctx, storage.KeyGoals)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, storage.KeyGoals, `[]`))
	v, ok, err := s.Get(ctx, storage.KeyGoals)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, v)
}

func TestRedisStore_IncrementCounter(t *testing.T) {
	ctx := context.Background()
	s := connectTestStore(t)

	n, err := s.IncrementCounter(ctx, "rate_limit:127.0.0.1", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = s.IncrementCounter(ctx, "rate_limit:127.0.0.1", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
