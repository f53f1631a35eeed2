package cache_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/SalesERP-api/internal/infrastructure/cache"
	"github.com/jhoicas/SalesERP-api/pkg/config"
	"github.com/jhoicas/SalesERP-api/pkg/logger"
)

func TestMemoryStore_Expira(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	s := cache.NewMemoryStoreWithClock(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v"), 300*time.Second))

	now = now.Add(299 * time.Second)
	got, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), got)

	now = now.Add(2 * time.Second)
	_, ok, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore_SetBarreClavesVencidas(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	s := cache.NewMemoryStoreWithClock(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "dashboard:c-1", []byte("a"), 10*time.Second))
	require.NoError(t, s.Set(ctx, "dashboard:c-2", []byte("b"), 10*time.Second))
	require.NoError(t, s.Set(ctx, "dashboard:c-3", []byte("c"), time.Hour))

	// vencidas pero aún no toca barrer
	now = now.Add(30 * time.Second)
	require.NoError(t, s.Set(ctx, "dashboard:c-4", []byte("d"), time.Hour))
	assert.Equal(t, 4, s.Len())

	now = now.Add(cache.SweepInterval)
	require.NoError(t, s.Set(ctx, "dashboard:c-5", []byte("e"), time.Hour))
	assert.Equal(t, 3, s.Len(), "c-1 y c-2 nunca se releyeron y deben desaparecer")

	got, ok, err := s.Get(ctx, "dashboard:c-3")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("c"), got)
}

func TestMemoryStore_Delete(t *testing.T) {
	s := cache.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "k", []byte("v"), time.Minute))
	require.NoError(t, s.Delete(ctx, "k"))
	_, ok, _ := s.Get(ctx, "k")
	assert.False(t, ok)
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *cache.RedisStore) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, cache.NewRedisStoreWithClient(client, "test:")
}

func TestRedisStore_SetGetTTL(t *testing.T) {
	mr, s := newRedis(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "dashboard:c1:u1", []byte(`{"v":1}`), 300*time.Second))
	assert.True(t, mr.Exists("test:dashboard:c1:u1"))
	assert.Equal(t, 300*time.Second, mr.TTL("test:dashboard:c1:u1"))

	got, ok, err := s.Get(ctx, "dashboard:c1:u1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"v":1}`, string(got))

	mr.FastForward(301 * time.Second)
	_, ok, err = s.Get(ctx, "dashboard:c1:u1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_MissYDelete(t *testing.T) {
	_, s := newRedis(t)
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "nada")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "k", []byte("v"), time.Minute))
	require.NoError(t, s.Delete(ctx, "k"))
	_, ok, _ = s.Get(ctx, "k")
	assert.False(t, ok)
}

func TestRedisStore_ErrorSiRedisCae(t *testing.T) {
	mr, s := newRedis(t)
	mr.Close()
	_, _, err := s.Get(context.Background(), "k")
	assert.Error(t, err)
}

func TestNewStore_FallbackAMemoria(t *testing.T) {
	s := cache.NewStore(config.RedisConfig{}, logger.Nop())
	_, isMem := s.(*cache.MemoryStore)
	assert.True(t, isMem)

	// puerto cerrado
	s = cache.NewStore(config.RedisConfig{Host: "127.0.0.1", Port: 1}, logger.Nop())
	_, isMem = s.(*cache.MemoryStore)
	assert.True(t, isMem)
}

func TestNewStore_UsaRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	s := cache.NewStore(config.RedisConfig{Host: mr.Host(), Port: port}, logger.Nop())
	t.Cleanup(func() { _ = s.Close() })
	_, isRedis := s.(*cache.RedisStore)
	assert.True(t, isRedis)
}
