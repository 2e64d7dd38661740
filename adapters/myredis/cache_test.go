package myredis

import (
	"context"
	"testing"
	"time"

	"webservers/domain"
	"webservers/helpers"
	"webservers/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPrefix = "discovery"

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, redis.UniversalClient) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := NewRedisUniversalClient("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func testEntry() domain.CacheEntry {
	pulse := helpers.TestNow().Add(-time.Minute)
	return domain.CacheEntry{
		Kind: domain.KindPatchServer,
		Endpoints: []domain.Endpoint{
			{Address: "10.0.1.1", Port: 8000, LastPulse: &pulse},
			{Address: "10.0.1.2", Port: 8000, LastPulse: &pulse},
		},
		FetchedAt: helpers.TestNow(),
	}
}

func TestNewCache_Panics(t *testing.T) {
	_, client := setupTestRedis(t)
	marshal := func(string) ([]byte, error) { return nil, nil }
	unmarshal := func([]byte) (string, error) { return "", nil }

	assert.PanicsWithValue(t, "myredis.cache.go: client is required", func() {
		NewCache[string](nil, testPrefix, marshal, unmarshal)
	})
	assert.PanicsWithValue(t, "myredis.cache.go: prefix is required", func() {
		NewCache[string](client, "", marshal, unmarshal)
	})
	assert.PanicsWithValue(t, "myredis.cache.go: marshal is required", func() {
		NewCache[string](client, testPrefix, nil, unmarshal)
	})
	assert.PanicsWithValue(t, "myredis.cache.go: unmarshal is required", func() {
		NewCache[string](client, testPrefix, marshal, nil)
	})
}

func TestCache_WriteAndReadValue(t *testing.T) {
	ctx := context.Background()
	mr, client := setupTestRedis(t)
	cache := NewJSONCache[domain.CacheEntry](client, testPrefix)
	entry := testEntry()

	t.Run("success", func(t *testing.T) {
		require.NoError(t, cache.WriteValue(ctx, "patchserver", entry, 300000))

		got, err := cache.ReadValue(ctx, "patchserver")
		require.NoError(t, err)
		assert.Equal(t, entry, got)
		assert.True(t, mr.Exists(testPrefix+":patchserver"))
		assert.Equal(t, 300*time.Second, mr.TTL(testPrefix+":patchserver"))
	})

	t.Run("missing key returns entity not found", func(t *testing.T) {
		_, err := cache.ReadValue(ctx, "loginserver")
		require.Error(t, err)
		assert.True(t, service.IsEntityNotFoundError(err))
	})

	t.Run("expired key returns entity not found", func(t *testing.T) {
		require.NoError(t, cache.WriteValue(ctx, "short", entry, 1000))
		mr.FastForward(time.Second)

		_, err := cache.ReadValue(ctx, "short")
		assert.True(t, service.IsEntityNotFoundError(err))
	})

	t.Run("zero ttl keeps key", func(t *testing.T) {
		require.NoError(t, cache.WriteValue(ctx, "forever", entry, 0))
		mr.FastForward(time.Hour)

		_, err := cache.ReadValue(ctx, "forever")
		require.NoError(t, err)
	})

	t.Run("invalid JSON returns internal_server_error", func(t *testing.T) {
		require.NoError(t, mr.Set(testPrefix+":broken", "invalid json"))

		_, err := cache.ReadValue(ctx, "broken")
		require.Error(t, err)
		assert.True(t, service.IsInternalServerError(err))
	})
}

func TestCache_RedisUnavailable(t *testing.T) {
	ctx := context.Background()
	mr, client := setupTestRedis(t)
	cache := NewJSONCache[domain.CacheEntry](client, testPrefix)
	mr.Close()

	err := cache.WriteValue(ctx, "patchserver", testEntry(), 60000)
	require.Error(t, err)
	assert.True(t, service.IsInternalServerError(err))

	_, err = cache.ReadValue(ctx, "patchserver")
	require.Error(t, err)
	assert.True(t, service.IsInternalServerError(err))
}
