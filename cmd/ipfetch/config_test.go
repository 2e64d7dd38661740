package main

import (
	"testing"
	"time"

	"webservers/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SERVICE_PORT_HTTP", "8080")
	t.Setenv("APPSETTINGS_PATH", "")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_NAME", "fish")
	t.Setenv("DB_USER", "fish")
	t.Setenv("CACHE_FRESHNESS_SECONDS", "")
	t.Setenv("LIVENESS_CUTOFF_MINUTES", "")
	t.Setenv("LOGIN_LIVENESS_FILTER", "")
	t.Setenv("CACHE_BACKEND", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("REDIS_DIAL_TIMEOUT_SECONDS", "")
	t.Setenv("REDIS_POOL_SIZE", "")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, 300*time.Second, cfg.FreshnessWindow)
	assert.Equal(t, 5*time.Minute, cfg.LivenessCutoff)
	assert.False(t, cfg.LoginLivenessFilter)
	assert.Equal(t, cacheBackendMemory, cfg.CacheBackend)
	assert.Empty(t, cfg.RedisAddr)
	assert.Zero(t, cfg.RedisPoolSize)
}

func TestLoadConfig_Overrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("CACHE_FRESHNESS_SECONDS", "30")
	t.Setenv("LIVENESS_CUTOFF_MINUTES", "2")
	t.Setenv("LOGIN_LIVENESS_FILTER", "true")
	t.Setenv("CACHE_BACKEND", "Redis")
	t.Setenv("REDIS_ADDR", "redis://cache:6379")
	t.Setenv("REDIS_POOL_SIZE", "32")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.FreshnessWindow)
	assert.Equal(t, 2*time.Minute, cfg.LivenessCutoff)
	assert.True(t, cfg.LoginLivenessFilter)
	assert.Equal(t, cacheBackendRedis, cfg.CacheBackend)
	assert.Equal(t, "redis://cache:6379", cfg.RedisAddr)
	assert.Equal(t, 5*time.Second, cfg.RedisDialTimeout)
	assert.Equal(t, 32, cfg.RedisPoolSize)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantMsg string
	}{
		{name: "http port required", env: map[string]string{"SERVICE_PORT_HTTP": ""}, wantMsg: "SERVICE_PORT_HTTP is required"},
		{name: "db host required", env: map[string]string{"DB_HOST": ""}, wantMsg: "DB_HOST"},
		{name: "invalid freshness", env: map[string]string{"CACHE_FRESHNESS_SECONDS": "soon"}, wantMsg: "CACHE_FRESHNESS_SECONDS"},
		{name: "zero cutoff", env: map[string]string{"LIVENESS_CUTOFF_MINUTES": "0"}, wantMsg: "LIVENESS_CUTOFF_MINUTES"},
		{name: "invalid filter flag", env: map[string]string{"LOGIN_LIVENESS_FILTER": "maybe"}, wantMsg: "LOGIN_LIVENESS_FILTER"},
		{name: "redis addr required", env: map[string]string{"CACHE_BACKEND": "redis"}, wantMsg: "REDIS_ADDR is required"},
		{name: "zero redis pool size", env: map[string]string{"CACHE_BACKEND": "redis", "REDIS_ADDR": "cache:6379", "REDIS_POOL_SIZE": "0"}, wantMsg: "REDIS_POOL_SIZE"},
		{name: "invalid redis dial timeout", env: map[string]string{"CACHE_BACKEND": "redis", "REDIS_ADDR": "cache:6379", "REDIS_DIAL_TIMEOUT_SECONDS": "fast"}, wantMsg: "REDIS_DIAL_TIMEOUT_SECONDS"},
		{name: "unknown backend", env: map[string]string{"CACHE_BACKEND": "memcached"}, wantMsg: "CACHE_BACKEND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBaseEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := LoadConfig()
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.True(t, service.IsConfigError(err))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
