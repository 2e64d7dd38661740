package main

import (
	"fmt"
	"strings"
	"time"

	"webservers/config"
	"webservers/service"
)

const (
	cacheBackendMemory = "memory"
	cacheBackendRedis  = "redis"

	defaultRedisDialTimeout = 5 * time.Second
	defaultRedisPoolSize    = 10
)

type IPFetchConfig struct {
	Server config.Server
	DB     config.Postgres

	FreshnessWindow     time.Duration
	LivenessCutoff      time.Duration
	LoginLivenessFilter bool

	CacheBackend     string
	RedisAddr        string
	RedisDialTimeout time.Duration
	RedisPoolSize    int
}

// LoadConfig loads configuration from environment variables.
// SERVICE_PORT_HTTP and the database settings are required; REDIS_ADDR is required with CACHE_BACKEND=redis.
func LoadConfig() (*IPFetchConfig, error) {
	var (
		cfg IPFetchConfig
		err error
	)
	if cfg.Server, err = config.LoadServer(); err != nil {
		return nil, err
	}
	if cfg.DB, err = config.LoadPostgres(); err != nil {
		return nil, err
	}
	if cfg.FreshnessWindow, err = config.Seconds("CACHE_FRESHNESS_SECONDS", service.DefaultFreshnessWindow); err != nil {
		return nil, err
	}
	if cfg.LivenessCutoff, err = config.Minutes("LIVENESS_CUTOFF_MINUTES", service.DefaultLivenessCutoff); err != nil {
		return nil, err
	}
	if cfg.LoginLivenessFilter, err = config.Bool("LOGIN_LIVENESS_FILTER", false); err != nil {
		return nil, err
	}

	cfg.CacheBackend = strings.ToLower(config.String("CACHE_BACKEND", cacheBackendMemory))
	switch cfg.CacheBackend {
	case cacheBackendMemory:
	case cacheBackendRedis:
		cfg.RedisAddr = config.String("REDIS_ADDR", "")
		if cfg.RedisAddr == "" {
			return nil, service.NewConfigError("REDIS_ADDR is required with CACHE_BACKEND=redis", nil)
		}
		if cfg.RedisDialTimeout, err = config.Seconds("REDIS_DIAL_TIMEOUT_SECONDS", defaultRedisDialTimeout); err != nil {
			return nil, err
		}
		if cfg.RedisPoolSize, err = config.PositiveInt("REDIS_POOL_SIZE", defaultRedisPoolSize); err != nil {
			return nil, err
		}
	default:
		return nil, service.NewConfigError(fmt.Sprintf("unknown CACHE_BACKEND %q", cfg.CacheBackend), nil)
	}
	return &cfg, nil
}
