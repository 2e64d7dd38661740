package myredis

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

// NewRedisUniversalClient creates and configures instance of redis universal client.
// redisAddr is a redis:// URL; a bare host:port is accepted as well.
func NewRedisUniversalClient(redisAddr string, options ...ConfigOption) (redis.UniversalClient, error) {
	redisOptions, err := parseOptions(redisAddr, options...)
	if err != nil {
		return nil, err
	}
	return redis.NewUniversalClient(universalOptions(redisOptions)), nil
}

// ConfigOption configures the client.
type ConfigOption func(*redis.Options)

// WithDialTimeout bounds establishing a new connection.
func WithDialTimeout(d time.Duration) ConfigOption {
	return func(o *redis.Options) {
		o.DialTimeout = d
	}
}

// WithPoolSize sets the maximum number of socket connections.
func WithPoolSize(n int) ConfigOption {
	return func(o *redis.Options) {
		o.PoolSize = n
	}
}

func parseOptions(redisAddr string, options ...ConfigOption) (*redis.Options, error) {
	redisOptions, err := redis.ParseURL(normalizeAddr(redisAddr))
	if err != nil {
		return nil, fmt.Errorf("cant parse redis url: %w", err)
	}
	for _, opt := range options {
		opt(redisOptions)
	}
	return redisOptions, nil
}

func normalizeAddr(addr string) string {
	for _, scheme := range []string{"redis://", "rediss://", "unix://"} {
		if strings.HasPrefix(addr, scheme) {
			return addr
		}
	}
	return "redis://" + addr
}

func universalOptions(options *redis.Options) *redis.UniversalOptions {
	return &redis.UniversalOptions{
		Addrs:              []string{options.Addr},
		DB:                 options.DB,
		Username:           options.Username,
		Password:           options.Password,
		TLSConfig:          options.TLSConfig,
		WriteTimeout:       options.WriteTimeout,
		ReadTimeout:        options.ReadTimeout,
		DialTimeout:        options.DialTimeout,
		MaxRetries:         options.MaxRetries,
		PoolSize:           options.PoolSize,
		PoolTimeout:        options.PoolTimeout,
		MinIdleConns:       options.MinIdleConns,
		IdleTimeout:        options.IdleTimeout,
		IdleCheckFrequency: options.IdleCheckFrequency,
	}
}
