package myredis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"webservers/domain"
	"webservers/helpers"
	"webservers/interfaces"
	"webservers/service"

	"github.com/go-redis/redis/v8"
)

var _ interfaces.Cache[domain.CacheEntry] = (*redisCache[domain.CacheEntry])(nil)

type redisCache[T any] struct {
	client    redis.UniversalClient
	prefix    string
	marshal   func(T) ([]byte, error)
	unmarshal func([]byte) (T, error)
	zero      T
}

// NewCache creates redis implementation of generic cache interface.
// Keys are stored as "<prefix>:<key>" so several caches can share one database.
func NewCache[T any](client redis.UniversalClient, prefix string, marshal func(T) ([]byte, error), unmarshal func([]byte) (T, error)) *redisCache[T] {
	var zero T
	return &redisCache[T]{
		client:    helpers.NilPanic(client, "myredis.cache.go: client is required"),
		prefix:    helpers.StrPanic(prefix, "myredis.cache.go: prefix is required"),
		zero:      zero,
		marshal:   helpers.NilPanic(marshal, "myredis.cache.go: marshal is required"),
		unmarshal: helpers.NilPanic(unmarshal, "myredis.cache.go: unmarshal is required"),
	}
}

// NewJSONCache creates a cache storing values as JSON documents.
func NewJSONCache[T any](client redis.UniversalClient, prefix string) *redisCache[T] {
	marshal := func(item T) ([]byte, error) { return json.Marshal(item) }
	unmarshal := func(b []byte) (T, error) {
		var item T
		err := json.Unmarshal(b, &item)
		return item, err
	}
	return NewCache[T](client, prefix, marshal, unmarshal)
}

func (r *redisCache[T]) WriteValue(ctx context.Context, key string, item T, ttlMs int) error {
	bytes, err := r.marshal(item)
	if err != nil {
		return service.NewInternalServerError("Redis marshal item error", fmt.Errorf("can't marshal item of type %T, err: %w", item, err))
	}

	err = r.client.Set(ctx, r.generateKey(key), bytes, ttl(ttlMs)).Err()
	if err != nil {
		return service.NewInternalServerError("Redis write key error", fmt.Errorf("can't write item of type %T to redis (key='%s'), err: %w", item, key, err))
	}

	return nil
}

func (r *redisCache[T]) ReadValue(ctx context.Context, key string) (T, error) {
	bytes, err := r.client.Get(ctx, r.generateKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return r.zero, service.NewEntityNotFoundError("Entity not found", nil)
	}
	if err != nil {
		return r.zero, service.NewInternalServerError("Redis read key error", fmt.Errorf("can't read item of type %T from redis (key='%s'), err: %w", r.zero, key, err))
	}

	item, err := r.unmarshal(bytes)
	if err != nil {
		return r.zero, service.NewInternalServerError("Redis unmarshal item error", fmt.Errorf("can't unmarshal item of type %T (key='%s'), err: %w", r.zero, key, err))
	}
	return item, nil
}

func (r *redisCache[T]) generateKey(key string) string {
	return r.prefix + ":" + key
}

// ttl converts a millisecond TTL; zero or less keeps the key until deleted.
func ttl(ttlMs int) time.Duration {
	if ttlMs <= 0 {
		return 0
	}
	return time.Duration(ttlMs) * time.Millisecond
}
