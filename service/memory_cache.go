package service

import (
	"context"
	"sync"
	"time"

	"webservers/helpers"
	"webservers/interfaces"
)

type memoryItem[T any] struct {
	value     T
	expiresAt time.Time
}

// memoryCache implements interfaces.Cache in process memory. It is the default discovery cache tier.
type memoryCache[T any] struct {
	now interfaces.TimeProvider

	mu    sync.RWMutex
	items map[string]memoryItem[T]
}

// NewMemoryCache creates an in-process cache. Entries expire ttlMs after they are written;
// ttlMs <= 0 means no expiry. Panics on nil now.
func NewMemoryCache[T any](now interfaces.TimeProvider) interfaces.Cache[T] {
	return &memoryCache[T]{
		now:   helpers.NilPanic(now, "service.memory_cache.go: time provider is required"),
		items: make(map[string]memoryItem[T]),
	}
}

func (m *memoryCache[T]) WriteValue(_ context.Context, key string, item T, ttlMs int) error {
	entry := memoryItem[T]{value: item}
	if ttlMs > 0 {
		entry.expiresAt = m.now.Now().Add(time.Duration(ttlMs) * time.Millisecond)
	}

	m.mu.Lock()
	m.items[key] = entry
	m.mu.Unlock()
	return nil
}

func (m *memoryCache[T]) ReadValue(_ context.Context, key string) (T, error) {
	m.mu.RLock()
	entry, ok := m.items[key]
	m.mu.RUnlock()

	if !ok || (!entry.expiresAt.IsZero() && !m.now.Now().Before(entry.expiresAt)) {
		var zero T
		return zero, NewEntityNotFoundError("Entity not found", nil)
	}
	return entry.value, nil
}
