package interfaces

import "context"

// Cache represents cache for storing discovery payloads.
//
//go:generate moq -stub -out mock/cache.go -pkg mock . Cache
type Cache[T any] interface {
	// WriteValue writes value in cache with the given TTL (ms).
	// Returns:
	// 1) nil on success;
	// 2) internal_server_error when marshalling fails or when the storage write fails.
	WriteValue(ctx context.Context, key string, item T, ttlMs int) error

	// ReadValue returns the value stored under key.
	// Returns:
	// 1) (item, nil) when the key exists and has not expired;
	// 2) (zero, entity_not_found) when the key is absent or expired;
	// 3) (zero, internal_server_error) when the storage read or unmarshalling fails.
	ReadValue(ctx context.Context, key string) (T, error)
}
