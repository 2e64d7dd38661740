package interfaces

import (
	"context"
	"time"

	"webservers/domain"
)

// EndpointRegistry is the write side of the endpoint store, used by a server registering itself.
//
// Implemented by pgstore.Store. Called from service.Heartbeat.
type EndpointRegistry interface {
	// Upsert inserts the (address, port) row of kind, or updates its last_pulse to pulse when it exists.
	// Atomic for concurrent callers using the same key.
	// Returns: nil on success; store_unavailable on driver or connectivity error; bad_parameter for an unknown kind.
	Upsert(ctx context.Context, kind domain.Kind, address string, port int, pulse time.Time) error

	// Delete removes the (address, port) row of kind. An absent row is not an error.
	// Returns: nil on success; store_unavailable on driver or connectivity error.
	Delete(ctx context.Context, kind domain.Kind, address string, port int) error
}

// EndpointStore is the full endpoint store contract over the per-kind server tables.
//
// Implemented by pgstore.Store. Read side called from service.DiscoveryCache on a cache miss.
//
//go:generate moq -stub -out mock/endpoint_store.go -pkg mock . EndpointStore
type EndpointStore interface {
	EndpointRegistry

	// ListAlive returns the rows of kind whose last_pulse is at or after cutoff, in no particular order.
	// Returns: (endpoints, nil), possibly empty; (nil, store_unavailable) on failure.
	ListAlive(ctx context.Context, kind domain.Kind, cutoff time.Time) ([]domain.Endpoint, error)

	// ListAll returns every row of kind with address and port only.
	// Returns: (endpoints, nil), possibly empty; (nil, store_unavailable) on failure.
	ListAll(ctx context.Context, kind domain.Kind) ([]domain.Endpoint, error)
}
