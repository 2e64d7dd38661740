package interfaces

import (
	"context"

	"webservers/domain"
)

// Discovery answers "which servers of this kind are reachable right now".
//
// Implemented by service.DiscoveryCache. Called from handlers.DiscoveryServer.
//
//go:generate moq -stub -out mock/discovery.go -pkg mock . Discovery
type Discovery interface {
	// Get returns the endpoints of kind, possibly from a payload fetched less than one freshness window ago.
	// Returns: (endpoints, nil), possibly empty; (nil, store_unavailable) when a required fetch failed;
	// (nil, bad_parameter) for a kind that is not configured. The caller may modify the returned slice.
	Get(ctx context.Context, kind domain.Kind) ([]domain.Endpoint, error)
}
