package interfaces

import "time"

// TimeProvider supplies the current time for cache freshness and liveness cutoffs.
// Injected so tests can use a fixed or mock clock instead of time.Now().
//
// service.NewTimeProvider is the production source. *clock.Mock from github.com/benbjohnson/clock satisfies it in tests.
type TimeProvider interface {
	// Now returns current time.
	Now() time.Time
}
