package service

import (
	"time"

	"webservers/helpers"
	"webservers/interfaces"
)

// timeProvider implements interfaces.TimeProvider. It returns the current time via the injected now func.
type timeProvider struct {
	now func() time.Time
}

// NewTimeProvider creates a TimeProvider that returns time via the given now func. Panics on nil now.
//
// Called from cmd/ipfetch with func() time.Time { return time.Now().UTC() }.
func NewTimeProvider(now func() time.Time) interfaces.TimeProvider {
	return &timeProvider{now: helpers.NilPanic(now, "service.time_provider.go: now is required")}
}

// Now returns current time from the injected function.
func (t *timeProvider) Now() time.Time {
	return t.now()
}
