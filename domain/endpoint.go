package domain

import "time"

// Kind identifies a class of registered servers. Each kind lives in its own table.
type Kind string

const (
	// KindLoginServer is a login server. Rows are written by the game servers themselves.
	KindLoginServer Kind = "loginserver"
	// KindPatchServer is a patch server. Rows are written by patchserver heartbeats.
	KindPatchServer Kind = "patchserver"
)

// Kinds lists every known kind.
var Kinds = []Kind{KindLoginServer, KindPatchServer}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindLoginServer, KindPatchServer:
		return true
	default:
		return false
	}
}

// Heartbeating reports whether rows of this kind always carry a last_pulse column.
func (k Kind) Heartbeating() bool {
	return k == KindPatchServer
}

// Endpoint is a reachable server instance.
// LastPulse is nil for kinds without a pulse column.
type Endpoint struct {
	Address   string
	Port      int
	LastPulse *time.Time
}

// CacheEntry is one fetched discovery payload for a kind.
type CacheEntry struct {
	Kind      Kind
	Endpoints []Endpoint
	FetchedAt time.Time
}

// Fresh reports whether the entry may still be served at now.
func (e CacheEntry) Fresh(now time.Time, window time.Duration) bool {
	return now.Sub(e.FetchedAt) < window
}
