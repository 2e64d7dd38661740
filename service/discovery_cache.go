package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"webservers/domain"
	"webservers/helpers"
	"webservers/interfaces"
	"webservers/telemetry"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultFreshnessWindow is how long a fetched discovery payload is served.
	DefaultFreshnessWindow = 300 * time.Second
	// DefaultLivenessCutoff is the maximum heartbeat age of a discoverable endpoint.
	DefaultLivenessCutoff = 5 * time.Minute
	// defaultFetchTimeout bounds one shared store fetch.
	defaultFetchTimeout = 10 * time.Second
)

// KindPolicy configures discovery of one kind.
type KindPolicy struct {
	// LivenessFiltered selects ListAlive with the liveness cutoff instead of ListAll.
	LivenessFiltered bool
}

// DiscoveryCacheConfig configures a DiscoveryCache.
type DiscoveryCacheConfig struct {
	// Policies lists the kinds served; any other kind is rejected.
	Policies        map[domain.Kind]KindPolicy
	FreshnessWindow time.Duration
	LivenessCutoff  time.Duration
	// FetchTimeout bounds a store fetch. Zero means 10s.
	FetchTimeout time.Duration
}

// DefaultKindPolicies filters patch servers by liveness and lists login servers unfiltered.
func DefaultKindPolicies(loginLivenessFiltered bool) map[domain.Kind]KindPolicy {
	return map[domain.Kind]KindPolicy{
		domain.KindLoginServer: {LivenessFiltered: loginLivenessFiltered},
		domain.KindPatchServer: {LivenessFiltered: true},
	}
}

// DiscoveryCache implements interfaces.Discovery as a read-through cache over an EndpointStore.
//
// A payload is served while now - FetchedAt < FreshnessWindow. The first caller after expiry fetches
// from the store; concurrent callers for the same kind share that fetch. A failed fetch leaves the
// entry expired so the next call retries, and the expired payload is never served.
type DiscoveryCache struct {
	store   interfaces.EndpointStore
	entries interfaces.Cache[domain.CacheEntry]
	now     interfaces.TimeProvider
	cfg     DiscoveryCacheConfig
	logger  log.Logger
	group   singleflight.Group
}

// NewDiscoveryCache creates a DiscoveryCache. Panics on nil dependencies or empty policies.
// Zero windows fall back to DefaultFreshnessWindow and DefaultLivenessCutoff.
func NewDiscoveryCache(
	store interfaces.EndpointStore,
	entries interfaces.Cache[domain.CacheEntry],
	now interfaces.TimeProvider,
	cfg DiscoveryCacheConfig,
	logger log.Logger,
) *DiscoveryCache {
	helpers.NilPanic(cfg.Policies, "service.discovery_cache.go: policies are required")
	if cfg.FreshnessWindow <= 0 {
		cfg.FreshnessWindow = DefaultFreshnessWindow
	}
	if cfg.LivenessCutoff <= 0 {
		cfg.LivenessCutoff = DefaultLivenessCutoff
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = defaultFetchTimeout
	}
	return &DiscoveryCache{
		store:   helpers.NilPanic(store, "service.discovery_cache.go: store is required"),
		entries: helpers.NilPanic(entries, "service.discovery_cache.go: entries cache is required"),
		now:     helpers.NilPanic(now, "service.discovery_cache.go: time provider is required"),
		cfg:     cfg,
		logger:  log.With(helpers.NilPanic(logger, "service.discovery_cache.go: logger is required"), "component", "DiscoveryCache"),
	}
}

// Get returns the endpoints of kind, from cache while fresh or from the store otherwise.
// The returned slice is owned by the caller.
func (d *DiscoveryCache) Get(ctx context.Context, kind domain.Kind) ([]domain.Endpoint, error) {
	policy, ok := d.cfg.Policies[kind]
	if !ok {
		return nil, NewBadParameterError(fmt.Sprintf("kind %q is not served", kind), nil)
	}

	if entry, ok := d.fresh(ctx, kind); ok {
		telemetry.CacheLookupsTotal.WithLabelValues(string(kind), "hit").Inc()
		return slices.Clone(entry.Endpoints), nil
	}

	// The shared fetch must not fail for every waiter because the first caller went away.
	fetchCtx := context.WithoutCancel(ctx)
	v, err, shared := d.group.Do(string(kind), func() (any, error) {
		// Another flight may have refreshed the entry between our lookup and now.
		if entry, ok := d.fresh(fetchCtx, kind); ok {
			return entry, nil
		}
		return d.fetch(fetchCtx, kind, policy)
	})
	if err != nil {
		telemetry.CacheLookupsTotal.WithLabelValues(string(kind), "error").Inc()
		return nil, err
	}
	telemetry.CacheLookupsTotal.WithLabelValues(string(kind), "miss").Inc()
	if shared {
		level.Debug(d.logger).Log("msg", "joined in-flight fetch", "kind", kind)
	}
	// Waiters of one flight and later hits share the stored slice.
	return slices.Clone(v.(domain.CacheEntry).Endpoints), nil
}

// fresh returns the stored entry of kind if it can still be served.
func (d *DiscoveryCache) fresh(ctx context.Context, kind domain.Kind) (domain.CacheEntry, bool) {
	entry, err := d.entries.ReadValue(ctx, cacheKey(kind))
	if err != nil {
		if !IsEntityNotFoundError(err) {
			level.Warn(d.logger).Log("msg", "cache read failed, treating as miss", "kind", kind, "err", err)
		}
		return domain.CacheEntry{}, false
	}
	if entry.Kind != kind || !entry.Fresh(d.now.Now(), d.cfg.FreshnessWindow) {
		return domain.CacheEntry{}, false
	}
	return entry, true
}

// fetch queries the store and stores the result with FetchedAt = now. Nothing is stored on failure.
func (d *DiscoveryCache) fetch(ctx context.Context, kind domain.Kind, policy KindPolicy) (domain.CacheEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, d.cfg.FetchTimeout)
	defer cancel()

	now := d.now.Now()
	var (
		endpoints []domain.Endpoint
		err       error
	)
	if policy.LivenessFiltered {
		endpoints, err = d.store.ListAlive(ctx, kind, now.Add(-d.cfg.LivenessCutoff))
	} else {
		endpoints, err = d.store.ListAll(ctx, kind)
	}
	if err != nil {
		level.Warn(d.logger).Log("msg", "endpoint fetch failed", "kind", kind, "err", err)
		return domain.CacheEntry{}, NewStoreUnavailableError("endpoint fetch failed", err)
	}
	if endpoints == nil {
		endpoints = []domain.Endpoint{}
	}

	entry := domain.CacheEntry{Kind: kind, Endpoints: endpoints, FetchedAt: now}
	ttlMs := int(d.cfg.FreshnessWindow / time.Millisecond)
	if err := d.entries.WriteValue(ctx, cacheKey(kind), entry, ttlMs); err != nil {
		level.Warn(d.logger).Log("msg", "cache write failed", "kind", kind, "err", err)
	}
	level.Debug(d.logger).Log("msg", "endpoints fetched", "kind", kind, "count", len(endpoints))
	return entry, nil
}

func cacheKey(kind domain.Kind) string {
	return "discovery:" + string(kind)
}
