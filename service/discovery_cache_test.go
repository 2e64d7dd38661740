package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"webservers/domain"
	"webservers/helpers"
	"webservers/interfaces/mock"

	"github.com/benbjohnson/clock"
	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var loginServers = []domain.Endpoint{
	{Address: "10.0.0.1", Port: 7777},
	{Address: "10.0.0.2", Port: 7777},
}

func newTestDiscoveryCache(t *testing.T, store *mock.EndpointStoreMock) (*DiscoveryCache, *clock.Mock) {
	t.Helper()
	clk := clock.NewMock()
	clk.Set(helpers.TestNow())
	cache := NewDiscoveryCache(
		store,
		NewMemoryCache[domain.CacheEntry](clk),
		clk,
		DiscoveryCacheConfig{Policies: DefaultKindPolicies(false)},
		log.NewNopLogger(),
	)
	return cache, clk
}

func TestNewDiscoveryCache_Panics(t *testing.T) {
	store := &mock.EndpointStoreMock{}
	clk := clock.NewMock()
	entries := NewMemoryCache[domain.CacheEntry](clk)
	cfg := DiscoveryCacheConfig{Policies: DefaultKindPolicies(false)}
	logger := log.NewNopLogger()

	t.Run("store_nil", func(t *testing.T) {
		assert.PanicsWithValue(t, "service.discovery_cache.go: store is required", func() {
			NewDiscoveryCache(nil, entries, clk, cfg, logger)
		})
	})
	t.Run("entries_nil", func(t *testing.T) {
		assert.PanicsWithValue(t, "service.discovery_cache.go: entries cache is required", func() {
			NewDiscoveryCache(store, nil, clk, cfg, logger)
		})
	})
	t.Run("policies_nil", func(t *testing.T) {
		assert.PanicsWithValue(t, "service.discovery_cache.go: policies are required", func() {
			NewDiscoveryCache(store, entries, clk, DiscoveryCacheConfig{}, logger)
		})
	})
	t.Run("logger_nil", func(t *testing.T) {
		assert.PanicsWithValue(t, "service.discovery_cache.go: logger is required", func() {
			NewDiscoveryCache(store, entries, clk, cfg, nil)
		})
	})
}

func TestDiscoveryCache_HitWithinWindow(t *testing.T) {
	ctx := context.Background()
	store := &mock.EndpointStoreMock{
		ListAllFunc: func(ctx context.Context, kind domain.Kind) ([]domain.Endpoint, error) {
			return loginServers, nil
		},
	}
	cache, clk := newTestDiscoveryCache(t, store)

	first, err := cache.Get(ctx, domain.KindLoginServer)
	require.NoError(t, err)
	assert.Equal(t, loginServers, first)

	clk.Add(DefaultFreshnessWindow - time.Second)
	second, err := cache.Get(ctx, domain.KindLoginServer)
	require.NoError(t, err)
	assert.Equal(t, loginServers, second)

	assert.Len(t, store.ListAllCalls(), 1)
	assert.Empty(t, store.ListAliveCalls())
}

func TestDiscoveryCache_CallersCannotCorruptTheEntry(t *testing.T) {
	ctx := context.Background()
	store := &mock.EndpointStoreMock{
		ListAllFunc: func(ctx context.Context, kind domain.Kind) ([]domain.Endpoint, error) {
			return []domain.Endpoint{{Address: "10.0.0.1", Port: 7777}}, nil
		},
	}
	cache, _ := newTestDiscoveryCache(t, store)

	fetched, err := cache.Get(ctx, domain.KindLoginServer)
	require.NoError(t, err)
	fetched[0].Address = "changed-after-miss"

	hit, err := cache.Get(ctx, domain.KindLoginServer)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", hit[0].Address)
	hit[0].Port = 1

	again, err := cache.Get(ctx, domain.KindLoginServer)
	require.NoError(t, err)
	assert.Equal(t, []domain.Endpoint{{Address: "10.0.0.1", Port: 7777}}, again)
	assert.Len(t, store.ListAllCalls(), 1)
}

func TestDiscoveryCache_RefetchAfterWindow(t *testing.T) {
	ctx := context.Background()
	store := &mock.EndpointStoreMock{
		ListAllFunc: func(ctx context.Context, kind domain.Kind) ([]domain.Endpoint, error) {
			return loginServers, nil
		},
	}
	cache, clk := newTestDiscoveryCache(t, store)

	_, err := cache.Get(ctx, domain.KindLoginServer)
	require.NoError(t, err)
	firstEntry, err := cache.entries.ReadValue(ctx, cacheKey(domain.KindLoginServer))
	require.NoError(t, err)
	assert.Equal(t, helpers.TestNow(), firstEntry.FetchedAt)

	clk.Add(DefaultFreshnessWindow)
	_, err = cache.Get(ctx, domain.KindLoginServer)
	require.NoError(t, err)
	assert.Len(t, store.ListAllCalls(), 2)

	secondEntry, err := cache.entries.ReadValue(ctx, cacheKey(domain.KindLoginServer))
	require.NoError(t, err)
	assert.True(t, secondEntry.FetchedAt.After(firstEntry.FetchedAt))
	assert.Equal(t, helpers.TestNow().Add(DefaultFreshnessWindow), secondEntry.FetchedAt)
}

func TestDiscoveryCache_FailedFetchIsRetried(t *testing.T) {
	ctx := context.Background()
	fail := true
	store := &mock.EndpointStoreMock{
		ListAllFunc: func(ctx context.Context, kind domain.Kind) ([]domain.Endpoint, error) {
			if fail {
				return nil, errors.New("connection refused")
			}
			return loginServers, nil
		},
	}
	cache, _ := newTestDiscoveryCache(t, store)

	got, err := cache.Get(ctx, domain.KindLoginServer)
	require.Error(t, err)
	assert.True(t, IsStoreUnavailableError(err))
	assert.Nil(t, got)

	_, err = cache.entries.ReadValue(ctx, cacheKey(domain.KindLoginServer))
	assert.True(t, IsEntityNotFoundError(err), "failed fetch must not store an entry")

	fail = false
	got, err = cache.Get(ctx, domain.KindLoginServer)
	require.NoError(t, err)
	assert.Equal(t, loginServers, got)
	assert.Len(t, store.ListAllCalls(), 2)
}

func TestDiscoveryCache_FailedFetchNeverServesExpiredPayload(t *testing.T) {
	ctx := context.Background()
	fail := false
	store := &mock.EndpointStoreMock{
		ListAllFunc: func(ctx context.Context, kind domain.Kind) ([]domain.Endpoint, error) {
			if fail {
				return nil, errors.New("connection refused")
			}
			return loginServers, nil
		},
	}
	cache, clk := newTestDiscoveryCache(t, store)

	_, err := cache.Get(ctx, domain.KindLoginServer)
	require.NoError(t, err)

	fail = true
	clk.Add(DefaultFreshnessWindow + time.Second)
	got, err := cache.Get(ctx, domain.KindLoginServer)
	require.Error(t, err)
	assert.Nil(t, got)

	got, err = cache.Get(ctx, domain.KindLoginServer)
	require.Error(t, err)
	assert.Nil(t, got)
	assert.Len(t, store.ListAllCalls(), 3)
}

func TestDiscoveryCache_PatchServersUseLivenessCutoff(t *testing.T) {
	ctx := context.Background()
	pulse := helpers.TestNow().Add(-time.Minute)
	alive := []domain.Endpoint{{Address: "10.0.1.1", Port: 8000, LastPulse: &pulse}}
	store := &mock.EndpointStoreMock{
		ListAliveFunc: func(ctx context.Context, kind domain.Kind, cutoff time.Time) ([]domain.Endpoint, error) {
			return alive, nil
		},
	}
	cache, _ := newTestDiscoveryCache(t, store)

	got, err := cache.Get(ctx, domain.KindPatchServer)
	require.NoError(t, err)
	assert.Equal(t, alive, got)

	calls := store.ListAliveCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, domain.KindPatchServer, calls[0].Kind)
	assert.Equal(t, helpers.TestNow().Add(-DefaultLivenessCutoff), calls[0].Cutoff)
	assert.Empty(t, store.ListAllCalls())
}

func TestDiscoveryCache_LoginLivenessFilterIsConfigurable(t *testing.T) {
	ctx := context.Background()
	store := &mock.EndpointStoreMock{}
	clk := clock.NewMock()
	clk.Set(helpers.TestNow())
	cache := NewDiscoveryCache(
		store,
		NewMemoryCache[domain.CacheEntry](clk),
		clk,
		DiscoveryCacheConfig{Policies: DefaultKindPolicies(true), LivenessCutoff: 2 * time.Minute},
		log.NewNopLogger(),
	)

	got, err := cache.Get(ctx, domain.KindLoginServer)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	calls := store.ListAliveCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, helpers.TestNow().Add(-2*time.Minute), calls[0].Cutoff)
}

func TestDiscoveryCache_KindsDoNotShareEntries(t *testing.T) {
	ctx := context.Background()
	pulse := helpers.TestNow()
	patch := []domain.Endpoint{{Address: "10.0.1.1", Port: 8000, LastPulse: &pulse}}
	store := &mock.EndpointStoreMock{
		ListAllFunc: func(ctx context.Context, kind domain.Kind) ([]domain.Endpoint, error) {
			return loginServers, nil
		},
		ListAliveFunc: func(ctx context.Context, kind domain.Kind, cutoff time.Time) ([]domain.Endpoint, error) {
			return patch, nil
		},
	}
	cache, _ := newTestDiscoveryCache(t, store)

	login, err := cache.Get(ctx, domain.KindLoginServer)
	require.NoError(t, err)
	patches, err := cache.Get(ctx, domain.KindPatchServer)
	require.NoError(t, err)

	assert.Equal(t, loginServers, login)
	assert.Equal(t, patch, patches)
}

func TestDiscoveryCache_UnknownKind(t *testing.T) {
	store := &mock.EndpointStoreMock{}
	cache, _ := newTestDiscoveryCache(t, store)

	_, err := cache.Get(context.Background(), domain.Kind("gameserver"))
	require.Error(t, err)
	assert.True(t, IsBadParameterError(err))
	assert.Empty(t, store.ListAllCalls())
}

func TestDiscoveryCache_CacheReadErrorIsAMiss(t *testing.T) {
	store := &mock.EndpointStoreMock{
		ListAllFunc: func(ctx context.Context, kind domain.Kind) ([]domain.Endpoint, error) {
			return loginServers, nil
		},
	}
	entries := &mock.CacheMock[domain.CacheEntry]{
		ReadValueFunc: func(ctx context.Context, key string) (domain.CacheEntry, error) {
			return domain.CacheEntry{}, NewInternalServerError("Redis read key error", assert.AnError)
		},
		WriteValueFunc: func(ctx context.Context, key string, item domain.CacheEntry, ttlMs int) error {
			return NewInternalServerError("Redis write key error", assert.AnError)
		},
	}
	clk := clock.NewMock()
	cache := NewDiscoveryCache(store, entries, clk, DiscoveryCacheConfig{Policies: DefaultKindPolicies(false)}, log.NewNopLogger())

	got, err := cache.Get(context.Background(), domain.KindLoginServer)
	require.NoError(t, err)
	assert.Equal(t, loginServers, got)

	writes := entries.WriteValueCalls()
	require.Len(t, writes, 1)
	assert.Equal(t, "discovery:loginserver", writes[0].Key)
	assert.Equal(t, 300000, writes[0].TtlMs)
}

func TestDiscoveryCache_ConcurrentMissesShareOneFetch(t *testing.T) {
	release := make(chan struct{})
	store := &mock.EndpointStoreMock{
		ListAllFunc: func(ctx context.Context, kind domain.Kind) ([]domain.Endpoint, error) {
			<-release
			return loginServers, nil
		},
	}
	cache, _ := newTestDiscoveryCache(t, store)

	const callers = 16
	var wg sync.WaitGroup
	results := make([][]domain.Endpoint, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = cache.Get(context.Background(), domain.KindLoginServer)
		}(i)
	}

	require.Eventually(t, func() bool { return len(store.ListAllCalls()) == 1 }, time.Second, time.Millisecond)
	close(release)
	wg.Wait()

	assert.Len(t, store.ListAllCalls(), 1)
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, loginServers, results[i])
	}
}

func TestDiscoveryCache_SharedFetchSurvivesCallerCancellation(t *testing.T) {
	release := make(chan struct{})
	store := &mock.EndpointStoreMock{
		ListAllFunc: func(ctx context.Context, kind domain.Kind) ([]domain.Endpoint, error) {
			<-release
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return loginServers, nil
		},
	}
	cache, _ := newTestDiscoveryCache(t, store)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := cache.Get(ctx, domain.KindLoginServer)
		done <- err
	}()
	require.Eventually(t, func() bool { return len(store.ListAllCalls()) == 1 }, time.Second, time.Millisecond)
	cancel()
	close(release)

	require.NoError(t, <-done)
}
