package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"webservers/adapters/grpchealth"
	"webservers/adapters/myredis"
	"webservers/adapters/pgstore"
	"webservers/config"
	"webservers/domain"
	"webservers/handlers"
	"webservers/interfaces"
	"webservers/service"
	"webservers/telemetry"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	logger := config.NewLogger(os.Stderr, "info")
	level.Info(logger).Log("msg", "Starting ipfetch service", "version", version)

	cfg, err := LoadConfig()
	if err != nil {
		level.Error(logger).Log("msg", "Failed to load configuration", "err", err)
		os.Exit(1)
	}
	logger = config.NewLogger(os.Stderr, cfg.Server.LogLevel)
	level.Info(logger).Log(
		"msg", "Configuration loaded",
		"http_addr", cfg.Server.HTTPAddr(),
		"tls", cfg.Server.TLSEnabled(),
		"db", cfg.DB,
		"cache_backend", cfg.CacheBackend,
		"freshness_window", cfg.FreshnessWindow,
		"liveness_cutoff", cfg.LivenessCutoff,
		"login_liveness_filter", cfg.LoginLivenessFilter,
	)

	if err := run(cfg, logger); err != nil {
		level.Error(logger).Log("msg", "Server stopped with error", "err", err)
		os.Exit(1)
	}
	level.Info(logger).Log("msg", "Server stopped")
}

func run(cfg *IPFetchConfig, logger log.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	telemetry.SetBuildInfo("ipfetch", version)
	now := newUTCTimeProvider()

	var store interfaces.EndpointStore
	{
		db, err := pgstore.Open(cfg.DB.DSN(), pgstore.DefaultPoolConfig)
		if err != nil {
			return err
		}
		defer pgstore.Close(db)

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		// Lookups fail with 500 until the database comes up; the service itself keeps running.
		if err := pgstore.Ping(pingCtx, db); err != nil {
			level.Warn(logger).Log("msg", "Database is not reachable yet", "err", err)
		} else {
			level.Info(logger).Log("msg", "Connected to database")
		}
		store = pgstore.NewStore(db, cfg.DB.Schema, logger)
	}

	var entries interfaces.Cache[domain.CacheEntry]
	switch cfg.CacheBackend {
	case cacheBackendRedis:
		redisClient, err := myredis.NewRedisUniversalClient(cfg.RedisAddr,
			myredis.WithDialTimeout(cfg.RedisDialTimeout),
			myredis.WithPoolSize(cfg.RedisPoolSize),
		)
		if err != nil {
			return err
		}
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			return err
		}
		level.Info(logger).Log("msg", "Connected to Redis")
		entries = myredis.NewJSONCache[domain.CacheEntry](redisClient, "ipfetch")
	default:
		entries = service.NewMemoryCache[domain.CacheEntry](now)
	}

	discovery := newDiscovery(cfg, store, entries, now, logger)

	e, err := handlers.NewDiscoveryEcho(handlers.NewDiscoveryServer(discovery, logger), logger)
	if err != nil {
		return err
	}

	runnables := []service.Runnable{
		service.NewEchoRunnable("http", e, cfg.Server.HTTPAddr(), cfg.Server.TLSCertFile, cfg.Server.TLSKeyFile),
	}
	if cfg.Server.MetricsPort > 0 {
		runnables = append(runnables, service.NewHTTPRunnable("metrics", telemetry.NewServer(cfg.Server.MetricsAddr())))
	}
	if cfg.Server.HealthGRPCPort > 0 {
		runnables = append(runnables, grpchealth.NewServer("health", cfg.Server.HealthAddr(), true, logger))
	}

	return service.RunUntilDone(ctx, service.DefaultShutdownGrace, logger, runnables...)
}

// newUTCTimeProvider is the time source of the discovery cache and its in-memory tier.
func newUTCTimeProvider() interfaces.TimeProvider {
	return service.NewTimeProvider(func() time.Time { return time.Now().UTC() })
}

func newDiscovery(
	cfg *IPFetchConfig,
	store interfaces.EndpointStore,
	entries interfaces.Cache[domain.CacheEntry],
	now interfaces.TimeProvider,
	logger log.Logger,
) *service.DiscoveryCache {
	return service.NewDiscoveryCache(store, entries, now, service.DiscoveryCacheConfig{
		Policies:        service.DefaultKindPolicies(cfg.LoginLivenessFilter),
		FreshnessWindow: cfg.FreshnessWindow,
		LivenessCutoff:  cfg.LivenessCutoff,
	}, logger)
}
