package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"webservers/adapters/grpchealth"
	"webservers/adapters/pgstore"
	"webservers/config"
	"webservers/domain"
	"webservers/handlers"
	"webservers/helpers"
	"webservers/service"
	"webservers/telemetry"

	"github.com/benbjohnson/clock"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// deregisterTimeout bounds the final heartbeat stop, after the listeners are down.
const deregisterTimeout = 5 * time.Second

func main() {
	logger := config.NewLogger(os.Stderr, "info")
	level.Info(logger).Log("msg", "Starting patchserver service", "version", version)

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
		"version_file", cfg.VersionFilePath,
		"patches_dir", cfg.PatchesDir,
		"heartbeat_interval", cfg.HeartbeatInterval,
	)

	if err := run(cfg, logger); err != nil {
		level.Error(logger).Log("msg", "Server stopped with error", "err", err)
		os.Exit(1)
	}
	level.Info(logger).Log("msg", "Server stopped")
}

func run(cfg *PatchServerConfig, logger log.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	telemetry.SetBuildInfo("patchserver", version)

	catalog, err := service.LoadPatchCatalog(cfg.VersionFilePath)
	if err != nil {
		return err
	}
	if catalog.Loaded() {
		level.Info(logger).Log("msg", "Latest version loaded", "version", catalog.LatestVersion)
	} else {
		level.Warn(logger).Log("msg", "Version not found in the version file, patch requests will fail", "path", cfg.VersionFilePath)
	}

	db, err := pgstore.Open(cfg.DB.DSN(), pgstore.DefaultPoolConfig)
	if err != nil {
		return err
	}
	defer pgstore.Close(db)
	store := pgstore.NewStore(db, cfg.DB.Schema, logger)

	var health *grpchealth.Server
	if cfg.Server.HealthGRPCPort > 0 {
		health = grpchealth.NewServer("health", cfg.Server.HealthAddr(), false, logger)
	}

	address := cfg.AdvertisedAddress
	if address == "" {
		address = helpers.ExternalAddress(logger)
	}
	heartbeat := service.NewHeartbeat(store, domain.KindPatchServer, address, cfg.AdvertisedPort,
		cfg.HeartbeatInterval, clock.New(), logger,
		service.WithStateListener(func(s service.HeartbeatState) {
			if health != nil {
				health.SetServing(s == service.HeartbeatRegistered)
			}
		}),
	)
	if err := heartbeat.Start(ctx); err != nil {
		return err
	}
	// Runs on every exit path once registered, after the listeners have shut down.
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), deregisterTimeout)
		defer cancel()
		heartbeat.Stop(stopCtx)
	}()

	e, err := handlers.NewPatchEcho(handlers.NewPatchServer(catalog, cfg.PatchesDir, logger), logger)
	if err != nil {
		return err
	}

	runnables := []service.Runnable{
		service.NewEchoRunnable("http", e, cfg.Server.HTTPAddr(), cfg.Server.TLSCertFile, cfg.Server.TLSKeyFile),
	}
	if cfg.Server.MetricsPort > 0 {
		runnables = append(runnables, service.NewHTTPRunnable("metrics", telemetry.NewServer(cfg.Server.MetricsAddr())))
	}
	if health != nil {
		runnables = append(runnables, health)
	}

	return service.RunUntilDone(ctx, service.DefaultShutdownGrace, logger, runnables...)
}
