package main

import (
	"time"

	"webservers/config"
	"webservers/handlers"
	"webservers/service"
)

type PatchServerConfig struct {
	Server config.Server
	DB     config.Postgres

	VersionFilePath   string
	PatchesDir        string
	HeartbeatInterval time.Duration

	// AdvertisedAddress is empty when the address must be detected from the network interfaces.
	AdvertisedAddress string
	AdvertisedPort    int
}

// LoadConfig loads configuration from environment variables.
// SERVICE_PORT_HTTP, VERSION_FILE_PATH and the database settings are required.
func LoadConfig() (*PatchServerConfig, error) {
	var (
		cfg PatchServerConfig
		err error
	)
	if cfg.Server, err = config.LoadServer(); err != nil {
		return nil, err
	}
	if cfg.DB, err = config.LoadPostgres(); err != nil {
		return nil, err
	}

	cfg.VersionFilePath = config.String("VERSION_FILE_PATH", "")
	if cfg.VersionFilePath == "" {
		return nil, service.NewConfigError("VERSION_FILE_PATH is required", nil)
	}
	cfg.PatchesDir = config.String("PATCHES_DIR", handlers.DefaultPatchesDir)
	if cfg.HeartbeatInterval, err = config.Seconds("HEARTBEAT_INTERVAL_SECONDS", service.DefaultHeartbeatInterval); err != nil {
		return nil, err
	}

	cfg.AdvertisedAddress = config.String("ADVERTISED_ADDRESS", "")
	if cfg.AdvertisedPort, err = config.Port("ADVERTISED_PORT", cfg.Server.HTTPPort); err != nil {
		return nil, err
	}
	return &cfg, nil
}
