package config

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"webservers/service"
)

// Env variable names shared by both binaries.
const (
	envBindAddr       = "SERVICE_BIND_ADDR"
	envHTTPPort       = "SERVICE_PORT_HTTP"
	envMetricsPort    = "SERVICE_PORT_METRICS"
	envHealthGRPCPort = "SERVICE_PORT_HEALTH_GRPC"
	envTLSCertFile    = "TLS_CERT_FILE"
	envTLSKeyFile     = "TLS_KEY_FILE"
	envLogLevel       = "LOG_LEVEL"
)

// Server holds the listener settings of a binary. A zero MetricsPort or HealthGRPCPort disables that listener.
type Server struct {
	BindAddr       string
	HTTPPort       int
	MetricsPort    int
	HealthGRPCPort int
	TLSCertFile    string
	TLSKeyFile     string
	LogLevel       string
}

// LoadServer reads the listener settings. SERVICE_PORT_HTTP is required; TLS_CERT_FILE and TLS_KEY_FILE
// must be set together and be readable.
func LoadServer() (Server, error) {
	var (
		s   Server
		err error
	)
	s.BindAddr = String(envBindAddr, "")
	if s.HTTPPort, err = RequiredPort(envHTTPPort); err != nil {
		return Server{}, err
	}
	if s.MetricsPort, err = Port(envMetricsPort, 0); err != nil {
		return Server{}, err
	}
	if s.HealthGRPCPort, err = Port(envHealthGRPCPort, 0); err != nil {
		return Server{}, err
	}
	if s.LogLevel, err = LogLevel(envLogLevel); err != nil {
		return Server{}, err
	}

	s.TLSCertFile = String(envTLSCertFile, "")
	s.TLSKeyFile = String(envTLSKeyFile, "")
	if (s.TLSCertFile == "") != (s.TLSKeyFile == "") {
		return Server{}, service.NewConfigError(fmt.Sprintf("%s and %s must be set together", envTLSCertFile, envTLSKeyFile), nil)
	}
	for _, path := range []string{s.TLSCertFile, s.TLSKeyFile} {
		if path == "" {
			continue
		}
		if err := readable(path); err != nil {
			return Server{}, service.NewConfigError(fmt.Sprintf("TLS file %s is not readable", path), err)
		}
	}
	return s, nil
}

// TLSEnabled reports whether the HTTP listener serves TLS.
func (s Server) TLSEnabled() bool {
	return s.TLSCertFile != "" && s.TLSKeyFile != ""
}

func (s Server) HTTPAddr() string { return s.addr(s.HTTPPort) }

func (s Server) MetricsAddr() string { return s.addr(s.MetricsPort) }

func (s Server) HealthAddr() string { return s.addr(s.HealthGRPCPort) }

func (s Server) addr(port int) string {
	return net.JoinHostPort(s.BindAddr, strconv.Itoa(port))
}

func readable(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	return f.Close()
}
