package grpchealth

import (
	"context"
	"errors"
	"net"

	"webservers/helpers"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// Server exposes grpc.health.v1.Health for the overall service ("").
type Server struct {
	name   string
	addr   string
	grpc   *grpc.Server
	health *health.Server
	logger log.Logger
}

// NewServer creates a health Server listening on addr once run. serving is the initial status.
// Panics on an empty name or nil logger.
func NewServer(name, addr string, serving bool, logger log.Logger) *Server {
	s := &Server{
		name:   helpers.StrPanic(name, "grpchealth.server.go: name is required"),
		addr:   addr,
		grpc:   grpc.NewServer(),
		health: health.NewServer(),
		logger: log.With(helpers.NilPanic(logger, "grpchealth.server.go: logger is required"), "component", "HealthServer"),
	}
	grpc_health_v1.RegisterHealthServer(s.grpc, s.health)
	reflection.Register(s.grpc)
	s.SetServing(serving)
	return s
}

// SetServing switches the reported status between SERVING and NOT_SERVING.
func (s *Server) SetServing(serving bool) {
	status := grpc_health_v1.HealthCheckResponse_NOT_SERVING
	if serving {
		status = grpc_health_v1.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	level.Debug(s.logger).Log("msg", "health status changed", "status", status)
}

func (s *Server) Name() string { return s.name }

// Run listens on the configured address and serves until Shutdown.
func (s *Server) Run() error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(lis)
}

// Serve serves on lis until Shutdown.
func (s *Server) Serve(lis net.Listener) error {
	level.Info(s.logger).Log("msg", "Starting gRPC health server", "addr", lis.Addr())
	if err := s.grpc.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

// Shutdown reports NOT_SERVING to watchers and stops gracefully, forcing the stop when ctx ends first.
func (s *Server) Shutdown(ctx context.Context) error {
	s.health.Shutdown()

	stopped := make(chan struct{})
	go func() {
		s.grpc.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
		return nil
	case <-ctx.Done():
		s.grpc.Stop()
		return ctx.Err()
	}
}
