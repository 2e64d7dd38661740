package grpchealth

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
)

func startTestServer(t *testing.T, serving bool) (*Server, grpc_health_v1.HealthClient, <-chan error) {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := NewServer("health", "", serving, log.NewNopLogger())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(lis) }()

	conn, err := grpc.NewClient(lis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	return srv, grpc_health_v1.NewHealthClient(conn), done
}

func check(t *testing.T, client grpc_health_v1.HealthClient) grpc_health_v1.HealthCheckResponse_ServingStatus {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	resp, err := client.Check(ctx, &grpc_health_v1.HealthCheckRequest{Service: ""})
	require.NoError(t, err)
	return resp.Status
}

func TestNewServer_Panics(t *testing.T) {
	assert.PanicsWithValue(t, "grpchealth.server.go: name is required", func() {
		NewServer("", ":0", true, log.NewNopLogger())
	})
	assert.PanicsWithValue(t, "grpchealth.server.go: logger is required", func() {
		NewServer("health", ":0", true, nil)
	})
}

func TestServer_ReportsStatus(t *testing.T) {
	srv, client, _ := startTestServer(t, false)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING, check(t, client))

	srv.SetServing(true)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, check(t, client))

	srv.SetServing(false)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING, check(t, client))
}

func TestServer_ShutdownEndsServe(t *testing.T) {
	srv, client, done := startTestServer(t, true)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, check(t, client))

	require.NoError(t, srv.Shutdown(context.Background()))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return")
	}
}

func TestServer_RunFailsOnBadAddress(t *testing.T) {
	srv := NewServer("health", "256.0.0.1:0", true, log.NewNopLogger())
	assert.Error(t, srv.Run())
}
