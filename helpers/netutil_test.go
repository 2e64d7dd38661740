package helpers

import (
	"net"
	"testing"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExternalAddress_ReturnsIPv4(t *testing.T) {
	addr := ExternalAddress(log.NewNopLogger())
	ip := net.ParseIP(addr)
	require.NotNil(t, ip, "not an IP: %q", addr)
	assert.NotNil(t, ip.To4())
}
