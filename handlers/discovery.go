// Package handlers contains the http handlers of ipfetch and patchserver.
package handlers

import (
	"fmt"
	"net/http"

	"webservers/domain"
	"webservers/helpers"
	"webservers/interfaces"

	"github.com/go-kit/log"
	"github.com/labstack/echo/v4"
)

// DiscoveryServer implements DiscoveryServerInterface over the discovery cache.
type DiscoveryServer struct {
	discovery interfaces.Discovery
	logger    log.Logger
}

// NewDiscoveryServer creates a new DiscoveryServer. Panics on nil discovery or logger.
func NewDiscoveryServer(discovery interfaces.Discovery, logger log.Logger) *DiscoveryServer {
	return &DiscoveryServer{
		discovery: helpers.NilPanic(discovery, "handlers.discovery.go: discovery is required"),
		logger:    log.WithPrefix(helpers.NilPanic(logger, "handlers.discovery.go: logger is required"), "component", "DiscoveryServer"),
	}
}

// GetLoginServers (GET / and GET /loginserver) returns the login servers.
func (h *DiscoveryServer) GetLoginServers(ectx echo.Context) error {
	return h.list(ectx, domain.KindLoginServer)
}

// GetPatchServers (GET /patchserver) returns the live patch servers with their last pulse.
func (h *DiscoveryServer) GetPatchServers(ectx echo.Context) error {
	return h.list(ectx, domain.KindPatchServer)
}

func (h *DiscoveryServer) list(ectx echo.Context, kind domain.Kind) error {
	endpoints, err := h.discovery.Get(ectx.Request().Context(), kind)
	if err != nil {
		return fmt.Errorf("discovery of %s failed, err: %w", kind, err)
	}

	return ectx.JSON(http.StatusOK, toEndpointsResponse(endpoints))
}
