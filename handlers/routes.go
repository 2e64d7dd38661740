package handlers

import (
	"github.com/labstack/echo/v4"
)

// DiscoveryServerInterface serves api/ipfetch.openapi.yaml.
type DiscoveryServerInterface interface {
	// GetLoginServers (GET / and GET /loginserver)
	GetLoginServers(ctx echo.Context) error
	// GetPatchServers (GET /patchserver)
	GetPatchServers(ctx echo.Context) error
}

// PatchServerInterface serves api/patchserver.openapi.yaml.
type PatchServerInterface interface {
	// GetLatestVersion (GET /latest_version)
	GetLatestVersion(ctx echo.Context) error
	// GetPatch (GET /{version})
	GetPatch(ctx echo.Context, version string) error
}

// EchoRouter is the part of *echo.Echo and *echo.Group used to register handlers.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterDiscoveryHandlers adds each discovery route to the router.
func RegisterDiscoveryHandlers(router EchoRouter, si DiscoveryServerInterface) {
	router.GET("/", si.GetLoginServers)
	router.GET("/loginserver", si.GetLoginServers)
	router.GET("/patchserver", si.GetPatchServers)
}

// RegisterPatchHandlers adds each patch route to the router.
func RegisterPatchHandlers(router EchoRouter, si PatchServerInterface) {
	router.GET("/latest_version", si.GetLatestVersion)
	router.GET("/:version", func(ctx echo.Context) error {
		return si.GetPatch(ctx, ctx.Param("version"))
	})
}
