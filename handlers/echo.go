package handlers

import (
	"webservers/service"
	"webservers/telemetry"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-kit/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// NewDiscoveryEcho builds the ipfetch HTTP server: metrics, CORS, request validation and the discovery routes.
func NewDiscoveryEcho(si DiscoveryServerInterface, logger log.Logger) (*echo.Echo, error) {
	doc, err := LoadDiscoveryAPI()
	if err != nil {
		return nil, err
	}
	e, err := newEcho(doc, logger, CORS())
	if err != nil {
		return nil, err
	}
	RegisterDiscoveryHandlers(e, si)
	return e, nil
}

// NewPatchEcho builds the patchserver HTTP server: metrics, request validation and the patch routes.
func NewPatchEcho(si PatchServerInterface, logger log.Logger) (*echo.Echo, error) {
	doc, err := LoadPatchAPI()
	if err != nil {
		return nil, err
	}
	e, err := newEcho(doc, logger)
	if err != nil {
		return nil, err
	}
	RegisterPatchHandlers(e, si)
	return e, nil
}

func newEcho(doc *openapi3.T, logger log.Logger, extra ...echo.MiddlewareFunc) (*echo.Echo, error) {
	validator, err := RequestValidator(doc)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	service.RegisterErrorHandler(e, logger)

	e.Use(telemetry.EchoMiddleware())
	e.Use(middleware.Recover())
	e.Use(extra...)
	e.Use(validator)
	return e, nil
}
