package handlers

import (
	"context"
	"embed"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/labstack/echo/v4"
)

//go:embed api/*.openapi.yaml
var apiDocs embed.FS

const (
	discoveryAPIDoc = "api/ipfetch.openapi.yaml"
	patchAPIDoc     = "api/patchserver.openapi.yaml"
)

// LoadDiscoveryAPI returns the validated OpenAPI document of the discovery service.
func LoadDiscoveryAPI() (*openapi3.T, error) {
	return loadAPI(discoveryAPIDoc)
}

// LoadPatchAPI returns the validated OpenAPI document of the patch service.
func LoadPatchAPI() (*openapi3.T, error) {
	return loadAPI(patchAPIDoc)
}

func loadAPI(name string) (*openapi3.T, error) {
	data, err := apiDocs.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("can't read %s: %w", name, err)
	}
	doc, err := openapi3.NewLoader().LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("can't load %s: %w", name, err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", name, err)
	}
	return doc, nil
}

// RequestValidator validates requests against doc. Requests that match no operation of doc pass
// through unchanged so that echo answers them; invalid requests fail with 400.
func RequestValidator(doc *openapi3.T) (echo.MiddlewareFunc, error) {
	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("can't build OpenAPI router: %w", err)
	}
	return requestValidator(router), nil
}

func requestValidator(router routers.Router) echo.MiddlewareFunc {
	options := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			route, pathParams, err := router.FindRoute(req)
			if err != nil {
				return next(c)
			}
			input := &openapi3filter.RequestValidationInput{
				Request:    req,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			}
			if err := openapi3filter.ValidateRequest(req.Context(), input); err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid request").SetInternal(err)
			}
			return next(c)
		}
	}
}
