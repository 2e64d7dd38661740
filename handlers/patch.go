package handlers

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"webservers/domain"
	"webservers/helpers"
	"webservers/service"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/labstack/echo/v4"
)

// DefaultPatchesDir is where diff files are looked up when no directory is configured.
const DefaultPatchesDir = "./patches/"

// PatchServer implements PatchServerInterface over an immutable catalog and a directory of diff files.
type PatchServer struct {
	catalog    domain.PatchCatalog
	patchesDir string
	logger     log.Logger
}

// NewPatchServer creates a new PatchServer. An empty patchesDir means DefaultPatchesDir.
// Panics on nil logger.
func NewPatchServer(catalog domain.PatchCatalog, patchesDir string, logger log.Logger) *PatchServer {
	if patchesDir == "" {
		patchesDir = DefaultPatchesDir
	}
	return &PatchServer{
		catalog:    catalog,
		patchesDir: patchesDir,
		logger:     log.WithPrefix(helpers.NilPanic(logger, "handlers.patch.go: logger is required"), "component", "PatchServer"),
	}
}

// GetLatestVersion (GET /latest_version) returns the published version.
func (h *PatchServer) GetLatestVersion(ectx echo.Context) error {
	if !h.catalog.Loaded() {
		return service.NewInternalServerError("latest version is not set", nil)
	}
	return ectx.JSON(http.StatusOK, LatestVersionResponse{LatestVersion: h.catalog.LatestVersion})
}

// GetPatch (GET /{version}) reports AlreadyUpdated for the latest version and otherwise streams the
// diff from version to the latest one.
func (h *PatchServer) GetPatch(ectx echo.Context, version string) error {
	if !h.catalog.Loaded() {
		return service.NewInternalServerError("latest version is not set", nil)
	}
	if h.catalog.IsLatest(version) {
		return ectx.JSON(http.StatusOK, StatusResponse{Status: domain.AlreadyUpdatedStatus})
	}

	name, ok := h.catalog.DiffFileName(version)
	if !ok {
		return service.NewEntityNotFoundError("no patch for this version", nil)
	}
	path := filepath.Join(h.patchesDir, name)

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		level.Warn(h.logger).Log("msg", "diff file does not exist", "path", path)
		return service.NewEntityNotFoundError("no patch for this version", nil)
	}
	if err != nil {
		return service.NewInternalServerError("can't open diff file", fmt.Errorf("open %s: %w", path, err))
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return service.NewInternalServerError("can't stat diff file", fmt.Errorf("stat %s: %w", path, err))
	}
	if !info.Mode().IsRegular() {
		level.Warn(h.logger).Log("msg", "diff path is not a regular file", "path", path)
		return service.NewEntityNotFoundError("no patch for this version", nil)
	}

	ectx.Response().Header().Set(echo.HeaderContentLength, strconv.FormatInt(info.Size(), 10))
	return ectx.Stream(http.StatusOK, echo.MIMEOctetStream, f)
}
