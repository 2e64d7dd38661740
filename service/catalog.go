package service

import (
	"bufio"
	"bytes"
	"os"
	"strings"

	"webservers/domain"
)

// VersionKey is the key holding the published client version in the version file.
const VersionKey = "Version"

// LoadPatchCatalog reads the key=value version file at path and returns the catalog it describes.
// Surrounding quotes on path are dropped when the path as given does not exist.
//
// Returns: (catalog, nil), with an empty LatestVersion when the file has no Version key;
// (zero, config_error) when the file cannot be read.
//
// Called once from cmd/patchserver at startup.
func LoadPatchCatalog(path string) (domain.PatchCatalog, error) {
	if _, err := os.Stat(path); err != nil {
		path = strings.TrimSuffix(strings.TrimPrefix(path, `"`), `"`)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.PatchCatalog{}, NewConfigError("cannot read version file", err)
	}

	values := parseKeyValues(data)
	return domain.PatchCatalog{LatestVersion: values[VersionKey]}, nil
}

// parseKeyValues splits trimmed non-empty lines on the first '='. Lines without '=' are ignored
// and later keys win.
func parseKeyValues(data []byte) map[string]string {
	values := make(map[string]string)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		values[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return values
}
