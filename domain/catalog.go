package domain

import "path/filepath"

// AlreadyUpdatedStatus is reported to clients already on the latest version.
const AlreadyUpdatedStatus = "AlreadyUpdated"

// PatchCatalog is the published client version. It is loaded once at startup and never mutated.
type PatchCatalog struct {
	LatestVersion string
}

// Loaded reports whether a latest version is known.
func (c PatchCatalog) Loaded() bool {
	return c.LatestVersion != ""
}

// IsLatest reports whether version is the published one.
func (c PatchCatalog) IsLatest(version string) bool {
	return c.Loaded() && version == c.LatestVersion
}

// DiffFileName returns the name of the diff taking a client from version to the latest one.
// ok is false when version cannot name a file inside the patches directory.
func (c PatchCatalog) DiffFileName(version string) (name string, ok bool) {
	if version == "" || version == "." || version == ".." {
		return "", false
	}
	name = version + "-" + c.LatestVersion + ".patch"
	if filepath.Base(name) != name {
		return "", false
	}
	return name, true
}
