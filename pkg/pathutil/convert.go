// Package pathutil converts between absolute and relative path
// representations. Scour works with absolute paths internally to avoid
// ambiguity; user-facing output uses relative paths for readability, and
// this package is the conversion layer between the two.
package pathutil

import (
	"path/filepath"
	"strings"
)

// ToRelative converts an absolute path to one relative to rootDir. It falls
// back to the original path when conversion fails, when the path is already
// relative, or when the path lies outside the root (an absolute path is
// clearer there than a ../-chain).
func ToRelative(absPath, rootDir string) string {
	if absPath == "" || rootDir == "" {
		return absPath
	}
	if !filepath.IsAbs(absPath) {
		return absPath
	}

	absPath = filepath.Clean(absPath)
	rootDir = filepath.Clean(rootDir)

	relPath, err := filepath.Rel(rootDir, absPath)
	if err != nil {
		return absPath
	}
	if strings.HasPrefix(relPath, "..") {
		return absPath
	}
	return relPath
}

// ToAbsolute resolves a possibly-relative path against rootDir. Absolute
// inputs are returned cleaned but otherwise unchanged.
func ToAbsolute(path, rootDir string) string {
	if path == "" {
		return path
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	if rootDir == "" {
		return path
	}
	return filepath.Join(rootDir, path)
}
