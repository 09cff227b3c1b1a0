// Package paths normalizes filesystem paths against a scan root. All
// feature paths and dependency endpoints are stored root-relative with
// forward slashes so output is stable across platforms.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// Canonicalize converts an absolute path to a root-relative canonical path:
// symlinks resolved, relative to root, forward slashes.
func Canonicalize(absolutePath string, root string) (string, error) {
	resolved, err := filepath.EvalSymlinks(absolutePath)
	if err != nil {
		// Paths that do not exist yet are used as-is
		if os.IsNotExist(err) {
			resolved = absolutePath
		} else {
			return "", err
		}
	}

	rootResolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		if os.IsNotExist(err) {
			rootResolved = root
		} else {
			return "", err
		}
	}

	relative, err := filepath.Rel(rootResolved, resolved)
	if err != nil {
		return "", err
	}

	return filepath.ToSlash(relative), nil
}

// IsWithin reports whether path lies inside root.
func IsWithin(path string, root string) bool {
	canonical, err := Canonicalize(path, root)
	if err != nil {
		return false
	}

	return canonical != ".." && !strings.HasPrefix(canonical, "../")
}

// Normalize converts backslashes to forward slashes without touching
// anything else.
func Normalize(path string) string {
	return filepath.ToSlash(path)
}

// Join joins a root with a canonical relative path, converting back to
// the OS separator.
func Join(root string, canonical string) string {
	normalized := strings.ReplaceAll(canonical, "\\", "/")
	parts := strings.Split(normalized, "/")
	return filepath.Join(append([]string{root}, parts...)...)
}
