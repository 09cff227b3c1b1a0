package imports

import (
	"io/fs"
	"path/filepath"

	"featmap/internal/paths"
)

// Directories that never hold first-party source worth indexing.
var skipDirs = map[string]bool{
	"node_modules": true,
	"target":       true,
	"dist":         true,
	"build":        true,
	".git":         true,
	".svn":         true,
	".hg":          true,
	"vendor":       true,
	"__pycache__":  true,
	".next":        true,
	".nuxt":        true,
	"coverage":     true,
}

// BuildFileIndex walks the whole scan root once and maps every file's
// root-relative path (forward slashes) to its absolute path. The index
// backs slash-path import resolution.
func BuildFileIndex(basePath string) map[string]string {
	fileIndex := map[string]string{}

	_ = filepath.WalkDir(basePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != basePath && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		relative, err := filepath.Rel(basePath, path)
		if err != nil {
			return nil
		}
		fileIndex[paths.Normalize(relative)] = path
		return nil
	})

	return fileIndex
}
