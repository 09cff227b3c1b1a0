package imports

import (
	"os"
	"path/filepath"
	"strings"
)

// Probe orders for extensionless imports. The empty entry tries the
// path exactly as written.
var (
	resolveExtensions = []string{"", ".ts", ".tsx", ".js", ".jsx", ".rs", ".py", ".go", ".java", ".rb", ".php"}
	indexNames        = []string{"index", "mod", "__init__"}
	indexExtensions   = []string{"ts", "tsx", "js", "jsx", "rs", "py"}
	lookupExtensions  = []string{"ts", "tsx", "js", "jsx", "rs", "py", "go", "java", "rb", "php"}
)

// Resolve turns a raw import into the absolute path of a file inside
// basePath. Unresolvable imports return ok=false; they are external
// packages or typos and never an error.
func Resolve(importPath, sourceFile, basePath string, fileIndex map[string]string) (string, bool) {
	sourceDir := filepath.Dir(sourceFile)

	switch {
	case strings.HasPrefix(importPath, "."):
		return resolveRelative(importPath, sourceDir, basePath)
	case strings.Contains(importPath, "::"):
		return resolveRustModulePath(importPath, sourceFile, basePath)
	case strings.Contains(importPath, "/"):
		return resolvePathImport(importPath, fileIndex)
	}

	// Bare package name: external by definition.
	return "", false
}

// resolveRelative handles ./x and ../x imports. Directories are probed
// for index files; plain paths are probed with each known extension,
// first hit inside basePath wins.
func resolveRelative(importPath, sourceDir, basePath string) (string, bool) {
	candidate := filepath.Join(sourceDir, importPath)

	if isDir(candidate) {
		if found, ok := probeIndexFiles(candidate, basePath); ok {
			return found, true
		}
	}

	for _, ext := range resolveExtensions {
		withExt := candidate + ext

		if fileExists(withExt) && within(withExt, basePath) {
			if canonical, err := filepath.EvalSymlinks(withExt); err == nil {
				return canonical, true
			}
			return withExt, true
		}

		// './name.component' may still name a directory with an index file
		if ext != "" && isDir(withExt) {
			if found, ok := probeIndexFiles(withExt, basePath); ok {
				return found, true
			}
		}
	}

	return "", false
}

func probeIndexFiles(dir, basePath string) (string, bool) {
	for _, name := range indexNames {
		for _, ext := range indexExtensions {
			indexPath := filepath.Join(dir, name+"."+ext)
			if fileExists(indexPath) && within(indexPath, basePath) {
				if canonical, err := filepath.EvalSymlinks(indexPath); err == nil {
					return canonical, true
				}
				return indexPath, true
			}
		}
	}
	return "", false
}

// resolveRustModulePath maps crate::/self:: paths onto the discovered
// src directory, probing <path>.rs then <path>/mod.rs. super:: resolves
// against the parent of the source file's directory instead.
func resolveRustModulePath(importPath, sourceFile, basePath string) (string, bool) {
	var modulePath string
	switch {
	case strings.HasPrefix(importPath, "crate::"):
		modulePath = strings.TrimPrefix(importPath, "crate::")
	case strings.HasPrefix(importPath, "super::"):
		return resolveSuperPath(strings.TrimPrefix(importPath, "super::"), sourceFile, basePath)
	case strings.HasPrefix(importPath, "self::"):
		modulePath = strings.TrimPrefix(importPath, "self::")
	default:
		return "", false
	}

	srcDir, ok := findSrcDirectory(basePath)
	if !ok {
		return "", false
	}

	return probeRustModule(srcDir, strings.Split(modulePath, "::"))
}

func resolveSuperPath(remaining, sourceFile, basePath string) (string, bool) {
	parentDir := filepath.Dir(filepath.Dir(sourceFile))
	if !within(parentDir, basePath) {
		return "", false
	}
	return probeRustModule(parentDir, strings.Split(remaining, "::"))
}

func probeRustModule(root string, parts []string) (string, bool) {
	modulePath := filepath.Join(append([]string{root}, parts...)...)

	if fileExists(modulePath + ".rs") {
		return modulePath + ".rs", true
	}
	modFile := filepath.Join(modulePath, "mod.rs")
	if fileExists(modFile) {
		return modFile, true
	}
	return "", false
}

// findSrcDirectory locates the Rust src root: <base>/src, or src one
// level down for workspace layouts.
func findSrcDirectory(basePath string) (string, bool) {
	srcDir := filepath.Join(basePath, "src")
	if isDir(srcDir) {
		return srcDir, true
	}

	entries, err := os.ReadDir(basePath)
	if err != nil {
		return "", false
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		nested := filepath.Join(basePath, entry.Name(), "src")
		if isDir(nested) {
			return nested, true
		}
	}

	return "", false
}

// resolvePathImport looks up slash-containing imports in the project
// file index: exact, with common extensions, then as a directory with
// an index file.
func resolvePathImport(importPath string, fileIndex map[string]string) (string, bool) {
	if path, ok := fileIndex[importPath]; ok {
		return path, true
	}

	for _, ext := range lookupExtensions {
		if path, ok := fileIndex[importPath+"."+ext]; ok {
			return path, true
		}
	}

	for _, name := range indexNames {
		for _, ext := range indexExtensions {
			if path, ok := fileIndex[importPath+"/"+name+"."+ext]; ok {
				return path, true
			}
		}
	}

	return "", false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// within reports prefix containment after cleaning, without touching
// the filesystem.
func within(path, basePath string) bool {
	rel, err := filepath.Rel(basePath, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
