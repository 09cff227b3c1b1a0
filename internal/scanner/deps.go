package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"featmap/internal/imports"
	"featmap/internal/manifest"
	"featmap/internal/model"
)

// FeatureInfo is the flat view of a feature used during dependency
// resolution: its name and root-relative path.
type FeatureInfo struct {
	Name string
	Path string
}

// CollectFeatureInfo flattens the tree into a list of name/path pairs.
// Feature paths are already root-relative, so nesting needs no prefix
// bookkeeping.
func CollectFeatureInfo(features []model.Feature, result *[]FeatureInfo) {
	for _, feature := range features {
		*result = append(*result, FeatureInfo{Name: feature.Name, Path: feature.Path})
		if len(feature.Features) > 0 {
			CollectFeatureInfo(feature.Features, result)
		}
	}
}

// populateDependencies is the second scan pass: every feature's source
// files are scanned for imports, each import is resolved against the
// file index, and resolved targets are mapped back to their owning
// features.
func (s *Scanner) populateDependencies(features []model.Feature, basePath string) error {
	fileIndex := imports.BuildFileIndex(basePath)

	var infos []FeatureInfo
	CollectFeatureInfo(features, &infos)

	fileToFeature := buildFileToFeatureMap(infos, basePath)

	pathToName := make(map[string]string, len(infos))
	for _, info := range infos {
		pathToName[info.Path] = info.Name
	}

	featureImports := make(map[string][]imports.Statement, len(infos))
	for _, info := range infos {
		featureImports[info.Name] = scanFeatureImports(filepath.Join(basePath, filepath.FromSlash(info.Path)))
	}

	populateDependenciesRecursive(features, basePath, featureImports, fileToFeature, pathToName, fileIndex)
	return nil
}

func populateDependenciesRecursive(features []model.Feature, basePath string, featureImports map[string][]imports.Statement, fileToFeature map[string]string, pathToName map[string]string, fileIndex map[string]string) {
	for i := range features {
		if statements, ok := featureImports[features[i].Name]; ok {
			features[i].Dependencies = resolveFeatureDependencies(features[i].Path, basePath, statements, fileToFeature, pathToName, fileIndex)
		}
		if len(features[i].Features) > 0 {
			populateDependenciesRecursive(features[i].Features, basePath, featureImports, fileToFeature, pathToName, fileIndex)
		}
	}
}

// scanFeatureImports gathers the raw import statements of every source
// file in a feature directory, skipping documentation directories, the
// features/ subdirectory (nested features scan themselves), and
// README-flagged nested features.
func scanFeatureImports(featurePath string) []imports.Statement {
	var all []imports.Statement

	entries, err := os.ReadDir(featurePath)
	if err != nil {
		return all
	}

	for _, entry := range entries {
		path := filepath.Join(featurePath, entry.Name())

		if !entry.IsDir() {
			all = append(all, imports.ScanFile(path)...)
			continue
		}
		if isDocumentationDirectory(path) || entry.Name() == "features" {
			continue
		}
		if !hasFeatureFlagInReadme(path) {
			all = append(all, scanFeatureImports(path)...)
		}
	}

	return all
}

var resolverSkipDirs = map[string]bool{
	"node_modules": true,
	"target":       true,
	"dist":         true,
	"build":        true,
	".git":         true,
	"__pycache__":  true,
	"coverage":     true,
}

// isNestedFeatureBoundary reports whether a subdirectory starts a
// different feature: it has a FEATURES.toml manifest or is a direct
// child of a features directory.
func isNestedFeatureBoundary(dir string) bool {
	if _, ok := manifest.FindFeaturesToml(dir); ok {
		return true
	}
	return isDirectChildOfFeatures(dir)
}

// buildFileToFeatureMap maps every canonical file path to the path of
// its owning feature. Features are applied longest-path-first so the
// most specific feature wins for files inside nested features.
func buildFileToFeatureMap(infos []FeatureInfo, basePath string) map[string]string {
	sorted := make([]FeatureInfo, len(infos))
	copy(sorted, infos)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Path) > len(sorted[j].Path)
	})

	fileToFeature := map[string]string{}
	for _, info := range sorted {
		mapDirectoryFiles(filepath.Join(basePath, filepath.FromSlash(info.Path)), info.Path, fileToFeature)
	}
	return fileToFeature
}

func mapDirectoryFiles(dir, featurePath string, fileToFeature map[string]string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		if !entry.IsDir() {
			if canonical, err := filepath.EvalSymlinks(path); err == nil {
				fileToFeature[canonical] = featurePath
			} else {
				fileToFeature[path] = featurePath
			}
			continue
		}
		if resolverSkipDirs[entry.Name()] || isNestedFeatureBoundary(path) {
			continue
		}
		mapDirectoryFiles(path, featurePath, fileToFeature)
	}
}

// DetermineDependencyType classifies the edge between two features by
// path containment.
func DetermineDependencyType(sourceFeaturePath, targetFeaturePath string) model.DependencyType {
	if isUnderDirectory(targetFeaturePath, sourceFeaturePath) {
		return model.DependencyChild
	}
	if isUnderDirectory(sourceFeaturePath, targetFeaturePath) {
		return model.DependencyParent
	}
	return model.DependencySibling
}

// isUnderDirectory reports whether path equals dir or lies inside it.
// Containment is checked on whole path components, so a sibling whose
// name merely extends dir's name does not count.
func isUnderDirectory(path, dir string) bool {
	return path == dir || strings.HasPrefix(path, dir+string(filepath.Separator))
}

// resolveFeatureDependencies turns a feature's raw imports into
// dependency edges. Imports that resolve into the same feature are
// skipped, and edges are deduplicated by target file, line, and target
// feature.
func resolveFeatureDependencies(featurePath, basePath string, statements []imports.Statement, fileToFeature map[string]string, pathToName map[string]string, fileIndex map[string]string) []model.Dependency {
	dependencies := []model.Dependency{}
	seen := map[string]bool{}

	canonicalBase, err := filepath.EvalSymlinks(basePath)
	if err != nil {
		canonicalBase = basePath
	}

	for _, statement := range statements {
		resolved, ok := imports.Resolve(statement.ImportedPath, statement.FilePath, basePath, fileIndex)
		if !ok {
			continue
		}

		targetFeaturePath, ok := fileToFeature[resolved]
		if !ok || targetFeaturePath == featurePath {
			continue
		}

		key := fmt.Sprintf("%s:%d:%s", resolved, statement.LineNumber, targetFeaturePath)
		if seen[key] {
			continue
		}
		seen[key] = true

		if _, known := pathToName[targetFeaturePath]; !known {
			continue
		}

		dependencyType := DetermineDependencyType(
			filepath.Join(canonicalBase, filepath.FromSlash(featurePath)),
			filepath.Join(canonicalBase, filepath.FromSlash(targetFeaturePath)),
		)

		dependencies = append(dependencies, model.Dependency{
			SourceFilename: baseRelative(statement.FilePath, canonicalBase),
			TargetFilename: baseRelative(resolved, canonicalBase),
			Line:           statement.LineNumber,
			Content:        statement.LineContent,
			FeaturePath:    targetFeaturePath,
			Type:           dependencyType,
		})
	}

	return dependencies
}

// baseRelative converts an absolute path to a slash-separated path
// relative to the canonical base, falling back to the input when the
// path lies outside it.
func baseRelative(path, canonicalBase string) string {
	canonical, err := filepath.EvalSymlinks(path)
	if err != nil {
		canonical = path
	}
	relative, err := filepath.Rel(canonicalBase, canonical)
	if err != nil || strings.HasPrefix(relative, "..") {
		return path
	}
	return filepath.ToSlash(relative)
}
