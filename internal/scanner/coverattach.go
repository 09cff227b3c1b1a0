package scanner

import (
	"path/filepath"
	"strings"

	"featmap/internal/coverage"
	"featmap/internal/model"
)

// attachCoverage finds coverage reports and folds their figures into
// feature stats. Without an explicit directory the usual locations are
// probed in order and the first one holding data wins.
func (s *Scanner) attachCoverage(features []model.Feature, basePath string, config Config) {
	var candidates []string
	if config.CoverageDir != "" {
		candidates = []string{config.CoverageDir}
	} else {
		candidates = []string{
			filepath.Join(basePath, ".coverage"),
			filepath.Join(basePath, "coverage"),
		}
		if config.CurrentDir != "" {
			candidates = append(candidates,
				filepath.Join(config.CurrentDir, ".coverage"),
				filepath.Join(config.CurrentDir, "coverage"),
			)
		}
		if config.ProjectDir != "" {
			for _, extra := range []string{
				filepath.Join(config.ProjectDir, ".coverage"),
				filepath.Join(config.ProjectDir, "coverage"),
			} {
				if !containsString(candidates, extra) {
					candidates = append(candidates, extra)
				}
			}
		}
	}

	for _, dir := range candidates {
		coverageMap, err := coverage.ParseReports(dir)
		if err != nil || len(coverageMap) == 0 {
			continue
		}
		s.logger.Debug("Coverage reports found", map[string]interface{}{
			"dir":   dir,
			"files": len(coverageMap),
		})
		featureCoverage := mapCoverageToFeatures(features, coverageMap, basePath)
		updateFeaturesWithCoverage(features, featureCoverage)
		return
	}
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

// mapCoverageToFeatures assigns each covered file to its most specific
// enclosing feature and aggregates per feature path.
func mapCoverageToFeatures(features []model.Feature, coverageMap map[string]*coverage.Stats, basePath string) map[string]*coverage.Stats {
	canonicalBase, err := filepath.EvalSymlinks(basePath)
	if err != nil {
		canonicalBase = basePath
	}

	featureCoverage := map[string]*coverage.Stats{}

	for filePath, stats := range coverageMap {
		featurePath, ok := findFeatureForFile(filePath, features, canonicalBase)
		if !ok {
			continue
		}

		aggregate, exists := featureCoverage[featurePath]
		if !exists {
			aggregate = &coverage.Stats{Files: map[string]coverage.FileStats{}}
			featureCoverage[featurePath] = aggregate
		}

		for individualPath, fileStats := range stats.Files {
			if fileFeature, ok := findFeatureForFile(individualPath, features, canonicalBase); ok && fileFeature == featurePath {
				aggregate.Files[individualPath] = fileStats
			}
		}

		aggregate.Merge(stats)
	}

	return featureCoverage
}

// findFeatureForFile returns the path of the most specific feature
// containing the file, trying canonical path containment first and
// falling back to normalized string comparison for paths that do not
// exist on disk.
func findFeatureForFile(filePath string, features []model.Feature, canonicalBase string) (string, bool) {
	canonicalFile := ""
	if resolved, err := filepath.EvalSymlinks(filePath); err == nil {
		canonicalFile = resolved
	} else if resolved, err := filepath.EvalSymlinks(filepath.Join(canonicalBase, filePath)); err == nil {
		canonicalFile = resolved
	}

	normalizedFile := normalizeCoveragePath(filePath)

	return searchFeatureForFile(canonicalFile, normalizedFile, features, canonicalBase)
}

func searchFeatureForFile(canonicalFile, normalizedFile string, features []model.Feature, canonicalBase string) (string, bool) {
	for _, feature := range features {
		featureAbs := filepath.Join(canonicalBase, filepath.FromSlash(feature.Path))

		if canonicalFile != "" {
			if canonicalFeature, err := filepath.EvalSymlinks(featureAbs); err == nil && strings.HasPrefix(canonicalFile, canonicalFeature+string(filepath.Separator)) {
				if nested, ok := searchFeatureForFile(canonicalFile, normalizedFile, feature.Features, canonicalBase); ok {
					return nested, true
				}
				return feature.Path, true
			}
		}

		if strings.HasPrefix(normalizedFile, normalizeCoveragePath(feature.Path)) {
			if nested, ok := searchFeatureForFile(canonicalFile, normalizedFile, feature.Features, canonicalBase); ok {
				return nested, true
			}
			return feature.Path, true
		}
	}
	return "", false
}

func normalizeCoveragePath(path string) string {
	return strings.TrimPrefix(filepath.ToSlash(path), "./")
}

// updateFeaturesWithCoverage writes the aggregated coverage into each
// feature's stats, creating stats when the scan ran without history.
func updateFeaturesWithCoverage(features []model.Feature, featureCoverage map[string]*coverage.Stats) {
	for i := range features {
		if stats, ok := featureCoverage[features[i].Path]; ok {
			stats.CalculatePercentages()
			if features[i].Stats == nil {
				features[i].Stats = &model.Stats{Commits: map[string]interface{}{}}
			}
			features[i].Stats.Coverage = stats
		}
		updateFeaturesWithCoverage(features[i].Features, featureCoverage)
	}
}
