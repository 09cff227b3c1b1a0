package scanner

import (
	"math"
	"path/filepath"
	"strings"

	"featmap/internal/model"
)

// OwnerInfo answers an ownership query for a path.
type OwnerInfo struct {
	Owner       string `json:"owner"`
	Inherited   bool   `json:"inherited,omitempty"`
	FeatureName string `json:"feature_name"`
	FeaturePath string `json:"feature_path"`
}

// FindOwner returns the owner of the most specific feature enclosing
// targetPath. The second return is false when no feature contains the
// path.
func FindOwner(targetPath string, features []model.Feature, basePath string) (OwnerInfo, bool) {
	canonicalTarget, err := filepath.EvalSymlinks(targetPath)
	if err != nil {
		return OwnerInfo{}, false
	}
	return findClosestFeature(canonicalTarget, features, basePath)
}

func findClosestFeature(target string, features []model.Feature, basePath string) (OwnerInfo, bool) {
	var best OwnerInfo
	found := false
	bestDepth := math.MaxInt

	for _, feature := range features {
		featureAbs := filepath.Join(basePath, filepath.FromSlash(feature.Path))
		canonicalFeature, err := filepath.EvalSymlinks(featureAbs)
		if err != nil {
			continue
		}
		if target != canonicalFeature && !strings.HasPrefix(target, canonicalFeature+string(filepath.Separator)) {
			continue
		}

		relative, err := filepath.Rel(canonicalFeature, target)
		depth := math.MaxInt
		if err == nil {
			depth = len(strings.Split(relative, string(filepath.Separator)))
		}

		if nested, ok := findClosestFeature(target, feature.Features, basePath); ok {
			if !found || depth < bestDepth {
				best = nested
				bestDepth = depth
				found = true
			}
		} else if depth < bestDepth {
			best = OwnerInfo{
				Owner:       feature.Owner,
				Inherited:   feature.IsOwnerInherited,
				FeatureName: feature.Name,
				FeaturePath: feature.Path,
			}
			bestDepth = depth
			found = true
		}
	}

	return best, found
}
