package scanner

import (
	"fmt"
	"sort"

	"featmap/internal/errors"
	"featmap/internal/model"
)

// DuplicateGroup is a feature name used by more than one feature.
type DuplicateGroup struct {
	Name  string   `json:"name"`
	Paths []string `json:"paths"`
}

// FindDuplicateNames returns every feature name shared by two or more
// features, with the offending paths, sorted by name.
func FindDuplicateNames(features []model.Feature) []DuplicateGroup {
	nameToPaths := map[string][]string{}
	collectNames(features, nameToPaths)

	var groups []DuplicateGroup
	for name, featurePaths := range nameToPaths {
		if len(featurePaths) > 1 {
			groups = append(groups, DuplicateGroup{Name: name, Paths: featurePaths})
		}
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
	return groups
}

func collectNames(features []model.Feature, nameToPaths map[string][]string) {
	for _, feature := range features {
		nameToPaths[feature.Name] = append(nameToPaths[feature.Name], feature.Path)
		collectNames(feature.Features, nameToPaths)
	}
}

// RunChecks validates the tree and returns an error carrying every
// offending duplicate group, not just the first.
func RunChecks(features []model.Feature) error {
	groups := FindDuplicateNames(features)
	if len(groups) == 0 {
		return nil
	}
	return errors.New(
		errors.DuplicateFeature,
		fmt.Sprintf("check failed: %d duplicate feature name(s)", len(groups)),
		nil,
	).WithDetails(groups)
}
