// Package model defines the feature tree produced by a scan. The JSON
// shape is consumed by the CLI printer, the static export, and the HTTP
// server, so field names are part of the tool's public contract.
package model

import (
	"sort"

	"featmap/internal/coverage"
)

// Change is a single commit attributed to a feature.
type Change struct {
	Title       string `json:"title"`
	AuthorName  string `json:"author_name"`
	AuthorEmail string `json:"author_email"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Hash        string `json:"hash"`
}

// Stats aggregates size and history figures for one feature. Counts
// exclude files that belong to nested features.
type Stats struct {
	FilesCount *int                   `json:"files_count,omitempty"`
	LinesCount *int                   `json:"lines_count,omitempty"`
	TodosCount *int                   `json:"todos_count,omitempty"`
	Commits    map[string]interface{} `json:"commits"`
	Coverage   *coverage.Stats        `json:"coverage,omitempty"`
}

// DependencyType classifies a dependency edge by path containment
// between the source and target features.
type DependencyType string

const (
	// DependencyParent means the target feature is an ancestor of the source.
	DependencyParent DependencyType = "parent"
	// DependencyChild means the target feature is a descendant of the source.
	DependencyChild DependencyType = "child"
	// DependencySibling covers every other pair of features.
	DependencySibling DependencyType = "sibling"
)

// Dependency is a resolved import from a file in one feature to a file
// owned by another feature. Paths are relative to the scan root.
type Dependency struct {
	SourceFilename string         `json:"sourceFilename"`
	TargetFilename string         `json:"targetFilename"`
	Line           int            `json:"line"`
	Content        string         `json:"content"`
	FeaturePath    string         `json:"featurePath"`
	Type           DependencyType `json:"type"`
}

// Feature is a node in the ownership tree. Path is the root-relative
// identifier and is unique across the tree.
type Feature struct {
	Name             string                 `json:"name"`
	Description      string                 `json:"description"`
	Owner            string                 `json:"owner"`
	IsOwnerInherited bool                   `json:"is_owner_inherited"`
	Path             string                 `json:"path"`
	Features         []Feature              `json:"features"`
	Meta             map[string]interface{} `json:"meta"`
	Changes          []Change               `json:"changes"`
	Decisions        []string               `json:"decisions"`
	Stats            *Stats                 `json:"stats,omitempty"`
	Dependencies     []Dependency           `json:"dependencies"`
}

// Flatten returns every feature in the tree as a single depth-first
// list. Each entry keeps its own metadata, stats, and dependencies but
// drops the nested sub-tree and the per-feature history, so the flat
// form carries no duplicated content.
func Flatten(features []Feature) []Feature {
	var out []Feature
	for _, f := range features {
		flat := f
		flat.Features = []Feature{}
		flat.Changes = []Change{}
		flat.Decisions = []string{}
		out = append(out, flat)
		out = append(out, Flatten(f.Features)...)
	}
	return out
}

// UniqueOwners returns the sorted set of non-empty owners in the tree.
func UniqueOwners(features []Feature) []string {
	seen := map[string]bool{}
	var collect func([]Feature)
	collect = func(fs []Feature) {
		for _, f := range fs {
			if f.Owner != "" {
				seen[f.Owner] = true
			}
			collect(f.Features)
		}
	}
	collect(features)

	owners := make([]string, 0, len(seen))
	for owner := range seen {
		owners = append(owners, owner)
	}
	sort.Strings(owners)
	return owners
}

// CountFeatures returns the total number of features in the tree.
func CountFeatures(features []Feature) int {
	count := len(features)
	for _, f := range features {
		count += CountFeatures(f.Features)
	}
	return count
}
