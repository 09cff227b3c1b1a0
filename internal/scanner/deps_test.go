package scanner

import (
	stderrors "errors"
	"path/filepath"
	"testing"

	"featmap/internal/errors"
	"featmap/internal/model"
)

func TestDetermineDependencyType(t *testing.T) {
	tests := []struct {
		name   string
		source string
		target string
		want   model.DependencyType
	}{
		{"child", "/project/features/parent", "/project/features/parent/child", model.DependencyChild},
		{"parent", "/project/features/parent/child", "/project/features/parent", model.DependencyParent},
		{"sibling", "/project/features/a", "/project/features/b", model.DependencySibling},
		{"sibling with name prefix", "/project/features/api", "/project/features/api-v2", model.DependencySibling},
		{"sibling with name prefix reversed", "/project/features/api-v2", "/project/features/api", model.DependencySibling},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetermineDependencyType(tt.source, tt.target); got != tt.want {
				t.Errorf("DetermineDependencyType(%q, %q) = %q, want %q", tt.source, tt.target, got, tt.want)
			}
		})
	}
}

func TestScanResolvesSiblingDependency(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "features", "a", "index.ts"),
		"import { helper } from './helper';\nimport { util } from '../b/util';\n")
	writeFile(t, filepath.Join(base, "features", "a", "helper.ts"), "export const helper = 1;\n")
	writeFile(t, filepath.Join(base, "features", "b", "util.ts"), "export const util = 2;\n")

	features := scanTree(t, base)

	var a model.Feature
	for _, feature := range features {
		if feature.Name == "a" {
			a = feature
		}
	}
	if a.Name == "" {
		t.Fatalf("feature a not found in %+v", features)
	}

	// The same-feature import of ./helper must not produce an edge.
	if len(a.Dependencies) != 1 {
		t.Fatalf("expected 1 dependency, got %d: %+v", len(a.Dependencies), a.Dependencies)
	}
	dep := a.Dependencies[0]
	if dep.Type != model.DependencySibling {
		t.Errorf("type = %q, want sibling", dep.Type)
	}
	if dep.FeaturePath != "features/b" {
		t.Errorf("featurePath = %q, want features/b", dep.FeaturePath)
	}
	if dep.SourceFilename != "features/a/index.ts" {
		t.Errorf("sourceFilename = %q", dep.SourceFilename)
	}
	if dep.TargetFilename != "features/b/util.ts" {
		t.Errorf("targetFilename = %q", dep.TargetFilename)
	}
	if dep.Line != 2 {
		t.Errorf("line = %d, want 2", dep.Line)
	}
}

func TestScanResolvesChildDependency(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "features", "parent", "main.ts"),
		"import { child } from './features/child/api';\n")
	writeFile(t, filepath.Join(base, "features", "parent", "features", "child", "api.ts"),
		"export const child = true;\n")

	features := scanTree(t, base)

	parent := features[0]
	if len(parent.Dependencies) != 1 {
		t.Fatalf("expected 1 dependency, got %+v", parent.Dependencies)
	}
	if parent.Dependencies[0].Type != model.DependencyChild {
		t.Errorf("type = %q, want child", parent.Dependencies[0].Type)
	}
}

func TestScanUnresolvableImportIsDropped(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "features", "a", "index.ts"),
		"import { x } from './missing';\nimport { y } from 'react';\n")

	features := scanTree(t, base)

	if len(features[0].Dependencies) != 0 {
		t.Errorf("expected no dependencies, got %+v", features[0].Dependencies)
	}
}

func TestBuildFileToFeatureMapMostSpecificWins(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "features", "f1", "own.ts"), "export {};\n")
	writeFile(t, filepath.Join(base, "features", "f1", "features", "f2", "inner.ts"), "export {};\n")

	infos := []FeatureInfo{
		{Name: "f1", Path: "features/f1"},
		{Name: "f2", Path: "features/f1/features/f2"},
	}
	fileToFeature := buildFileToFeatureMap(infos, base)

	own, _ := filepath.EvalSymlinks(filepath.Join(base, "features", "f1", "own.ts"))
	inner, _ := filepath.EvalSymlinks(filepath.Join(base, "features", "f1", "features", "f2", "inner.ts"))

	if got := fileToFeature[own]; got != "features/f1" {
		t.Errorf("own.ts mapped to %q, want features/f1", got)
	}
	if got := fileToFeature[inner]; got != "features/f1/features/f2" {
		t.Errorf("inner.ts mapped to %q, want features/f1/features/f2", got)
	}
}

func TestRunChecksReportsEveryDuplicateGroup(t *testing.T) {
	features := []model.Feature{
		{Name: "Same", Path: "features/x"},
		{Name: "Same", Path: "features/y"},
		{Name: "Other", Path: "features/z", Features: []model.Feature{
			{Name: "Other", Path: "features/z/features/w"},
		}},
	}

	groups := FindDuplicateNames(features)
	if len(groups) != 2 {
		t.Fatalf("expected 2 duplicate groups, got %+v", groups)
	}
	if groups[0].Name != "Other" || groups[1].Name != "Same" {
		t.Errorf("groups not sorted by name: %+v", groups)
	}
	if len(groups[1].Paths) != 2 {
		t.Errorf("Same group paths = %v", groups[1].Paths)
	}

	err := RunChecks(features)
	if err == nil {
		t.Fatal("expected check failure")
	}
	var scanErr *errors.ScanError
	if !stderrors.As(err, &scanErr) || scanErr.Code != errors.DuplicateFeature {
		t.Errorf("error = %v, want DUPLICATE_FEATURE", err)
	}
}

func TestRunChecksPassesOnUniqueNames(t *testing.T) {
	features := []model.Feature{
		{Name: "A", Path: "features/a"},
		{Name: "B", Path: "features/b"},
	}
	if err := RunChecks(features); err != nil {
		t.Errorf("RunChecks() = %v, want nil", err)
	}
}

func TestFindOwnerReturnsMostSpecificFeature(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "features", "f1", "README.md"), "---\nowner: team-x\n---\n# One\n")
	writeFile(t, filepath.Join(base, "features", "f1", "features", "f2", "README.md"), "# Two\n")
	writeFile(t, filepath.Join(base, "features", "f1", "features", "f2", "deep.go"), "package deep\n")

	features := scanTree(t, base)

	info, ok := FindOwner(filepath.Join(base, "features", "f1", "features", "f2", "deep.go"), features, base)
	if !ok {
		t.Fatal("expected an owner")
	}
	if info.FeaturePath != "features/f1/features/f2" {
		t.Errorf("feature_path = %q, want the nested feature", info.FeaturePath)
	}
	if info.Owner != "team-x" || !info.Inherited {
		t.Errorf("owner = %q inherited=%v, want inherited team-x", info.Owner, info.Inherited)
	}
}

func TestFindOwnerOutsideAllFeatures(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "features", "f1", "README.md"), "# One\n")
	writeFile(t, filepath.Join(base, "stray.txt"), "outside\n")

	features := scanTree(t, base)

	if _, ok := FindOwner(filepath.Join(base, "stray.txt"), features, base); ok {
		t.Error("expected no owner for a path outside every feature")
	}
}
