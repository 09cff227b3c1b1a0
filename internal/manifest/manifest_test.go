package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestReadReadmeWithFrontMatter(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "README.md", `---
feature: true
owner: team-x
status: active
---
# User Auth

Handles login and session management.

## Details

More text.
`)

	info, err := ReadReadme(path)
	if err != nil {
		t.Fatalf("ReadReadme: %v", err)
	}

	if info.Title != "User Auth" {
		t.Errorf("Title = %q, want %q", info.Title, "User Auth")
	}
	if info.Owner != "team-x" {
		t.Errorf("Owner = %q, want team-x", info.Owner)
	}
	if !info.IsFeatureFlagged() {
		t.Error("IsFeatureFlagged should be true")
	}
	if info.Meta["status"] != "active" {
		t.Errorf("Meta[status] = %v, want active", info.Meta["status"])
	}
	if _, ok := info.Meta["owner"]; ok {
		t.Error("owner must not leak into Meta")
	}
	wantDesc := "Handles login and session management.\n\n## Details\n\nMore text."
	if info.Description != wantDesc {
		t.Errorf("Description = %q, want %q", info.Description, wantDesc)
	}
}

func TestReadReadmeNoFrontMatter(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "README.md", "# Billing\n\nInvoices and payments.\n")

	info, err := ReadReadme(path)
	if err != nil {
		t.Fatalf("ReadReadme: %v", err)
	}

	if info.Title != "Billing" {
		t.Errorf("Title = %q, want Billing", info.Title)
	}
	if info.Owner != "" {
		t.Errorf("Owner = %q, want empty", info.Owner)
	}
	if info.Description != "Invoices and payments." {
		t.Errorf("Description = %q", info.Description)
	}
	if info.IsFeatureFlagged() {
		t.Error("IsFeatureFlagged should be false without front matter")
	}
}

func TestReadReadmeMissingFile(t *testing.T) {
	info, err := ReadReadme(filepath.Join(t.TempDir(), "README.md"))
	if err != nil {
		t.Fatalf("missing README should not error: %v", err)
	}
	if info.Title != "" || info.Owner != "" || info.Description != "" {
		t.Errorf("missing README should yield zero info, got %+v", info)
	}
}

func TestReadReadmeInvalidFrontMatter(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "README.md", `---
owner: [unclosed
---
# Title

Body.
`)

	info, err := ReadReadme(path)
	if err != nil {
		t.Fatalf("invalid front matter should not error: %v", err)
	}
	if info.Owner != "" {
		t.Errorf("Owner = %q, want empty for invalid front matter", info.Owner)
	}
	if info.Title != "Title" {
		t.Errorf("Title = %q, markdown body should still be parsed", info.Title)
	}
}

func TestReadFeaturesToml(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "FEATURES.toml", `name = "Feature with Meta"
owner = "team-a"
description = "Feature with extra metadata"
status = "active"
priority = "high"
`)

	result, err := ReadFeaturesToml(path)
	if err != nil {
		t.Fatalf("ReadFeaturesToml: %v", err)
	}

	if result.Name != "Feature with Meta" {
		t.Errorf("Name = %q", result.Name)
	}
	if result.Owner != "team-a" {
		t.Errorf("Owner = %q", result.Owner)
	}
	if result.Description != "Feature with extra metadata" {
		t.Errorf("Description = %q", result.Description)
	}
	if result.Meta["status"] != "active" || result.Meta["priority"] != "high" {
		t.Errorf("Meta = %v", result.Meta)
	}
}

func TestFindFeaturesToml(t *testing.T) {
	dir := t.TempDir()

	if _, ok := FindFeaturesToml(dir); ok {
		t.Error("should not find FEATURES.toml in empty dir")
	}

	writeManifest(t, dir, "FEATURES.toml", "name = \"x\"\n")

	path, ok := FindFeaturesToml(dir)
	if !ok {
		t.Fatal("should find FEATURES.toml")
	}
	if filepath.Base(path) != "FEATURES.toml" {
		t.Errorf("path = %q", path)
	}
}
