package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"featmap/internal/model"
)

func TestBuildWritesJSONAndAssets(t *testing.T) {
	out := filepath.Join(t.TempDir(), "dist")
	features := []model.Feature{{Name: "One", Path: "features/one"}}

	if err := Build(features, Config{OutputDir: out}, nil); err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(out, "features.json"))
	if err != nil {
		t.Fatalf("features.json not written: %v", err)
	}
	var decoded []model.Feature
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(decoded) != 1 || decoded[0].Name != "One" {
		t.Errorf("decoded = %+v", decoded)
	}

	if _, err := os.Stat(filepath.Join(out, "index.html")); err != nil {
		t.Errorf("index.html not written: %v", err)
	}
}

func TestBuildCleanRemovesStaleFiles(t *testing.T) {
	out := filepath.Join(t.TempDir(), "dist")
	if err := os.MkdirAll(out, 0o755); err != nil {
		t.Fatal(err)
	}
	stale := filepath.Join(out, "stale.txt")
	if err := os.WriteFile(stale, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Build(nil, Config{OutputDir: out, Clean: true}, nil); err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale file should have been removed")
	}
}

func TestBuildWithoutCleanKeepsExistingFiles(t *testing.T) {
	out := filepath.Join(t.TempDir(), "dist")
	if err := os.MkdirAll(out, 0o755); err != nil {
		t.Fatal(err)
	}
	keep := filepath.Join(out, "keep.txt")
	if err := os.WriteFile(keep, []byte("kept"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Build(nil, Config{OutputDir: out}, nil); err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if _, err := os.Stat(keep); err != nil {
		t.Error("existing file should survive a non-clean build")
	}
}
