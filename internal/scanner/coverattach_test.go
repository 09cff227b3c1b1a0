package scanner

import (
	"path/filepath"
	"testing"
)

const lcovFixture = `TN:
SF:features/f1/src/a.ts
DA:1,1
DA:2,1
DA:3,0
end_of_record
SF:outside/b.ts
DA:1,0
end_of_record
`

func TestScanAttachesCoverageToEnclosingFeature(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "features", "f1", "README.md"), "# One\n")
	writeFile(t, filepath.Join(base, "features", "f1", "src", "a.ts"), "1\n2\n3\n")
	writeFile(t, filepath.Join(base, "outside", "b.ts"), "1\n")
	writeFile(t, filepath.Join(base, ".coverage", "lcov.info"), lcovFixture)

	features, err := New(nil).Scan(base, Config{SkipChanges: true, WithCoverage: true})
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}

	f1 := features[0]
	if f1.Stats == nil || f1.Stats.Coverage == nil {
		t.Fatal("f1 has no coverage stats")
	}
	cov := f1.Stats.Coverage
	if cov.LinesTotal != 3 || cov.LinesCovered != 2 {
		t.Errorf("coverage = %d/%d, want 2/3", cov.LinesCovered, cov.LinesTotal)
	}
	if cov.LineCoveragePercent < 66.0 || cov.LineCoveragePercent > 67.0 {
		t.Errorf("line_coverage_percent = %f", cov.LineCoveragePercent)
	}
	if _, ok := cov.Files["features/f1/src/a.ts"]; !ok {
		t.Errorf("per-file stats missing: %v", cov.Files)
	}
}

func TestScanCoverageOverrideDirectoryWins(t *testing.T) {
	base := t.TempDir()
	override := t.TempDir()
	writeFile(t, filepath.Join(base, "features", "f1", "README.md"), "# One\n")
	writeFile(t, filepath.Join(base, "features", "f1", "a.ts"), "1\n")

	// Reports in the default location must be ignored when an
	// override directory is set.
	writeFile(t, filepath.Join(base, ".coverage", "lcov.info"),
		"SF:features/f1/a.ts\nDA:1,0\nend_of_record\n")
	writeFile(t, filepath.Join(override, "lcov.info"),
		"SF:features/f1/a.ts\nDA:1,1\nend_of_record\n")

	features, err := New(nil).Scan(base, Config{SkipChanges: true, WithCoverage: true, CoverageDir: override})
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}

	cov := features[0].Stats.Coverage
	if cov == nil {
		t.Fatal("no coverage attached")
	}
	if cov.LinesCovered != 1 {
		t.Errorf("lines_covered = %d, want 1 (from the override directory)", cov.LinesCovered)
	}
}

func TestScanMissingCoverageDirectoryIsNotAnError(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "features", "f1", "README.md"), "# One\n")

	features, err := New(nil).Scan(base, Config{SkipChanges: true, WithCoverage: true})
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if features[0].Stats.Coverage != nil {
		t.Error("expected no coverage stats without reports")
	}
}
