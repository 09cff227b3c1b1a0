// Package coverage reads Cobertura XML and LCOV reports into a
// per-file coverage map that the scanner attaches to features.
package coverage

// FileStats holds coverage figures for a single source file.
type FileStats struct {
	LinesTotal            int      `json:"lines_total"`
	LinesCovered          int      `json:"lines_covered"`
	LinesMissed           int      `json:"lines_missed"`
	LineCoveragePercent   float64  `json:"line_coverage_percent"`
	BranchesTotal         *int     `json:"branches_total,omitempty"`
	BranchesCovered       *int     `json:"branches_covered,omitempty"`
	BranchCoveragePercent *float64 `json:"branch_coverage_percent,omitempty"`
}

// CalculatePercentages recomputes the percentage fields from the totals.
func (s *FileStats) CalculatePercentages() {
	if s.LinesTotal > 0 {
		s.LineCoveragePercent = float64(s.LinesCovered) / float64(s.LinesTotal) * 100.0
	}
	if s.BranchesTotal != nil && s.BranchesCovered != nil && *s.BranchesTotal > 0 {
		pct := float64(*s.BranchesCovered) / float64(*s.BranchesTotal) * 100.0
		s.BranchCoveragePercent = &pct
	}
}

// Stats holds aggregate coverage for a path plus the per-file breakdown.
type Stats struct {
	LinesTotal            int                  `json:"lines_total"`
	LinesCovered          int                  `json:"lines_covered"`
	LinesMissed           int                  `json:"lines_missed"`
	LineCoveragePercent   float64              `json:"line_coverage_percent"`
	BranchesTotal         *int                 `json:"branches_total,omitempty"`
	BranchesCovered       *int                 `json:"branches_covered,omitempty"`
	BranchCoveragePercent *float64             `json:"branch_coverage_percent,omitempty"`
	Files                 map[string]FileStats `json:"files,omitempty"`
}

// CalculatePercentages recomputes the percentage fields from the totals.
func (s *Stats) CalculatePercentages() {
	if s.LinesTotal > 0 {
		s.LineCoveragePercent = float64(s.LinesCovered) / float64(s.LinesTotal) * 100.0
	}
	if s.BranchesTotal != nil && s.BranchesCovered != nil && *s.BranchesTotal > 0 {
		pct := float64(*s.BranchesCovered) / float64(*s.BranchesTotal) * 100.0
		s.BranchCoveragePercent = &pct
	}
}

// Merge adds other's totals into s. File-level entries from other win
// on conflict; aggregate figures are summed and percentages recomputed.
func (s *Stats) Merge(other *Stats) {
	s.LinesTotal += other.LinesTotal
	s.LinesCovered += other.LinesCovered
	s.LinesMissed = s.LinesTotal - s.LinesCovered
	if s.LinesMissed < 0 {
		s.LinesMissed = 0
	}

	if other.BranchesTotal != nil {
		total := *other.BranchesTotal
		if s.BranchesTotal != nil {
			total += *s.BranchesTotal
		}
		s.BranchesTotal = &total
	}
	if other.BranchesCovered != nil {
		covered := *other.BranchesCovered
		if s.BranchesCovered != nil {
			covered += *s.BranchesCovered
		}
		s.BranchesCovered = &covered
	}

	for path, fileStats := range other.Files {
		if s.Files == nil {
			s.Files = map[string]FileStats{}
		}
		s.Files[path] = fileStats
	}

	s.CalculatePercentages()
}
