package coverage

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// fileCoverage is one file's raw figures as read from a report.
type fileCoverage struct {
	path            string
	linesTotal      int
	linesCovered    int
	branchesTotal   int
	branchesCovered int
}

// ParseReports reads every Cobertura and LCOV report found directly
// inside dir and returns a path → Stats map. A missing directory is
// not an error, just an empty result.
func ParseReports(dir string) (map[string]*Stats, error) {
	coverageMap := map[string]*Stats{}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return coverageMap, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		path := filepath.Join(dir, name)

		switch {
		case strings.HasSuffix(name, ".xml") || strings.Contains(name, "cobertura"):
			if files, err := parseCobertura(path); err == nil {
				mergeFileCoverage(coverageMap, files)
			}
		case strings.HasSuffix(name, ".info") || strings.Contains(name, "lcov"):
			if files, err := parseLCOV(path); err == nil {
				mergeFileCoverage(coverageMap, files)
			}
		}
	}

	return coverageMap, nil
}

// mergeFileCoverage folds raw file figures into the map: aggregates are
// summed across reports, per-file entries are replaced by the latest
// report that mentions the file.
func mergeFileCoverage(coverageMap map[string]*Stats, files []fileCoverage) {
	for _, fc := range files {
		stats, ok := coverageMap[fc.path]
		if !ok {
			stats = &Stats{}
			coverageMap[fc.path] = stats
		}

		fileStats := FileStats{
			LinesTotal:   fc.linesTotal,
			LinesCovered: fc.linesCovered,
			LinesMissed:  fc.linesTotal - fc.linesCovered,
		}
		if fileStats.LinesMissed < 0 {
			fileStats.LinesMissed = 0
		}
		if fc.branchesTotal > 0 {
			total, covered := fc.branchesTotal, fc.branchesCovered
			fileStats.BranchesTotal = &total
			fileStats.BranchesCovered = &covered
		}
		fileStats.CalculatePercentages()

		if stats.Files == nil {
			stats.Files = map[string]FileStats{}
		}
		stats.Files[fc.path] = fileStats

		stats.LinesTotal += fc.linesTotal
		stats.LinesCovered += fc.linesCovered
		missed := fc.linesTotal - fc.linesCovered
		if missed > 0 {
			stats.LinesMissed += missed
		}
		if fc.branchesTotal > 0 {
			total := fc.branchesTotal
			if stats.BranchesTotal != nil {
				total += *stats.BranchesTotal
			}
			covered := fc.branchesCovered
			if stats.BranchesCovered != nil {
				covered += *stats.BranchesCovered
			}
			stats.BranchesTotal = &total
			stats.BranchesCovered = &covered
		}
		stats.CalculatePercentages()
	}
}

// parseCobertura scans a Cobertura XML report line by line. It handles
// both summary attributes on <class>/<file> tags and per-<line> hit
// counts, without pulling in an XML parser.
func parseCobertura(path string) ([]fileCoverage, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var files []fileCoverage
	var currentFile string
	var linesTotal, linesCovered, branchesTotal, branchesCovered int

	flush := func() {
		if currentFile != "" && linesTotal > 0 {
			files = append(files, fileCoverage{
				path:            currentFile,
				linesTotal:      linesTotal,
				linesCovered:    linesCovered,
				branchesTotal:   branchesTotal,
				branchesCovered: branchesCovered,
			})
		}
		linesTotal, linesCovered, branchesTotal, branchesCovered = 0, 0, 0, 0
	}

	for _, line := range strings.Split(string(content), "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.Contains(trimmed, "<class") || strings.Contains(trimmed, "<file") {
			flush()
			currentFile = ""

			if filename, ok := extractAttribute(trimmed, "filename"); ok {
				currentFile = filename
			} else if name, ok := extractAttribute(trimmed, "name"); ok {
				currentFile = name
			}

			if val, ok := extractAttribute(trimmed, "lines-valid"); ok {
				linesTotal, _ = strconv.Atoi(val)
			}
			if val, ok := extractAttribute(trimmed, "lines-covered"); ok {
				linesCovered, _ = strconv.Atoi(val)
			}
			if val, ok := extractAttribute(trimmed, "branches-valid"); ok {
				branchesTotal, _ = strconv.Atoi(val)
			}
			if val, ok := extractAttribute(trimmed, "branches-covered"); ok {
				branchesCovered, _ = strconv.Atoi(val)
			}
			continue
		}

		if currentFile != "" && strings.Contains(trimmed, "<line") {
			if hits, ok := extractAttribute(trimmed, "hits"); ok {
				linesTotal++
				if n, _ := strconv.Atoi(hits); n > 0 {
					linesCovered++
				}
			}

			if branch, ok := extractAttribute(trimmed, "branch"); ok && branch == "true" {
				if cond, ok := extractAttribute(trimmed, "condition-coverage"); ok {
					if covered, total, ok := parseConditionCoverage(cond); ok {
						branchesTotal += total
						branchesCovered += covered
					}
				}
			}
		}
	}

	flush()
	return files, nil
}

// parseLCOV reads an LCOV tracefile. Per-line DA records are counted
// unless the record block carries LF/LH summaries, which win.
func parseLCOV(path string) ([]fileCoverage, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var files []fileCoverage
	var currentFile string
	var linesTotal, linesCovered, branchesTotal, branchesCovered int

	flush := func() {
		if currentFile != "" {
			files = append(files, fileCoverage{
				path:            currentFile,
				linesTotal:      linesTotal,
				linesCovered:    linesCovered,
				branchesTotal:   branchesTotal,
				branchesCovered: branchesCovered,
			})
			currentFile = ""
		}
		linesTotal, linesCovered, branchesTotal, branchesCovered = 0, 0, 0, 0
	}

	for _, line := range strings.Split(string(content), "\n") {
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, "SF:"):
			flush()
			currentFile = strings.TrimPrefix(trimmed, "SF:")
		case strings.HasPrefix(trimmed, "DA:"):
			if comma := strings.Index(trimmed, ","); comma >= 0 {
				if count, err := strconv.Atoi(trimmed[comma+1:]); err == nil {
					linesTotal++
					if count > 0 {
						linesCovered++
					}
				}
			}
		case strings.HasPrefix(trimmed, "BRDA:"):
			branchesTotal++
			parts := strings.Split(strings.TrimPrefix(trimmed, "BRDA:"), ",")
			if len(parts) >= 4 {
				taken := parts[3]
				if taken != "-" && taken != "0" {
					branchesCovered++
				}
			}
		case strings.HasPrefix(trimmed, "LF:"):
			if count, err := strconv.Atoi(trimmed[3:]); err == nil {
				linesTotal = count
			}
		case strings.HasPrefix(trimmed, "LH:"):
			if count, err := strconv.Atoi(trimmed[3:]); err == nil {
				linesCovered = count
			}
		case strings.HasPrefix(trimmed, "BRF:"):
			if count, err := strconv.Atoi(trimmed[4:]); err == nil {
				branchesTotal = count
			}
		case strings.HasPrefix(trimmed, "BRH:"):
			if count, err := strconv.Atoi(trimmed[4:]); err == nil {
				branchesCovered = count
			}
		case trimmed == "end_of_record":
			flush()
		}
	}

	flush()
	return files, nil
}

// extractAttribute pulls attr="value" out of an XML tag line.
func extractAttribute(line, attr string) (string, bool) {
	pattern := attr + `="`
	start := strings.Index(line, pattern)
	if start < 0 {
		return "", false
	}
	valueStart := start + len(pattern)
	end := strings.Index(line[valueStart:], `"`)
	if end < 0 {
		return "", false
	}
	return line[valueStart : valueStart+end], true
}

// parseConditionCoverage reads a string like "50% (1/2)".
func parseConditionCoverage(s string) (covered, total int, ok bool) {
	open := strings.Index(s, "(")
	end := strings.Index(s, ")")
	if open < 0 || end < 0 || end < open {
		return 0, 0, false
	}
	parts := strings.Split(s[open+1:end], "/")
	if len(parts) != 2 {
		return 0, 0, false
	}
	covered, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	total, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	return covered, total, true
}
