// Package scanner builds the feature tree from a directory hierarchy.
//
// A scan runs in two passes: the first walks the filesystem and turns
// feature directories into model.Feature nodes with manifest metadata,
// git-derived stats, and decision records; the second scans every
// feature's source files for imports and resolves them into
// cross-feature dependency edges.
package scanner

import (
	"os"
	"path/filepath"
	"strings"

	"featmap/internal/annotations"
	"featmap/internal/errors"
	"featmap/internal/gitlog"
	"featmap/internal/logging"
	"featmap/internal/manifest"
	"featmap/internal/model"
)

// Config controls what a scan collects beyond the bare tree.
type Config struct {
	// SkipChanges disables git history attribution.
	SkipChanges bool
	// WithCoverage attaches coverage stats from parsed reports.
	WithCoverage bool
	// CoverageDir, when set, is the only directory searched for
	// coverage reports.
	CoverageDir string
	// CurrentDir is the working directory, searched for coverage
	// after the scan root.
	CurrentDir string
	// ProjectDir is an optional extra coverage search location.
	ProjectDir string
}

// Scanner turns a directory tree into features.
type Scanner struct {
	logger *logging.Logger
}

// New creates a scanner.
func New(logger *logging.Logger) *Scanner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Scanner{logger: logger}
}

// Scan builds the complete feature tree under basePath. The returned
// tree is either complete or nil with an error; a partial tree is
// never returned.
func (s *Scanner) Scan(basePath string, config Config) ([]model.Feature, error) {
	info, err := os.Stat(basePath)
	if err != nil || !info.IsDir() {
		return nil, errors.New(errors.PathNotFound, "scan root is not a readable directory", err).WithDetails(basePath)
	}

	// Metadata comments are collected in one global pass so features
	// can merge them by path during tree construction.
	annotationMap := annotations.ScanDirectory(basePath)

	var history *gitlog.History
	if !config.SkipChanges {
		history = gitlog.NewAdapter(basePath, s.logger).Collect()
	}

	features, err := s.walk(basePath, basePath, history, "", annotationMap)
	if err != nil {
		return nil, errors.New(errors.ScanFailed, "could not build feature tree", err)
	}

	if err := s.populateDependencies(features, basePath); err != nil {
		return nil, errors.New(errors.ScanFailed, "could not resolve feature dependencies", err)
	}

	if config.WithCoverage {
		s.attachCoverage(features, basePath, config)
	}

	s.logger.Debug("Scan complete", map[string]interface{}{
		"root":     basePath,
		"features": model.CountFeatures(features),
	})

	return features, nil
}

var documentationDirs = map[string]bool{
	"docs":     true,
	"__docs__": true,
	".docs":    true,
}

func isDocumentationDirectory(dirPath string) bool {
	return documentationDirs[strings.ToLower(filepath.Base(dirPath))]
}

func isInsideDocumentationDirectory(dirPath string) bool {
	for parent := filepath.Dir(dirPath); ; parent = filepath.Dir(parent) {
		if isDocumentationDirectory(parent) {
			return true
		}
		if parent == filepath.Dir(parent) {
			return false
		}
	}
}

func isDirectChildOfFeatures(dirPath string) bool {
	return filepath.Base(filepath.Dir(dirPath)) == "features"
}

var readmeNames = []string{"README.md", "README.mdx"}

func findReadme(dirPath string) (string, bool) {
	for _, name := range readmeNames {
		candidate := filepath.Join(dirPath, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}

// hasFeatureFlagInReadme reports whether the directory's README front
// matter declares `feature: true`.
func hasFeatureFlagInReadme(dirPath string) bool {
	readmePath, ok := findReadme(dirPath)
	if !ok {
		return false
	}
	info, err := manifest.ReadReadme(readmePath)
	if err != nil {
		return false
	}
	return info.IsFeatureFlagged()
}

// isFeatureDirectory decides whether a directory forms a feature
// boundary: either a direct child of a "features" directory or a
// directory whose README is flagged with feature: true. Documentation
// directories never qualify.
func isFeatureDirectory(dirPath string) bool {
	if isDocumentationDirectory(dirPath) || isInsideDocumentationDirectory(dirPath) {
		return false
	}
	if isDirectChildOfFeatures(dirPath) {
		return true
	}
	return hasFeatureFlagInReadme(dirPath)
}

// walk searches dir recursively for feature directories. Directories
// that are not features and not documentation are treated as
// pass-through containers.
func (s *Scanner) walk(dir, basePath string, history *gitlog.History, parentOwner string, annotationMap annotations.Map) ([]model.Feature, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var features []model.Feature
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())

		if isFeatureDirectory(path) {
			feature, err := s.processFeatureDirectory(path, basePath, entry.Name(), history, parentOwner, annotationMap)
			if err != nil {
				return nil, err
			}
			features = append(features, feature)
		} else if !isDocumentationDirectory(path) && !isInsideDocumentationDirectory(path) {
			nested, err := s.walk(path, basePath, history, parentOwner, annotationMap)
			if err != nil {
				return nil, err
			}
			features = append(features, nested...)
		}
	}

	return features, nil
}

// processFeatureDirectory builds one feature node and recurses into
// its nested features.
func (s *Scanner) processFeatureDirectory(path, basePath, name string, history *gitlog.History, parentOwner string, annotationMap annotations.Map) (model.Feature, error) {
	title, owner, description, meta := readManifest(path)

	// The flag is redundant once the directory is known to be a feature.
	delete(meta, "feature")

	relativePath := relativeTo(basePath, path)

	mergeAnnotations(meta, annotationMap[relativePath])

	var changes []model.Change
	if history != nil {
		changes = changesForPath(path, history)
	}

	decisions := readDecisionFiles(path)

	actualOwner := owner
	isOwnerInherited := false
	if owner == "" && parentOwner != "" {
		actualOwner = parentOwner
		isOwnerInherited = true
	}

	var nestedFeatures []model.Feature
	featuresDir := filepath.Join(path, "features")
	if info, err := os.Stat(featuresDir); err == nil && info.IsDir() {
		nested, err := s.walk(featuresDir, basePath, history, actualOwner, annotationMap)
		if err == nil {
			nestedFeatures = nested
		}
	}

	// Subdirectories outside features/ can still be features when
	// flagged in their README, or containers holding deeper ones.
	entries, err := os.ReadDir(path)
	if err != nil {
		return model.Feature{}, err
	}
	for _, entry := range entries {
		if !entry.IsDir() || entry.Name() == "features" {
			continue
		}
		entryPath := filepath.Join(path, entry.Name())
		if isDocumentationDirectory(entryPath) {
			continue
		}
		if hasFeatureFlagInReadme(entryPath) {
			nestedFeature, err := s.processFeatureDirectory(entryPath, basePath, entry.Name(), history, actualOwner, annotationMap)
			if err != nil {
				return model.Feature{}, err
			}
			nestedFeatures = append(nestedFeatures, nestedFeature)
		} else {
			deeper, err := s.walk(entryPath, basePath, history, actualOwner, annotationMap)
			if err != nil {
				return model.Feature{}, err
			}
			nestedFeatures = append(nestedFeatures, deeper...)
		}
	}

	// Nested feature sub-trees are excluded from this feature's own
	// counts and commit attribution so nothing is attributed twice.
	nestedPaths := make([]string, 0, len(nestedFeatures))
	for _, nested := range nestedFeatures {
		nestedPaths = append(nestedPaths, filepath.Join(basePath, filepath.FromSlash(nested.Path)))
	}

	changes = filterChanges(changes, path, nestedPaths, history)

	filesCount := countFiles(path, nestedPaths)
	linesCount := countLines(path, nestedPaths)
	todosCount := countTodos(path, nestedPaths)

	stats := &model.Stats{
		FilesCount: &filesCount,
		LinesCount: &linesCount,
		TodosCount: &todosCount,
		Commits:    map[string]interface{}{},
	}
	if commits := commitStats(changes); commits != nil {
		stats.Commits = commits
	}

	featureName := title
	if featureName == "" {
		featureName = name
	}

	return model.Feature{
		Name:             featureName,
		Description:      description,
		Owner:            actualOwner,
		IsOwnerInherited: isOwnerInherited,
		Path:             relativePath,
		Features:         nestedFeatures,
		Meta:             meta,
		Changes:          changes,
		Decisions:        decisions,
		Stats:            stats,
		Dependencies:     []model.Dependency{},
	}, nil
}

// readManifest reads FEATURES.toml when present, falling back to the
// README. Unreadable manifests yield empty metadata, not errors.
func readManifest(path string) (title, owner, description string, meta map[string]interface{}) {
	meta = map[string]interface{}{}

	if tomlPath, ok := manifest.FindFeaturesToml(path); ok {
		data, err := manifest.ReadFeaturesToml(tomlPath)
		if err != nil {
			return "", "", "", meta
		}
		return data.Name, data.Owner, data.Description, data.Meta
	}

	readmePath, ok := findReadme(path)
	if !ok {
		return "", "", "", meta
	}
	info, err := manifest.ReadReadme(readmePath)
	if err != nil {
		return "", "", "", meta
	}
	return info.Title, info.Owner, info.Description, info.Meta
}

// mergeAnnotations appends globally collected metadata comments into a
// feature's meta, keeping entries already present from the manifest.
func mergeAnnotations(meta map[string]interface{}, annotationsForFeature map[string][]*annotations.Props) {
	for key, propsList := range annotationsForFeature {
		entries := make([]interface{}, 0, len(propsList))
		for _, props := range propsList {
			entries = append(entries, props)
		}

		if existing, ok := meta[key].([]interface{}); ok {
			meta[key] = append(existing, entries...)
		} else {
			meta[key] = entries
		}
	}
}

// changesForPath looks up the commits attributed to a feature
// directory in the pre-collected history.
func changesForPath(path string, history *gitlog.History) []model.Change {
	if !history.Available {
		return nil
	}
	relative, ok := repoRelative(path, history.RepoRoot)
	if !ok {
		return nil
	}
	return history.ChangesFor(relative)
}

// repoRelative converts an absolute path to the slash-separated form
// used by git output.
func repoRelative(path, repoRoot string) (string, bool) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		resolved = path
	}
	resolvedRoot, err := filepath.EvalSymlinks(repoRoot)
	if err != nil {
		resolvedRoot = repoRoot
	}
	relative, err := filepath.Rel(resolvedRoot, resolved)
	if err != nil || strings.HasPrefix(relative, "..") {
		return "", false
	}
	return filepath.ToSlash(relative), true
}

func relativeTo(basePath, path string) string {
	relative, err := filepath.Rel(basePath, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(relative)
}

// readDecisionFiles collects decision records from .docs/decisions or
// __docs__/decisions, whichever exists first, sorted by filename.
// READMEs inside the decisions directory are skipped.
func readDecisionFiles(featurePath string) []string {
	candidates := []string{
		filepath.Join(featurePath, ".docs", "decisions"),
		filepath.Join(featurePath, "__docs__", "decisions"),
	}

	for _, dir := range candidates {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			continue
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}

		var decisions []string
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || !strings.HasSuffix(name, ".md") || name == "README.md" {
				continue
			}
			content, err := os.ReadFile(filepath.Join(dir, name))
			if err != nil {
				continue
			}
			decisions = append(decisions, string(content))
		}
		return decisions
	}

	return nil
}

func underAny(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// countFiles counts the files in a feature directory, excluding
// documentation directories and nested feature sub-trees.
func countFiles(featurePath string, nestedPaths []string) int {
	count := 0
	entries, err := os.ReadDir(featurePath)
	if err != nil {
		return 0
	}

	for _, entry := range entries {
		path := filepath.Join(featurePath, entry.Name())
		if isDocumentationDirectory(path) || underAny(path, nestedPaths) {
			continue
		}
		if entry.IsDir() {
			count += countFiles(path, nestedPaths)
		} else {
			count++
		}
	}

	return count
}

// countLines sums the text lines of every countable file.
func countLines(featurePath string, nestedPaths []string) int {
	count := 0
	entries, err := os.ReadDir(featurePath)
	if err != nil {
		return 0
	}

	for _, entry := range entries {
		path := filepath.Join(featurePath, entry.Name())
		if isDocumentationDirectory(path) || underAny(path, nestedPaths) {
			continue
		}
		if entry.IsDir() {
			count += countLines(path, nestedPaths)
			continue
		}
		content, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		count += len(splitLines(string(content)))
	}

	return count
}

// countTodos counts lines containing TODO, case-insensitively.
func countTodos(featurePath string, nestedPaths []string) int {
	count := 0
	entries, err := os.ReadDir(featurePath)
	if err != nil {
		return 0
	}

	for _, entry := range entries {
		path := filepath.Join(featurePath, entry.Name())
		if isDocumentationDirectory(path) || underAny(path, nestedPaths) {
			continue
		}
		if entry.IsDir() {
			count += countTodos(path, nestedPaths)
			continue
		}
		content, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		for _, lineText := range splitLines(string(content)) {
			if strings.Contains(strings.ToUpper(lineText), "TODO") {
				count++
			}
		}
	}

	return count
}

// splitLines matches the line semantics used for counting: a trailing
// newline does not open an extra empty line.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	content = strings.TrimSuffix(content, "\n")
	return strings.Split(content, "\n")
}

// filterChanges keeps the commits with at least one affected file
// under the feature but outside every nested feature path, so commits
// touching only a sub-feature stay attributed to the sub-feature.
// Without repository information every change is kept.
func filterChanges(changes []model.Change, featurePath string, nestedPaths []string, history *gitlog.History) []model.Change {
	if len(changes) == 0 || history == nil || !history.Available {
		return changes
	}

	featureRel, ok := repoRelative(featurePath, history.RepoRoot)
	if !ok {
		return changes
	}

	var nestedRel []string
	for _, nested := range nestedPaths {
		if rel, ok := repoRelative(nested, history.RepoRoot); ok {
			nestedRel = append(nestedRel, rel)
		}
	}

	filtered := make([]model.Change, 0, len(changes))
	for _, change := range changes {
		for _, file := range history.AffectedFiles(change.Hash) {
			if strings.HasPrefix(file, featureRel) && !underAny(file, nestedRel) {
				filtered = append(filtered, change)
				break
			}
		}
	}
	return filtered
}

// commitStats aggregates a feature's already-filtered changes.
func commitStats(changes []model.Change) map[string]interface{} {
	if len(changes) == 0 {
		return nil
	}

	commits := map[string]interface{}{
		"total_commits": len(changes),
	}

	authorsCount := map[string]int{}
	countByType := map[string]int{}
	for _, change := range changes {
		authorsCount[change.AuthorName]++
		countByType[gitlog.ExtractCommitType(change.Title)]++
	}
	commits["authors_count"] = authorsCount
	commits["count_by_type"] = countByType

	commits["first_commit_date"] = changes[0].Date
	commits["last_commit_date"] = changes[len(changes)-1].Date

	return commits
}
