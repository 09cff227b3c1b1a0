// Package gitlog mines commit history by shelling out to git. One log
// pass over the repository yields every commit with its affected
// paths; commits are attached to every ancestor directory of every
// touched file so feature attribution is a map lookup.
package gitlog

import (
	"context"
	"os/exec"
	"sort"
	"strings"
	"time"

	"featmap/internal/logging"
	"featmap/internal/model"
)

// Field separators for the git log pretty format. The commit body can
// contain blank lines, so records are delimited explicitly instead of
// relying on line structure.
const (
	recordSep = "\x1e"
	fieldSep  = "\x1f"
	bodyEnd   = "\x02"
)

// DefaultTimeout bounds a single git invocation.
const DefaultTimeout = 30 * time.Second

// History is the result of one repository walk.
type History struct {
	// ByPath maps a root-relative directory to the commits touching
	// anything under it, ascending by commit time, deduplicated by hash.
	ByPath map[string][]model.Change
	// FilesByHash maps a commit hash to the paths it touched.
	FilesByHash map[string][]string
	// RepoRoot is the repository working directory; every path in
	// ByPath and FilesByHash is relative to it.
	RepoRoot string
	// Available is false when the scan root is not a git repository.
	Available bool
}

// Adapter runs git against one repository root.
type Adapter struct {
	repoRoot string
	timeout  time.Duration
	logger   *logging.Logger
}

// NewAdapter creates a git adapter for the given root.
func NewAdapter(repoRoot string, logger *logging.Logger) *Adapter {
	return &Adapter{
		repoRoot: repoRoot,
		timeout:  DefaultTimeout,
		logger:   logger,
	}
}

// Collect walks the full history once. A missing repository is not an
// error: the returned History is simply marked unavailable and every
// lookup yields nothing.
func (a *Adapter) Collect() *History {
	history := &History{
		ByPath:      map[string][]model.Change{},
		FilesByHash: map[string][]string{},
	}

	if !a.isRepository() {
		a.logger.Debug("No git repository found, skipping change attribution", map[string]interface{}{
			"root": a.repoRoot,
		})
		return history
	}

	if toplevel, err := a.executeGitCommand("rev-parse", "--show-toplevel"); err == nil {
		history.RepoRoot = toplevel
	} else {
		history.RepoRoot = a.repoRoot
	}

	// Merge commits are diffed against their first parent, matching the
	// per-commit "what changed here" view used for attribution. The
	// root commit lists its whole tree as additions.
	output, err := a.executeGitCommand(
		"log",
		"--name-status",
		"--diff-merges=first-parent",
		"--date=format:%Y-%m-%d %H:%M:%S",
		"--pretty=format:"+recordSep+"%H"+fieldSep+"%an"+fieldSep+"%ae"+fieldSep+"%ad"+fieldSep+"%s"+fieldSep+"%b"+bodyEnd,
	)
	if err != nil {
		a.logger.Warn("git log failed, continuing without change attribution", map[string]interface{}{
			"error": err.Error(),
		})
		return history
	}

	records := ParseLog(output)
	history.Available = true

	for _, record := range records {
		history.FilesByHash[record.Change.Hash] = record.Files
		attachToAncestors(history.ByPath, record)
	}

	for path := range history.ByPath {
		sortChangesAscending(history.ByPath[path])
	}

	return history
}

// ChangesFor returns the commits attributed to a directory.
func (h *History) ChangesFor(dir string) []model.Change {
	return h.ByPath[dir]
}

// AffectedFiles returns the paths a commit touched.
func (h *History) AffectedFiles(hash string) []string {
	return h.FilesByHash[hash]
}

func (a *Adapter) isRepository() bool {
	output, err := a.executeGitCommand("rev-parse", "--is-inside-work-tree")
	return err == nil && output == "true"
}

// executeGitCommand runs a git command with timeout and returns the
// trimmed output.
func (a *Adapter) executeGitCommand(args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = a.repoRoot

	a.logger.Debug("Executing git command", map[string]interface{}{
		"args": args,
	})

	output, err := cmd.Output()
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(output)), nil
}

// Record is one parsed commit with its affected files.
type Record struct {
	Change model.Change
	Files  []string
}

// ParseLog parses the output of the formatted git log invocation. It
// is separated from Collect so history parsing can be tested against
// captured output without a live repository.
func ParseLog(output string) []Record {
	var records []Record

	for _, raw := range strings.Split(output, recordSep) {
		if strings.TrimSpace(raw) == "" {
			continue
		}

		headerEnd := strings.Index(raw, bodyEnd)
		if headerEnd < 0 {
			continue
		}

		fields := strings.Split(raw[:headerEnd], fieldSep)
		if len(fields) != 6 {
			continue
		}

		record := Record{
			Change: model.Change{
				Hash:        fields[0],
				AuthorName:  fields[1],
				AuthorEmail: fields[2],
				Date:        fields[3],
				Title:       fields[4],
				Description: strings.TrimSpace(fields[5]),
			},
			Files: parseNameStatus(raw[headerEnd+len(bodyEnd):]),
		}
		if record.Change.AuthorName == "" {
			record.Change.AuthorName = "Unknown"
		}

		records = append(records, record)
	}

	return records
}

// parseNameStatus reads --name-status lines. Renames and copies
// contribute both the old and the new path.
func parseNameStatus(block string) []string {
	var files []string
	seen := map[string]bool{}

	add := func(path string) {
		if path != "" && !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		parts := strings.Split(line, "\t")
		if len(parts) < 2 {
			continue
		}

		status := parts[0]
		if (strings.HasPrefix(status, "R") || strings.HasPrefix(status, "C")) && len(parts) >= 3 {
			add(parts[2])
			add(parts[1])
			continue
		}
		add(parts[1])
	}

	return files
}

// attachToAncestors adds the commit to every ancestor directory of
// every file it touched, deduplicated by hash per directory.
func attachToAncestors(byPath map[string][]model.Change, record Record) {
	for _, file := range record.Files {
		dir := file
		for {
			slash := strings.LastIndex(dir, "/")
			if slash < 0 {
				break
			}
			dir = dir[:slash]

			changes := byPath[dir]
			if containsHash(changes, record.Change.Hash) {
				continue
			}
			byPath[dir] = append(changes, record.Change)
		}
	}
}

func containsHash(changes []model.Change, hash string) bool {
	for _, c := range changes {
		if c.Hash == hash {
			return true
		}
	}
	return false
}

// sortChangesAscending orders commits oldest first. The date format
// sorts lexicographically, and the hash breaks ties deterministically.
func sortChangesAscending(changes []model.Change) {
	sort.SliceStable(changes, func(i, j int) bool {
		if changes[i].Date != changes[j].Date {
			return changes[i].Date < changes[j].Date
		}
		return changes[i].Hash < changes[j].Hash
	})
}

// knownCommitTypes are the conventional commit types that group
// history in feature stats.
var knownCommitTypes = map[string]bool{
	"feat":     true,
	"fix":      true,
	"docs":     true,
	"style":    true,
	"refactor": true,
	"perf":     true,
	"test":     true,
	"build":    true,
	"ci":       true,
	"chore":    true,
	"revert":   true,
}

// ExtractCommitType parses the conventional-commit type from a commit
// title: "feat(auth): x" yields "feat". Anything unrecognized is
// "other".
func ExtractCommitType(title string) string {
	colon := strings.Index(title, ":")
	if colon < 0 {
		return "other"
	}

	typePart := title[:colon]
	if paren := strings.Index(typePart, "("); paren >= 0 {
		typePart = typePart[:paren]
	}
	typePart = strings.ToLower(strings.TrimSpace(typePart))

	if knownCommitTypes[typePart] {
		return typePart
	}
	return "other"
}
