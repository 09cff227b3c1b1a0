// Package codeowners turns the feature tree's ownership data into a
// CODEOWNERS file.
package codeowners

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"featmap/internal/errors"
	"featmap/internal/model"
)

// DefaultPrefix is applied to owners that carry no @ or email form.
const DefaultPrefix = "@"

// Config controls where and how the CODEOWNERS file is written.
type Config struct {
	// OutputPath is the file to write. Empty means CODEOWNERS in the
	// output directory.
	OutputPath string
	// OutputDir is used when OutputPath is empty.
	OutputDir string
	// Prefix is prepended to bare owner names, "@" by default.
	Prefix string
}

// Entry is one ownership rule.
type Entry struct {
	Pattern string
	Owner   string
}

// Entries derives the ownership rules from the tree. Features without
// a declared owner are skipped, as are inherited owners: the ancestor
// that declared the owner already covers the subtree.
func Entries(features []model.Feature, prefix string) []Entry {
	if prefix == "" {
		prefix = DefaultPrefix
	}

	var entries []Entry
	collect(features, prefix, &entries)
	return entries
}

func collect(features []model.Feature, prefix string, entries *[]Entry) {
	for _, feature := range features {
		if feature.Owner != "" && !feature.IsOwnerInherited {
			*entries = append(*entries, Entry{
				Pattern: "/" + strings.TrimSuffix(feature.Path, "/") + "/",
				Owner:   formatOwner(feature.Owner, prefix),
			})
		}
		collect(feature.Features, prefix, entries)
	}
}

// formatOwner leaves @handles and email addresses alone and prefixes
// everything else.
func formatOwner(owner, prefix string) string {
	if strings.HasPrefix(owner, "@") || strings.Contains(owner, "@") {
		return owner
	}
	return prefix + owner
}

// Generate writes the CODEOWNERS file derived from the feature tree.
func Generate(features []model.Feature, config Config) (string, error) {
	outputPath := config.OutputPath
	if outputPath == "" {
		outputPath = filepath.Join(config.OutputDir, "CODEOWNERS")
	}

	entries := Entries(features, config.Prefix)

	var b strings.Builder
	b.WriteString("# Generated by featmap. Do not edit by hand.\n")
	b.WriteString("# Each rule maps a feature directory to its owning team.\n\n")
	for _, entry := range entries {
		fmt.Fprintf(&b, "%s %s\n", entry.Pattern, entry.Owner)
	}

	if err := os.WriteFile(outputPath, []byte(b.String()), 0o644); err != nil {
		return "", errors.New(errors.BuildFailed, "could not write CODEOWNERS", err).WithDetails(outputPath)
	}

	return outputPath, nil
}
