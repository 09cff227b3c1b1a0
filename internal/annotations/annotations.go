// Package annotations scans source comments for feature metadata.
// A comment containing "--feature-<key>" followed by a comma-separated
// property list attaches those properties to a feature, either named
// explicitly via a feature: property or inferred from the file's
// location under a features/ directory.
package annotations

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"featmap/internal/lang"
)

// Comment is one metadata annotation found in a source file.
type Comment struct {
	FilePath   string
	LineNumber int // 1-based
	Key        string
	Properties *Props
}

// Map aggregates annotations for the whole scan:
// feature path → metadata key → property sets in encounter order.
type Map map[string]map[string][]*Props

var skipDirs = map[string]bool{
	"node_modules": true,
	"target":       true,
	"dist":         true,
	"build":        true,
	".git":         true,
	".svn":         true,
	".hg":          true,
	"vendor":       true,
	"__pycache__":  true,
	".next":        true,
	".nuxt":        true,
	"coverage":     true,
}

// ScanDirectory walks the scan root once and collects every metadata
// comment, grouped by target feature path. Unreadable files are
// skipped.
func ScanDirectory(root string) Map {
	result := Map{}

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		for _, comment := range ScanFile(path) {
			featurePath, ok := comment.Properties.Get("feature")
			if !ok {
				featurePath, ok = inferFeaturePath(path, root)
				if !ok {
					continue
				}
			}

			byKey, ok := result[featurePath]
			if !ok {
				byKey = map[string][]*Props{}
				result[featurePath] = byKey
			}
			byKey[comment.Key] = append(byKey[comment.Key], comment.Properties)
		}
		return nil
	})

	return result
}

// ScanFile extracts the metadata comments of a single file. Read
// failures yield an empty result.
func ScanFile(path string) []Comment {
	extension := strings.TrimPrefix(filepath.Ext(path), ".")
	patterns := lang.CommentPatterns(extension)

	content, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var comments []Comment
	for i, lineText := range strings.Split(string(content), "\n") {
		key, props, ok := parseLine(lineText, patterns)
		if !ok {
			continue
		}
		comments = append(comments, Comment{
			FilePath:   path,
			LineNumber: i + 1,
			Key:        key,
			Properties: props,
		})
	}

	return comments
}

// parseLine checks a single line for a "--feature-<key>" annotation.
// The key runs until whitespace or a comma; everything after it is the
// property list. Annotations without properties are discarded.
func parseLine(lineText string, patterns []lang.CommentPattern) (string, *Props, bool) {
	content, ok := lang.ExtractComment(lineText, patterns)
	if !ok {
		return "", nil, false
	}

	markerPos := strings.Index(content, "--feature-")
	if markerPos < 0 {
		return "", nil, false
	}

	afterDashes := content[markerPos+2:]
	keyEnd := strings.IndexFunc(afterDashes, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if keyEnd < 0 {
		keyEnd = len(afterDashes)
	}

	key := strings.TrimPrefix(afterDashes[:keyEnd], "feature-")

	propertiesContent := ""
	if propsStart := markerPos + 2 + keyEnd; propsStart < len(content) {
		propertiesContent = strings.TrimLeft(content[propsStart:], " \t")
	}

	props := parseProperties(propertiesContent)
	if props.Len() == 0 {
		return "", nil, false
	}

	return key, props, true
}

// parseProperties reads "key: value, key2: value2" preserving the
// order properties appear in.
func parseProperties(content string) *Props {
	props := NewProps()

	for _, part := range strings.Split(content, ",") {
		part = strings.TrimSpace(part)
		colon := strings.Index(part, ":")
		if colon < 0 {
			continue
		}
		key := strings.TrimSpace(part[:colon])
		value := strings.TrimSpace(part[colon+1:])
		if key != "" {
			props.Set(key, value)
		}
	}

	return props
}

// inferFeaturePath derives the feature path from the file location:
// the path up to and including the segment after the nearest
// "features" directory, relative to root.
func inferFeaturePath(filePath, root string) (string, bool) {
	relative, err := filepath.Rel(root, filePath)
	if err != nil {
		return "", false
	}

	segments := strings.Split(filepath.ToSlash(relative), "/")
	for i, segment := range segments {
		if segment == "features" && i+1 < len(segments) {
			return strings.Join(segments[:i+2], "/"), true
		}
	}

	return "", false
}
