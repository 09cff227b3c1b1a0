// Package manifest reads the per-feature metadata sources: README
// front matter and FEATURES.toml files.
package manifest

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ReadmeInfo is the metadata extracted from a feature's README.
type ReadmeInfo struct {
	// Title from the first markdown heading, empty if none.
	Title string
	// Owner from the front matter owner key.
	Owner string
	// Description is everything after the first heading.
	Description string
	// Meta holds the remaining front matter keys.
	Meta map[string]interface{}
}

// ReadReadme parses a README.md/README.mdx file. A missing file is not
// an error and yields the zero info; invalid front matter is ignored
// and the markdown body is still used.
func ReadReadme(path string) (ReadmeInfo, error) {
	info := ReadmeInfo{Meta: map[string]interface{}{}}

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return info, nil
		}
		return info, err
	}

	body := string(content)

	if stripped, ok := strings.CutPrefix(body, "---\n"); ok {
		if endPos := strings.Index(stripped, "\n---\n"); endPos >= 0 {
			yamlContent := stripped[:endPos]
			body = stripped[endPos+5:]

			var frontMatter map[string]interface{}
			if err := yaml.Unmarshal([]byte(yamlContent), &frontMatter); err == nil {
				for key, value := range frontMatter {
					if key == "owner" {
						if owner, ok := value.(string); ok {
							info.Owner = owner
						}
						continue
					}
					info.Meta[key] = value
				}
			}
		}
	}

	info.Title = extractFirstTitle(body)
	info.Description = readContentAfterTitle(body)

	return info, nil
}

// IsFeatureFlagged reports whether the front matter declared
// feature: true.
func (i ReadmeInfo) IsFeatureFlagged() bool {
	flagged, ok := i.Meta["feature"].(bool)
	return ok && flagged
}

func extractFirstTitle(content string) string {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			title := strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
			if title != "" {
				return title
			}
		}
	}
	return ""
}

func readContentAfterTitle(content string) string {
	foundTitle := false
	var after []string

	for _, line := range strings.Split(content, "\n") {
		if !foundTitle && strings.HasPrefix(strings.TrimSpace(line), "#") {
			foundTitle = true
			continue
		}
		if foundTitle {
			after = append(after, line)
		}
	}

	return strings.TrimSpace(strings.Join(after, "\n"))
}
