package manifest

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// FeaturesToml is the parsed content of a FEATURES.toml manifest.
// Keys other than name/owner/description land in Meta.
type FeaturesToml struct {
	Name        string
	Owner       string
	Description string
	Meta        map[string]interface{}
}

// FindFeaturesToml returns the path of a FEATURES.toml file in dir, if
// one exists.
func FindFeaturesToml(dir string) (string, bool) {
	path := filepath.Join(dir, "FEATURES.toml")
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return path, true
	}
	return "", false
}

// ReadFeaturesToml parses a FEATURES.toml file.
func ReadFeaturesToml(path string) (FeaturesToml, error) {
	result := FeaturesToml{Meta: map[string]interface{}{}}

	content, err := os.ReadFile(path)
	if err != nil {
		return result, err
	}

	var raw map[string]interface{}
	if err := toml.Unmarshal(content, &raw); err != nil {
		return result, err
	}

	for key, value := range raw {
		switch key {
		case "name":
			if s, ok := value.(string); ok {
				result.Name = s
			}
		case "owner":
			if s, ok := value.(string); ok {
				result.Owner = s
			}
		case "description":
			if s, ok := value.(string); ok {
				result.Description = s
			}
		default:
			result.Meta[key] = value
		}
	}

	return result, nil
}
