// Package export writes a static build of the feature map: the
// features.json snapshot plus the embedded dashboard assets.
package export

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"

	"featmap/internal/errors"
	"featmap/internal/logging"
	"featmap/internal/model"
	"featmap/internal/webassets"
)

// Config controls the static build.
type Config struct {
	// OutputDir is the directory the build is written to.
	OutputDir string
	// Clean removes the output directory before writing.
	Clean bool
}

// Build writes the dashboard and the feature snapshot into the output
// directory.
func Build(features []model.Feature, config Config, logger *logging.Logger) error {
	if logger == nil {
		logger = logging.NewNop()
	}

	if config.Clean {
		if err := os.RemoveAll(config.OutputDir); err != nil {
			return errors.New(errors.BuildFailed, "could not clean output directory", err).WithDetails(config.OutputDir)
		}
	}

	if err := os.MkdirAll(config.OutputDir, 0o755); err != nil {
		return errors.New(errors.BuildFailed, "could not create output directory", err).WithDetails(config.OutputDir)
	}

	if err := writeAssets(config.OutputDir); err != nil {
		return errors.New(errors.BuildFailed, "could not write dashboard assets", err)
	}

	if err := writeFeaturesJSON(features, config.OutputDir); err != nil {
		return err
	}

	logger.Info("Static build written", map[string]interface{}{
		"dir":      config.OutputDir,
		"features": model.CountFeatures(features),
	})

	return nil
}

func writeAssets(outputDir string) error {
	assets := webassets.FS()
	return fs.WalkDir(assets, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		target := filepath.Join(outputDir, filepath.FromSlash(path))
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		data, err := fs.ReadFile(assets, path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o644)
	})
}

func writeFeaturesJSON(features []model.Feature, outputDir string) error {
	data, err := json.MarshalIndent(features, "", "  ")
	if err != nil {
		return errors.New(errors.SerializationFailed, "could not encode features", err)
	}
	path := filepath.Join(outputDir, "features.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New(errors.BuildFailed, "could not write features.json", err).WithDetails(path)
	}
	return nil
}
