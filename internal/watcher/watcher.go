// Package watcher rebuilds the feature tree when the watched directory
// changes on disk.
package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"featmap/internal/logging"
)

// Config contains watcher configuration
type Config struct {
	DebounceMs int      `json:"debounceMs" mapstructure:"debounce_ms"`
	IgnoreDirs []string `json:"ignoreDirs" mapstructure:"ignore_dirs"`
}

// DefaultConfig returns the default watcher configuration
func DefaultConfig() Config {
	return Config{
		DebounceMs: 500,
		IgnoreDirs: []string{
			"node_modules",
			"target",
			"dist",
			"build",
			".git",
			".svn",
			".hg",
			"vendor",
			"__pycache__",
			".next",
			".nuxt",
			"coverage",
		},
	}
}

// Watcher watches a directory tree and invokes a callback, debounced,
// whenever a change could alter the feature tree.
type Watcher struct {
	root      string
	config    Config
	logger    *logging.Logger
	onChange  func()
	debouncer *Debouncer
	ignore    map[string]bool
}

// New creates a watcher for root. onChange runs after the debounce
// window closes.
func New(root string, config Config, logger *logging.Logger, onChange func()) *Watcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	if config.DebounceMs <= 0 {
		config.DebounceMs = DefaultConfig().DebounceMs
	}

	ignore := map[string]bool{}
	for _, name := range config.IgnoreDirs {
		ignore[name] = true
	}

	return &Watcher{
		root:      root,
		config:    config,
		logger:    logger,
		onChange:  onChange,
		debouncer: NewDebouncer(time.Duration(config.DebounceMs) * time.Millisecond),
		ignore:    ignore,
	}
}

// Run watches until ctx is cancelled. New directories created at
// runtime are added to the watch list automatically.
func (w *Watcher) Run(ctx context.Context) error {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsWatcher.Close()
	defer w.debouncer.Cancel()

	if err := w.addDirsRecursive(fsWatcher, w.root); err != nil {
		return err
	}

	w.logger.Info("Watching for changes", map[string]interface{}{
		"root":       w.root,
		"debounceMs": w.config.DebounceMs,
	})

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Watcher stopped", nil)
			return nil

		case event, ok := <-fsWatcher.Events:
			if !ok {
				return nil
			}

			if event.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
					if addErr := w.addDirsRecursive(fsWatcher, event.Name); addErr != nil {
						w.logger.Warn("Could not watch new directory", map[string]interface{}{
							"path":  event.Name,
							"error": addErr.Error(),
						})
					}
				}
			}

			if w.relevant(event) {
				w.logger.Debug("Change detected", map[string]interface{}{
					"path": event.Name,
					"op":   event.Op.String(),
				})
				w.debouncer.Trigger(w.onChange)
			}

		case watchErr, ok := <-fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watcher error", map[string]interface{}{
				"error": watchErr.Error(),
			})
		}
	}
}

// relevant decides whether an event can change the feature tree:
// creations, removals, and renames always can; writes only matter for
// manifest files.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if w.ignored(event.Name) {
		return false
	}
	if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
		return true
	}
	if event.Op&fsnotify.Write != 0 {
		switch filepath.Base(event.Name) {
		case "README.md", "README.mdx", "FEATURES.toml":
			return true
		}
	}
	return false
}

// ignored reports whether any path segment below the root is an
// ignored directory name.
func (w *Watcher) ignored(path string) bool {
	relative, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	for _, segment := range strings.Split(filepath.ToSlash(relative), "/") {
		if w.ignore[segment] {
			return true
		}
	}
	return false
}

func (w *Watcher) addDirsRecursive(fsWatcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && w.ignore[d.Name()] {
			return filepath.SkipDir
		}
		return fsWatcher.Add(path)
	})
}
