package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete featmap configuration
type Config struct {
	// Path is the directory scanned for features.
	Path string `json:"path" mapstructure:"path"`

	Scan    ScanConfig    `json:"scan" mapstructure:"scan"`
	Server  ServerConfig  `json:"server" mapstructure:"server"`
	Watcher WatcherConfig `json:"watcher" mapstructure:"watcher"`
	Build   BuildConfig   `json:"build" mapstructure:"build"`
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
}

// ScanConfig controls the feature scan
type ScanConfig struct {
	SkipChanges  bool     `json:"skipChanges" mapstructure:"skipChanges"`
	WithCoverage bool     `json:"withCoverage" mapstructure:"withCoverage"`
	CoverageDir  string   `json:"coverageDir" mapstructure:"coverageDir"`
	ProjectDir   string   `json:"projectDir" mapstructure:"projectDir"`
	IgnoreDirs   []string `json:"ignoreDirs" mapstructure:"ignoreDirs"`
}

// ServerConfig controls the HTTP server
type ServerConfig struct {
	Host string `json:"host" mapstructure:"host"`
	Port int    `json:"port" mapstructure:"port"`
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + strconv.Itoa(s.Port)
}

// WatcherConfig controls filesystem watching in server mode
type WatcherConfig struct {
	Enabled    bool `json:"enabled" mapstructure:"enabled"`
	DebounceMs int  `json:"debounceMs" mapstructure:"debounceMs"`
}

// BuildConfig controls the static export
type BuildConfig struct {
	OutputDir string `json:"outputDir" mapstructure:"outputDir"`
	Clean     bool   `json:"clean" mapstructure:"clean"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Path: ".",
		Scan: ScanConfig{
			SkipChanges:  false,
			WithCoverage: false,
			IgnoreDirs: []string{
				"node_modules", "target", "dist", "build",
				".git", "vendor", "__pycache__", "coverage",
			},
		},
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Watcher: WatcherConfig{
			Enabled:    true,
			DebounceMs: 500,
		},
		Build: BuildConfig{
			OutputDir: "featmap-build",
			Clean:     false,
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from .featmap.json in the given
// directory, layered over the defaults, with FEATMAP_* environment
// variables overriding both. A missing file yields the defaults.
func LoadConfig(dir string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("path", defaults.Path)
	v.SetDefault("scan.skipChanges", defaults.Scan.SkipChanges)
	v.SetDefault("scan.withCoverage", defaults.Scan.WithCoverage)
	v.SetDefault("scan.coverageDir", defaults.Scan.CoverageDir)
	v.SetDefault("scan.projectDir", defaults.Scan.ProjectDir)
	v.SetDefault("scan.ignoreDirs", defaults.Scan.IgnoreDirs)
	v.SetDefault("server.host", defaults.Server.Host)
	v.SetDefault("server.port", defaults.Server.Port)
	v.SetDefault("watcher.enabled", defaults.Watcher.Enabled)
	v.SetDefault("watcher.debounceMs", defaults.Watcher.DebounceMs)
	v.SetDefault("build.outputDir", defaults.Build.OutputDir)
	v.SetDefault("build.clean", defaults.Build.Clean)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("logging.level", defaults.Logging.Level)

	v.SetConfigName(".featmap")
	v.SetConfigType("json")
	v.AddConfigPath(dir)

	v.SetEnvPrefix("FEATMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to .featmap.json in the given directory
func (c *Config) Save(dir string) error {
	configPath := filepath.Join(dir, ".featmap.json")

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0o644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return &ConfigError{Field: "server.port", Message: "port out of range"}
	}
	if c.Watcher.DebounceMs < 0 {
		return &ConfigError{Field: "watcher.debounceMs", Message: "must not be negative"}
	}
	switch c.Logging.Format {
	case "", "human", "json":
	default:
		return &ConfigError{Field: "logging.format", Message: "must be human or json"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
