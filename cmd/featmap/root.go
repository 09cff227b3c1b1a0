package main

import (
	"encoding/json"
	"fmt"
	"os"

	"featmap/internal/config"
	"featmap/internal/logging"
	"featmap/internal/model"
	"featmap/internal/output"
	"featmap/internal/scanner"
	"featmap/internal/version"

	"github.com/spf13/cobra"
)

var (
	// Persistent scan flags, shared by every command that scans.
	skipChangesFlag bool
	coverageDirFlag string
	projectDirFlag  string
	logLevelFlag    string
	logFormatFlag   string

	// Root-only output flags.
	jsonOutput      bool
	flatOutput      bool
	showDescription bool
	withCoverage    bool
)

var rootCmd = &cobra.Command{
	Use:   "featmap [path]",
	Short: "featmap - feature graph engine",
	Long: `featmap discovers the features of a codebase by reading README.md,
README.mdx, and FEATURES.toml files, attributes git history and test
coverage to each feature, and resolves cross-feature import
dependencies. The resulting tree can be printed, served over HTTP, or
exported as a static build.`,
	Version:      version.Version,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runRoot,
}

func init() {
	rootCmd.SetVersionTemplate("featmap version {{.Version}}\n")

	rootCmd.PersistentFlags().BoolVar(&skipChangesFlag, "skip-changes", false,
		"Skip computing git changes and decision records")
	rootCmd.PersistentFlags().StringVar(&coverageDirFlag, "coverage-dir", "",
		"Coverage report directory (overrides the default search)")
	rootCmd.PersistentFlags().StringVar(&projectDirFlag, "project-dir", "",
		"Project directory for coverage search and CODEOWNERS output")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "",
		"Log level: debug, info, warn, or error")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "",
		"Log format: human or json")

	rootCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output features as JSON")
	rootCmd.Flags().BoolVar(&flatOutput, "flat", false,
		"Output features as a flat array instead of a nested tree")
	rootCmd.Flags().BoolVar(&showDescription, "description", false,
		"Include descriptions in the output")
	rootCmd.Flags().BoolVar(&withCoverage, "coverage", false,
		"Include coverage information in the output")
}

// loadSettings reads .featmap.json from the working directory, layers
// flag overrides on top, and builds the logger.
func loadSettings() (*config.Config, *logging.Logger, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if skipChangesFlag {
		cfg.Scan.SkipChanges = true
	}
	if coverageDirFlag != "" {
		cfg.Scan.CoverageDir = coverageDirFlag
	}
	if projectDirFlag != "" {
		cfg.Scan.ProjectDir = projectDirFlag
	}
	if logLevelFlag != "" {
		cfg.Logging.Level = logLevelFlag
	}
	if logFormatFlag != "" {
		cfg.Logging.Format = logFormatFlag
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger := logging.NewLogger(logging.Config{
		Format: logging.Format(cfg.Logging.Format),
		Level:  logging.ParseLevel(cfg.Logging.Level),
		Output: os.Stderr,
	})
	return cfg, logger, nil
}

// resolvePath picks the scan root: the positional argument if given,
// otherwise the configured path.
func resolvePath(args []string, cfg *config.Config) string {
	if len(args) > 0 {
		return args[0]
	}
	if cfg.Path != "" {
		return cfg.Path
	}
	return "."
}

// scanConfig assembles the scanner configuration from config and flags.
func scanConfig(cfg *config.Config, attachCoverage bool) scanner.Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}
	return scanner.Config{
		SkipChanges:  cfg.Scan.SkipChanges,
		WithCoverage: attachCoverage,
		CoverageDir:  cfg.Scan.CoverageDir,
		CurrentDir:   currentDir,
		ProjectDir:   cfg.Scan.ProjectDir,
	}
}

func runRoot(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadSettings()
	if err != nil {
		return err
	}
	path := resolvePath(args, cfg)

	// Coverage is computed for machine-readable output or on request.
	attachCoverage := jsonOutput || withCoverage || cfg.Scan.WithCoverage
	features, err := scanner.New(logger).Scan(path, scanConfig(cfg, attachCoverage))
	if err != nil {
		return err
	}

	if flatOutput {
		features = model.Flatten(features)
	}

	if jsonOutput {
		data, err := json.MarshalIndent(features, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Fprintf(os.Stderr, "Features found in %s:\n", path)
	if len(features) == 0 {
		fmt.Fprintln(os.Stderr, "No features found.")
		return nil
	}
	output.PrintFeatures(os.Stdout, features, output.Options{ShowDescription: showDescription})
	return nil
}
