package main

import (
	"fmt"

	"featmap/internal/export"
	"featmap/internal/scanner"

	"github.com/spf13/cobra"
)

var (
	buildOut   string
	buildClean bool
)

var buildCmd = &cobra.Command{
	Use:   "build [path]",
	Short: "Create a static build of the feature dashboard",
	Long: `Scan the given path and write a self-contained static site into the
output directory: the dashboard assets plus a features.json snapshot,
ready to host anywhere.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVar(&buildOut, "out", "", "Output directory for the static build")
	buildCmd.Flags().BoolVar(&buildClean, "clean", false, "Remove the output directory before writing")
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadSettings()
	if err != nil {
		return err
	}
	path := resolvePath(args, cfg)

	if buildOut != "" {
		cfg.Build.OutputDir = buildOut
	}
	if buildClean {
		cfg.Build.Clean = true
	}

	features, err := scanner.New(logger).Scan(path, scanConfig(cfg, true))
	if err != nil {
		return err
	}

	buildCfg := export.Config{
		OutputDir: cfg.Build.OutputDir,
		Clean:     cfg.Build.Clean,
	}
	if err := export.Build(features, buildCfg, logger); err != nil {
		return err
	}

	fmt.Printf("Static build written to %s\n", buildCfg.OutputDir)
	return nil
}
