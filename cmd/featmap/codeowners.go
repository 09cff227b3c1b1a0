package main

import (
	"fmt"
	"os"

	"featmap/internal/codeowners"
	"featmap/internal/scanner"

	"github.com/spf13/cobra"
)

var (
	codeownersPath   string
	codeownersPrefix string
)

var codeownersCmd = &cobra.Command{
	Use:   "codeowners [path]",
	Short: "Generate a CODEOWNERS file from feature owners",
	Long: `Scan the given path and write a CODEOWNERS file mapping each
owner-root feature directory to its owner. Inherited owners are
skipped, since their ancestor's entry already covers the sub-tree.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCodeowners,
}

func init() {
	rootCmd.AddCommand(codeownersCmd)

	codeownersCmd.Flags().StringVar(&codeownersPath, "out", "",
		"Path and filename for the CODEOWNERS file (default: CODEOWNERS)")
	codeownersCmd.Flags().StringVar(&codeownersPrefix, "prefix", codeowners.DefaultPrefix,
		"Prefix for bare owner names")
}

func runCodeowners(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadSettings()
	if err != nil {
		return err
	}
	path := resolvePath(args, cfg)

	features, err := scanner.New(logger).Scan(path, scanConfig(cfg, false))
	if err != nil {
		return err
	}

	outputDir := cfg.Scan.ProjectDir
	if outputDir == "" {
		outputDir, err = os.Getwd()
		if err != nil {
			return err
		}
	}

	written, err := codeowners.Generate(features, codeowners.Config{
		OutputPath: codeownersPath,
		OutputDir:  outputDir,
		Prefix:     codeownersPrefix,
	})
	if err != nil {
		return err
	}

	fmt.Printf("CODEOWNERS written to %s\n", written)
	return nil
}
