package main

import (
	"fmt"
	"os"
	"strings"

	"featmap/internal/scanner"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "Run consistency checks on the feature tree",
	Long: `Scan the given path and verify the feature tree is consistent.
Currently this checks for duplicate feature names, which break
dependency attribution. Every offending group is reported before the
command fails.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadSettings()
	if err != nil {
		return err
	}
	path := resolvePath(args, cfg)

	features, err := scanner.New(logger).Scan(path, scanConfig(cfg, false))
	if err != nil {
		return err
	}

	groups := scanner.FindDuplicateNames(features)
	if len(groups) == 0 {
		fmt.Println("All checks passed.")
		return nil
	}

	for _, group := range groups {
		fmt.Fprintf(os.Stderr, "Duplicate feature name %q used by: %s\n",
			group.Name, strings.Join(group.Paths, ", "))
	}
	return scanner.RunChecks(features)
}
