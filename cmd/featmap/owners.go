package main

import (
	"encoding/json"
	"fmt"
	"os"

	"featmap/internal/model"
	"featmap/internal/output"
	"featmap/internal/scanner"

	"github.com/spf13/cobra"
)

var (
	ownersJSON bool
	ownersFind string
)

var ownersCmd = &cobra.Command{
	Use:   "owners [path]",
	Short: "List feature owners or find the owner of a file",
	Long: `Without flags, print the unique set of owners found in the feature
tree. With --find, resolve the most specific feature containing the
given file or directory and print its owner.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runOwners,
}

func init() {
	rootCmd.AddCommand(ownersCmd)

	ownersCmd.Flags().BoolVar(&ownersJSON, "json", false, "Output as JSON")
	ownersCmd.Flags().StringVar(&ownersFind, "find", "",
		"Find the owner of a specific file or directory")
}

func runOwners(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadSettings()
	if err != nil {
		return err
	}
	path := resolvePath(args, cfg)

	if ownersFind != "" {
		if _, err := os.Stat(ownersFind); err != nil {
			return fmt.Errorf("path %q does not exist", ownersFind)
		}

		features, err := scanner.New(logger).Scan(path, scanConfig(cfg, false))
		if err != nil {
			return err
		}

		info, found := scanner.FindOwner(ownersFind, features, path)
		if !found {
			return fmt.Errorf("no feature found for path: %s", ownersFind)
		}

		if ownersJSON {
			data, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		inherited := ""
		if info.Inherited {
			inherited = " (inherited)"
		}
		fmt.Printf("Owner: %s%s\n", info.Owner, inherited)
		fmt.Printf("Feature: %s\n", info.FeatureName)
		fmt.Printf("Feature Path: %s\n", info.FeaturePath)
		return nil
	}

	features, err := scanner.New(logger).Scan(path, scanConfig(cfg, false))
	if err != nil {
		return err
	}
	owners := model.UniqueOwners(features)

	if ownersJSON {
		data, err := json.MarshalIndent(owners, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Fprintf(os.Stderr, "Unique owners found in %s:\n", path)
	output.PrintOwners(os.Stdout, owners)
	return nil
}
