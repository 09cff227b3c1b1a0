// Package output renders the feature tree for the human CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"featmap/internal/model"
)

// Options controls what the printer shows per feature.
type Options struct {
	// ShowDescription prints each feature's description line.
	ShowDescription bool
}

// PrintFeatures writes the indented feature tree to w.
func PrintFeatures(w io.Writer, features []model.Feature, options Options) {
	printFeatures(w, features, 0, options)
}

func printFeatures(w io.Writer, features []model.Feature, indent int, options Options) {
	prefix := strings.Repeat("  ", indent)

	for _, feature := range features {
		name := feature.Name
		if deprecated(feature) {
			name += " (deprecated)"
		}

		fmt.Fprintf(w, "%s%s [%s] -> %s\n", prefix, name, feature.Owner, feature.Path)

		if feature.Stats != nil && feature.Stats.Coverage != nil {
			cov := feature.Stats.Coverage
			fmt.Fprintf(w, "  %sCoverage: %.1f%% lines (%d/%d)\n",
				prefix, cov.LineCoveragePercent, cov.LinesCovered, cov.LinesTotal)
			if cov.BranchCoveragePercent != nil {
				branchesCovered := 0
				branchesTotal := 0
				if cov.BranchesCovered != nil {
					branchesCovered = *cov.BranchesCovered
				}
				if cov.BranchesTotal != nil {
					branchesTotal = *cov.BranchesTotal
				}
				fmt.Fprintf(w, "  %s         %.1f%% branches (%d/%d)\n",
					prefix, *cov.BranchCoveragePercent, branchesCovered, branchesTotal)
			}
		}

		if options.ShowDescription {
			fmt.Fprintf(w, "%sDescription: %s\n", prefix, feature.Description)
		}

		if len(feature.Features) > 0 {
			printFeatures(w, feature.Features, indent+1, options)
		}
	}
}

func deprecated(feature model.Feature) bool {
	value, ok := feature.Meta["deprecated"].(bool)
	return ok && value
}

// PrintOwners writes one owner per line.
func PrintOwners(w io.Writer, owners []string) {
	for _, owner := range owners {
		fmt.Fprintln(w, owner)
	}
}
