package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"dupesweep/internal/grouping"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Group the catalog into duplicate sets",
	Long: fmt.Sprintf(`Fetch the whole catalog and group products that share a key under the
chosen criterion. The oldest product of each group is kept; the rest are
listed as removable.

Criteria: %s

Examples:
  dedupe scan                              # Group by title
  dedupe scan --criterion title+sku        # Title and variant SKU together
  dedupe scan --criterion sku --format json > groups.json`, criterionList()),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("criterion")
		format, _ := cmd.Flags().GetString("format")

		c, err := grouping.ParseCriterion(name)
		if err != nil {
			return fmt.Errorf("%w (want one of %s)", err, criterionList())
		}

		a, svc, err := serviceFor(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		report, err := svc.Scan(cmd.Context(), c)
		if err != nil {
			return err
		}
		return writeReport(os.Stdout, report, format)
	},
}

func criterionList() string {
	names := make([]string, 0, len(grouping.Criteria()))
	for _, c := range grouping.Criteria() {
		names = append(names, c.String())
	}
	return strings.Join(names, ", ")
}

func init() {
	scanCmd.Flags().String("criterion", grouping.ByTitle.String(), "grouping criterion")
	scanCmd.Flags().String("format", formatText, "output format: text, json or yaml")
	rootCmd.AddCommand(scanCmd)
}
