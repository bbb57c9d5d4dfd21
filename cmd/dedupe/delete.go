package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <product-id>...",
	Short: "Delete products by id",
	Long: `Delete every given product, a few at a time. Each id is attempted once;
products that no longer exist are reported as already removed. A failed
delete does not stop the others.

Examples:
  dedupe delete gid://shopify/Product/101 gid://shopify/Product/102`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, svc, err := serviceFor(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		res := svc.DeleteSelected(cmd.Context(), args)
		writeResult(os.Stdout, res)
		if res.Failed > 0 {
			return fmt.Errorf("%d of %d deletes failed", res.Failed, len(res.Outcomes))
		}
		return nil
	},
}

var deleteOriginalCmd = &cobra.Command{
	Use:   "delete-original",
	Short: "Delete a group's original and promote the next oldest product",
	Long: `Delete the original (oldest) product of a group and print the group's new
shape. The group is read from a JSON or YAML file as written by
"scan --format json|yaml" (one element of its groups list).

Examples:
  dedupe delete-original --group-file group.yaml
  jq '.groups[0]' groups.json | dedupe delete-original --group-file -`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("group-file")
		if path == "" {
			return fmt.Errorf("--group-file is required")
		}
		g, err := readGroupFile(path)
		if err != nil {
			return err
		}

		a, svc, err := serviceFor(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		next, err := svc.DeleteOriginal(cmd.Context(), g)
		if err != nil {
			return err
		}
		writeGroup(os.Stdout, next)
		return nil
	},
}

func init() {
	deleteOriginalCmd.Flags().String("group-file", "", "group to act on (JSON or YAML, - for stdin)")
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(deleteOriginalCmd)
}
