package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"dupesweep/internal/deletion"
	"dupesweep/internal/repository"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Show recent delete attempts",
	Long: `List the most recent delete attempts recorded for the shop, newest first.
Requires AUDIT_ENABLED=true and DATABASE_URL.

Examples:
  dedupe audit
  dedupe audit --limit 100`,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		if limit <= 0 {
			return fmt.Errorf("--limit must be positive (got %d)", limit)
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		if a.audit == nil {
			return fmt.Errorf("audit log is disabled; set AUDIT_ENABLED=true")
		}

		shop := a.shop(cmd)
		entries, err := a.audit.Recent(cmd.Context(), shop, limit)
		if err != nil {
			return err
		}
		writeAudit(os.Stdout, shop, entries)
		return nil
	},
}

func writeAudit(w io.Writer, shop string, entries []repository.AuditEntry) {
	if len(entries) == 0 {
		fmt.Fprintf(w, "No delete attempts recorded for %s\n", shop)
		return
	}

	statusColor := map[deletion.Status]*color.Color{
		deletion.StatusDeleted:        color.New(color.FgGreen),
		deletion.StatusAlreadyRemoved: color.New(color.FgYellow),
		deletion.StatusFailed:         color.New(color.FgRed, color.Bold),
	}
	for _, e := range entries {
		status := string(e.Status)
		if c, ok := statusColor[e.Status]; ok {
			status = c.Sprint(status)
		}
		fmt.Fprintf(w, "%s  %-15s  %s", e.AttemptedAt.Local().Format("2006-01-02 15:04:05"), status, e.ProductID)
		if e.Error != "" {
			fmt.Fprintf(w, "  %s", e.Error)
		}
		fmt.Fprintln(w)
	}
}

func init() {
	auditCmd.Flags().Int("limit", 20, "number of entries to show")
	rootCmd.AddCommand(auditCmd)
}
