package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"dupesweep/internal/deletion"
	"dupesweep/internal/grouping"
	"dupesweep/internal/model"
	"dupesweep/internal/service"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

func writeReport(w io.Writer, r *service.Report, format string) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	case formatText:
		writeReportText(w, r)
		return nil
	}
	return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
}

func writeReportText(w io.Writer, r *service.Report) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	fmt.Fprintf(w, "%s %s by %s\n", cyan("Scan"), r.Shop, r.Criterion)
	fmt.Fprintf(w, "  products:  %d\n", r.Stats.Products)
	fmt.Fprintf(w, "  groups:    %d\n", r.Stats.Groups)
	fmt.Fprintf(w, "  removable: %d\n", r.Stats.Removable)

	if len(r.Groups) == 0 {
		fmt.Fprintf(w, "\n%s No duplicates found\n", green("✓"))
		return
	}

	for _, g := range r.Groups {
		fmt.Fprintf(w, "\n%s (%d)\n", cyan(g.Key), len(g.Duplicates)+1)
		writeProductLine(w, green("keep  "), g.Original)
		for _, p := range g.Duplicates {
			writeProductLine(w, yellow("remove"), p)
		}
	}
}

func writeProductLine(w io.Writer, label string, p model.Product) {
	fmt.Fprintf(w, "  %s  %s  %s  %s\n", label, p.ID, p.CreatedAt.Format("2006-01-02"), p.Title)
}

func writeResult(w io.Writer, res deletion.Result) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed, color.Bold).SprintFunc()

	for _, o := range res.Outcomes {
		switch o.Status {
		case deletion.StatusDeleted:
			fmt.Fprintf(w, "%s %s deleted\n", green("✓"), o.ID)
		case deletion.StatusAlreadyRemoved:
			fmt.Fprintf(w, "%s %s was already removed\n", yellow("-"), o.ID)
		case deletion.StatusFailed:
			fmt.Fprintf(w, "%s %s failed: %s\n", red("✗"), o.ID, o.Error)
		}
	}
	fmt.Fprintf(w, "\n%d deleted, %d already removed, %d failed\n", res.Deleted, res.AlreadyRemoved, res.Failed)
}

func writeGroup(w io.Writer, g *grouping.Group) {
	if g == nil {
		fmt.Fprintf(w, "%s Group dissolved, no members left\n", color.GreenString("✓"))
		return
	}
	fmt.Fprintf(w, "%s now has %d member(s)\n", color.CyanString(g.Key), len(g.Duplicates)+1)
	writeProductLine(w, color.GreenString("keep  "), g.Original)
	for _, p := range g.Duplicates {
		writeProductLine(w, color.YellowString("remove"), p)
	}
}

// readGroupFile loads a group as exported by `scan --format json|yaml`, or a
// single element of its groups list. "-" reads stdin.
func readGroupFile(path string) (grouping.Group, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return grouping.Group{}, fmt.Errorf("read group file: %w", err)
	}
	return parseGroup(data)
}

func parseGroup(data []byte) (grouping.Group, error) {
	var g grouping.Group
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &g); err != nil {
			return g, fmt.Errorf("decode group json: %w", err)
		}
	} else if err := yaml.Unmarshal(trimmed, &g); err != nil {
		return g, fmt.Errorf("decode group yaml: %w", err)
	}

	if g.Original.ID == "" {
		return g, fmt.Errorf("group has no original product")
	}
	return g, nil
}
