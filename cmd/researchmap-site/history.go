// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/researchmap-site/internal/snapshot"
	"github.com/pdiddy/researchmap-site/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "List recorded fetch runs or print one run's document",
	Long: `History reads the snapshot ledger written by fetch --snapshot (or with
snapshot.enabled in the config). Without arguments it lists recent runs,
newest first, with per-section record counts. With a run ID it prints the
stamped researcher document stored for that run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().String("variant", "", "only list runs of this variant")
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to list")
	historyCmd.Flags().String("format", "table", "output format: table, yaml, json")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := snapshot.Open(siteConfig.Snapshot.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	out := cmd.OutOrStdout()
	if len(args) == 1 {
		doc, err := store.Document(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		_, err = out.Write(doc)
		return err
	}

	variant, _ := cmd.Flags().GetString("variant")
	limit, _ := cmd.Flags().GetInt("limit")
	format, _ := cmd.Flags().GetString("format")

	runs, err := store.List(cmd.Context(), types.Variant(variant), limit)
	if err != nil {
		return err
	}
	return printRuns(out, runs, format)
}

func printRuns(w io.Writer, runs []snapshot.Run, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(runs); err != nil {
			return err
		}
		return enc.Close()
	case "table", "":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tVARIANT\tRECORDED\tLAST UPDATED\tSECTIONS")
		for _, r := range runs {
			counts := make([]string, 0, len(r.Counts))
			for _, name := range r.Sections() {
				counts = append(counts, fmt.Sprintf("%s=%d", name, r.Counts[name]))
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
				r.ID, r.Variant, r.RecordedAt.Local().Format("2006-01-02 15:04:05"), r.LastUpdated, strings.Join(counts, " "))
		}
		return tw.Flush()
	}
	return fmt.Errorf("unknown format %q (want table, yaml, or json)", format)
}
