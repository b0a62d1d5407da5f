// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pukimd/internal/manifest"
	"github.com/pdiddy/pukimd/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded conversions from the manifest",
	Long: `History lists what the manifest in log-dir knows about each source
file: page name, outcome, detected encoding and when it was converted.
Filter with --status and --page; --export writes the selection as YAML.`,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	store, err := manifest.Open(filepath.Join(s.LogDir, manifest.FileName))
	if err != nil {
		return err
	}
	defer store.Close()

	status, _ := cmd.Flags().GetString("status")
	page, _ := cmd.Flags().GetString("page")
	limit, _ := cmd.Flags().GetInt("limit")
	opts := manifest.ListOptions{Status: types.Status(status), Page: page, Limit: limit}

	ctx := context.Background()

	if exportPath, _ := cmd.Flags().GetString("export"); exportPath != "" {
		if err := store.ExportYAML(ctx, exportPath, opts); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "exported: %s\n", exportPath)
		return nil
	}

	records, err := store.List(ctx, opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatHistoryOutput(cmd.OutOrStdout(), records, jsonOutput)
}

func formatHistoryOutput(w io.Writer, records []types.Record, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Fprintln(w, "No conversions recorded.")
		return nil
	}

	fmt.Fprintf(w, "%-30s  %-9s  %-9s  %-19s  %s\n", "Page", "Status", "Encoding", "Converted", "Error")
	fmt.Fprintln(w, strings.Repeat("-", 90))

	for _, r := range records {
		converted := ""
		if !r.ConvertedAt.IsZero() {
			converted = r.ConvertedAt.Local().Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(w, "%-30s  %-9s  %-9s  %-19s  %s\n", truncate(r.Page, 30), r.Status, r.Encoding, converted, r.Error)
	}

	fmt.Fprintf(w, "\n%d records\n", len(records))
	return nil
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

func init() {
	addLogDirFlag(historyCmd.Flags())
	historyCmd.Flags().String("status", "", "only show this outcome: converted, skipped or failed")
	historyCmd.Flags().String("page", "", "only show pages whose name contains this text")
	historyCmd.Flags().Int("limit", 0, "maximum number of records (0 = all)")
	historyCmd.Flags().Bool("json", false, "print records as JSON")
	historyCmd.Flags().String("export", "", "write the selected records to this YAML file")

	rootCmd.AddCommand(historyCmd)
}
