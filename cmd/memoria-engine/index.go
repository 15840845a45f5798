// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/memoria-engine/internal/index"
	"github.com/pdiddy/memoria-engine/internal/pipeline"
)

var indexCmd = &cobra.Command{
	Use:   "index <source.docx>",
	Short: "Print the index scanned from a source report",
	Long: `Index reads the table of contents of a source report and prints each
entry whose title mentions one of the configured keywords, with its page.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func runIndex(cmd *cobra.Command, args []string) error {
	runner, err := pipeline.New(pipeline.Config{Pipeline: pipelineConfig()})
	if err != nil {
		return err
	}
	entries, err := runner.Index(args[0])
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatIndexOutput(os.Stdout, entries, jsonOutput)
}

func formatIndexOutput(w io.Writer, entries []index.Entry, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "No index entries found.")
		return nil
	}

	fmt.Fprintf(w, "%-60s  %s\n", "Title", "Page")
	fmt.Fprintln(w, strings.Repeat("-", 66))
	for _, e := range entries {
		title := e.Title
		if len([]rune(title)) > 60 {
			title = string([]rune(title)[:57]) + "..."
		}
		fmt.Fprintf(w, "%-60s  %d\n", title, e.Page)
	}
	fmt.Fprintf(w, "\n%d entries\n", len(entries))
	return nil
}

func init() {
	indexCmd.Flags().Bool("json", false, "output entries as JSON")

	rootCmd.AddCommand(indexCmd)
}
