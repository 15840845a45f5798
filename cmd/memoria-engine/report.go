// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/memoria-engine/internal/ledger"
)

var reportCmd = &cobra.Command{
	Use:   "report [run-id]",
	Short: "Export a recorded run to YAML or JSON",
	Long: `Report writes the outcomes of a run from the ledger to
run-<id>.yaml or run-<id>.json. Without a run id the latest run is
exported.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	dir, _ := cmd.Flags().GetString("dir")
	if dir == "" {
		dir = viper.GetString("log-dir")
	}

	store, err := ledger.Open(viper.GetString("ledger"))
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	var runID string
	if len(args) > 0 {
		runID = args[0]
	} else {
		run, err := store.LatestRun(ctx)
		if err != nil {
			return err
		}
		runID = run.ID
	}

	var path string
	switch format {
	case "yaml", "":
		path, err = store.ExportYAML(ctx, runID, dir)
	case "json":
		path, err = store.ExportJSON(ctx, runID, dir)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	fmt.Println("Exported to", path)
	return nil
}

func init() {
	reportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	reportCmd.Flags().String("dir", "", "directory for the report file (default: log-dir)")

	rootCmd.AddCommand(reportCmd)
}
