// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/memoria-engine/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract <source.docx>...",
	Short: "Export the indexed sections of source reports as artifacts",
	Long: `Extract scans each source report, captures the section under every
indexed title, and writes one artifact per section to the output directory.
Templates and client folders are not touched.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	rep, err := s.runner.Extract(context.Background(), args, types.Job{}, os.Stdout)
	if err != nil {
		return err
	}
	return batchError(rep)
}

func init() {
	rootCmd.AddCommand(extractCmd)
}
