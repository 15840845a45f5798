// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/memoria-engine/pkg/types"
)

var insertCmd = &cobra.Command{
	Use:   "insert",
	Short: "Splice the artifacts in the output directory into their templates",
	Long: `Insert looks up each artifact in the output directory in the mapping
table, copies its template from the configuration directory, and inserts the
artifact's content after the template heading that names it.`,
	Args: cobra.NoArgs,
	RunE: runInsert,
}

func runInsert(cmd *cobra.Command, args []string) error {
	minor, _ := cmd.Flags().GetBool("minor")

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	rep, err := s.runner.Insert(context.Background(), types.Job{ProyectoMenor: minor}, os.Stdout)
	if err != nil {
		return err
	}
	return batchError(rep)
}

func init() {
	insertCmd.Flags().Bool("minor", false, "minor project: use presentaciones templates")

	rootCmd.AddCommand(insertCmd)
}
