// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pdiddy/memoria-engine/internal/ledger"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the build version and the run ledger schema version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		printVersion(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "memoria-engine %s\n", version)
	fmt.Fprintf(w, "ledger schema %d\n", ledger.SchemaVersion)
}
