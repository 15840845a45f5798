// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

var organizeCmd = &cobra.Command{
	Use:   "organize",
	Short: "File the output directory into the client's folders",
	Long: `Organize moves, for every mapping row, the first output file whose name
contains the row's keyword into the row's path under the client folder.`,
	Args: cobra.NoArgs,
	RunE: runOrganize,
}

func runOrganize(cmd *cobra.Command, args []string) error {
	job, err := jobFromFlags(cmd, false)
	if err != nil {
		return err
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	rep, err := s.runner.Organize(context.Background(), job, os.Stdout)
	if err != nil {
		return err
	}
	return batchError(rep)
}

func init() {
	organizeCmd.Flags().String("client", "", "client folder name under clients-dir")

	rootCmd.AddCommand(organizeCmd)
}
