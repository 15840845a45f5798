// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/memoria-engine/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run <source.docx>...",
	Short: "Run the full batch for one client",
	Long: `Run scans each source report for its index, exports every indexed
section to the output directory, splices the artifacts into their templates,
and files the results under the client's folder.

The client folder and the minor-project flag are asked for when --client or
--minor are not given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	job, err := jobFromFlags(cmd, true)
	if err != nil {
		return err
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	rep, err := s.runner.Run(context.Background(), args, job, os.Stdout)
	if err != nil {
		return err
	}
	return batchError(rep)
}

// jobFromFlags reads --client and, when withMinor is set, --minor,
// prompting for whichever was not supplied.
func jobFromFlags(cmd *cobra.Command, withMinor bool) (types.Job, error) {
	p := newPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())

	client, _ := cmd.Flags().GetString("client")
	if client == "" {
		var err error
		client, err = p.Text("Nombre de la carpeta del cliente")
		if err != nil {
			return types.Job{}, err
		}
	}
	job := types.Job{Client: client}

	if !withMinor {
		return job, nil
	}
	if cmd.Flags().Changed("minor") {
		job.ProyectoMenor, _ = cmd.Flags().GetBool("minor")
		return job, nil
	}
	minor, err := p.YesNo("¿Es un proyecto menor?")
	if err != nil {
		return types.Job{}, err
	}
	job.ProyectoMenor = minor
	return job, nil
}

func init() {
	runCmd.Flags().String("client", "", "client folder name under clients-dir")
	runCmd.Flags().Bool("minor", false, "minor project: use presentaciones templates")

	rootCmd.AddCommand(runCmd)
}
