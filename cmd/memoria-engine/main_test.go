// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/memoria-engine/internal/index"
	"github.com/pdiddy/memoria-engine/internal/ledger"
	"github.com/pdiddy/memoria-engine/internal/pipeline"
)

func TestBatchError(t *testing.T) {
	assert.NoError(t, batchError(pipeline.Report{Done: 3, Skipped: 1}))

	err := batchError(pipeline.Report{RunID: "abc", Done: 1, Failed: 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 item(s) failed")
	assert.Contains(t, err.Error(), "abc")
}

func TestFormatIndexOutput(t *testing.T) {
	entries := []index.Entry{{Title: "FLUIDOS", Page: 5}, {Title: "CLIMA", Page: 7}}

	var table bytes.Buffer
	require.NoError(t, formatIndexOutput(&table, entries, false))
	assert.Contains(t, table.String(), "FLUIDOS")
	assert.Contains(t, table.String(), "2 entries")

	var js bytes.Buffer
	require.NoError(t, formatIndexOutput(&js, entries, true))
	var got []index.Entry
	require.NoError(t, json.Unmarshal(js.Bytes(), &got))
	assert.Equal(t, entries, got)

	var empty bytes.Buffer
	require.NoError(t, formatIndexOutput(&empty, nil, false))
	assert.Equal(t, "No index entries found.\n", empty.String())
}

func jobCommand(in string, args ...string) *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("client", "", "")
	cmd.Flags().Bool("minor", false, "")
	cmd.SetIn(strings.NewReader(in))
	cmd.SetErr(&bytes.Buffer{})
	_ = cmd.Flags().Parse(args)
	return cmd
}

func TestJobFromFlags(t *testing.T) {
	t.Run("flags", func(t *testing.T) {
		job, err := jobFromFlags(jobCommand("", "--client", "Acme", "--minor"), true)
		require.NoError(t, err)
		assert.Equal(t, "Acme", job.Client)
		assert.True(t, job.ProyectoMenor)
	})

	t.Run("explicit false minor is not asked", func(t *testing.T) {
		job, err := jobFromFlags(jobCommand("", "--client", "Acme", "--minor=false"), true)
		require.NoError(t, err)
		assert.False(t, job.ProyectoMenor)
	})

	t.Run("prompted", func(t *testing.T) {
		job, err := jobFromFlags(jobCommand("Acme\nn\n"), true)
		require.NoError(t, err)
		assert.Equal(t, "Acme", job.Client)
		assert.False(t, job.ProyectoMenor)
	})

	t.Run("client only", func(t *testing.T) {
		job, err := jobFromFlags(jobCommand("Acme\n"), false)
		require.NoError(t, err)
		assert.Equal(t, "Acme", job.Client)
	})

	t.Run("no input", func(t *testing.T) {
		_, err := jobFromFlags(jobCommand(""), true)
		assert.ErrorIs(t, err, errNoAnswer)
	})
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	t.Cleanup(func() { versionCmd.SetOut(nil) })

	versionCmd.Run(versionCmd, nil)

	assert.Equal(t, "memoria-engine "+version+"\nledger schema "+strconv.Itoa(ledger.SchemaVersion)+"\n", out.String())
}
