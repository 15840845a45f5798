// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/memoria-engine/pkg/types"
)

// Report is a run with its outcomes and per-status counts, as exported.
type Report struct {
	Run      Run             `json:"run" yaml:"run"`
	Done     int             `json:"done" yaml:"done"`
	Skipped  int             `json:"skipped" yaml:"skipped"`
	Failed   int             `json:"failed" yaml:"failed"`
	Outcomes []types.Outcome `json:"outcomes" yaml:"outcomes"`
}

// Report loads the report of a run.
func (s *Store) Report(ctx context.Context, runID string) (Report, error) {
	run, err := s.Run(ctx, runID)
	if err != nil {
		return Report{}, err
	}
	outcomes, err := s.Outcomes(ctx, runID)
	if err != nil {
		return Report{}, err
	}

	rep := Report{Run: run, Outcomes: outcomes}
	for _, o := range outcomes {
		switch o.Status {
		case types.StatusDone:
			rep.Done++
		case types.StatusSkipped:
			rep.Skipped++
		case types.StatusFailed:
			rep.Failed++
		}
	}
	return rep, nil
}

// ExportYAML writes the report of a run to dir/run-<id>.yaml and returns
// the file path.
func (s *Store) ExportYAML(ctx context.Context, runID, dir string) (string, error) {
	rep, err := s.Report(ctx, runID)
	if err != nil {
		return "", err
	}
	data, err := yaml.Marshal(rep)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return writeReport(dir, "run-"+runID+".yaml", data)
}

// ExportJSON writes the report of a run to dir/run-<id>.json and returns
// the file path.
func (s *Store) ExportJSON(ctx context.Context, runID, dir string) (string, error) {
	rep, err := s.Report(ctx, runID)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return writeReport(dir, "run-"+runID+".json", data)
}

func writeReport(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating report directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
