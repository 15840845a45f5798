// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestFileName(t *testing.T) {
	ts := time.Date(2026, 3, 9, 14, 5, 7, 0, time.UTC)
	assert.Equal(t, "memoria-engine_20260309_140507.log", FileName(ts))
}

func TestSetup_FileGetsDebugConsoleGetsLevel(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	var console bytes.Buffer

	logger, path, closeFn, err := Setup(dir, slog.LevelInfo, &console)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))

	logger.Debug("detail", "title", "FLUIDOS")
	logger.With("stage", "extract").Warn("section not captured", "title", "FLUIDOS")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"msg":"detail"`)
	assert.Contains(t, lines[1], `"stage":"extract"`)

	assert.NotContains(t, console.String(), "detail")
	assert.Contains(t, console.String(), "section not captured")
	assert.Contains(t, console.String(), "stage=extract")
}

func TestOr(t *testing.T) {
	assert.Equal(t, Reporter(slog.Default()), Or(nil))

	l := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	assert.Same(t, l, Or(l))
}
