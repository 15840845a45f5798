// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.docx")
	dst := filepath.Join(dir, "b.docx")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o644))

	require.NoError(t, CopyFile(src, dst))
	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(got))
	assert.True(t, Exists(src))

	assert.Error(t, CopyFile(filepath.Join(dir, "missing"), dst))
}

func TestMoveFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.docx")
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))

	dst := filepath.Join(sub, "a.docx")
	require.NoError(t, MoveFile(src, dst))
	assert.False(t, Exists(src))
	assert.True(t, Exists(dst))

	assert.Error(t, MoveFile(src, filepath.Join(sub, "again.docx")))
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, Exists(dir))
	assert.False(t, Exists(filepath.Join(dir, "nope")))
}
