// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package fsutil

import (
	"os"
	"os/user"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceTildeInDir(t *testing.T) {
	dir, err := ReplaceTildeInDir("/tmp/x.npy")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.npy", dir)

	usr, err := user.Current()
	require.NoError(t, err)
	dir, err = ReplaceTildeInDir("~/data/x.npy")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(usr.HomeDir, "data/x.npy"), dir)

	dir, err = ReplaceTildeInDir("~")
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean(usr.HomeDir), dir)
}

func TestExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.npy")
	_, err := ExistingFile(path)
	require.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
	got, err := ExistingFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, got)

	exists, err := FileExists(filepath.Dir(path))
	require.NoError(t, err)
	assert.True(t, exists)
}
