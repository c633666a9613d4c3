// Package testutil provides test helpers shared by plugwire's packages.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteTempFile writes content to a file in dir, creating parent
// directories as needed, and returns its path.
func WriteTempFile(t *testing.T, dir, filename, content string) string {
	t.Helper()

	path := filepath.Join(dir, filename)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755), "failed to create parent of %s", filename)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644), "failed to write temp file: %s", filename)

	return path
}

// WriteTempDir creates a subdirectory in dir and returns its path.
func WriteTempDir(t *testing.T, dir, dirname string) string {
	t.Helper()

	path := filepath.Join(dir, dirname)
	err := os.MkdirAll(path, 0o755)
	require.NoError(t, err, "failed to create temp subdirectory: %s", dirname)

	return path
}

// WritePluginTree writes one YAML manifest per entry under
// <dir>/<system>_plugins and returns dir. Files are named after the plugin,
// or after the entrypoint when the manifest has no name.
func WritePluginTree(t *testing.T, dir, system string, manifests ...TestManifest) string {
	t.Helper()

	for _, m := range manifests {
		file := m.Name
		if file == "" {
			file = m.Entrypoint
		}
		WriteTempFile(t, filepath.Join(dir, system+"_plugins"), file+".yaml", m.ToYAML())
	}

	return dir
}

// ChangeDir changes to a directory for the duration of the test.
func ChangeDir(t *testing.T, dir string) {
	t.Helper()

	original, err := os.Getwd()
	require.NoError(t, err)

	err = os.Chdir(dir)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = os.Chdir(original)
	})
}
