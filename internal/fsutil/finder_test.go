package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("# test"), 0o644))
}

func TestFindFilesByExtension(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.hcl"))
	writeFile(t, filepath.Join(root, "nested", "a.hcl"))
	writeFile(t, filepath.Join(root, "notes.txt"))

	files, err := FindFilesByExtension(root, ".hcl")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "b.hcl"),
		filepath.Join(root, "nested", "a.hcl"),
	}, files)
}

func TestFindFilesByExtension_PanicsOnEmptyExtension(t *testing.T) {
	assert.Panics(t, func() { _, _ = FindFilesByExtension(t.TempDir(), "") })
}

func TestFindFiles_MixesFilesAndDirsWithoutDuplicates(t *testing.T) {
	root := t.TempDir()
	single := filepath.Join(root, "scenario.hcl")
	writeFile(t, single)
	writeFile(t, filepath.Join(root, "more", "extra.hcl"))

	files, err := FindFiles([]string{single, root}, ".hcl")
	require.NoError(t, err)
	assert.Equal(t, []string{
		single,
		filepath.Join(root, "more", "extra.hcl"),
	}, files)
}

func TestFindFiles_MissingPath(t *testing.T) {
	_, err := FindFiles([]string{filepath.Join(t.TempDir(), "absent.hcl")}, ".hcl")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error accessing path")
}
