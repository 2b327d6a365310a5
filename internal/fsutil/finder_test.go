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
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0644))
}

func TestFindFilesByExtension(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.hcl"))
	writeFile(t, filepath.Join(root, "nested", "deep", "b.hcl"))
	writeFile(t, filepath.Join(root, "ignored.txt"))

	files, err := FindFilesByExtension(root, ".hcl")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a.hcl"),
		filepath.Join(root, "nested", "deep", "b.hcl"),
	}, files)
}

func TestFindFilesByExtension_SingleFileRoot(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	target := filepath.Join(root, "only.hcl")
	writeFile(t, target)

	files, err := FindFilesByExtension(target, ".hcl")
	require.NoError(t, err)
	assert.Equal(t, []string{target}, files)
}

func TestFindFilesByExtension_MissingRoot(t *testing.T) {
	t.Parallel()

	_, err := FindFilesByExtension(filepath.Join(t.TempDir(), "nope"), ".hcl")
	assert.Error(t, err)
}

func TestFindFilesByExtension_EmptyExtensionPanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { _, _ = FindFilesByExtension(t.TempDir(), "") })
}

func TestCollectFiles_DeduplicatesOverlappingRoots(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	a := filepath.Join(root, "a.hcl")
	b := filepath.Join(root, "sub", "b.hcl")
	writeFile(t, a)
	writeFile(t, b)

	files, err := CollectFiles([]string{root, filepath.Join(root, "sub"), a}, ".hcl")
	require.NoError(t, err)
	assert.Equal(t, []string{a, b}, files)
}
