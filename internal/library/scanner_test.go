package library

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkdirs(t *testing.T, root string, dirs ...string) {
	t.Helper()
	for _, dir := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0755))
	}
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
}

func TestScanSubFolders(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "Cool Show", "Cool Show/Season 1", "Other Show")
	touch(t, filepath.Join(root, "loose.mkv"))

	folders := ScanSubFolders(root)

	var names []string
	for _, sf := range folders {
		names = append(names, sf.Name)
	}
	assert.ElementsMatch(t, []string{"Cool Show", "Season 1", "Other Show"}, names)

	for _, sf := range folders {
		if sf.Name == "Season 1" {
			assert.Equal(t, filepath.Join(root, "Cool Show", "Season 1"), sf.Path)
		}
	}
}

func TestScanSubFolders_MissingRoot(t *testing.T) {
	assert.Nil(t, ScanSubFolders(filepath.Join(t.TempDir(), "nope")))
}

func TestScanFiles(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "Cool Show - 01.mkv"))
	touch(t, filepath.Join(root, "Cool Show - 02.mkv"))
	touch(t, filepath.Join(root, "notes.txt"))
	touch(t, filepath.Join(root, "nested", "Cool Show - 03.mkv"))

	files := ScanFiles(root)
	require.Len(t, files, 2, "only direct video files are listed")

	for _, f := range files {
		assert.Equal(t, root, f.Path)
		assert.Equal(t, "Cool Show", f.AnimeTitle)
		require.NotNil(t, f.EpisodeNumber)
	}
}

func TestScanFiles_NoEpisodeNumber(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "Cool Show Movie (2019).mkv"))

	files := ScanFiles(root)
	require.Len(t, files, 1)
	assert.Nil(t, files[0].EpisodeNumber)
	assert.Equal(t, "Cool Show Movie (2019)", files[0].AnimeTitle)
}
