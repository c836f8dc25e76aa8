package library

import (
	"os"
	"path/filepath"

	"github.com/mondohq/mondo/internal/parse"
)

// ScanSubFolders recursively lists every directory below root, depth-first.
// A missing or unreadable root yields nil; the scan never partially
// mutates anything.
func ScanSubFolders(root string) []SubFolder {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}

	var folders []SubFolder
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(root, entry.Name())
		folders = append(folders, SubFolder{Path: path, Name: entry.Name()})
		folders = append(folders, ScanSubFolders(path)...)
	}

	return folders
}

// ScanFiles lists the playable files directly inside dir (non-recursive),
// running the filename parser over each. Files without a parsable episode
// number are kept with a nil EpisodeNumber; they may be movies or specials
// matched by title instead.
func ScanFiles(dir string) []VideoFile {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var files []VideoFile
	for _, entry := range entries {
		if entry.IsDir() || !parse.IsVideoFile(entry.Name()) {
			continue
		}

		parsed := parse.Parse(entry.Name())
		files = append(files, VideoFile{
			Path:          dir,
			Name:          entry.Name(),
			AnimeTitle:    parsed.Title,
			EpisodeNumber: parsed.Episode,
		})
	}

	return files
}
