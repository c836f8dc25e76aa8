package library

import "fmt"

// RootFolder is a top-level directory the user has chosen to track.
// Either the root as a whole owns media ids (flat folders full of episode
// files) or its subfolders are matched individually, never both for the
// same id.
type RootFolder struct {
	Path       string      `json:"path"`
	SubFolders []SubFolder `json:"subFolders"`
	Files      []VideoFile `json:"files"`
	IDs        []int       `json:"ids"`
}

// SubFolder is a directory nested under a RootFolder, potentially matched
// to one media id.
type SubFolder struct {
	Path string `json:"path"`
	Name string `json:"name"`
	ID   *int   `json:"id,omitempty"`
}

// VideoFile is a playable file with parsed title/episode metadata.
// Path holds the containing folder; episode resolution re-derives files
// from disk rather than trusting this snapshot.
type VideoFile struct {
	Path          string `json:"path"`
	Name          string `json:"name"`
	AnimeTitle    string `json:"animeTitle"`
	EpisodeNumber *int   `json:"episode_number"`
}

// PersistenceError reports a failed write of the folder store. Unlike the
// fail-soft lookup paths, a failed persist must reach the caller so the UI
// can warn that changes were not saved.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("unable to persist folder store to %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
