// Package library owns the persisted mapping from tracked root folders to
// their scanned contents and watch-list match results, and resolves
// "episode N of media X" queries into concrete file paths.
package library

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/mondohq/mondo/internal/logging"
	"github.com/mondohq/mondo/internal/match"
)

type storeData struct {
	RootFolders []RootFolder `json:"rootFolders"`
}

// Store is the persisted collection of RootFolders. All mutating operations
// write the whole serialized state back to disk before returning; there is
// no partially-scanned persisted state.
type Store struct {
	mu     sync.Mutex
	path   string
	engine *match.Engine
	source match.WatchListSource
	logger *logging.Logger
	data   storeData
}

// Open loads the store persisted at path. A missing or corrupt file is
// treated as first-run and replaced with an empty store; it is never an
// error.
func Open(path string, engine *match.Engine, source match.WatchListSource, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.Nop()
	}
	s := &Store{
		path:   path,
		engine: engine,
		source: source,
		logger: logger,
	}
	s.data = readDataFile(path)
	return s
}

func readDataFile(path string) storeData {
	var data storeData
	raw, err := os.ReadFile(path)
	if err != nil || json.Unmarshal(raw, &data) != nil {
		return storeData{RootFolders: []RootFolder{}}
	}
	if data.RootFolders == nil {
		data.RootFolders = []RootFolder{}
	}
	return data
}

// Folders returns a snapshot of the tracked root folders.
func (s *Store) Folders() []RootFolder {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]RootFolder, len(s.data.RootFolders))
	copy(out, s.data.RootFolders)
	return out
}

// AddFolder tracks a new root folder, matching its contents against the
// watch-list. A path that does not exist on disk is a silent no-op.
func (s *Store) AddFolder(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addFolder(ctx, path, nil)
}

// AddFolderWithID tracks a new root folder with an explicit media id,
// bypassing fuzzy matching.
func (s *Store) AddFolderWithID(ctx context.Context, path string, mediaID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addFolder(ctx, path, &mediaID)
}

func (s *Store) addFolder(ctx context.Context, path string, mediaID *int) error {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		s.logger.Warn("library", "add skipped, folder not found", logging.F("path", path))
		return nil
	}

	// Re-adding a tracked folder refreshes its scan. Id assignments survive
	// the refresh; they only go away through explicit removal.
	prior := s.takeRoot(path)

	root := RootFolder{
		Path:       path,
		SubFolders: ScanSubFolders(path),
		Files:      ScanFiles(path),
		IDs:        []int{},
	}

	// Ids already held somewhere in this root; matching must not hand any of
	// them a second folder.
	held := make(map[int]bool)
	if prior != nil {
		for _, id := range prior.IDs {
			root.IDs = append(root.IDs, id)
			held[id] = true
		}

		carried := make(map[string]int)
		for _, sf := range prior.SubFolders {
			if sf.ID != nil {
				carried[sf.Path] = *sf.ID
			}
		}
		for i := range root.SubFolders {
			if id, ok := carried[root.SubFolders[i].Path]; ok {
				id := id
				root.SubFolders[i].ID = &id
				held[id] = true
			}
		}
	}

	switch {
	case mediaID != nil:
		// An id may only ever point at one location.
		s.removeID(*mediaID)
		for i := range root.SubFolders {
			if root.SubFolders[i].ID != nil && *root.SubFolders[i].ID == *mediaID {
				root.SubFolders[i].ID = nil
			}
		}
		root.IDs = []int{*mediaID}

	case len(root.SubFolders) > 0:
		// Only unassigned subfolders take part in matching.
		var names []string
		var indexes []int
		for i, sf := range root.SubFolders {
			if sf.ID == nil {
				names = append(names, sf.Name)
				indexes = append(indexes, i)
			}
		}
		if len(names) > 0 {
			matched, err := s.engine.MatchFolders(ctx, names)
			if err != nil {
				return err
			}
			for id, idx := range matched {
				if held[id] {
					continue
				}
				id := id
				root.SubFolders[indexes[idx]].ID = &id
			}
		}

	case len(root.Files) > 0 && len(root.IDs) == 0:
		titles := make([]string, len(root.Files))
		for i, f := range root.Files {
			titles[i] = f.AnimeTitle
		}
		ids, err := s.engine.MatchRootFiles(ctx, titles)
		if err != nil {
			return err
		}
		root.IDs = ids
	}

	s.data.RootFolders = append(s.data.RootFolders, root)
	s.logger.Info("library", "folder added",
		logging.F("path", path),
		logging.F("subfolders", len(root.SubFolders)),
		logging.F("files", len(root.Files)))
	return s.persist()
}

// RemoveFolder stops tracking the root folder with exactly this path.
// Unknown paths are a silent no-op.
func (s *Store) RemoveFolder(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.deleteRoot(path) {
		return nil
	}
	return s.persist()
}

// AssignFolder points mediaID at folderPath explicitly, bypassing fuzzy
// matching. Any previous holder of the id loses it first.
func (s *Store) AssignFolder(ctx context.Context, folderPath string, mediaID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	leaf := filepath.Base(folderPath)
	s.removeID(mediaID)

	if len(s.data.RootFolders) == 0 {
		return s.addFolder(ctx, folderPath, &mediaID)
	}

	for i := range s.data.RootFolders {
		root := &s.data.RootFolders[i]
		candidate := filepath.Join(root.Path, leaf)
		info, err := os.Stat(candidate)
		if err != nil || !info.IsDir() {
			continue
		}

		id := mediaID
		assigned := false
		for j := range root.SubFolders {
			if root.SubFolders[j].Name == leaf {
				root.SubFolders[j].ID = &id
				assigned = true
				break
			}
		}
		if !assigned {
			root.SubFolders = append(root.SubFolders, SubFolder{
				Path: candidate,
				Name: leaf,
				ID:   &id,
			})
		}

		s.logger.Info("library", "folder assigned",
			logging.F("path", candidate),
			logging.F("media_id", mediaID))
		return s.persist()
	}

	// Not under any tracked root: track it as a new root of its own.
	return s.addFolder(ctx, folderPath, &mediaID)
}

// RemoveFolderFromID drops mediaID's folder association. A subfolder holder
// loses just that subfolder; a root matched wholesale is removed entirely.
// Unknown ids are a silent no-op.
func (s *Store) RemoveFolderFromID(mediaID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.removeID(mediaID) {
		return nil
	}
	return s.persist()
}

// FolderByID returns the path associated with mediaID, or "" when the id is
// not known to the store.
func (s *Store) FolderByID(mediaID int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.folderByID(mediaID)
}

func (s *Store) folderByID(mediaID int) string {
	for _, root := range s.data.RootFolders {
		if containsID(root.IDs, mediaID) {
			return root.Path
		}
		for _, sf := range root.SubFolders {
			if sf.ID != nil && *sf.ID == mediaID {
				return sf.Path
			}
		}
	}
	return ""
}

// EpisodePath resolves the file for one episode of mediaID. The key is
// either an episode number or, for non-numbered specials and movies, the
// parsed title itself. The owning folder is re-scanned fresh from disk on
// every call. Duplicate matches (multi-quality releases) are re-ranked by
// fuzzy similarity against the media's known titles; only a true zero-match
// returns "".
func (s *Store) EpisodePath(ctx context.Context, mediaID int, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	folder := s.folderByID(mediaID)
	if folder == "" {
		return "", nil
	}

	episode, numeric := 0, false
	if n, err := strconv.Atoi(key); err == nil {
		episode, numeric = n, true
	}

	var candidates []VideoFile
	for _, f := range ScanFiles(folder) {
		if numeric && f.EpisodeNumber != nil && *f.EpisodeNumber == episode {
			candidates = append(candidates, f)
			continue
		}
		if f.AnimeTitle == key {
			candidates = append(candidates, f)
		}
	}

	switch len(candidates) {
	case 0:
		return "", nil
	case 1:
		return filepath.Join(candidates[0].Path, candidates[0].Name), nil
	}

	// Several releases of the same episode: keep the one whose parsed title
	// best matches what the tracker calls this media.
	watching, err := s.source.Watching(ctx)
	if err != nil {
		return "", err
	}
	var titles []string
	for _, media := range watching {
		if media.ID == mediaID {
			titles = media.TitlesAndSynonyms
			break
		}
	}

	parsedTitles := make([]string, len(candidates))
	for i, f := range candidates {
		parsedTitles[i] = f.AnimeTitle
	}

	best := match.RankByTitles(parsedTitles, titles)
	if best == -1 {
		best = 0
	}
	return filepath.Join(candidates[best].Path, candidates[best].Name), nil
}

// Resync discards in-memory state and reloads from the persisted file.
func (s *Store) Resync() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = readDataFile(s.path)
}

// Reset clears all tracked folders and persists the empty store.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = storeData{RootFolders: []RootFolder{}}
	return s.persist()
}

// takeRoot removes the root folder with the given path and returns it, or
// nil when the path is not tracked.
func (s *Store) takeRoot(path string) *RootFolder {
	for i, root := range s.data.RootFolders {
		if root.Path == path {
			s.data.RootFolders = append(s.data.RootFolders[:i], s.data.RootFolders[i+1:]...)
			return &root
		}
	}
	return nil
}

// deleteRoot removes the root folder with the given path, reporting whether
// anything changed.
func (s *Store) deleteRoot(path string) bool {
	return s.takeRoot(path) != nil
}

// removeID clears mediaID's association without persisting. The first
// subfolder holding the id is removed; failing that, a root whose id set
// contains it is removed wholesale (no finer-grained unit exists).
func (s *Store) removeID(mediaID int) bool {
	for i := range s.data.RootFolders {
		root := &s.data.RootFolders[i]
		for j, sf := range root.SubFolders {
			if sf.ID != nil && *sf.ID == mediaID {
				root.SubFolders = append(root.SubFolders[:j], root.SubFolders[j+1:]...)
				return true
			}
		}
	}

	for i, root := range s.data.RootFolders {
		if containsID(root.IDs, mediaID) {
			s.data.RootFolders = append(s.data.RootFolders[:i], s.data.RootFolders[i+1:]...)
			return true
		}
	}

	return false
}

func (s *Store) persist() error {
	raw, err := json.Marshal(s.data)
	if err != nil {
		return &PersistenceError{Path: s.path, Err: err}
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return &PersistenceError{Path: s.path, Err: err}
	}
	if err := os.WriteFile(s.path, raw, 0644); err != nil {
		return &PersistenceError{Path: s.path, Err: err}
	}
	return nil
}

func containsID(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
