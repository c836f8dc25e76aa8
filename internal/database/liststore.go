package database

import (
	"context"

	"github.com/mondohq/mondo/internal/anilist"
	"github.com/mondohq/mondo/internal/logging"
	"github.com/mondohq/mondo/internal/match"
)

// listFetcher is the slice of the AniList client the store needs.
type listFetcher interface {
	MediaListCollection(ctx context.Context) ([]anilist.ListEntry, error)
}

// ListStore pairs the AniList client with the local cache. Reads prefer
// fresh data and fall back to the cache when AniList is unreachable, so a
// flaky connection degrades to slightly stale matching instead of an error.
type ListStore struct {
	client listFetcher
	cache  *ListDB
	logger *logging.Logger
}

// NewListStore creates a ListStore over client and cache.
func NewListStore(client listFetcher, cache *ListDB, logger *logging.Logger) *ListStore {
	if logger == nil {
		logger = logging.Nop()
	}
	return &ListStore{
		client: client,
		cache:  cache,
		logger: logger,
	}
}

// Refresh pulls the full list from AniList and replaces the cache.
func (s *ListStore) Refresh(ctx context.Context) error {
	entries, err := s.client.MediaListCollection(ctx)
	if err != nil {
		return err
	}
	return s.cache.ReplaceList(entries)
}

// Watching returns the currently-watching entries as the matcher consumes
// them, refreshing from AniList first.
func (s *ListStore) Watching(ctx context.Context) ([]match.Media, error) {
	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("watchlist", "refresh failed, using cached list", logging.F("error", err.Error()))
	}

	entries, err := s.cache.Watching()
	if err != nil {
		return nil, err
	}

	media := make([]match.Media, len(entries))
	for i, entry := range entries {
		media[i] = match.Media{
			ID:                entry.MediaID,
			TitlesAndSynonyms: entry.TitlesAndSynonyms(),
		}
	}
	return media, nil
}

// Cache exposes the underlying ListDB for direct reads.
func (s *ListStore) Cache() *ListDB {
	return s.cache
}

var _ match.WatchListSource = (*ListStore)(nil)
