package database

import (
	"context"
	"errors"
	"testing"

	"github.com/mondohq/mondo/internal/anilist"
)

type fakeFetcher struct {
	entries []anilist.ListEntry
	err     error
	calls   int
}

func (f *fakeFetcher) MediaListCollection(ctx context.Context) ([]anilist.ListEntry, error) {
	f.calls++
	return f.entries, f.err
}

func TestListStore_WatchingRefreshesFirst(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	fetcher := &fakeFetcher{entries: sampleEntries()}
	store := NewListStore(fetcher, db, nil)

	media, err := store.Watching(context.Background())
	if err != nil {
		t.Fatalf("Watching failed: %v", err)
	}
	if fetcher.calls != 1 {
		t.Errorf("expected one fetch, got %d", fetcher.calls)
	}
	if len(media) != 2 {
		t.Fatalf("expected 2 watching media, got %d", len(media))
	}
	if media[0].ID != 21 || media[1].ID != 101 {
		t.Errorf("unexpected ids: %d, %d", media[0].ID, media[1].ID)
	}
	if len(media[1].TitlesAndSynonyms) == 0 {
		t.Error("titles not carried through to the matcher view")
	}
}

func TestListStore_FallsBackToCache(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := db.ReplaceList(sampleEntries()); err != nil {
		t.Fatalf("ReplaceList failed: %v", err)
	}

	fetcher := &fakeFetcher{err: errors.New("network down")}
	store := NewListStore(fetcher, db, nil)

	media, err := store.Watching(context.Background())
	if err != nil {
		t.Fatalf("Watching should fall back to cache, got: %v", err)
	}
	if len(media) != 2 {
		t.Errorf("expected cached entries, got %d", len(media))
	}
}

func TestListStore_RefreshError(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	fetcher := &fakeFetcher{err: errors.New("network down")}
	store := NewListStore(fetcher, db, nil)

	if err := store.Refresh(context.Background()); err == nil {
		t.Error("Refresh should surface the fetch error")
	}
}
