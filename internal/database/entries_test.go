package database

import (
	"path/filepath"
	"testing"

	"github.com/mondohq/mondo/internal/anilist"
)

func setupTestDB(t *testing.T) *ListDB {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	db, err := OpenPath(dbPath)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	return db
}

func sampleEntries() []anilist.ListEntry {
	return []anilist.ListEntry{
		{
			Status:   anilist.StatusCurrent,
			Progress: 3,
			Media: anilist.MediaData{
				ID:       21,
				Title:    anilist.Title{Romaji: "One Piece", English: "One Piece"},
				Synonyms: []string{"OP"},
				Episodes: 0,
			},
		},
		{
			Status:   anilist.StatusCurrent,
			Progress: 11,
			Media: anilist.MediaData{
				ID:       101,
				Title:    anilist.Title{Romaji: "Kakkoii Bangumi", English: "Cool Show", Native: "かっこいい番組"},
				Episodes: 12,
			},
		},
		{
			Status:   anilist.StatusCompleted,
			Progress: 26,
			Media: anilist.MediaData{
				ID:       55,
				Title:    anilist.Title{Romaji: "Finished Show"},
				Episodes: 26,
			},
		},
	}
}

func TestReplaceList_AndWatching(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := db.ReplaceList(sampleEntries()); err != nil {
		t.Fatalf("ReplaceList failed: %v", err)
	}

	watching, err := db.Watching()
	if err != nil {
		t.Fatalf("Watching failed: %v", err)
	}
	if len(watching) != 2 {
		t.Fatalf("expected 2 watching entries, got %d", len(watching))
	}
	if watching[0].MediaID != 21 || watching[1].MediaID != 101 {
		t.Errorf("watching entries not ordered by media id: %d, %d", watching[0].MediaID, watching[1].MediaID)
	}
	if watching[0].Synonyms[0] != "OP" {
		t.Errorf("synonyms not round-tripped: %v", watching[0].Synonyms)
	}
}

func TestReplaceList_SwapsWholeList(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := db.ReplaceList(sampleEntries()); err != nil {
		t.Fatalf("ReplaceList failed: %v", err)
	}

	replacement := []anilist.ListEntry{
		{
			Status: anilist.StatusCurrent,
			Media:  anilist.MediaData{ID: 999, Title: anilist.Title{Romaji: "New Show"}},
		},
	}
	if err := db.ReplaceList(replacement); err != nil {
		t.Fatalf("second ReplaceList failed: %v", err)
	}

	all, err := db.All()
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(all) != 1 || all[0].MediaID != 999 {
		t.Errorf("old entries survived the replace: %+v", all)
	}
}

func TestEntry(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := db.ReplaceList(sampleEntries()); err != nil {
		t.Fatalf("ReplaceList failed: %v", err)
	}

	entry, err := db.Entry(101)
	if err != nil {
		t.Fatalf("Entry failed: %v", err)
	}
	if entry == nil {
		t.Fatal("expected entry for media 101")
	}
	if entry.TitleEnglish != "Cool Show" || entry.Episodes != 12 || entry.Progress != 11 {
		t.Errorf("unexpected entry: %+v", entry)
	}

	missing, err := db.Entry(424242)
	if err != nil {
		t.Fatalf("Entry for missing id failed: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown id, got %+v", missing)
	}
}

func TestSetProgressAndStatus(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := db.ReplaceList(sampleEntries()); err != nil {
		t.Fatalf("ReplaceList failed: %v", err)
	}

	if err := db.SetProgress(101, 12); err != nil {
		t.Fatalf("SetProgress failed: %v", err)
	}
	if err := db.SetStatus(101, anilist.StatusCompleted); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}

	entry, err := db.Entry(101)
	if err != nil {
		t.Fatalf("Entry failed: %v", err)
	}
	if entry.Progress != 12 || entry.Status != anilist.StatusCompleted {
		t.Errorf("updates not applied: %+v", entry)
	}

	// Completing removes it from the watching view.
	watching, err := db.Watching()
	if err != nil {
		t.Fatalf("Watching failed: %v", err)
	}
	for _, e := range watching {
		if e.MediaID == 101 {
			t.Error("completed entry still listed as watching")
		}
	}
}

func TestEntry_TitlesAndSynonyms(t *testing.T) {
	entry := Entry{
		TitleRomaji:  "Kakkoii Bangumi",
		TitleEnglish: "Cool Show",
		TitleNative:  "",
		Synonyms:     []string{"Cool Show", "KB"},
	}

	titles := entry.TitlesAndSynonyms()
	want := []string{"Cool Show", "Kakkoii Bangumi", "KB"}
	if len(titles) != len(want) {
		t.Fatalf("expected %d titles, got %v", len(want), titles)
	}
	for i, title := range want {
		if titles[i] != title {
			t.Errorf("titles[%d] = %q, want %q", i, titles[i], title)
		}
	}
}

func TestOpenPath_Reopen(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	db, err := OpenPath(dbPath)
	if err != nil {
		t.Fatalf("first open failed: %v", err)
	}
	if err := db.ReplaceList(sampleEntries()); err != nil {
		t.Fatalf("ReplaceList failed: %v", err)
	}
	db.Close()

	db, err = OpenPath(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer db.Close()

	all, err := db.All()
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 entries after reopen, got %d", len(all))
	}
}
