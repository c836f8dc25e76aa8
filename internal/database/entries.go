package database

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/mondohq/mondo/internal/anilist"
)

// Entry is one cached anime list row.
type Entry struct {
	MediaID      int
	TitleRomaji  string
	TitleEnglish string
	TitleNative  string
	Synonyms     []string
	Episodes     int
	Status       string
	Score        float64
	Progress     int
	UpdatedAt    int64
}

// TitlesAndSynonyms flattens the entry's title variants and synonyms into
// one deduplicated list.
func (e Entry) TitlesAndSynonyms() []string {
	raw := append([]string{e.TitleEnglish, e.TitleRomaji, e.TitleNative}, e.Synonyms...)

	seen := make(map[string]bool, len(raw))
	var out []string
	for _, t := range raw {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// ReplaceList swaps the cached list for a freshly fetched one in a single
// transaction, so readers never observe a half-replaced cache.
func (l *ListDB) ReplaceList(entries []anilist.ListEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx, err := l.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM anime_list"); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to clear anime list: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO anime_list (media_id, title_romaji, title_english, title_native,
			synonyms, episodes, status, score, progress, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, entry := range entries {
		synonyms, err := json.Marshal(entry.Media.Synonyms)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to encode synonyms: %w", err)
		}

		_, err = stmt.Exec(
			entry.Media.ID,
			entry.Media.Title.Romaji,
			entry.Media.Title.English,
			entry.Media.Title.Native,
			string(synonyms),
			entry.Media.Episodes,
			entry.Status,
			entry.Score,
			entry.Progress,
			entry.UpdatedAt,
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert entry %d: %w", entry.Media.ID, err)
		}
	}

	return tx.Commit()
}

// Watching returns the cached entries with CURRENT status, ordered by media
// id.
func (l *ListDB) Watching() ([]Entry, error) {
	return l.byStatus(anilist.StatusCurrent)
}

// All returns every cached entry regardless of status.
func (l *ListDB) All() ([]Entry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	rows, err := l.db.Query(selectColumns + " FROM anime_list ORDER BY media_id")
	if err != nil {
		return nil, fmt.Errorf("failed to query anime list: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (l *ListDB) byStatus(status string) ([]Entry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	rows, err := l.db.Query(selectColumns+" FROM anime_list WHERE status = ? ORDER BY media_id", status)
	if err != nil {
		return nil, fmt.Errorf("failed to query anime list: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Entry returns the cached row for one media id.
func (l *ListDB) Entry(mediaID int) (*Entry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	row := l.db.QueryRow(selectColumns+" FROM anime_list WHERE media_id = ?", mediaID)
	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query entry %d: %w", mediaID, err)
	}
	return &entry, nil
}

// TitlesAndSynonyms returns every title variant known for one media id, or
// nil when the id is not cached.
func (l *ListDB) TitlesAndSynonyms(mediaID int) ([]string, error) {
	entry, err := l.Entry(mediaID)
	if err != nil || entry == nil {
		return nil, err
	}
	return entry.TitlesAndSynonyms(), nil
}

// SetProgress updates the cached progress for one media id.
func (l *ListDB) SetProgress(mediaID, progress int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, err := l.db.Exec("UPDATE anime_list SET progress = ? WHERE media_id = ?", progress, mediaID)
	if err != nil {
		return fmt.Errorf("failed to update progress for %d: %w", mediaID, err)
	}
	return nil
}

// SetStatus updates the cached status for one media id.
func (l *ListDB) SetStatus(mediaID int, status string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, err := l.db.Exec("UPDATE anime_list SET status = ? WHERE media_id = ?", status, mediaID)
	if err != nil {
		return fmt.Errorf("failed to update status for %d: %w", mediaID, err)
	}
	return nil
}

const selectColumns = `SELECT media_id, title_romaji, title_english, title_native,
	synonyms, episodes, status, score, progress, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row rowScanner) (Entry, error) {
	var entry Entry
	var synonyms string

	err := row.Scan(
		&entry.MediaID,
		&entry.TitleRomaji,
		&entry.TitleEnglish,
		&entry.TitleNative,
		&synonyms,
		&entry.Episodes,
		&entry.Status,
		&entry.Score,
		&entry.Progress,
		&entry.UpdatedAt,
	)
	if err != nil {
		return Entry{}, err
	}

	if err := json.Unmarshal([]byte(synonyms), &entry.Synonyms); err != nil {
		// A mangled synonyms blob degrades matching but should not sink
		// the whole read.
		entry.Synonyms = nil
	}
	return entry, nil
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
