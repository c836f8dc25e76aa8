package database

import "database/sql"

const currentSchemaVersion = 1

var migrations = []migration{
	{
		version: 1,
		up: []string{
			`CREATE TABLE schema_version (
				version INTEGER PRIMARY KEY,
				applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)`,

			// One row per anime on the user's list. Synonyms are kept as
			// a JSON array; sqlite never needs to look inside it.
			`CREATE TABLE anime_list (
				media_id INTEGER PRIMARY KEY,
				title_romaji TEXT,
				title_english TEXT,
				title_native TEXT,
				synonyms TEXT NOT NULL DEFAULT '[]',
				episodes INTEGER NOT NULL DEFAULT 0,
				status TEXT NOT NULL,
				score REAL NOT NULL DEFAULT 0,
				progress INTEGER NOT NULL DEFAULT 0,
				updated_at INTEGER NOT NULL DEFAULT 0
			)`,

			`CREATE INDEX idx_anime_list_status ON anime_list(status)`,

			`INSERT INTO schema_version (version) VALUES (1)`,
		},
	},
}

type migration struct {
	version int
	up      []string
}

// applyMigrations applies any pending schema migrations
func applyMigrations(db *sql.DB) error {
	var currentVersion int
	err := db.QueryRow("SELECT version FROM schema_version ORDER BY version DESC LIMIT 1").Scan(&currentVersion)
	if err != nil {
		// schema_version doesn't exist yet - this is a fresh database
		currentVersion = 0
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return err
		}

		for _, stmt := range m.up {
			if _, err := tx.Exec(stmt); err != nil {
				tx.Rollback()
				return err
			}
		}

		// Each migration inserts its own schema_version row.
		if err := tx.Commit(); err != nil {
			return err
		}
	}

	return nil
}
