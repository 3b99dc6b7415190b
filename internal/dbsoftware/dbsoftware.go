// Package dbsoftware is the thin "database-software" target writer:
// an external DJ-database application that can import a plain SQLite
// file is treated as a collaborator behind a narrow interface, not a
// system this module re-implements (spec.md §1 scope note). It carries
// no DeviceSQL page/heap machinery of its own — that lives entirely in
// internal/pdb — and makes no attempt at the original's SQLCipher
// encryption (original_source/utils/db_manager.py's DatabaseManager),
// since an unencrypted interchange table is all a thin collaborator
// target needs.
package dbsoftware

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/crateport/crateport/internal/core"
	"github.com/crateport/crateport/internal/keymap"
)

const schema = `
CREATE TABLE IF NOT EXISTS tracks (
	id INTEGER PRIMARY KEY,
	title TEXT,
	artist TEXT,
	album TEXT,
	genre TEXT,
	label TEXT,
	bpm REAL,
	key_notation TEXT,
	duration_seconds INTEGER,
	rating INTEGER,
	play_count INTEGER,
	file_path TEXT
);
`

// Build opens (creating if absent) a SQLite database at path and writes
// one row per track in plan, in export-plan id order.
func Build(path string, plan *core.ExportPlan, kt *keymap.Translator) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("dbsoftware: open %s: %w", path, err)
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("dbsoftware: create schema: %w", err)
	}

	stmt, err := db.Prepare(`INSERT INTO tracks
		(id, title, artist, album, genre, label, bpm, key_notation, duration_seconds, rating, play_count, file_path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("dbsoftware: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range plan.Tracks {
		key := ""
		if t.HasKey() {
			if v, err := kt.To(t.KeyIndex, keymap.FormatOpenKey); err == nil {
				key = v
			}
		}

		if _, err := stmt.Exec(i+1, t.Title, t.Artist, t.Album, t.Genre, t.Label,
			t.BPM, key, t.DurationSeconds, t.Rating, t.PlayCount, t.FilePath); err != nil {
			return fmt.Errorf("dbsoftware: insert track %d: %w", i+1, err)
		}
	}

	return nil
}
