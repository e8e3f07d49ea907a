// Package store provides the embedded local database for analysis
// history and the wordbook.
package store

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	source_text TEXT NOT NULL,
	result TEXT NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS wordbook (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	surface TEXT NOT NULL,
	part_of_speech TEXT NOT NULL,
	conjugation TEXT NOT NULL DEFAULT '',
	meaning TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	UNIQUE (surface, part_of_speech)
);
`

// Open opens the SQLite database at path and ensures the schema exists.
func Open(path string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("sqlx.Open() > %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db.Exec(schema) > %w", err)
	}
	return db, nil
}
