// Copyright © 2025 Texelsel contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: search/index.go
// Summary: SQLite-backed substring search over a screen's lines.
//
// The index stores one row per non-blank addressable line (page and
// scrollback) under the screen's current line offsets. Re-index after the screen scrolls;
// unlike a streaming emulator there is no write-ahead batching here, a
// selection host indexes on demand.

package search

import (
	"database/sql"
	"fmt"
	"log"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/framegrace/texelsel/grid"
)

// Current schema version - increment when schema changes require reindexing.
const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS lines (
    line INTEGER PRIMARY KEY,         -- oracle line offset (negative = scrollback)
    content TEXT NOT NULL
);
`

// Match is a single search hit.
type Match struct {
	// Line is the oracle line offset of the matching row.
	Line int
	// Content is the indexed text of that row.
	Content string
}

// Index is a substring search index over screen lines.
type Index struct {
	db *sql.DB
}

// Open creates or opens an index database. Use ":memory:" for a transient
// index.
func Open(path string) (*Index, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("search: open index db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("search: create schema: %w", err)
	}

	var version int
	err = db.QueryRow(`SELECT version FROM schema_version`).Scan(&version)
	switch {
	case err == sql.ErrNoRows:
		if _, err := db.Exec(`INSERT INTO schema_version (version) VALUES (?)`, schemaVersion); err != nil {
			db.Close()
			return nil, fmt.Errorf("search: record schema version: %w", err)
		}
	case err != nil:
		db.Close()
		return nil, fmt.Errorf("search: read schema version: %w", err)
	case version != schemaVersion:
		log.Printf("search: schema version %d != %d, reindexing", version, schemaVersion)
		if _, err := db.Exec(`DELETE FROM lines`); err != nil {
			db.Close()
			return nil, fmt.Errorf("search: reset index: %w", err)
		}
		if _, err := db.Exec(`UPDATE schema_version SET version = ?`, schemaVersion); err != nil {
			db.Close()
			return nil, fmt.Errorf("search: bump schema version: %w", err)
		}
	}

	return &Index{db: db}, nil
}

// Close releases the database.
func (ix *Index) Close() error {
	return ix.db.Close()
}

// IndexLine records or replaces the text of one line.
func (ix *Index) IndexLine(line int, text string) error {
	_, err := ix.db.Exec(
		`INSERT INTO lines (line, content) VALUES (?, ?)
		 ON CONFLICT(line) DO UPDATE SET content = excluded.content`,
		line, text)
	if err != nil {
		return fmt.Errorf("search: index line %d: %w", line, err)
	}
	return nil
}

// DeleteLine removes a line from the index, preventing stale matches after
// the row is cleared.
func (ix *Index) DeleteLine(line int) error {
	if _, err := ix.db.Exec(`DELETE FROM lines WHERE line = ?`, line); err != nil {
		return fmt.Errorf("search: delete line %d: %w", line, err)
	}
	return nil
}

// IndexScreen drops the previous contents and indexes every addressable
// line of the screen, scrollback included. Blank lines are skipped.
func (ix *Index) IndexScreen(s *grid.Screen) error {
	tx, err := ix.db.Begin()
	if err != nil {
		return fmt.Errorf("search: begin reindex: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM lines`); err != nil {
		return fmt.Errorf("search: clear index: %w", err)
	}
	for line := -s.HistoryLen(); line < s.PageRows(); line++ {
		text := s.LineText(line)
		if text == "" {
			continue
		}
		if _, err := tx.Exec(`INSERT INTO lines (line, content) VALUES (?, ?)`, line, text); err != nil {
			return fmt.Errorf("search: index line %d: %w", line, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("search: commit reindex: %w", err)
	}
	return nil
}

// Search returns up to limit lines whose text contains query,
// case-insensitively, newest (highest line offset) first.
func (ix *Index) Search(query string, limit int) ([]Match, error) {
	if query == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}

	pattern := "%" + escapeLike(query) + "%"
	rows, err := ix.db.Query(
		`SELECT line, content FROM lines
		 WHERE lower(content) LIKE lower(?) ESCAPE '\'
		 ORDER BY line DESC LIMIT ?`,
		pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("search: query %q: %w", query, err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var m Match
		if err := rows.Scan(&m.Line, &m.Content); err != nil {
			return nil, fmt.Errorf("search: scan match: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search: iterate matches: %w", err)
	}
	return matches, nil
}

// escapeLike escapes LIKE metacharacters in a literal query.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
