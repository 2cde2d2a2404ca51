package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Paintersrp/zortex/internal/section"
)

// Store persists history entries.
type Store interface {
	Load(limit int) ([]Entry, error)
	Append(e Entry) error
	Clear() error
	Since(t time.Time) ([]Entry, error)
	Close() error
}

// SQLiteStore keeps entries in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens or creates the database at path. Use ":memory:" for a
// throwaway store.
func OpenSQLite(path string) (*SQLiteStore, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("history: create database directory: %w", err)
		}
		dsn = "file:" + path + "?_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("history: open database: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS selections (
			id TEXT PRIMARY KEY,
			recorded_at INTEGER NOT NULL,
			file TEXT NOT NULL,
			section_path TEXT NOT NULL,
			tokens TEXT NOT NULL,
			contributions TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_selections_recorded ON selections(recorded_at);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("history: setup database: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// contribution is the stored form of one Contributions entry.
type contribution struct {
	Kind  string  `json:"kind"`
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

func (s *SQLiteStore) Append(e Entry) error {
	path, err := json.Marshal(e.Selection.SectionPath)
	if err != nil {
		return err
	}
	tokens, err := json.Marshal(e.Selection.Tokens)
	if err != nil {
		return err
	}
	contribs := make([]contribution, 0, len(e.Contributions))
	for key, score := range e.Contributions {
		contribs = append(contribs, contribution{Kind: key.Kind.String(), Text: key.Text, Score: score})
	}
	encoded, err := json.Marshal(contribs)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO selections (id, recorded_at, file, section_path, tokens, contributions)
		VALUES (?, ?, ?, ?, ?, ?)
	`, e.ID, e.Timestamp.UnixNano(), e.Selection.File, string(path), string(tokens), string(encoded))
	return err
}

// Load returns up to limit of the newest entries, oldest first.
func (s *SQLiteStore) Load(limit int) ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT id, recorded_at, file, section_path, tokens, contributions FROM (
			SELECT * FROM selections ORDER BY recorded_at DESC LIMIT ?
		) ORDER BY recorded_at ASC
	`, limit)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

func (s *SQLiteStore) Since(t time.Time) ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT id, recorded_at, file, section_path, tokens, contributions
		FROM selections WHERE recorded_at >= ? ORDER BY recorded_at ASC
	`, t.UnixNano())
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

func (s *SQLiteStore) Clear() error {
	_, err := s.db.Exec(`DELETE FROM selections`)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e                        Entry
			recorded                 int64
			path, tokens, contribRaw string
		)
		if err := rows.Scan(&e.ID, &recorded, &e.Selection.File, &path, &tokens, &contribRaw); err != nil {
			return nil, err
		}
		e.Timestamp = time.Unix(0, recorded)
		if err := json.Unmarshal([]byte(path), &e.Selection.SectionPath); err != nil {
			return nil, fmt.Errorf("history: decode section path of %s: %w", e.ID, err)
		}
		if err := json.Unmarshal([]byte(tokens), &e.Selection.Tokens); err != nil {
			return nil, fmt.Errorf("history: decode tokens of %s: %w", e.ID, err)
		}

		var contribs []contribution
		if err := json.Unmarshal([]byte(contribRaw), &contribs); err != nil {
			return nil, fmt.Errorf("history: decode contributions of %s: %w", e.ID, err)
		}
		e.Contributions = make(map[Key]float64, len(contribs))
		for _, c := range contribs {
			kind, _ := section.ParseKind(c.Kind)
			e.Contributions[Key{File: e.Selection.File, Kind: kind, Text: c.Text}] += c.Score
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
