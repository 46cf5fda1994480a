// Package store persists analysis history in a local SQLite database so a
// finished analysis can be reopened without re-uploading the paper.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/rmax-ai/papermap/pkg/paper"
)

// ErrNotFound is returned when no analysis matches a lookup.
var ErrNotFound = errors.New("analysis not found")

// Record is one saved analysis.
type Record struct {
	ID        string          `json:"id"`
	Filename  string          `json:"filename"`
	Title     string          `json:"title"`
	CreatedAt time.Time       `json:"created_at"`
	Analysis  *paper.Analysis `json:"analysis,omitempty"`
}

// Store manages the SQLite connection and schema.
type Store struct {
	db *sql.DB
}

// NewStore initializes the SQLite database connection.
// It enables WAL mode for concurrency and durability.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("schema migration failed: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the analyses table if it doesn't exist. The normalized
// analysis is stored whole as a JSON blob; the envelope fields are columns
// for listing and lookup.
func (s *Store) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS analyses (
		id TEXT PRIMARY KEY,
		filename TEXT NOT NULL,
		title TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		payload JSON NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_analyses_created ON analyses(created_at);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create analyses table: %w", err)
	}
	return nil
}

// Save persists a normalized analysis and returns its new record ID.
func (s *Store) Save(a *paper.Analysis, filename, title string) (string, error) {
	payload, err := json.Marshal(a)
	if err != nil {
		return "", fmt.Errorf("failed to encode analysis: %w", err)
	}

	id := uuid.New().String()
	_, err = s.db.Exec(
		`INSERT INTO analyses (id, filename, title, created_at, payload) VALUES (?, ?, ?, ?, ?)`,
		id, filename, title, time.Now().UTC(), payload,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert analysis: %w", err)
	}
	return id, nil
}

// Get returns one saved analysis, payload included.
func (s *Store) Get(id string) (*Record, error) {
	row := s.db.QueryRow(
		`SELECT id, filename, title, created_at, payload FROM analyses WHERE id = ?`, id)
	return scanRecord(row)
}

// Latest returns the most recently saved analysis, payload included.
func (s *Store) Latest() (*Record, error) {
	row := s.db.QueryRow(
		`SELECT id, filename, title, created_at, payload FROM analyses
		 ORDER BY created_at DESC, rowid DESC LIMIT 1`)
	return scanRecord(row)
}

// List returns up to limit record envelopes, newest first, without
// payloads.
func (s *Store) List(limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT id, filename, title, created_at FROM analyses
		 ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Filename, &r.Title, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan analysis row: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func scanRecord(row *sql.Row) (*Record, error) {
	var r Record
	var payload []byte
	err := row.Scan(&r.ID, &r.Filename, &r.Title, &r.CreatedAt, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan analysis: %w", err)
	}

	var a paper.Analysis
	if err := json.Unmarshal(payload, &a); err != nil {
		return nil, fmt.Errorf("failed to decode stored analysis: %w", err)
	}
	r.Analysis = &a
	return &r, nil
}
