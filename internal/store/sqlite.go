package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/claude/setlog/internal/models"
)

// SQLiteStore keeps the document in a single-row table inside a local
// SQLite file. This is the default backend.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the SQLite database at the given path,
// creating parent directories as needed.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating store dir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening store db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS app_state (
		key      TEXT PRIMARY KEY,
		doc      BLOB NOT NULL,
		saved_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating app_state table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Load reads the stored document, or returns (nil, nil) if none exists.
func (s *SQLiteStore) Load(ctx context.Context) (*models.Document, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM app_state WHERE key = ?`, stateKey,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading document: %w", err)
	}
	return models.DecodeDocument(data)
}

// Save writes the full document, replacing any previous value.
func (s *SQLiteStore) Save(ctx context.Context, doc *models.Document) error {
	data, err := doc.Encode()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO app_state (key, doc, saved_at) VALUES (?, ?, CURRENT_TIMESTAMP)`,
		stateKey, data,
	)
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// Clear removes the stored document.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM app_state WHERE key = ?`, stateKey,
	); err != nil {
		return fmt.Errorf("clearing document: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
