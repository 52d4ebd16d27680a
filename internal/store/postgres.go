package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/claude/setlog/internal/models"
)

// PostgresStore keeps the document in a single-row table in PostgreSQL.
// Optional backend for installs that already run a database.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to PostgreSQL with a connection pool.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// RunMigrations applies all pending migrations from the given directory.
func RunMigrations(dsn, migrationsPath string) error {
	m, err := migrate.New("file://"+migrationsPath, dsn)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// Load reads the stored document, or returns (nil, nil) if none exists.
func (s *PostgresStore) Load(ctx context.Context) (*models.Document, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT doc FROM app_state WHERE key = $1`, stateKey,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading document: %w", err)
	}
	return models.DecodeDocument(data)
}

// Save writes the full document, replacing any previous value.
func (s *PostgresStore) Save(ctx context.Context, doc *models.Document) error {
	data, err := doc.Encode()
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO app_state (key, doc, saved_at) VALUES ($1, $2, now())
		 ON CONFLICT (key) DO UPDATE SET doc = EXCLUDED.doc, saved_at = now()`,
		stateKey, data,
	)
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// Clear removes the stored document.
func (s *PostgresStore) Clear(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx,
		`DELETE FROM app_state WHERE key = $1`, stateKey,
	); err != nil {
		return fmt.Errorf("clearing document: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
