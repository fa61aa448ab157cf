// Package storage provides a PostgreSQL-based implementation of the Storage interface.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/CreativeUnicorns/viewerprefs"
)

// sqlOpenFunc is a package-level variable that can be overridden for testing.
var sqlOpenFunc = sql.Open

const (
	createTableSQL = `
		CREATE TABLE IF NOT EXISTS viewer_preferences (
			viewer_id TEXT NOT NULL,
			key TEXT NOT NULL,
			value TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (viewer_id, key)
		);
	`

	upsertSQL = `
		INSERT INTO viewer_preferences (viewer_id, key, value, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (viewer_id, key)
		DO UPDATE SET value = $3, updated_at = $4
	`

	selectSQL = `
		SELECT value FROM viewer_preferences
		WHERE viewer_id = $1 AND key = $2
	`

	selectAllSQL = `
		SELECT key, value FROM viewer_preferences
		WHERE viewer_id = $1
	`

	deleteSQL = `
		DELETE FROM viewer_preferences
		WHERE viewer_id = $1 AND key = $2
	`
)

// PostgresStorage implements viewerprefs.Storage using PostgreSQL.
// Values are TEXT rather than JSONB: legacy entries are not valid JSON.
type PostgresStorage struct {
	db  *sql.DB
	now func() time.Time
}

// NewPostgresStorage connects using connString and runs migrations.
func NewPostgresStorage(connString string) (*PostgresStorage, error) {
	db, err := sqlOpenFunc("postgres", connString)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: failed to ping database: %w", err)
	}

	storage := &PostgresStorage{db: db, now: time.Now}
	if err := storage.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: failed to run migrations: %w", err)
	}

	return storage, nil
}

func (s *PostgresStorage) migrate() error {
	if _, err := s.db.Exec(createTableSQL); err != nil {
		return fmt.Errorf("postgres: failed to execute create table statement: %w", err)
	}
	return nil
}

// Get returns viewerprefs.ErrNotFound if the key does not exist.
func (s *PostgresStorage) Get(ctx context.Context, viewerID, key string) (string, error) {
	if err := checkArgs(viewerID, key); err != nil {
		return "", err
	}

	var value string
	err := s.db.QueryRowContext(ctx, selectSQL, viewerID, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", viewerprefs.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("postgres: failed to get %q for viewer %q: %w", key, viewerID, err)
	}
	return value, nil
}

// Set inserts or replaces the value stored under key.
func (s *PostgresStorage) Set(ctx context.Context, viewerID, key, value string) error {
	if err := checkArgs(viewerID, key); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, upsertSQL, viewerID, key, value, s.now().UTC()); err != nil {
		return fmt.Errorf("postgres: failed to set %q for viewer %q: %w", key, viewerID, err)
	}
	return nil
}

// Delete removes a key. Deleting a missing key is not an error.
func (s *PostgresStorage) Delete(ctx context.Context, viewerID, key string) error {
	if err := checkArgs(viewerID, key); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, deleteSQL, viewerID, key); err != nil {
		return fmt.Errorf("postgres: failed to delete %q for viewer %q: %w", key, viewerID, err)
	}
	return nil
}

// GetAll returns every key stored for the viewer.
func (s *PostgresStorage) GetAll(ctx context.Context, viewerID string) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, selectAllSQL, viewerID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query preferences: %w", err)
	}
	defer rows.Close()

	prefs, err := scanPairs(rows)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	return prefs, nil
}

// Close closes the PostgreSQL database connection.
func (s *PostgresStorage) Close() error {
	return s.db.Close()
}
