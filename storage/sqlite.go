// Package storage provides a SQLite-based implementation of the Storage interface.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/CreativeUnicorns/viewerprefs"
)

const (
	sqliteCreateTableSQL = `
		CREATE TABLE IF NOT EXISTS viewer_preferences (
			viewer_id TEXT NOT NULL,
			key TEXT NOT NULL,
			value TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (viewer_id, key)
		);
	`

	sqliteUpsertSQL = `
		INSERT INTO viewer_preferences (viewer_id, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(viewer_id, key)
		DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	sqliteSelectSQL = `
		SELECT value FROM viewer_preferences
		WHERE viewer_id = ? AND key = ?
	`

	sqliteSelectAllSQL = `
		SELECT key, value FROM viewer_preferences
		WHERE viewer_id = ?
	`

	sqliteDeleteSQL = `
		DELETE FROM viewer_preferences
		WHERE viewer_id = ? AND key = ?
	`
)

// SQLiteStorage implements viewerprefs.Storage using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens the database at dbPath (":memory:" for a throwaway
// database) and creates the table if needed.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: failed to ping database: %w", err)
	}

	// A single connection keeps ":memory:" databases shared and avoids "database is locked".
	db.SetMaxOpenConns(1)

	storage := &SQLiteStorage{db: db}
	if err := storage.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: failed to run migrations: %w", err)
	}

	return storage, nil
}

func (s *SQLiteStorage) migrate() error {
	_, err := s.db.Exec(sqliteCreateTableSQL)
	return err
}

// Get returns viewerprefs.ErrNotFound if the key does not exist.
func (s *SQLiteStorage) Get(ctx context.Context, viewerID, key string) (string, error) {
	if err := checkArgs(viewerID, key); err != nil {
		return "", err
	}

	var value string
	err := s.db.QueryRowContext(ctx, sqliteSelectSQL, viewerID, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", viewerprefs.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("sqlite: failed to get %q for viewer %q: %w", key, viewerID, err)
	}
	return value, nil
}

// Set inserts or replaces the value stored under key.
func (s *SQLiteStorage) Set(ctx context.Context, viewerID, key, value string) error {
	if err := checkArgs(viewerID, key); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, sqliteUpsertSQL, viewerID, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("sqlite: failed to set %q for viewer %q: %w", key, viewerID, err)
	}
	return nil
}

// Delete removes a key. Deleting a missing key is not an error.
func (s *SQLiteStorage) Delete(ctx context.Context, viewerID, key string) error {
	if err := checkArgs(viewerID, key); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, sqliteDeleteSQL, viewerID, key); err != nil {
		return fmt.Errorf("sqlite: failed to delete %q for viewer %q: %w", key, viewerID, err)
	}
	return nil
}

// GetAll returns every key stored for the viewer.
func (s *SQLiteStorage) GetAll(ctx context.Context, viewerID string) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, sqliteSelectAllSQL, viewerID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to query preferences: %w", err)
	}
	defer rows.Close()

	return scanPairs(rows)
}

// Close closes the SQLite database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// scanPairs collects (key, value) rows.
func scanPairs(rows *sql.Rows) (map[string]string, error) {
	out := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan preference: %w", err)
		}
		out[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return out, nil
}
