package docstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS documents (
    collection TEXT NOT NULL,
    id         TEXT NOT NULL,
    data       BLOB NOT NULL,
    PRIMARY KEY (collection, id)
)`

// SQLiteStore implements Store on an embedded SQLite database
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (or creates) the database at path and ensures the schema
func OpenSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// single writer
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create documents table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the database handle
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Get(ctx context.Context, collection, id string) ([]byte, error) {
	if err := checkKey(collection, id); err != nil {
		return nil, err
	}
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = ? AND id = ?`, collection, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return data, nil
}

func (s *SQLiteStore) Set(ctx context.Context, collection, id string, data []byte) error {
	if err := checkKey(collection, id); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO documents (collection, id, data) VALUES (?, ?, ?)
ON CONFLICT (collection, id) DO UPDATE SET data = excluded.data`, collection, id, data)
	if err != nil {
		return fmt.Errorf("failed to set document: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, collection, id string) error {
	if err := checkKey(collection, id); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE collection = ? AND id = ?`, collection, id); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}
