package docstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS documents (
    collection  TEXT        NOT NULL,
    id          TEXT        NOT NULL,
    data        JSONB       NOT NULL,
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (collection, id)
)`

// PostgresStore implements Store with one jsonb row per document
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore creates a PostgresStore on an existing pool
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the documents table when missing
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("failed to create documents table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, collection, id string) ([]byte, error) {
	if err := checkKey(collection, id); err != nil {
		return nil, err
	}
	var data string
	err := s.db.QueryRow(ctx,
		`SELECT data::text FROM documents WHERE collection = $1 AND id = $2`,
		collection, id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		slog.Error("Failed to get document", "collection", collection, "id", id, "err", err)
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return []byte(data), nil
}

func (s *PostgresStore) Set(ctx context.Context, collection, id string, data []byte) error {
	if err := checkKey(collection, id); err != nil {
		return err
	}
	_, err := s.db.Exec(ctx, `
INSERT INTO documents (collection, id, data, updated_at)
VALUES ($1, $2, $3::jsonb, now())
ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		collection, id, string(data))
	if err != nil {
		slog.Error("Failed to set document", "collection", collection, "id", id, "err", err)
		return fmt.Errorf("failed to set document: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, collection, id string) error {
	if err := checkKey(collection, id); err != nil {
		return err
	}
	if _, err := s.db.Exec(ctx, `DELETE FROM documents WHERE collection = $1 AND id = $2`, collection, id); err != nil {
		slog.Error("Failed to delete document", "collection", collection, "id", id, "err", err)
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}
