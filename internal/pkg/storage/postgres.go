package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/anyemp/global-dashboard-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const createKVTable = `
CREATE TABLE IF NOT EXISTS kv_store (
	key        TEXT PRIMARY KEY,
	value      BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// PostgresStorage keeps blobs in a single kv_store table
type PostgresStorage struct {
	db database.Querier
}

func NewPostgresStorage(db database.Querier) *PostgresStorage {
	return &PostgresStorage{db: db}
}

// EnsureSchema creates the kv_store table when it does not exist yet
func (s *PostgresStorage) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, createKVTable); err != nil {
		return fmt.Errorf("failed to create kv_store: %w", err)
	}
	return nil
}

func (s *PostgresStorage) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow(ctx, `SELECT value FROM kv_store WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, nil
}

func (s *PostgresStorage) Put(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`
	if _, err := s.db.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to put %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStorage) Delete(ctx context.Context, key string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM kv_store WHERE key = $1`, key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStorage) Exists(ctx context.Context, key string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM kv_store WHERE key = $1)`, key).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", key, err)
	}
	return exists, nil
}
