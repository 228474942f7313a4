package repository

import (
	"context"
	"database/sql"
	"errors"
	"granite-core/logger"
)

// PostgresKVStore implements KeyValueStore on the kv_store table.
type PostgresKVStore struct {
	DB *sql.DB
}

func NewPostgresKVStore(db *sql.DB) *PostgresKVStore {
	return &PostgresKVStore{DB: db}
}

// Get reads a single value by key.
func (s *PostgresKVStore) Get(ctx context.Context, key string) (string, bool, error) {
	log := logger.Log.WithField("key", key)
	log.Debug("Executing query to read a stored value")

	var value string
	query := `SELECT value FROM kv_store WHERE key = $1`
	err := s.DB.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		log.WithError(err).Error("Failed to execute read value query")
		return "", false, err
	}
	return value, true, nil
}

// Set inserts or overwrites the value stored under key.
func (s *PostgresKVStore) Set(ctx context.Context, key, value string) error {
	log := logger.Log.WithField("key", key)
	log.Debug("Executing query to store a value")

	query := `
		INSERT INTO kv_store (key, value, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`
	if _, err := s.DB.ExecContext(ctx, query, key, value); err != nil {
		log.WithError(err).Error("Failed to execute store value query")
		return err
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *PostgresKVStore) Delete(ctx context.Context, key string) error {
	log := logger.Log.WithField("key", key)
	log.Debug("Executing query to delete a stored value")

	query := `DELETE FROM kv_store WHERE key = $1`
	if _, err := s.DB.ExecContext(ctx, query, key); err != nil {
		log.WithError(err).Error("Failed to execute delete value query")
		return err
	}
	return nil
}
