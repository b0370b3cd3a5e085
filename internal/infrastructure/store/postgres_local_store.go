package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"
)

// PostgresLocalStore keeps fallback documents in the local_fallback table.
type PostgresLocalStore struct {
	db *sql.DB
}

func NewPostgresLocalStore(db *sql.DB) *PostgresLocalStore {
	return &PostgresLocalStore{db: db}
}

func (s *PostgresLocalStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM local_fallback WHERE key = $1",
		key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		log.Printf("[PostgresLocalStore] Error getting %s: %v", key, err)
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

func (s *PostgresLocalStore) Put(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return ErrEmptyKey
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO local_fallback (key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at
	`, key, string(value), time.Now())
	if err != nil {
		log.Printf("[PostgresLocalStore] Error putting %s: %v", key, err)
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// Append adds item to the array at key with a single upsert, so concurrent
// appends from any number of API instances are all kept.
func (s *PostgresLocalStore) Append(ctx context.Context, key string, item []byte) error {
	if key == "" {
		return ErrEmptyKey
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO local_fallback (key, value, updated_at)
		VALUES ($1, jsonb_build_array($2::jsonb), $3)
		ON CONFLICT (key) DO UPDATE SET
			value = local_fallback.value || jsonb_build_array($2::jsonb),
			updated_at = EXCLUDED.updated_at
	`, key, string(item), time.Now())
	if err != nil {
		log.Printf("[PostgresLocalStore] Error appending to %s: %v", key, err)
		return fmt.Errorf("append %s: %w", key, err)
	}
	return nil
}

// ConnectPostgres opens a pooled connection and verifies it.
func ConnectPostgres(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, err
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}
