//go:build integration

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupPostgres(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := postgres.Run(ctx,
		"postgres:18-alpine",
		postgres.WithDatabase("sassy"),
		postgres.WithUsername("sassy"),
		postgres.WithPassword("sassy"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate postgres container: %v", err)
		}
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}
	if err := runMigrations(connStr); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return connStr
}

func runMigrations(connStr string) error {
	_, filename, _, _ := runtime.Caller(0)
	root := filepath.Join(filepath.Dir(filename), "..", "..", "..")

	m, err := migrate.New("file://"+filepath.Join(root, "migrations"), connStr)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func TestPostgresLocalStore_Integration(t *testing.T) {
	ctx := context.Background()
	connStr := setupPostgres(ctx, t)

	db, err := ConnectPostgres(connStr)
	require.NoError(t, err)
	defer db.Close()

	s := NewPostgresLocalStore(db)

	_, ok, err := s.Get(ctx, Key("wishlist", "u1"))
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(ctx, Key("wishlist", "u1"), []byte("[17]")))
	v, ok, err := s.Get(ctx, Key("wishlist", "u1"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, "[17]", string(v))

	require.NoError(t, s.Put(ctx, Key("wishlist", "u1"), []byte("[17, 3]")))
	v, _, err = s.Get(ctx, Key("wishlist", "u1"))
	require.NoError(t, err)
	assert.JSONEq(t, "[17, 3]", string(v))

	assert.ErrorIs(t, s.Put(ctx, "", []byte("[]")), ErrEmptyKey)

	// Appends from parallel writers land in one array without losing any.
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, s.Append(ctx, Key("orders", "guest"), []byte(fmt.Sprintf(`{"n":%d}`, i))))
		}(i)
	}
	wg.Wait()

	v, ok, err = s.Get(ctx, Key("orders", "guest"))
	require.NoError(t, err)
	assert.True(t, ok)
	var orders []map[string]int
	require.NoError(t, json.Unmarshal(v, &orders))
	assert.Len(t, orders, 20)
}
