package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/lib/pq"
)

// MemoryUserRepository keeps accounts for the lifetime of the process.
type MemoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[string]User
	byEmail map[string]string
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byID:    make(map[string]User),
		byEmail: make(map[string]string),
	}
}

func (r *MemoryUserRepository) Create(ctx context.Context, u User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byEmail[u.Email]; exists {
		return ErrEmailTaken
	}
	r.byID[u.ID] = u
	r.byEmail[u.Email] = u.ID
	return nil
}

func (r *MemoryUserRepository) GetByEmail(ctx context.Context, email string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return r.byID[id], nil
}

func (r *MemoryUserRepository) GetByID(ctx context.Context, id string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

const uniqueViolation = "23505"

// PostgresUserRepository stores accounts in the users table.
type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Create(ctx context.Context, u User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, display_name, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, u.ID, u.Email, u.PasswordHash, u.DisplayName, u.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrEmailTaken
		}
		log.Printf("[PostgresUserRepository] Error creating user %s: %v", u.ID, err)
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (User, error) {
	return r.getOne(ctx, "SELECT id, email, password_hash, display_name, created_at FROM users WHERE email = $1", email)
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id string) (User, error) {
	return r.getOne(ctx, "SELECT id, email, password_hash, display_name, created_at FROM users WHERE id = $1", id)
}

func (r *PostgresUserRepository) getOne(ctx context.Context, query, arg string) (User, error) {
	var u User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

var (
	_ UserRepository = (*MemoryUserRepository)(nil)
	_ UserRepository = (*PostgresUserRepository)(nil)
)
