package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidEmail       = errors.New("a valid email is required")
	ErrInvalidName        = errors.New("display name is required")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// User is a customer account.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"display_name"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserRepository persists accounts. Emails are stored lower-cased.
type UserRepository interface {
	Create(ctx context.Context, u User) error
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
}

// Accounts registers and authenticates customers.
type Accounts struct {
	users UserRepository
	hash  func(string) (string, error)
	now   func() time.Time
}

func NewAccounts(users UserRepository) *Accounts {
	return &Accounts{users: users, hash: HashPassword, now: time.Now}
}

func (a *Accounts) Register(ctx context.Context, email, password, displayName string) (User, error) {
	email = normalizeEmail(email)
	displayName = strings.TrimSpace(displayName)
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return User{}, ErrInvalidEmail
	}
	if displayName == "" {
		return User{}, ErrInvalidName
	}

	hash, err := a.hash(password)
	if err != nil {
		return User{}, err
	}

	u := User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		DisplayName:  displayName,
		CreatedAt:    a.now().UTC(),
	}
	if err := a.users.Create(ctx, u); err != nil {
		return User{}, err
	}
	log.Printf("[Auth] Registered user %s", u.ID)
	return u, nil
}

// Login returns ErrInvalidCredentials for both unknown e-mails and wrong passwords.
func (a *Accounts) Login(ctx context.Context, email, password string) (User, error) {
	u, err := a.users.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, ErrUserNotFound) {
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, fmt.Errorf("login: %w", err)
	}
	if !CheckPassword(password, u.PasswordHash) {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

func (a *Accounts) Get(ctx context.Context, id string) (User, error) {
	return a.users.GetByID(ctx, id)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
