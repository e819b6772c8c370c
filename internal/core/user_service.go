package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

// DefaultAdminPassword is used when bootstrapping the single operator
// account and ADMIN_PASSWORD is not set.
const DefaultAdminPassword = "admin123"

// ErrInvalidCredentials is returned by Authenticate and ChangePassword when
// the supplied password does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserService manages the operator account and authentication. Lookup is
// case-insensitive against both name and email. Accounts whose stored
// password is still plain text are healed to a bcrypt hash on their next
// successful login.
type UserService interface {
	Authenticate(ctx context.Context, login, password string) (*User, error)
	EnsureAdmin(ctx context.Context) error
	GetProfile(ctx context.Context) (*User, error)
	UpdateProfile(ctx context.Context, u *User) (*User, error)
	ChangePassword(ctx context.Context, current, next string) error
}

type userService struct {
	pool *pgxpool.Pool
}

func NewUserService(pool *pgxpool.Pool) UserService {
	return &userService{pool: pool}
}

// EnsureAdmin creates the single operator account if the users table is
// empty. The password comes from ADMIN_PASSWORD, falling back to the
// default.
func (s *userService) EnsureAdmin(ctx context.Context) error {
	var count int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = DefaultAdminPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO users (name, email, role, password_hash)
		VALUES ('Admin', 'admin@shop.local', 'Administrator', $1)
	`, string(hash))
	if err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}
	log.Println("created default admin user")
	return nil
}

func (s *userService) Authenticate(ctx context.Context, login, password string) (*User, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	var u User
	var storedHash string
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, email, phone, avatar, role, password_hash
		FROM users
		WHERE LOWER(name) = LOWER($1) OR LOWER(email) = LOWER($1)
		LIMIT 1
	`, login).Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Avatar, &u.Role, &storedHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password)); err != nil {
		// Legacy rows may hold the password in plain text. Accept it once
		// and replace it with a hash.
		if storedHash != password {
			return nil, ErrInvalidCredentials
		}
		if err := s.rehash(ctx, u.ID, password); err != nil {
			log.Printf("WARNING: failed to heal plain-text password for user %d: %v", u.ID, err)
		}
	}
	return &u, nil
}

func (s *userService) rehash(ctx context.Context, userID int, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		"UPDATE users SET password_hash = $1 WHERE id = $2", string(hash), userID)
	if err != nil {
		return fmt.Errorf("failed to store password hash: %w", err)
	}
	return nil
}

// GetProfile returns the operator account, creating it first if the table is
// empty.
func (s *userService) GetProfile(ctx context.Context) (*User, error) {
	if err := s.EnsureAdmin(ctx); err != nil {
		return nil, err
	}
	var u User
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, email, phone, avatar, role
		FROM users ORDER BY id LIMIT 1
	`).Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Avatar, &u.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &u, nil
}

func (s *userService) UpdateProfile(ctx context.Context, u *User) (*User, error) {
	if u.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "required"}
	}
	current, err := s.GetProfile(ctx)
	if err != nil {
		return nil, err
	}
	_, err = s.pool.Exec(ctx, `
		UPDATE users SET name = $1, email = $2, phone = $3, avatar = $4
		WHERE id = $5
	`, u.Name, u.Email, u.Phone, u.Avatar, current.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	u.ID = current.ID
	u.Role = current.Role
	return u, nil
}

func (s *userService) ChangePassword(ctx context.Context, current, next string) error {
	if len(next) < 6 {
		return &ValidationError{Field: "newPassword", Reason: "must be at least 6 characters"}
	}
	profile, err := s.GetProfile(ctx)
	if err != nil {
		return err
	}

	var storedHash string
	err = s.pool.QueryRow(ctx,
		"SELECT password_hash FROM users WHERE id = $1", profile.ID).Scan(&storedHash)
	if err != nil {
		return fmt.Errorf("failed to load password hash: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(current)); err != nil {
		if storedHash != current {
			return ErrInvalidCredentials
		}
	}
	return s.rehash(ctx, profile.ID, next)
}
