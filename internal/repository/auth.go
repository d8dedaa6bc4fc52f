// Package repository provides persistence implementations for the
// authentication and note services using a PostgreSQL database.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/avolkov/notehub/internal/models"
)

// PostgresAuthRepository implements user and session persistence against PostgreSQL.
type PostgresAuthRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresAuthRepository creates a new PostgresAuthRepository with the given
// database connection. db must be a valid *sql.DB connected to a PostgreSQL instance.
func NewPostgresAuthRepository(db *sql.DB) *PostgresAuthRepository {
	return &PostgresAuthRepository{DB: db}
}

// UserExists checks whether a user with the specified email exists in the database.
func (s *PostgresAuthRepository) UserExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.DB.QueryRowContext(
		ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`,
		email,
	).Scan(&exists)
	return exists, err
}

// CreateUser inserts a new user record.
func (s *PostgresAuthRepository) CreateUser(ctx context.Context, user models.User) error {
	_, err := s.DB.ExecContext(
		ctx,
		`INSERT INTO users (id, email, password_hash) VALUES ($1, $2, $3)`,
		user.ID, user.Email, user.PasswordHash,
	)
	if err != nil {
		return fmt.Errorf("CreateUser: %w", err)
	}
	return nil
}

// UserByEmail fetches a user by email. Returns sql.ErrNoRows when absent.
func (s *PostgresAuthRepository) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.DB.QueryRowContext(ctx, `
		SELECT id, email, password_hash FROM users WHERE email = $1
	`, email).Scan(&user.ID, &user.Email, &user.PasswordHash)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateSession stores an issued bearer token.
func (s *PostgresAuthRepository) CreateSession(ctx context.Context, session models.Session) error {
	_, err := s.DB.ExecContext(
		ctx,
		`INSERT INTO sessions (token, user_id, expires_at) VALUES ($1, $2, $3)`,
		session.Token, session.UserID, session.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("CreateSession: %w", err)
	}
	return nil
}

// UserIDByToken resolves a bearer token to its owning user id. Expired tokens
// resolve to sql.ErrNoRows, same as unknown ones.
func (s *PostgresAuthRepository) UserIDByToken(ctx context.Context, token string, now time.Time) (string, error) {
	var userID string
	err := s.DB.QueryRowContext(ctx, `
		SELECT user_id FROM sessions WHERE token = $1 AND expires_at > $2
	`, token, now).Scan(&userID)
	if err != nil {
		return "", err
	}
	return userID, nil
}

// DeleteSession removes a bearer token, signing its holder out.
func (s *PostgresAuthRepository) DeleteSession(ctx context.Context, token string) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	return err
}
