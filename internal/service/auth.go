// Package service provides business-logic services for authentication and
// note management, delegating persistence to repository interfaces.
package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/avolkov/notehub/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for any credential failure. Handlers must
// not surface which part of the credentials was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrEmailTaken is returned when registering an email that already has an account.
var ErrEmailTaken = errors.New("email already registered")

// AuthRepository defines the persistence operations required by the
// authentication service.
type AuthRepository interface {
	// UserExists returns true if a user with the given email exists.
	UserExists(ctx context.Context, email string) (bool, error)
	// CreateUser creates a new user record.
	CreateUser(ctx context.Context, user models.User) error
	// UserByEmail fetches a user by email, sql.ErrNoRows when absent.
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	// CreateSession stores an issued bearer token.
	CreateSession(ctx context.Context, session models.Session) error
	// UserIDByToken resolves a live token to a user id, sql.ErrNoRows otherwise.
	UserIDByToken(ctx context.Context, token string, now time.Time) (string, error)
	// DeleteSession removes a bearer token.
	DeleteSession(ctx context.Context, token string) error
}

// AuthService implements registration, login, logout and token resolution.
type AuthService struct {
	repo AuthRepository
	// ttl is the lifetime of issued tokens.
	ttl time.Duration
	// now is the clock, replaceable in tests.
	now func() time.Time
}

// NewAuthService constructs an AuthService using the provided repository
// and session lifetime.
func NewAuthService(repo AuthRepository, ttl time.Duration) *AuthService {
	return &AuthService{repo: repo, ttl: ttl, now: time.Now}
}

// Register creates an account for the given credentials and signs it in,
// returning the issued session. Returns ErrEmailTaken when the email is
// already registered.
func (s *AuthService) Register(ctx context.Context, email, password string) (*models.Session, error) {
	exists, err := s.repo.UserExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return s.issueSession(ctx, user.ID)
}

// Login verifies the credentials and returns a fresh session. All failure
// modes collapse into ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.Session, error) {
	user, err := s.repo.UserByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueSession(ctx, user.ID)
}

// Logout invalidates the given token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.repo.DeleteSession(ctx, token)
}

// Authenticate resolves a bearer token to the owning user id. Unknown and
// expired tokens return ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, token string) (string, error) {
	userID, err := s.repo.UserIDByToken(ctx, token, s.now())
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}

func (s *AuthService) issueSession(ctx context.Context, userID string) (*models.Session, error) {
	session := models.Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		ExpiresAt: s.now().Add(s.ttl),
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}
	return &session, nil
}
