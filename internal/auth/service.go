package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/vovakirdan/ichi/internal/account"
	"github.com/vovakirdan/ichi/internal/store"
)

var (
	// ErrInvalidCredentials is returned when username/password don't match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserExists is returned when trying to register with existing username.
	ErrUserExists = errors.New("user already exists")
	// ErrMalformedCredentials is returned for empty names or passwords, or ones containing whitespace.
	ErrMalformedCredentials = errors.New("malformed credentials")
	// ErrUnknownUser is returned when statistics are requested for a name with no account.
	ErrUnknownUser = errors.New("unknown user")
)

// Service provides account operations.
type Service struct {
	users store.UserStore
	stats store.StatsStore
}

// NewService creates a new account service.
func NewService(users store.UserStore, stats store.StatsStore) *Service {
	return &Service{
		users: users,
		stats: stats,
	}
}

// CreateAccount registers username with a hashed password.
func (s *Service) CreateAccount(ctx context.Context, username, password string) error {
	if account.ValidateCredentials(username, password) != "" {
		return ErrMalformedCredentials
	}

	hashedPassword, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if _, err := s.users.CreateUser(ctx, username, hashedPassword); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return ErrUserExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// Login validates credentials.
func (s *Service) Login(ctx context.Context, username, password string) error {
	if account.ValidateCredentials(username, password) != "" {
		return ErrMalformedCredentials
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("get user: %w", err)
	}

	if errPwd := ComparePassword(user.PasswordHash, password); errPwd != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// Statistics returns the record of a registered player.
func (s *Service) Statistics(ctx context.Context, username string) (*store.Stats, error) {
	stats, err := s.stats.GetStats(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUnknownUser
		}
		return nil, fmt.Errorf("get stats: %w", err)
	}
	return stats, nil
}

// RecordGame stores the outcome of a finished game.
func (s *Service) RecordGame(ctx context.Context, players []string, winner string) error {
	return s.stats.RecordGame(ctx, players, winner)
}
