package store

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique value is already taken.
	ErrDuplicate = errors.New("already exists")
)

// User represents a registered player.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Stats holds a player's lifetime results.
type Stats struct {
	Username    string
	GamesPlayed int
	GamesWon    int
}

// UserStore handles user persistence.
type UserStore interface {
	// CreateUser creates a new user with hashed password.
	CreateUser(ctx context.Context, username, passwordHash string) (*User, error)

	// GetUserByUsername retrieves a user by username.
	GetUserByUsername(ctx context.Context, username string) (*User, error)
}

// StatsStore handles per-player game results.
type StatsStore interface {
	// GetStats returns the results of a registered user.
	GetStats(ctx context.Context, username string) (*Stats, error)

	// RecordGame counts one game for every registered player and a win for winner.
	// Unregistered names are ignored.
	RecordGame(ctx context.Context, players []string, winner string) error
}

// Store aggregates all storage interfaces.
type Store interface {
	UserStore
	StatsStore

	// Close closes the underlying database connection.
	Close() error
}
