package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/backoffice/internal/admin/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// ConflictError reports a unique constraint violation on Column.
type ConflictError struct {
	Column string
	Err    error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("store: %s already exists", e.Column)
}

func (e *ConflictError) Is(target error) bool { return target == ErrAlreadyExists }
func (e *ConflictError) Unwrap() error        { return e.Err }

// Store is the root data access interface. Drivers implement it and hand
// out sub-repositories so transactional and plain access look the same.
type Store interface {
	Users() Users
	UserLevels() UserLevels
	Sessions() Sessions

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID, GetUserByEmail and GetUserByUsername return the user with
	// its level title joined in, or ErrNotFound.
	GetUserByID(ctx context.Context, id int64) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// UserExistsBy* never return ErrNotFound.
	UserExistsByID(ctx context.Context, id int64) (bool, error)
	UserExistsByEmail(ctx context.Context, email string) (bool, error)
	UserExistsByUsername(ctx context.Context, username string) (bool, error)

	// ListUsers returns every user ordered by id. Never nil.
	ListUsers(ctx context.Context) ([]domain.User, error)

	// CreateUser inserts u and returns the id assigned by the database.
	// Duplicate email or username yields a *ConflictError.
	CreateUser(ctx context.Context, u domain.User) (int64, error)

	// UpdateUser overwrites the profile fields of u.ID and bumps updated_at.
	// The password is left alone.
	UpdateUser(ctx context.Context, u domain.User) error

	// UpdatePasswordHash sets the password hash and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error

	// DeleteUserBy* return the number of rows removed; zero is not an error.
	DeleteUserByID(ctx context.Context, id int64) (int64, error)
	DeleteUserByEmail(ctx context.Context, email string) (int64, error)

	// IsEmpty returns true if there are no users.
	IsEmpty(ctx context.Context) (bool, error)
}

type UserLevels interface {
	ListUserLevels(ctx context.Context) ([]domain.UserLevel, error)
	GetUserLevelByID(ctx context.Context, id int64) (domain.UserLevel, error)
	GetUserLevelByTitle(ctx context.Context, title string) (domain.UserLevel, error)
	CreateUserLevel(ctx context.Context, title string) (int64, error)
}

type Sessions interface {
	// SaveSession inserts or replaces the session keyed by s.Key.
	SaveSession(ctx context.Context, s domain.StoredSession) error

	// GetSession returns ErrNotFound for unknown or expired keys.
	GetSession(ctx context.Context, key string) (domain.StoredSession, error)

	DeleteSession(ctx context.Context, key string) error

	// DeleteExpiredSessions is housekeeping; it returns how many rows went.
	DeleteExpiredSessions(ctx context.Context) (int64, error)
}
