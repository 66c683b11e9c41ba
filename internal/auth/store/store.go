package store

import (
	"context"
	"errors"
	"time"

	"github.com/wayfarerhq/wayfarer/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Users() Users
	RefreshTokens() RefreshTokens
	PasswordResets() PasswordResets

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction: rolled back when fn returns an
	// error, committed otherwise. This is the recommended way to run
	// multi-step operations that must be atomic (e.g. reset redemption).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
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
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during login and password reset.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// Returns ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdatePasswordHash sets the password_hash (argon2id) and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID, newHash string) error

	// DeleteUser cascades to refresh_tokens and password_resets (per schema).
	DeleteUser(ctx context.Context, userID string) error
}

type RefreshTokens interface {
	// CreateRefreshToken stores a new refresh token record. Returns
	// ErrAlreadyExists on a fingerprint collision; the uniqueness constraint
	// lives in the database so it holds across concurrent instances.
	CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error

	// GetRefreshTokenByHash returns the token by its fingerprint.
	GetRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error)

	// DisableRefreshToken flips disabled=1 and bumps updated_at. Disabling an
	// already-disabled token is a no-op, not an error.
	DisableRefreshToken(ctx context.Context, hash string) error

	// DisableAllUserRefreshTokens bulk-disables every token a user holds,
	// used after a successful password reset.
	DisableAllUserRefreshTokens(ctx context.Context, userID string) error

	// DeleteExpiredRefreshTokens removes tokens whose expiry is at or before
	// now. Housekeeping only; expiry is always re-checked at use.
	DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) error
}

type PasswordResets interface {
	// CreatePasswordReset writes a freshly generated reset code record.
	CreatePasswordReset(ctx context.Context, pr domain.PasswordReset) error

	// GetPasswordResetByUserAndCode fetches a record regardless of its
	// consumed/expiry state; the service applies the redemption guards.
	GetPasswordResetByUserAndCode(ctx context.Context, userID, code string) (domain.PasswordReset, error)

	// ConsumePasswordReset marks a record consumed. The update is conditional
	// on consumed still being false and returns ErrNotFound when the row was
	// already consumed, so two concurrent redemptions cannot both succeed.
	ConsumePasswordReset(ctx context.Context, id string) error

	// DeleteExpiredPasswordResets removes reset records whose expiry is
	// before now. Housekeeping only.
	DeleteExpiredPasswordResets(ctx context.Context, now time.Time) error
}
