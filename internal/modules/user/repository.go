package user

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/beewords/beewords-api/internal/database"
)

// Repository defines the interface for database operations for the user module.
// This abstraction allows the service layer to be independent of the database
// implementation. Every method is a single-row keyed operation.
type Repository interface {
	Create(ctx context.Context, user *User) (int64, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByMobile(ctx context.Context, mobile string) (*User, error)

	// FindByVerificationCode only matches rows whose code expiry is after now;
	// expired and unknown codes are indistinguishable to the caller.
	FindByVerificationCode(ctx context.Context, code string, now time.Time) (*User, error)

	// FindByPasswordResetToken only matches rows whose token expiry is after now.
	FindByPasswordResetToken(ctx context.Context, token string, now time.Time) (*User, error)

	UpdateStatus(ctx context.Context, id int64, status Status) error
	UpdateVerificationCode(ctx context.Context, id int64, code string, expiresAt time.Time) error

	// MarkVerified sets status to active and clears the verification code and
	// its expiry in a single statement.
	MarkVerified(ctx context.Context, id int64) error

	// IncrementFailedLogin atomically increments the failed-attempt counter,
	// records the attempt time, and returns the new count.
	IncrementFailedLogin(ctx context.Context, id int64, at time.Time) (int, error)
	LockAccount(ctx context.Context, id int64, until time.Time) error
	ResetFailedLogin(ctx context.Context, id int64) error

	// RecordResetRequest applies the rolling-window bookkeeping for a
	// password-reset request in one conditional statement: the counter resets
	// to 1 when the window anchored at the last accepted request has elapsed,
	// increments while under maxRequests, and returns ErrTooManyResetRequests
	// without moving the anchor when the window is saturated.
	RecordResetRequest(ctx context.Context, id int64, windowStart, at time.Time, maxRequests int) (int, error)

	UpdatePasswordResetToken(ctx context.Context, id int64, token string, expiresAt time.Time) error

	// UpdatePassword sets a new password hash and clears the reset token and
	// its expiry in a single statement.
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

// repository implements the Repository interface using pgx and squirrel.
type repository struct {
	db   database.DBTX
	psql squirrel.StatementBuilderType
}

// NewRepository creates a new user repository with the given database connection.
func NewRepository(db database.DBTX) Repository {
	return &repository{
		db:   db,
		psql: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}
