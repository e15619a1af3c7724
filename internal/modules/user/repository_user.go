package user

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the PostgreSQL error code for unique constraint violations.
const uniqueViolation = "23505"

var userColumns = []string{
	"id", "user_name", "role", "email", "mobile", "language", "age", "image_profile",
	"password_hash", "status",
	"verification_code", "verification_code_expires_at",
	"failed_login_attempts", "last_failed_login_at", "locked_until",
	"password_reset_token", "password_reset_expires_at",
	"password_reset_request_count", "password_reset_request_last_at",
	"created_at",
}

// Create inserts a new account and returns its id. The email and mobile
// unique constraints are the authoritative duplicate guard: a concurrent
// registration that slips past the service's pre-checks surfaces here as a
// Conflict error.
func (r *repository) Create(ctx context.Context, user *User) (int64, error) {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	query, args, err := r.psql.Insert("users").
		Columns(
			"user_name", "role", "email", "mobile", "language", "age", "image_profile",
			"password_hash", "status",
			"verification_code", "verification_code_expires_at",
			"created_at",
		).
		Values(
			user.UserName, string(user.Role), user.Email, user.Mobile, user.Language, user.Age, user.ImageProfile,
			user.PasswordHash, string(user.Status),
			user.VerificationCode, user.VerificationCodeExpiresAt,
			user.CreatedAt,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, err
	}

	var id int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			switch pgErr.ConstraintName {
			case "users_mobile_key":
				return 0, ErrMobileExists.WithCause(err)
			default:
				return 0, ErrEmailExists.WithCause(err)
			}
		}
		return 0, err
	}

	user.ID = id
	return id, nil
}

// FindByID retrieves an account by its unique id.
func (r *repository) FindByID(ctx context.Context, id int64) (*User, error) {
	return r.findOne(ctx, squirrel.Eq{"id": id})
}

// FindByEmail retrieves an account by its email address.
func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, squirrel.Eq{"email": email})
}

// FindByMobile retrieves an account by its mobile number.
func (r *repository) FindByMobile(ctx context.Context, mobile string) (*User, error) {
	return r.findOne(ctx, squirrel.Eq{"mobile": mobile})
}

// FindByVerificationCode retrieves an account by an unexpired verification code.
func (r *repository) FindByVerificationCode(ctx context.Context, code string, now time.Time) (*User, error) {
	return r.findOne(ctx, squirrel.And{
		squirrel.Eq{"verification_code": code},
		squirrel.Gt{"verification_code_expires_at": now},
	})
}

// FindByPasswordResetToken retrieves an account by an unexpired reset token.
func (r *repository) FindByPasswordResetToken(ctx context.Context, token string, now time.Time) (*User, error) {
	return r.findOne(ctx, squirrel.And{
		squirrel.Eq{"password_reset_token": token},
		squirrel.Gt{"password_reset_expires_at": now},
	})
}

// UpdateStatus sets the account lifecycle status.
func (r *repository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	return r.execOne(ctx, r.psql.Update("users").
		Set("status", string(status)).
		Where(squirrel.Eq{"id": id}))
}

// UpdateVerificationCode stores a fresh verification code and expiry,
// overwriting any prior pair.
func (r *repository) UpdateVerificationCode(ctx context.Context, id int64, code string, expiresAt time.Time) error {
	return r.execOne(ctx, r.psql.Update("users").
		Set("verification_code", code).
		Set("verification_code_expires_at", expiresAt).
		Where(squirrel.Eq{"id": id}))
}

// MarkVerified activates the account and clears the verification sub-state in
// one statement so the code/expiry pair never ends up half-null.
func (r *repository) MarkVerified(ctx context.Context, id int64) error {
	return r.execOne(ctx, r.psql.Update("users").
		Set("status", string(StatusActive)).
		Set("verification_code", nil).
		Set("verification_code_expires_at", nil).
		Where(squirrel.Eq{"id": id}))
}

// IncrementFailedLogin bumps the failed-attempt counter atomically and returns
// the resulting count, so two concurrent failures cannot under-count.
func (r *repository) IncrementFailedLogin(ctx context.Context, id int64, at time.Time) (int, error) {
	sql := `
        UPDATE users
        SET failed_login_attempts = failed_login_attempts + 1,
            last_failed_login_at = $2
        WHERE id = $1
        RETURNING failed_login_attempts
    `
	var count int
	if err := r.db.QueryRow(ctx, sql, id, at).Scan(&count); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound.WithCause(err)
		}
		return 0, err
	}
	return count, nil
}

// LockAccount sets the lockout deadline.
func (r *repository) LockAccount(ctx context.Context, id int64, until time.Time) error {
	return r.execOne(ctx, r.psql.Update("users").
		Set("locked_until", until).
		Where(squirrel.Eq{"id": id}))
}

// ResetFailedLogin clears the login-guard sub-state after a successful
// password check.
func (r *repository) ResetFailedLogin(ctx context.Context, id int64) error {
	return r.execOne(ctx, r.psql.Update("users").
		Set("failed_login_attempts", 0).
		Set("last_failed_login_at", nil).
		Set("locked_until", nil).
		Where(squirrel.Eq{"id": id}))
}

// RecordResetRequest performs the rolling-window counter update in a single
// conditional statement. A saturated window matches no row, which keeps the
// window anchor where it is.
func (r *repository) RecordResetRequest(ctx context.Context, id int64, windowStart, at time.Time, maxRequests int) (int, error) {
	sql := `
        UPDATE users
        SET password_reset_request_count = CASE
                WHEN password_reset_request_last_at IS NULL OR password_reset_request_last_at <= $2 THEN 1
                ELSE password_reset_request_count + 1
            END,
            password_reset_request_last_at = $3
        WHERE id = $1
          AND (password_reset_request_last_at IS NULL
               OR password_reset_request_last_at <= $2
               OR password_reset_request_count < $4)
        RETURNING password_reset_request_count
    `
	var count int
	if err := r.db.QueryRow(ctx, sql, id, windowStart, at, maxRequests).Scan(&count); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrTooManyResetRequests
		}
		return 0, err
	}
	return count, nil
}

// UpdatePasswordResetToken stores a fresh reset token and expiry, overwriting
// any prior pair.
func (r *repository) UpdatePasswordResetToken(ctx context.Context, id int64, token string, expiresAt time.Time) error {
	return r.execOne(ctx, r.psql.Update("users").
		Set("password_reset_token", token).
		Set("password_reset_expires_at", expiresAt).
		Where(squirrel.Eq{"id": id}))
}

// UpdatePassword sets a new password hash and clears the reset sub-state in
// one statement.
func (r *repository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return r.execOne(ctx, r.psql.Update("users").
		Set("password_hash", passwordHash).
		Set("password_reset_token", nil).
		Set("password_reset_expires_at", nil).
		Where(squirrel.Eq{"id": id}))
}

// findOne is a helper method to find a single account by a given condition.
func (r *repository) findOne(ctx context.Context, condition squirrel.Sqlizer) (*User, error) {
	query, args, err := r.psql.Select(userColumns...).
		From("users").
		Where(condition).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}

	var user User
	if err := pgxscan.Get(ctx, r.db, &user, query, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound.WithCause(err)
		}
		return nil, err
	}
	return &user, nil
}

// execOne runs an update that must affect exactly one row.
func (r *repository) execOne(ctx context.Context, builder squirrel.UpdateBuilder) error {
	query, args, err := builder.ToSql()
	if err != nil {
		return err
	}
	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
