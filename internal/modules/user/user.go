package user

import (
	"time"
)

// Role is the authorization role carried in session token claims.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Status is the account lifecycle state. Exactly one status holds at any time.
type Status string

const (
	// StatusPending means the account exists but the email is not yet verified.
	StatusPending Status = "pending"
	// StatusActive means the email was verified and the account may log in.
	StatusActive Status = "active"
	// StatusSuspended is set by an admin action; login is denied.
	StatusSuspended Status = "suspended"
)

// User represents an account in the system.
// This is the core entity for the user module, used across the repository,
// service, and handler layers.
//
// Invariants maintained by the repository methods:
//   - VerificationCode and VerificationCodeExpiresAt are set or null together.
//   - PasswordResetToken and PasswordResetExpiresAt are set or null together.
//   - A successful password check resets FailedLoginAttempts to 0 and clears
//     LastFailedLoginAt and LockedUntil.
type User struct {
	ID           int64   `db:"id"`
	UserName     string  `db:"user_name"`
	Role         Role    `db:"role"`
	Email        string  `db:"email"`
	Mobile       string  `db:"mobile"`
	Language     string  `db:"language"`
	Age          *int    `db:"age"`
	ImageProfile *string `db:"image_profile"`
	PasswordHash string  `db:"password_hash"`
	Status       Status  `db:"status"`

	// Email verification sub-state, meaningful while Status is pending.
	VerificationCode          *string    `db:"verification_code"`
	VerificationCodeExpiresAt *time.Time `db:"verification_code_expires_at"`

	// Login-guard sub-state.
	FailedLoginAttempts int        `db:"failed_login_attempts"`
	LastFailedLoginAt   *time.Time `db:"last_failed_login_at"`
	LockedUntil         *time.Time `db:"locked_until"`

	// Password-recovery sub-state.
	PasswordResetToken         *string    `db:"password_reset_token"`
	PasswordResetExpiresAt     *time.Time `db:"password_reset_expires_at"`
	PasswordResetRequestCount  int        `db:"password_reset_request_count"`
	PasswordResetRequestLastAt *time.Time `db:"password_reset_request_last_at"`

	CreatedAt time.Time `db:"created_at"`
}

// IsLocked reports whether the account's lockout window is still open at t.
func (u *User) IsLocked(t time.Time) bool {
	return u.LockedUntil != nil && t.Before(*u.LockedUntil)
}
