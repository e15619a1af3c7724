package user

import "time"

// Fixed abuse-resistance policy values. They are named here rather than
// inlined so tests can reference the same numbers the flows enforce.
const (
	// MaxFailedLogins is the failed-attempt count at which the account locks.
	MaxFailedLogins = 5

	// LockoutDuration is how long an account stays locked after too many
	// failed logins.
	LockoutDuration = 15 * time.Minute

	// MaxResetRequests is the number of password-reset requests allowed
	// within a single rolling ResetRequestWindow.
	MaxResetRequests = 5

	// ResetRequestWindow is the rolling window for reset-request throttling,
	// anchored at the last accepted request rather than calendar days.
	ResetRequestWindow = 24 * time.Hour

	// VerificationCodeTTL is the lifetime of an email verification code.
	VerificationCodeTTL = 24 * time.Hour

	// ResetTokenTTL is the lifetime of a password-reset token.
	ResetTokenTTL = time.Hour

	// SessionTokenTTL is the lifetime of an issued session token.
	SessionTokenTTL = 7 * 24 * time.Hour

	// opaqueTokenBytes is the entropy of verification codes and reset tokens;
	// hex encoding doubles it to 32 characters on the wire.
	opaqueTokenBytes = 16
)
