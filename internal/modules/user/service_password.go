package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/beewords/beewords-api/internal/notification/templates"
)

// RequestPasswordReset starts the password recovery flow.
//
// The response is uniform whether or not the email is registered, so the
// endpoint cannot be used to enumerate accounts. The one exception is the
// rolling-window throttle: a saturated window returns 429, which is
// observable by design.
func (s *service) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Pretend success; no email is sent.
			s.logger.Info("password reset requested for unknown email", "email", email)
			return nil
		}
		s.logger.Error("password reset: find by email failed", "error", err)
		return ErrInternal.WithCause(err)
	}

	// Rolling 24h throttle anchored at the last accepted request. The
	// repository applies the whole window transition in one statement, so
	// concurrent requests cannot under-count.
	now := s.now()
	windowStart := now.Add(-ResetRequestWindow)
	count, err := s.repo.RecordResetRequest(ctx, user.ID, windowStart, now, MaxResetRequests)
	if err != nil {
		if errors.Is(err, ErrTooManyResetRequests) {
			return ErrTooManyResetRequests
		}
		s.logger.Error("password reset: window bookkeeping failed", "error", err)
		return ErrInternal.WithCause(err)
	}

	token := generateToken(opaqueTokenBytes)
	tokenExpiry := now.Add(ResetTokenTTL)
	if err := s.repo.UpdatePasswordResetToken(ctx, user.ID, token, tokenExpiry); err != nil {
		s.logger.Error("password reset: store token failed", "error", err)
		return ErrInternal.WithCause(err)
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", s.config.App.BaseURL, token)
	rendered, renderErr := templates.Render(s.templates, templates.PasswordReset, templates.PasswordResetData{
		Name: user.UserName,
		Link: link,
	})
	s.sendMail(ctx, user.Email, rendered, renderErr)

	s.logger.Info("password reset email sent", "user_id", user.ID, "request_count", count)
	return nil
}

// ResetPassword validates a reset token and stores the new password.
// The new hash and the cleared token travel in one statement, so a token can
// never authorize two resets.
func (s *service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return ErrInvalidResetToken
	}

	now := s.now()
	user, err := s.repo.FindByPasswordResetToken(ctx, token, now)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrInvalidResetToken
		}
		s.logger.Error("reset password: lookup failed", "error", err)
		return ErrInternal.WithCause(err)
	}

	// The lookup already filtered expired tokens; keep the explicit check as
	// a second line of defense against a stale row.
	if user.PasswordResetExpiresAt == nil || now.After(*user.PasswordResetExpiresAt) {
		return ErrInvalidResetToken
	}

	newHash, err := hashPassword(newPassword)
	if err != nil {
		s.logger.Error("reset password: failed to hash password", "error", err)
		return ErrInternal.WithCause(err)
	}

	if err := s.repo.UpdatePassword(ctx, user.ID, newHash); err != nil {
		s.logger.Error("reset password: update failed", "error", err)
		return ErrInternal.WithCause(err)
	}

	s.logger.Info("password reset completed", "user_id", user.ID)
	return nil
}
