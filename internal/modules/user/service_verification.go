package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/beewords/beewords-api/internal/notification/templates"
)

// VerifyEmail activates the account matching an unexpired verification code.
//
// The lookup filters expired rows, so an expired code and an unknown (or
// already consumed) code produce the same error on purpose: the caller cannot
// learn which case occurred. Activation and clearing of the code happen in a
// single statement, which is what makes re-verification with the same code
// fail the second time.
func (s *service) VerifyEmail(ctx context.Context, code string) error {
	if code == "" {
		return ErrInvalidVerificationCode
	}

	user, err := s.repo.FindByVerificationCode(ctx, code, s.now())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrInvalidVerificationCode
		}
		s.logger.Error("verify email: lookup failed", "error", err)
		return ErrInternal.WithCause(err)
	}

	if err := s.repo.MarkVerified(ctx, user.ID); err != nil {
		s.logger.Error("verify email: mark verified failed", "error", err)
		return ErrInternal.WithCause(err)
	}

	s.logger.Info("email verified", "user_id", user.ID)
	return nil
}

// ResendVerification issues a fresh verification code to an unverified
// account, overwriting any prior code, and sends a new verification email.
// Unlike password recovery this flow has no rate limit.
func (s *service) ResendVerification(ctx context.Context, email string) error {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		s.logger.Error("resend verification: find by email failed", "error", err)
		return ErrInternal.WithCause(err)
	}

	if user.Status == StatusActive {
		return ErrAlreadyVerified
	}

	code := generateToken(opaqueTokenBytes)
	codeExpiry := s.now().Add(VerificationCodeTTL)
	if err := s.repo.UpdateVerificationCode(ctx, user.ID, code, codeExpiry); err != nil {
		s.logger.Error("resend verification: update code failed", "error", err)
		return ErrInternal.WithCause(err)
	}

	link := fmt.Sprintf("%s/verify?code=%s", s.config.App.BaseURL, code)
	rendered, renderErr := templates.Render(s.templates, templates.ReverifyEmail, templates.ReverifyEmailData{
		Name: user.UserName,
		Link: link,
	})
	s.sendMail(ctx, user.Email, rendered, renderErr)

	s.logger.Info("verification email re-sent", "user_id", user.ID)
	return nil
}
