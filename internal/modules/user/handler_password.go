package user

import (
	"context"
	"errors"

	"github.com/beewords/beewords-api/internal/httpx"
)

// --- DTOs ---

// RecoverPasswordRequest defines the structure for initiating password recovery.
type RecoverPasswordRequest struct {
	Body struct {
		Email          string `json:"email" validate:"required,email"`
		RecaptchaToken string `json:"recaptchaToken" validate:"required"`
	}
}

// ResetPasswordRequest defines the structure for finalizing a password reset.
type ResetPasswordRequest struct {
	Body struct {
		Token          string `json:"token" validate:"required,len=32,alphanum"`
		Password       string `json:"password" validate:"required,min=6"`
		RecaptchaToken string `json:"recaptchaToken" validate:"required"`
	}
}

// --- Handlers ---

// RecoverPasswordHandler handles the request to initiate password recovery.
//
// To prevent email enumeration, every outcome except a saturated rate-limit
// window looks like success: unknown emails, and even internal failures, get
// the same response. The rate limit is the one deliberate exception since the
// window only fills for accounts that exist and asked repeatedly.
func (h *Handler) RecoverPasswordHandler(ctx context.Context, input *RecoverPasswordRequest) (*MessageResponse, error) {
	h.logger.Info("handling password recovery request", "email", input.Body.Email)

	if err := h.checkRequest(ctx, &input.Body, input.Body.RecaptchaToken); err != nil {
		return nil, err
	}

	if err := h.service.RequestPasswordReset(ctx, input.Body.Email); err != nil {
		if errors.Is(err, ErrTooManyResetRequests) {
			return nil, httpx.ToProblem(ctx, err)
		}
		h.logger.Error("password recovery failed", "email", input.Body.Email, "error", err)
	}

	return messageResponse("If the email exists, a password reset link has been sent."), nil
}

// ResetPasswordHandler handles the request to set a new password using a
// reset token.
func (h *Handler) ResetPasswordHandler(ctx context.Context, input *ResetPasswordRequest) (*MessageResponse, error) {
	h.logger.Info("handling reset password request")

	if err := h.checkRequest(ctx, &input.Body, input.Body.RecaptchaToken); err != nil {
		return nil, err
	}

	if err := h.service.ResetPassword(ctx, input.Body.Token, input.Body.Password); err != nil {
		h.logger.Warn("password reset failed", "error", err)
		return nil, httpx.ToProblem(ctx, err)
	}

	return messageResponse("Password has been reset successfully. You can now log in with your new password."), nil
}
