package user

import (
	"context"

	"github.com/beewords/beewords-api/internal/httpx"
)

// --- DTOs ---

// VerifyEmailRequest defines the structure for the email verification request.
type VerifyEmailRequest struct {
	Body struct {
		Code           string `json:"code" validate:"required,len=32,alphanum"`
		RecaptchaToken string `json:"recaptchaToken" validate:"required"`
	}
}

// ResendVerificationRequest defines the structure for requesting a fresh
// verification email.
type ResendVerificationRequest struct {
	Body struct {
		Email          string `json:"email" validate:"required,email"`
		RecaptchaToken string `json:"recaptchaToken" validate:"required"`
	}
}

// --- Handlers ---

// VerifyEmailHandler consumes a verification code and activates the account.
func (h *Handler) VerifyEmailHandler(ctx context.Context, input *VerifyEmailRequest) (*MessageResponse, error) {
	h.logger.Info("handling email verification request")

	if err := h.checkRequest(ctx, &input.Body, input.Body.RecaptchaToken); err != nil {
		return nil, err
	}

	if err := h.service.VerifyEmail(ctx, input.Body.Code); err != nil {
		h.logger.Warn("email verification failed", "error", err)
		return nil, httpx.ToProblem(ctx, err)
	}

	return messageResponse("Email verified successfully. You can now log in."), nil
}

// ResendVerificationHandler issues a new verification code by email.
func (h *Handler) ResendVerificationHandler(ctx context.Context, input *ResendVerificationRequest) (*MessageResponse, error) {
	h.logger.Info("handling resend verification request", "email", input.Body.Email)

	if err := h.checkRequest(ctx, &input.Body, input.Body.RecaptchaToken); err != nil {
		return nil, err
	}

	if err := h.service.ResendVerification(ctx, input.Body.Email); err != nil {
		h.logger.Warn("resend verification failed", "email", input.Body.Email, "error", err)
		return nil, httpx.ToProblem(ctx, err)
	}

	return messageResponse("A new verification email has been sent"), nil
}
