package user

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/beewords/beewords-api/internal/captcha"
	"github.com/beewords/beewords-api/internal/contextx"
	"github.com/beewords/beewords-api/internal/httpx"
	"github.com/beewords/beewords-api/internal/validation"
)

// Handler holds the dependencies for the user module's HTTP handlers.
type Handler struct {
	service Service
	logger  *slog.Logger
	captcha captcha.Verifier
}

// NewHandler creates a new handler for the user module.
func NewHandler(service Service, logger *slog.Logger, captcha captcha.Verifier) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
		captcha: captcha,
	}
}

// RegisterRoutes sets up the routing for the user module.
// It defines all the API endpoints and connects them to their respective
// handler functions. The authMiddleware guards the session-scoped routes.
func (h *Handler) RegisterRoutes(api huma.API, authMiddleware func(huma.Context, func(huma.Context))) {
	// --- Registration and Verification Routes ---
	huma.Register(api, huma.Operation{
		OperationID:   "auth-register",
		Method:        http.MethodPost,
		Path:          "/auth/register",
		Summary:       "Register a new user",
		DefaultStatus: http.StatusCreated,
	}, h.RegisterHandler)

	huma.Register(api, huma.Operation{
		OperationID: "auth-verify-email",
		Method:      http.MethodPost,
		Path:        "/auth/verify-email",
		Summary:     "Verify an email address with a code",
	}, h.VerifyEmailHandler)

	huma.Register(api, huma.Operation{
		OperationID: "auth-resend-verification",
		Method:      http.MethodPost,
		Path:        "/auth/resend-verification-email",
		Summary:     "Resend the verification email",
	}, h.ResendVerificationHandler)

	// --- Session Routes ---
	huma.Register(api, huma.Operation{
		OperationID: "auth-login",
		Method:      http.MethodPost,
		Path:        "/auth/login",
		Summary:     "Log in a user",
	}, h.LoginHandler)

	huma.Register(api, huma.Operation{
		OperationID: "auth-logout",
		Method:      http.MethodPost,
		Path:        "/auth/logout",
		Summary:     "Log out and revoke the session token",
		Middlewares: huma.Middlewares{authMiddleware},
	}, h.LogoutHandler)

	huma.Register(api, huma.Operation{
		OperationID: "auth-me",
		Method:      http.MethodGet,
		Path:        "/auth/me",
		Summary:     "Get the current user's profile",
		Middlewares: huma.Middlewares{authMiddleware},
	}, h.MeHandler)

	// --- Password Recovery Routes ---
	huma.Register(api, huma.Operation{
		OperationID: "auth-recover-password",
		Method:      http.MethodPost,
		Path:        "/auth/recover-password",
		Summary:     "Initiate password recovery",
	}, h.RecoverPasswordHandler)

	huma.Register(api, huma.Operation{
		OperationID: "auth-reset-password",
		Method:      http.MethodPost,
		Path:        "/auth/reset-password",
		Summary:     "Reset password with a token",
	}, h.ResetPasswordHandler)
}

// MessageResponse is the generic success envelope shared by the flows that
// only need to confirm an action.
type MessageResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

func messageResponse(msg string) *MessageResponse {
	out := &MessageResponse{}
	out.Body.Message = msg
	return out
}

// checkRequest runs the shared per-request gate: struct validation first,
// then the bot check. The captcha token is only spent when the payload is
// otherwise well formed.
func (h *Handler) checkRequest(ctx context.Context, body any, captchaToken string) error {
	if err := validation.ValidateStruct(body); err != nil {
		return httpx.ToProblem(ctx, err)
	}
	remoteIP, _ := ctx.Value(contextx.RemoteIPKey).(string)
	if !h.captcha.Verify(ctx, captchaToken, remoteIP) {
		return httpx.ToProblem(ctx, ErrCaptchaFailed)
	}
	return nil
}
