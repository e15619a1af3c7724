package user

import (
	"context"

	"github.com/beewords/beewords-api/internal/contextx"
	"github.com/beewords/beewords-api/internal/httpx"
)

// --- DTOs (Data Transfer Objects) ---

// RegisterRequest defines the structure for the user registration request body.
type RegisterRequest struct {
	Body struct {
		UserName       string  `json:"userName" validate:"required,alphanum,min=3,max=30"`
		Email          string  `json:"email" validate:"required,email"`
		Mobile         string  `json:"mobile" validate:"required,numeric,min=10,max=15"`
		Password       string  `json:"password" validate:"required,min=6"`
		Language       string  `json:"language,omitempty" validate:"omitempty,oneof=en fa"`
		Age            *int    `json:"age,omitempty" validate:"omitempty,min=1,max=120"`
		ImageProfile   *string `json:"imageProfile,omitempty" validate:"omitempty,max=500"`
		RecaptchaToken string  `json:"recaptchaToken" validate:"required"`
	}
}

// RegisterResponse defines the structure for a successful registration response.
type RegisterResponse struct {
	Body struct {
		Message string `json:"message"`
		UserID  int64  `json:"userId"`
	}
}

// LoginRequest defines the structure for the user login request body.
type LoginRequest struct {
	Body struct {
		Email          string `json:"email" validate:"required,email"`
		Password       string `json:"password" validate:"required"`
		RecaptchaToken string `json:"recaptchaToken" validate:"required"`
	}
}

// LoginResponse defines the structure for a successful login response.
type LoginResponse struct {
	Body struct {
		Message string `json:"message"`
		Token   string `json:"token"`
	}
}

// --- Handlers ---

// RegisterHandler handles the user registration endpoint.
func (h *Handler) RegisterHandler(ctx context.Context, input *RegisterRequest) (*RegisterResponse, error) {
	h.logger.Info("handling user registration request", "email", input.Body.Email)

	if err := h.checkRequest(ctx, &input.Body, input.Body.RecaptchaToken); err != nil {
		return nil, err
	}

	user, err := h.service.Register(ctx, RegisterInput{
		UserName:     input.Body.UserName,
		Email:        input.Body.Email,
		Mobile:       input.Body.Mobile,
		Password:     input.Body.Password,
		Language:     input.Body.Language,
		Age:          input.Body.Age,
		ImageProfile: input.Body.ImageProfile,
	})
	if err != nil {
		h.logger.Warn("registration failed", "email", input.Body.Email, "error", err)
		return nil, httpx.ToProblem(ctx, err)
	}

	out := &RegisterResponse{}
	out.Body.Message = "Registration successful. Please check your email to verify your account."
	out.Body.UserID = user.ID
	return out, nil
}

// LoginHandler handles the user login endpoint.
func (h *Handler) LoginHandler(ctx context.Context, input *LoginRequest) (*LoginResponse, error) {
	h.logger.Info("handling user login request", "email", input.Body.Email)

	if err := h.checkRequest(ctx, &input.Body, input.Body.RecaptchaToken); err != nil {
		return nil, err
	}

	token, err := h.service.Login(ctx, input.Body.Email, input.Body.Password)
	if err != nil {
		h.logger.Warn("login attempt failed", "email", input.Body.Email, "error", err)
		return nil, httpx.ToProblem(ctx, err)
	}

	out := &LoginResponse{}
	out.Body.Message = "Login successful"
	out.Body.Token = token
	return out, nil
}

// LogoutRequest has no body; the session token travels in the
// Authorization header and is checked by the auth middleware.
type LogoutRequest struct{}

// LogoutHandler revokes the current session token.
func (h *Handler) LogoutHandler(ctx context.Context, _ *LogoutRequest) (*MessageResponse, error) {
	claims, _ := ctx.Value(contextx.SessionClaimsKey).(*SessionClaims)
	if claims == nil {
		return nil, httpx.ToProblem(ctx, ErrInvalidToken)
	}

	if err := h.service.Logout(ctx, claims); err != nil {
		h.logger.Error("logout failed", "user_id", claims.UserID, "error", err)
		return nil, httpx.ToProblem(ctx, err)
	}

	return messageResponse("Logged out successfully"), nil
}
