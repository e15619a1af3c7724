package user

import (
	"context"
	"time"

	"github.com/beewords/beewords-api/internal/contextx"
	"github.com/beewords/beewords-api/internal/httpx"
)

// --- DTOs ---

// MeRequest has no body; identity comes from the verified session token.
type MeRequest struct{}

// MeResponse defines the structure for the current user's profile.
type MeResponse struct {
	Body struct {
		ID           int64     `json:"id"`
		UserName     string    `json:"userName"`
		Email        string    `json:"email"`
		Mobile       string    `json:"mobile"`
		Role         Role      `json:"role"`
		Status       Status    `json:"status"`
		Language     string    `json:"language"`
		Age          *int      `json:"age,omitempty"`
		ImageProfile *string   `json:"imageProfile,omitempty"`
		CreatedAt    time.Time `json:"createdAt"`
	}
}

// --- Handlers ---

// MeHandler returns the profile of the authenticated user.
func (h *Handler) MeHandler(ctx context.Context, _ *MeRequest) (*MeResponse, error) {
	userID, ok := ctx.Value(contextx.UserIDKey).(int64)
	if !ok {
		return nil, httpx.ToProblem(ctx, ErrInvalidToken)
	}

	user, err := h.service.GetProfile(ctx, userID)
	if err != nil {
		h.logger.Error("failed to load profile", "user_id", userID, "error", err)
		return nil, httpx.ToProblem(ctx, err)
	}

	out := &MeResponse{}
	out.Body.ID = user.ID
	out.Body.UserName = user.UserName
	out.Body.Email = user.Email
	out.Body.Mobile = user.Mobile
	out.Body.Role = user.Role
	out.Body.Status = user.Status
	out.Body.Language = user.Language
	out.Body.Age = user.Age
	out.Body.ImageProfile = user.ImageProfile
	out.Body.CreatedAt = user.CreatedAt
	return out, nil
}
