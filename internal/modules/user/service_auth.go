package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/beewords/beewords-api/internal/notification/templates"
)

// Register handles the business logic for creating a new account.
//
// Creation and the verification email are a two-phase operation: if the email
// fails to send, the account still exists in pending state and the user can
// ask for a resend.
func (s *service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	// Duplicate pre-checks. The database unique constraints remain the
	// authoritative guard for concurrent registrations; Create maps a
	// constraint violation to the same Conflict errors.
	if _, err := s.repo.FindByEmail(ctx, input.Email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, ErrNotFound) {
		s.logger.Error("register: find by email failed", "error", err)
		return nil, ErrInternal.WithCause(err)
	}
	if _, err := s.repo.FindByMobile(ctx, input.Mobile); err == nil {
		return nil, ErrMobileExists
	} else if !errors.Is(err, ErrNotFound) {
		s.logger.Error("register: find by mobile failed", "error", err)
		return nil, ErrInternal.WithCause(err)
	}

	hashedPassword, err := hashPassword(input.Password)
	if err != nil {
		s.logger.Error("register: failed to hash password", "error", err)
		return nil, ErrInternal.WithCause(err)
	}

	language := input.Language
	if language == "" {
		language = "en"
	}

	now := s.now()
	code := generateToken(opaqueTokenBytes)
	codeExpiry := now.Add(VerificationCodeTTL)

	newUser := &User{
		UserName:                  input.UserName,
		Role:                      RoleUser,
		Email:                     input.Email,
		Mobile:                    input.Mobile,
		Language:                  language,
		Age:                       input.Age,
		ImageProfile:              input.ImageProfile,
		PasswordHash:              hashedPassword,
		Status:                    StatusPending,
		VerificationCode:          &code,
		VerificationCodeExpiresAt: &codeExpiry,
		CreatedAt:                 now,
	}

	if _, err := s.repo.Create(ctx, newUser); err != nil {
		if errors.Is(err, ErrEmailExists) || errors.Is(err, ErrMobileExists) {
			return nil, err
		}
		s.logger.Error("register: failed to create user", "error", err)
		return nil, ErrInternal.WithCause(err)
	}

	s.logger.Info("user registered", "user_id", newUser.ID)

	link := fmt.Sprintf("%s/verify?code=%s", s.config.App.BaseURL, code)
	rendered, renderErr := templates.Render(s.templates, templates.VerifyEmail, templates.VerifyEmailData{
		Name: input.Email,
		Link: link,
	})
	s.sendMail(ctx, input.Email, rendered, renderErr)

	return newUser, nil
}

// Login authenticates an account and returns a signed session token.
//
// Order of checks: lockout window first (no counter changes, no password
// check while locked), then the password, then the lifecycle status. The
// suspended status is checked before the generic not-active rejection so the
// more specific message wins.
func (s *service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Same wording as a wrong password so attackers cannot probe
			// for registered emails.
			return "", ErrInvalidCredentials
		}
		s.logger.Error("login: find by email failed", "error", err)
		return "", ErrInternal.WithCause(err)
	}

	now := s.now()
	if user.IsLocked(now) {
		return "", ErrAccountLocked
	}

	if !checkPasswordHash(password, user.PasswordHash) {
		count, incErr := s.repo.IncrementFailedLogin(ctx, user.ID, now)
		if incErr != nil {
			s.logger.Error("login: increment failed attempts failed", "error", incErr)
			return "", ErrInternal.WithCause(incErr)
		}
		if count >= MaxFailedLogins {
			lockedUntil := now.Add(LockoutDuration)
			if lockErr := s.repo.LockAccount(ctx, user.ID, lockedUntil); lockErr != nil {
				s.logger.Error("login: lock account failed", "error", lockErr)
				return "", ErrInternal.WithCause(lockErr)
			}
			s.logger.Warn("account locked after repeated failed logins", "user_id", user.ID)
			return "", ErrAccountLocked
		}
		return "", ErrInvalidCredentials
	}

	if err := s.repo.ResetFailedLogin(ctx, user.ID); err != nil {
		s.logger.Error("login: reset failed attempts failed", "error", err)
		return "", ErrInternal.WithCause(err)
	}

	switch {
	case user.Status == StatusSuspended:
		return "", ErrAccountSuspended
	case user.Status != StatusActive:
		return "", ErrAccountNotVerified
	}

	token, err := s.tokens.CreateToken(user.ID, user.Role)
	if err != nil {
		s.logger.Error("login: failed to sign session token", "error", err)
		return "", ErrInternal.WithCause(err)
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return token, nil
}

// Logout revokes the presented session token for the remainder of its
// lifetime. Tokens are stateless, so revocation is a denylist entry keyed by
// the token's jti claim.
func (s *service) Logout(ctx context.Context, claims *SessionClaims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return ErrInvalidToken
	}
	ttl := claims.ExpiresAt.Time.Sub(s.now())
	if err := s.revoker.Revoke(ctx, claims.ID, ttl); err != nil {
		s.logger.Error("logout: failed to revoke token", "error", err)
		return ErrInternal.WithCause(err)
	}
	s.logger.Info("user logged out", "user_id", claims.UserID)
	return nil
}

// GetProfile returns the account behind a verified session token's user id.
func (s *service) GetProfile(ctx context.Context, userID int64) (*User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		s.logger.Error("get profile: find by id failed", "error", err)
		return nil, ErrInternal.WithCause(err)
	}
	return user, nil
}
