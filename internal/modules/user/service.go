package user

import (
	"context"
	"log/slog"
	"time"

	"github.com/beewords/beewords-api/internal/config"
	"github.com/beewords/beewords-api/internal/notification"
	"github.com/beewords/beewords-api/internal/notification/templates"
	"github.com/beewords/beewords-api/internal/session"
)

// RegisterInput carries the validated registration payload into the service.
type RegisterInput struct {
	UserName     string
	Email        string
	Mobile       string
	Password     string
	Language     string
	Age          *int
	ImageProfile *string
}

// Service defines the interface for the user module's business logic.
// It orchestrates the flow of data between the handlers and the repository,
// and contains the core account-security rules.
type Service interface {
	// Registration and email verification
	Register(ctx context.Context, input RegisterInput) (*User, error)
	VerifyEmail(ctx context.Context, code string) error
	ResendVerification(ctx context.Context, email string) error

	// Login, logout, introspection
	Login(ctx context.Context, email, password string) (string, error) // Returns a session token
	Logout(ctx context.Context, claims *SessionClaims) error
	GetProfile(ctx context.Context, userID int64) (*User, error)

	// Password recovery
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// service implements the Service interface.
type service struct {
	repo      Repository
	logger    *slog.Logger
	config    *config.Config
	mailer    notification.Sender
	templates *templates.Engine
	tokens    *TokenIssuer
	revoker   session.Revoker
	now       func() time.Time
}

// Config holds the dependencies for the user service.
type Config struct {
	Repo      Repository
	Logger    *slog.Logger
	Config    *config.Config
	Mailer    notification.Sender
	Templates *templates.Engine
	Tokens    *TokenIssuer
	Revoker   session.Revoker

	// Now overrides the clock, mainly for tests. Defaults to time.Now.
	Now func() time.Time
}

// NewService creates a new user service with the given dependencies.
func NewService(cfg *Config) Service {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:      cfg.Repo,
		logger:    cfg.Logger,
		config:    cfg.Config,
		mailer:    cfg.Mailer,
		templates: cfg.Templates,
		tokens:    cfg.Tokens,
		revoker:   cfg.Revoker,
		now:       now,
	}
}

// sendMail delivers a rendered template best-effort: a failure is logged and
// the state change that triggered the mail is kept.
func (s *service) sendMail(ctx context.Context, to string, rendered templates.Rendered, renderErr error) {
	if renderErr != nil {
		s.logger.Error("failed to render email template", "error", renderErr, "to", to)
		return
	}
	if err := s.mailer.Send(ctx, to, rendered.Subject, rendered.EmailHTML); err != nil {
		s.logger.Error("failed to send email", "error", err, "to", to)
	}
}
