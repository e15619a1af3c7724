package user

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/beewords/beewords-api/internal/config"
	"github.com/beewords/beewords-api/internal/notification/templates"
)

// testClock is a settable clock shared between the service under test and
// assertions, so lockout and throttle windows can be crossed instantly.
type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// fakeRepo is an in-memory Repository that mirrors the conditional update
// semantics of the SQL implementation, including the rolling-window counter.
type fakeRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{nextID: 1, users: make(map[int64]*User)}
}

func (r *fakeRepo) Create(_ context.Context, u *User) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return 0, ErrEmailExists
		}
		if existing.Mobile == u.Mobile {
			return 0, ErrMobileExists
		}
	}
	u.ID = r.nextID
	r.nextID++
	cp := *u
	r.users[u.ID] = &cp
	return u.ID, nil
}

func (r *fakeRepo) get(id int64) (*User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func (r *fakeRepo) FindByID(_ context.Context, id int64) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.get(id)
	if err != nil {
		return nil, err
	}
	cp := *u
	return &cp, nil
}

func (r *fakeRepo) FindByEmail(_ context.Context, email string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) FindByMobile(_ context.Context, mobile string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Mobile == mobile {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) FindByVerificationCode(_ context.Context, code string, now time.Time) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.VerificationCode != nil && *u.VerificationCode == code &&
			u.VerificationCodeExpiresAt != nil && now.Before(*u.VerificationCodeExpiresAt) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) FindByPasswordResetToken(_ context.Context, token string, now time.Time) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.PasswordResetToken != nil && *u.PasswordResetToken == token &&
			u.PasswordResetExpiresAt != nil && now.Before(*u.PasswordResetExpiresAt) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) UpdateStatus(_ context.Context, id int64, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.get(id)
	if err != nil {
		return err
	}
	u.Status = status
	return nil
}

func (r *fakeRepo) UpdateVerificationCode(_ context.Context, id int64, code string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.get(id)
	if err != nil {
		return err
	}
	u.VerificationCode = &code
	u.VerificationCodeExpiresAt = &expiresAt
	return nil
}

func (r *fakeRepo) MarkVerified(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.get(id)
	if err != nil {
		return err
	}
	u.Status = StatusActive
	u.VerificationCode = nil
	u.VerificationCodeExpiresAt = nil
	return nil
}

func (r *fakeRepo) IncrementFailedLogin(_ context.Context, id int64, at time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.get(id)
	if err != nil {
		return 0, err
	}
	u.FailedLoginAttempts++
	u.LastFailedLoginAt = &at
	return u.FailedLoginAttempts, nil
}

func (r *fakeRepo) LockAccount(_ context.Context, id int64, until time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.get(id)
	if err != nil {
		return err
	}
	u.LockedUntil = &until
	return nil
}

func (r *fakeRepo) ResetFailedLogin(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.get(id)
	if err != nil {
		return err
	}
	u.FailedLoginAttempts = 0
	u.LastFailedLoginAt = nil
	u.LockedUntil = nil
	return nil
}

func (r *fakeRepo) RecordResetRequest(_ context.Context, id int64, windowStart, at time.Time, maxRequests int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.get(id)
	if err != nil {
		return 0, err
	}
	switch {
	case u.PasswordResetRequestLastAt == nil, !u.PasswordResetRequestLastAt.After(windowStart):
		// Window elapsed: a fresh window starts with this request.
		u.PasswordResetRequestCount = 1
		u.PasswordResetRequestLastAt = &at
	case u.PasswordResetRequestCount < maxRequests:
		u.PasswordResetRequestCount++
		u.PasswordResetRequestLastAt = &at
	default:
		// Saturated window: rejection must not move the anchor.
		return 0, ErrTooManyResetRequests
	}
	return u.PasswordResetRequestCount, nil
}

func (r *fakeRepo) UpdatePasswordResetToken(_ context.Context, id int64, token string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.get(id)
	if err != nil {
		return err
	}
	u.PasswordResetToken = &token
	u.PasswordResetExpiresAt = &expiresAt
	return nil
}

func (r *fakeRepo) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.get(id)
	if err != nil {
		return err
	}
	u.PasswordHash = passwordHash
	u.PasswordResetToken = nil
	u.PasswordResetExpiresAt = nil
	return nil
}

// sentMail records one delivered message.
type sentMail struct {
	To      string
	Subject string
	HTML    string
}

// fakeSender captures outgoing mail instead of talking to SMTP.
type fakeSender struct {
	mu   sync.Mutex
	sent []sentMail
}

func (s *fakeSender) Send(_ context.Context, to, subject, htmlBody string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sentMail{To: to, Subject: subject, HTML: htmlBody})
	return nil
}

func (s *fakeSender) Sent() []sentMail {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]sentMail, len(s.sent))
	copy(out, s.sent)
	return out
}

// fakeRevoker is an in-memory session denylist.
type fakeRevoker struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func newFakeRevoker() *fakeRevoker {
	return &fakeRevoker{revoked: make(map[string]time.Duration)}
}

func (r *fakeRevoker) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ttl <= 0 {
		return nil
	}
	r.revoked[tokenID] = ttl
	return nil
}

func (r *fakeRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.revoked[tokenID]
	return ok, nil
}

// testEnv bundles a service with the fakes behind it.
type testEnv struct {
	svc     Service
	repo    *fakeRepo
	sender  *fakeSender
	revoker *fakeRevoker
	clock   *testClock
	tokens  *TokenIssuer
}

func newTestEnv() *testEnv {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := newTestClock()
	repo := newFakeRepo()
	sender := &fakeSender{}
	revoker := newFakeRevoker()
	tokens := NewTokenIssuer("test-secret", "beewords.ir", "beewords-app", logger)
	tokens.now = clock.Now

	cfg := &config.Config{}
	cfg.App.BaseURL = "http://localhost:3000"

	svc := NewService(&Config{
		Repo:      repo,
		Logger:    logger,
		Config:    cfg,
		Mailer:    sender,
		Templates: templates.NewEngine(),
		Tokens:    tokens,
		Revoker:   revoker,
		Now:       clock.Now,
	})

	return &testEnv{
		svc:     svc,
		repo:    repo,
		sender:  sender,
		revoker: revoker,
		clock:   clock,
		tokens:  tokens,
	}
}

func registerInput(email, mobile string) RegisterInput {
	return RegisterInput{
		UserName: "beeuser",
		Email:    email,
		Mobile:   mobile,
		Password: "secret123",
	}
}
