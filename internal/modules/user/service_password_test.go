package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestPasswordResetUnknownEmailLooksLikeSuccess(t *testing.T) {
	env := newTestEnv()

	err := env.svc.RequestPasswordReset(context.Background(), "nobody@example.com")
	assert.NoError(t, err)
	assert.Empty(t, env.sender.Sent())
}

func TestRequestPasswordResetStoresTokenAndSendsMail(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	created, err := env.svc.Register(ctx, registerInput("bee@example.com", "09120000001"))
	require.NoError(t, err)

	require.NoError(t, env.svc.RequestPasswordReset(ctx, "bee@example.com"))

	stored, err := env.repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.PasswordResetToken)
	assert.Len(t, *stored.PasswordResetToken, 32)
	require.NotNil(t, stored.PasswordResetExpiresAt)
	assert.Equal(t, env.clock.Now().Add(ResetTokenTTL), *stored.PasswordResetExpiresAt)
	assert.Equal(t, 1, stored.PasswordResetRequestCount)

	// Registration mail plus the reset mail, carrying the token link.
	sent := env.sender.Sent()
	require.Len(t, sent, 2)
	assert.Contains(t, sent[1].HTML, "http://localhost:3000/reset-password?token="+*stored.PasswordResetToken)
}

func TestRequestPasswordResetThrottleSaturates(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.svc.Register(ctx, registerInput("bee@example.com", "09120000001"))
	require.NoError(t, err)

	// The window admits exactly MaxResetRequests requests.
	for i := 0; i < MaxResetRequests; i++ {
		env.clock.Advance(time.Minute)
		require.NoError(t, env.svc.RequestPasswordReset(ctx, "bee@example.com"))
	}

	env.clock.Advance(time.Minute)
	err = env.svc.RequestPasswordReset(ctx, "bee@example.com")
	assert.ErrorIs(t, err, ErrTooManyResetRequests)
}

func TestRequestPasswordResetRejectionKeepsWindowAnchor(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	created, err := env.svc.Register(ctx, registerInput("bee@example.com", "09120000001"))
	require.NoError(t, err)

	for i := 0; i < MaxResetRequests; i++ {
		require.NoError(t, env.svc.RequestPasswordReset(ctx, "bee@example.com"))
	}
	anchorBefore, err := env.repo.FindByID(ctx, created.ID)
	require.NoError(t, err)

	// Rejected requests must not extend the window.
	env.clock.Advance(time.Hour)
	require.ErrorIs(t, env.svc.RequestPasswordReset(ctx, "bee@example.com"), ErrTooManyResetRequests)

	anchorAfter, err := env.repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, *anchorBefore.PasswordResetRequestLastAt, *anchorAfter.PasswordResetRequestLastAt)
}

func TestRequestPasswordResetWindowElapsesAndResets(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	created, err := env.svc.Register(ctx, registerInput("bee@example.com", "09120000001"))
	require.NoError(t, err)

	for i := 0; i < MaxResetRequests; i++ {
		require.NoError(t, env.svc.RequestPasswordReset(ctx, "bee@example.com"))
	}
	require.ErrorIs(t, env.svc.RequestPasswordReset(ctx, "bee@example.com"), ErrTooManyResetRequests)

	// Once the window anchored at the last accepted request elapses, the
	// counter starts over at one.
	env.clock.Advance(ResetRequestWindow + time.Second)
	require.NoError(t, env.svc.RequestPasswordReset(ctx, "bee@example.com"))

	stored, err := env.repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.PasswordResetRequestCount)
}

func TestResetPasswordHappyPath(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	created, err := env.svc.Register(ctx, registerInput("bee@example.com", "09120000001"))
	require.NoError(t, err)
	require.NoError(t, env.repo.UpdateStatus(ctx, created.ID, StatusActive))
	require.NoError(t, env.svc.RequestPasswordReset(ctx, "bee@example.com"))

	stored, err := env.repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	token := *stored.PasswordResetToken

	require.NoError(t, env.svc.ResetPassword(ctx, token, "newsecret456"))

	// The token is consumed, the old password stops working, the new one works.
	stored, err = env.repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.PasswordResetToken)
	assert.Nil(t, stored.PasswordResetExpiresAt)

	_, err = env.svc.Login(ctx, "bee@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	loginToken, err := env.svc.Login(ctx, "bee@example.com", "newsecret456")
	require.NoError(t, err)
	assert.NotEmpty(t, loginToken)

	// Replaying the consumed token fails.
	assert.ErrorIs(t, env.svc.ResetPassword(ctx, token, "again789"), ErrInvalidResetToken)
}

func TestResetPasswordRejectsExpiredToken(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	created, err := env.svc.Register(ctx, registerInput("bee@example.com", "09120000001"))
	require.NoError(t, err)
	require.NoError(t, env.svc.RequestPasswordReset(ctx, "bee@example.com"))

	stored, err := env.repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	token := *stored.PasswordResetToken

	env.clock.Advance(ResetTokenTTL + time.Second)

	err = env.svc.ResetPassword(ctx, token, "newsecret456")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestResetPasswordRejectsEmptyAndUnknownTokens(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	assert.ErrorIs(t, env.svc.ResetPassword(ctx, "", "newsecret456"), ErrInvalidResetToken)
	assert.ErrorIs(t, env.svc.ResetPassword(ctx, "deadbeefdeadbeefdeadbeefdeadbeef", "newsecret456"), ErrInvalidResetToken)
}
