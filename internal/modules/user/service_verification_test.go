package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyEmailActivatesAndConsumesCode(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	created, err := env.svc.Register(ctx, registerInput("bee@example.com", "09120000001"))
	require.NoError(t, err)

	stored, err := env.repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	code := *stored.VerificationCode

	require.NoError(t, env.svc.VerifyEmail(ctx, code))

	stored, err = env.repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, stored.Status)
	assert.Nil(t, stored.VerificationCode)
	assert.Nil(t, stored.VerificationCodeExpiresAt)

	// The code is single-use: replaying it fails.
	err = env.svc.VerifyEmail(ctx, code)
	assert.ErrorIs(t, err, ErrInvalidVerificationCode)
}

func TestVerifyEmailRejectsUnknownAndEmptyCodes(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	assert.ErrorIs(t, env.svc.VerifyEmail(ctx, ""), ErrInvalidVerificationCode)
	assert.ErrorIs(t, env.svc.VerifyEmail(ctx, "deadbeefdeadbeefdeadbeefdeadbeef"), ErrInvalidVerificationCode)
}

func TestVerifyEmailRejectsExpiredCode(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	created, err := env.svc.Register(ctx, registerInput("bee@example.com", "09120000001"))
	require.NoError(t, err)

	stored, err := env.repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	code := *stored.VerificationCode

	env.clock.Advance(VerificationCodeTTL + time.Second)

	// An expired code reads the same as an unknown one.
	err = env.svc.VerifyEmail(ctx, code)
	assert.ErrorIs(t, err, ErrInvalidVerificationCode)
}

func TestResendVerificationRotatesCode(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	created, err := env.svc.Register(ctx, registerInput("bee@example.com", "09120000001"))
	require.NoError(t, err)

	before, err := env.repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	oldCode := *before.VerificationCode

	env.clock.Advance(time.Hour)
	require.NoError(t, env.svc.ResendVerification(ctx, "bee@example.com"))

	after, err := env.repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, after.VerificationCode)
	assert.NotEqual(t, oldCode, *after.VerificationCode)
	assert.Equal(t, env.clock.Now().Add(VerificationCodeTTL), *after.VerificationCodeExpiresAt)

	// The old code no longer verifies, the new one does.
	assert.ErrorIs(t, env.svc.VerifyEmail(ctx, oldCode), ErrInvalidVerificationCode)
	assert.NoError(t, env.svc.VerifyEmail(ctx, *after.VerificationCode))

	// One registration email plus one resend.
	assert.Len(t, env.sender.Sent(), 2)
}

func TestResendVerificationUnknownEmail(t *testing.T) {
	env := newTestEnv()

	err := env.svc.ResendVerification(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResendVerificationAlreadyVerified(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	created, err := env.svc.Register(ctx, registerInput("bee@example.com", "09120000001"))
	require.NoError(t, err)
	require.NoError(t, env.repo.UpdateStatus(ctx, created.ID, StatusActive))

	err = env.svc.ResendVerification(ctx, "bee@example.com")
	assert.ErrorIs(t, err, ErrAlreadyVerified)
}
