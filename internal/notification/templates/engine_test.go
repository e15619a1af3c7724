package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderVerifyEmail(t *testing.T) {
	e := NewEngine()

	out, err := Render(e, VerifyEmail, VerifyEmailData{
		Name: "bee@example.com",
		Link: "http://localhost:3000/verify?code=abc123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Subject)
	assert.Contains(t, out.EmailHTML, "bee@example.com")
	assert.Contains(t, out.EmailHTML, "http://localhost:3000/verify?code=abc123")
}

func TestRenderPasswordReset(t *testing.T) {
	e := NewEngine()

	out, err := Render(e, PasswordReset, PasswordResetData{
		Name: "beeuser",
		Link: "http://localhost:3000/reset-password?token=abc123",
	})
	require.NoError(t, err)
	assert.Contains(t, out.Subject, "assword")
	assert.Contains(t, out.EmailHTML, "http://localhost:3000/reset-password?token=abc123")
}

func TestRenderEscapesHTML(t *testing.T) {
	e := NewEngine()

	out, err := Render(e, ReverifyEmail, ReverifyEmailData{
		Name: "<script>alert(1)</script>",
		Link: "http://localhost:3000/verify?code=abc123",
	})
	require.NoError(t, err)
	assert.NotContains(t, out.EmailHTML, "<script>")
}

func TestRenderUnknownScenario(t *testing.T) {
	e := NewEngine()

	_, err := e.RenderAny("auth.does_not_exist", nil)
	assert.Error(t, err)
}
