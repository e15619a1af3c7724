package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loginForm struct {
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=6"`
	RecaptchaToken string `json:"recaptchaToken" validate:"required"`
}

func TestValidateStructPasses(t *testing.T) {
	form := loginForm{Email: "bee@example.com", Password: "secret123", RecaptchaToken: "tok"}
	assert.NoError(t, ValidateStruct(&form))
}

func TestValidateStructUsesJSONFieldNames(t *testing.T) {
	form := loginForm{Email: "not-an-email", Password: "short", RecaptchaToken: ""}
	err := ValidateStruct(&form)
	require.Error(t, err)

	verr, ok := err.(*ValidationError)
	require.True(t, ok)

	fields := verr.Fields()
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
	assert.Contains(t, fields, "recaptchaToken")
	assert.Equal(t, []string{"must be a valid email"}, fields["email"])
	assert.Equal(t, []string{"must be at least 6 characters"}, fields["password"])
	assert.Equal(t, []string{"is required"}, fields["recaptchaToken"])
}

func TestValidationErrorProblemShape(t *testing.T) {
	form := loginForm{}
	err := ValidateStruct(&form)
	require.Error(t, err)

	verr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "ErrValidation", verr.ProblemCode())
	assert.Equal(t, 400, verr.ProblemStatus())
	assert.NotEmpty(t, verr.ProblemDetail())
}
