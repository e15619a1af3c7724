package templates

// VerifyEmailData holds variables for the auth.verify_email scenario.
type VerifyEmailData struct {
	Name string
	Link string
}

// VerifyEmail is the typed handle for the auth.verify_email template.
var VerifyEmail = Expect[VerifyEmailData]("auth.verify_email")

// ReverifyEmailData holds variables for re-sending a verification link.
type ReverifyEmailData struct {
	Name string
	Link string
}

// ReverifyEmail is the typed handle for the auth.reverify_email template.
var ReverifyEmail = Expect[ReverifyEmailData]("auth.reverify_email")

// PasswordResetData holds variables for the auth.password_reset scenario.
type PasswordResetData struct {
	Name string
	Link string
}

// PasswordReset is the typed handle for the auth.password_reset template.
var PasswordReset = Expect[PasswordResetData]("auth.password_reset")
