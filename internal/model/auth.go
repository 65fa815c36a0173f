package model

import "time"

// RegisterInput is a registration form.
type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// PasswordReset completes a password reset.
type PasswordReset struct {
	Token           string
	Password        string
	ConfirmPassword string
}

// Session is a signed token ready to be handed to the client.
type Session struct {
	Token   string
	TTL     time.Duration
	Pending bool
}

// LoginResult is the outcome of a successful password check. When
// RequiresTwoFactor is set, Session is a pending token.
type LoginResult struct {
	RequiresTwoFactor bool
	Session           Session
}

// TwoFactorSetup is a proposed, not yet stored, TOTP enrollment.
type TwoFactorSetup struct {
	Secret    string
	URI       string
	QRDataURL string
}
