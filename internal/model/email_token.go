package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EmailTokenType tags the purpose of an emailed token.
type EmailTokenType string

const (
	// EmailTokenVerifyEmail confirms ownership of the registration address.
	EmailTokenVerifyEmail EmailTokenType = "verify_email"
	// EmailTokenResetPassword authorizes a password change.
	EmailTokenResetPassword EmailTokenType = "reset_password"
	// EmailTokenOTP is the emailed second-factor code.
	EmailTokenOTP EmailTokenType = "otp_2fa"
)

// EmailTokenStore persists hashed single-use tokens.
type EmailTokenStore interface {
	Create(ctx context.Context, token EmailToken) error
	GetByHash(ctx context.Context, hash string, tokenType EmailTokenType) (EmailToken, error)
	// GetLatestUnused returns the newest unused token of the type for the user.
	GetLatestUnused(ctx context.Context, userID uuid.UUID, tokenType EmailTokenType) (EmailToken, error)
	// Consume flips used to true and reports whether this call did it.
	Consume(ctx context.Context, id uuid.UUID) (bool, error)
	// InvalidateUnused marks every unused token of the type for the user as used.
	InvalidateUnused(ctx context.Context, userID uuid.UUID, tokenType EmailTokenType) error
}

// EmailToken is a token delivered by email. Only the hash is ever stored.
type EmailToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Email     string
	TokenHash string
	Type      EmailTokenType
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}

// Usable reports whether the token may still be redeemed at now.
func (t EmailToken) Usable(now time.Time) bool {
	return !t.Used && now.Before(t.ExpiresAt)
}
