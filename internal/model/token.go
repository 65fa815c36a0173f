package model

import "time"

// SessionIssuer signs and verifies session tokens.
type SessionIssuer interface {
	Sign(claims SessionClaims, ttl time.Duration) (string, error)
	// Verify returns ErrInvalidToken for any bad, expired or tampered token.
	Verify(token string) (SessionClaims, error)
	VerifySession(token string) (SessionClaims, error)
	VerifyPending(token string) (SessionClaims, error)
}

// SessionClaims is the identity and verification state carried in a signed token.
type SessionClaims struct {
	Subject          string
	Email            string
	Name             string
	EmailVerified    bool
	TwoFactorEnabled bool
	TwoFactorDone    bool
	IsAdmin          bool
	IssuedAt         time.Time
	ExpiresAt        time.Time
}

// Pending reports whether the claims still await a second factor.
func (c SessionClaims) Pending() bool {
	return !c.TwoFactorDone
}
