package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/journal-auth/internal/apierror"
	"github.com/dtroode/journal-auth/internal/model"
)

// Sessions issues signed session tokens from user records.
type Sessions struct {
	issuer     model.SessionIssuer
	ttl        time.Duration
	pendingTTL time.Duration
}

// NewSessions creates Sessions with the full and pending token lifetimes.
func NewSessions(issuer model.SessionIssuer, ttl, pendingTTL time.Duration) *Sessions {
	return &Sessions{issuer: issuer, ttl: ttl, pendingTTL: pendingTTL}
}

// Full issues a completed session for user.
func (s *Sessions) Full(user model.User) (model.Session, error) {
	return s.issue(user, true, s.ttl)
}

// Pending issues a token that can only be exchanged for a full session
// after a second factor.
func (s *Sessions) Pending(user model.User) (model.Session, error) {
	return s.issue(user, false, s.pendingTTL)
}

func (s *Sessions) issue(user model.User, done bool, ttl time.Duration) (model.Session, error) {
	token, err := s.issuer.Sign(claimsFor(user, done), ttl)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to sign session: %w", err)
	}
	return model.Session{Token: token, TTL: ttl, Pending: !done}, nil
}

func claimsFor(user model.User, done bool) model.SessionClaims {
	return model.SessionClaims{
		Subject:          user.ID.String(),
		Email:            user.Email,
		Name:             user.Name,
		EmailVerified:    user.EmailVerified,
		TwoFactorEnabled: user.TwoFactorEnabled,
		TwoFactorDone:    done,
		IsAdmin:          user.IsAdmin,
	}
}

func subjectID(claims model.SessionClaims) (uuid.UUID, error) {
	id, err := uuid.Parse(claims.Subject)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, apierror.NewUnauthorized(apierror.MsgNotAuthenticated)
	}
	return id, nil
}
