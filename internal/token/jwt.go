package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dtroode/journal-auth/internal/model"
)

const (
	typeSession = "session"
	typePending = "pending"
)

// Claims represents the JWT payload of a session or pending-2FA token.
type Claims struct {
	jwt.RegisteredClaims
	Email            string `json:"email"`
	Name             string `json:"name"`
	EmailVerified    bool   `json:"emailVerified"`
	TwoFactorEnabled bool   `json:"twoFactorEnabled"`
	TwoFactorDone    bool   `json:"twoFactorDone"`
	IsAdmin          bool   `json:"isAdmin"`
	TokenType        string `json:"typ"`
}

// JWT implements SessionIssuer backed by symmetric HMAC.
type JWT struct {
	secretKey []byte
	now       func() time.Time
}

// Option configures a JWT issuer.
type Option func(*JWT)

// WithClock overrides the time source used for signing and validation.
func WithClock(now func() time.Time) Option {
	return func(j *JWT) {
		j.now = now
	}
}

// NewJWT creates a new session issuer with the provided secret key.
func NewJWT(secretKey string, opts ...Option) *JWT {
	j := &JWT{secretKey: []byte(secretKey), now: time.Now}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

var _ model.SessionIssuer = (*JWT)(nil)

// Sign stamps issued-at and expiry at now+ttl and signs the claims.
func (j *JWT) Sign(claims model.SessionClaims, ttl time.Duration) (string, error) {
	now := j.now()
	tokenType := typeSession
	if claims.Pending() {
		tokenType = typePending
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email:            claims.Email,
		Name:             claims.Name,
		EmailVerified:    claims.EmailVerified,
		TwoFactorEnabled: claims.TwoFactorEnabled,
		TwoFactorDone:    claims.TwoFactorDone,
		IsAdmin:          claims.IsAdmin,
		TokenType:        tokenType,
	})

	tokenString, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return tokenString, nil
}

// Verify checks signature, expiry and shape. Every failure is ErrInvalidToken.
func (j *JWT) Verify(tokenString string) (model.SessionClaims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return j.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil || !token.Valid {
		return model.SessionClaims{}, model.ErrInvalidToken
	}
	if claims.Subject == "" {
		return model.SessionClaims{}, model.ErrInvalidToken
	}

	wantType := typeSession
	if !claims.TwoFactorDone {
		wantType = typePending
	}
	if claims.TokenType != wantType {
		return model.SessionClaims{}, model.ErrInvalidToken
	}

	return model.SessionClaims{
		Subject:          claims.Subject,
		Email:            claims.Email,
		Name:             claims.Name,
		EmailVerified:    claims.EmailVerified,
		TwoFactorEnabled: claims.TwoFactorEnabled,
		TwoFactorDone:    claims.TwoFactorDone,
		IsAdmin:          claims.IsAdmin,
		IssuedAt:         claims.IssuedAt.Time,
		ExpiresAt:        claims.ExpiresAt.Time,
	}, nil
}

// VerifySession accepts only completed sessions.
func (j *JWT) VerifySession(tokenString string) (model.SessionClaims, error) {
	claims, err := j.Verify(tokenString)
	if err != nil {
		return model.SessionClaims{}, err
	}
	if claims.Pending() {
		return model.SessionClaims{}, model.ErrInvalidToken
	}
	return claims, nil
}

// VerifyPending accepts only tokens that still await a second factor.
func (j *JWT) VerifyPending(tokenString string) (model.SessionClaims, error) {
	claims, err := j.Verify(tokenString)
	if err != nil {
		return model.SessionClaims{}, err
	}
	if !claims.Pending() {
		return model.SessionClaims{}, model.ErrInvalidToken
	}
	return claims, nil
}
