// Package password hashes and verifies account passwords with bcrypt.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used when none is configured.
const DefaultCost = 12

// MaxLength is the longest password bcrypt accepts.
const MaxLength = 72

// dummyPassword is hashed once so that lookups of unknown accounts pay the
// same bcrypt cost as a wrong password.
const dummyPassword = "dummy-password-for-timing"

// Hasher hashes passwords at a fixed work factor.
type Hasher struct {
	cost      int
	dummyHash []byte
}

// NewHasher creates a Hasher. Costs outside bcrypt's range fall back to DefaultCost.
func NewHasher(cost int) (*Hasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte(dummyPassword), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy hash: %w", err)
	}

	return &Hasher{cost: cost, dummyHash: dummy}, nil
}

// Hash returns a salted, self-describing bcrypt hash of password.
func (h *Hasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether password matches hash. Passwords over MaxLength
// never match.
func (h *Hasher) Verify(password, hash string) bool {
	if len(password) > MaxLength {
		_ = bcrypt.CompareHashAndPassword(h.dummyHash, []byte(password[:MaxLength]))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// VerifyOrDummy verifies password against hash, or against the dummy hash
// when hash is empty. The dummy path always reports false.
func (h *Hasher) VerifyOrDummy(password, hash string) bool {
	if hash == "" {
		if len(password) > MaxLength {
			password = password[:MaxLength]
		}
		_ = bcrypt.CompareHashAndPassword(h.dummyHash, []byte(password))
		return false
	}
	return h.Verify(password, hash)
}
