// Package opaque generates random single-use tokens and the digests that are
// stored in their place.
package opaque

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"
)

// DefaultTokenBytes is the entropy of email link tokens.
const DefaultTokenBytes = 32

var otpModulus = big.NewInt(1_000_000)

// RandomToken returns n random bytes hex-encoded.
func RandomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// RandomOTP returns a zero-padded six digit code.
func RandomOTP() (string, error) {
	n, err := rand.Int(rand.Reader, otpModulus)
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// BackupCode returns a recovery code formatted as xxxx-xxxx.
func BackupCode() (string, error) {
	raw, err := RandomToken(4)
	if err != nil {
		return "", err
	}
	return raw[:4] + "-" + raw[4:], nil
}

// Hash returns the hex SHA-256 digest of raw.
func Hash(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// Equal compares two digests in constant time.
func Equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
