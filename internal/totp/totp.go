// Package totp implements RFC 4226 HOTP and RFC 6238 TOTP over base32
// shared secrets, fixed to SHA1, six digits and a 30 second period so that
// every common authenticator app accepts the enrollment.
package totp

import (
	"bytes"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"image/png"
	"net/url"
	"strconv"
	"time"

	"github.com/pquerna/otp"

	"github.com/dtroode/journal-auth/internal/codec"
)

const (
	// Digits is the code length.
	Digits = 6
	// Period is the time step in seconds.
	Period = 30
	// SecretSize is the number of random bytes in a generated secret.
	SecretSize = 20
	// DefaultWindow is the number of steps accepted on either side of now.
	DefaultWindow = 1
)

const modulus = 1_000_000

// GenerateSecret returns a new random secret, base32-encoded.
func GenerateSecret() (string, error) {
	b := make([]byte, SecretSize)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate totp secret: %w", err)
	}
	return codec.EncodeBase32(b), nil
}

// KeyURI builds the otpauth:// URI authenticator apps import.
func KeyURI(issuer, account, secret string) string {
	q := url.Values{}
	q.Set("secret", secret)
	q.Set("algorithm", "SHA1")
	q.Set("digits", strconv.Itoa(Digits))
	q.Set("period", strconv.Itoa(Period))

	label := url.PathEscape(account)
	if issuer != "" {
		label = url.PathEscape(issuer) + ":" + label
		q.Set("issuer", issuer)
	}

	return "otpauth://totp/" + label + "?" + q.Encode()
}

// HOTP computes the code for counter.
func HOTP(secret []byte, counter uint64) string {
	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], counter)

	mac := hmac.New(sha1.New, secret)
	mac.Write(msg[:])
	sum := mac.Sum(nil)

	offset := sum[len(sum)-1] & 0x0f
	value := binary.BigEndian.Uint32(sum[offset:offset+4]) & 0x7fffffff

	return fmt.Sprintf("%0*d", Digits, value%modulus)
}

// Step returns the time step containing t.
func Step(t time.Time) int64 {
	return t.Unix() / Period
}

// CodeAt returns the code for the base32 secret at t.
func CodeAt(secret string, t time.Time) string {
	return HOTP(codec.DecodeBase32(secret), uint64(Step(t)))
}

// Verify reports whether code matches the secret at any step within window
// steps of t. Malformed secrets and codes never match.
func Verify(code, secret string, t time.Time, window int) bool {
	if !wellFormed(code) {
		return false
	}
	key := codec.DecodeBase32(secret)
	if len(key) == 0 {
		return false
	}

	current := Step(t)
	for i := -window; i <= window; i++ {
		step := current + int64(i)
		if step < 0 {
			continue
		}
		if subtle.ConstantTimeCompare([]byte(HOTP(key, uint64(step))), []byte(code)) == 1 {
			return true
		}
	}
	return false
}

// QRDataURL renders uri as a PNG QR code and returns it as a data URL.
func QRDataURL(uri string, size int) (string, error) {
	key, err := otp.NewKeyFromURL(uri)
	if err != nil {
		return "", fmt.Errorf("failed to parse key uri: %w", err)
	}

	img, err := key.Image(size, size)
	if err != nil {
		return "", fmt.Errorf("failed to render qr code: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode qr code: %w", err)
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func wellFormed(code string) bool {
	if len(code) != Digits {
		return false
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
