package totp

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/hotp"
	pqtotp "github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/journal-auth/internal/codec"
)

var rfcSecret = []byte("12345678901234567890")

func TestHOTP_RFC4226Vectors(t *testing.T) {
	want := []string{"755224", "287082", "359152", "969429", "338314", "254676", "287922", "162583", "399871", "520489"}
	for counter, code := range want {
		assert.Equal(t, code, HOTP(rfcSecret, uint64(counter)), "counter %d", counter)
	}
}

func TestCodeAt_RFC6238Vectors(t *testing.T) {
	secret := codec.EncodeBase32(rfcSecret)

	tests := []struct {
		unix int64
		want string
	}{
		{59, "287082"},
		{1111111109, "081804"},
		{1111111111, "050471"},
		{1234567890, "005924"},
		{2000000000, "279037"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CodeAt(secret, time.Unix(tt.unix, 0)), "t=%d", tt.unix)
	}
}

func TestHOTP_MatchesIndependentImplementation(t *testing.T) {
	secret, err := GenerateSecret()
	require.NoError(t, err)

	for counter := uint64(0); counter < 50; counter++ {
		want, err := hotp.GenerateCodeCustom(secret, counter, hotp.ValidateOpts{
			Digits:    otp.DigitsSix,
			Algorithm: otp.AlgorithmSHA1,
		})
		require.NoError(t, err)
		assert.Equal(t, want, HOTP(codec.DecodeBase32(secret), counter))
	}
}

func TestVerify_Window(t *testing.T) {
	secret, err := GenerateSecret()
	require.NoError(t, err)

	issued := time.Unix(1_700_000_015, 0)
	code := CodeAt(secret, issued)

	for offset := -30; offset <= 30; offset++ {
		at := issued.Add(time.Duration(offset) * time.Second)
		assert.True(t, Verify(code, secret, at, DefaultWindow), "offset %ds", offset)
	}

	assert.False(t, Verify(code, secret, issued.Add(65*time.Second), DefaultWindow))
	assert.False(t, Verify(code, secret, issued.Add(120*time.Second), DefaultWindow))
	assert.False(t, Verify(code, secret, issued.Add(-65*time.Second), DefaultWindow))
}

func TestVerify_AgreesWithAuthenticatorApps(t *testing.T) {
	secret, err := GenerateSecret()
	require.NoError(t, err)

	now := time.Now()
	code, err := pqtotp.GenerateCode(secret, now)
	require.NoError(t, err)

	assert.True(t, Verify(code, secret, now, DefaultWindow))
}

func TestVerify_FailsClosed(t *testing.T) {
	secret, err := GenerateSecret()
	require.NoError(t, err)
	now := time.Now()
	code := CodeAt(secret, now)

	tests := []struct {
		name   string
		code   string
		secret string
	}{
		{"malformed secret", code, "not base32 !!"},
		{"empty secret", code, ""},
		{"short code", code[:5], secret},
		{"non-digit code", "12a456", secret},
		{"empty code", "", secret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, Verify(tt.code, tt.secret, now, DefaultWindow))
		})
	}
}

func TestGenerateSecret(t *testing.T) {
	secret, err := GenerateSecret()
	require.NoError(t, err)

	assert.Len(t, secret, 32)
	assert.Len(t, codec.DecodeBase32(secret), SecretSize)
}

func TestKeyURI(t *testing.T) {
	uri := KeyURI("Trade Journal", "alice@example.com", "JBSWY3DPEHPK3PXP")

	require.True(t, strings.HasPrefix(uri, "otpauth://totp/Trade%20Journal:alice@example.com?"))

	parsed, err := url.Parse(uri)
	require.NoError(t, err)
	q := parsed.Query()
	assert.Equal(t, "JBSWY3DPEHPK3PXP", q.Get("secret"))
	assert.Equal(t, "SHA1", q.Get("algorithm"))
	assert.Equal(t, "6", q.Get("digits"))
	assert.Equal(t, "30", q.Get("period"))
	assert.Equal(t, "Trade Journal", q.Get("issuer"))

	key, err := otp.NewKeyFromURL(uri)
	require.NoError(t, err)
	assert.Equal(t, "JBSWY3DPEHPK3PXP", key.Secret())
	assert.Equal(t, "alice@example.com", key.AccountName())
}

func TestQRDataURL(t *testing.T) {
	secret, err := GenerateSecret()
	require.NoError(t, err)

	dataURL, err := QRDataURL(KeyURI("Trade Journal", "alice@example.com", secret), 200)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(dataURL, "data:image/png;base64,"))
	assert.Greater(t, len(dataURL), 100)
}
