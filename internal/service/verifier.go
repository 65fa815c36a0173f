package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dtroode/journal-auth/internal/model"
	"github.com/dtroode/journal-auth/internal/opaque"
	"github.com/dtroode/journal-auth/internal/password"
	"github.com/dtroode/journal-auth/internal/totp"
)

// TOTPVerifier accepts a code from the user's authenticator app.
type TOTPVerifier struct {
	now func() time.Time
}

func NewTOTPVerifier() *TOTPVerifier {
	return &TOTPVerifier{now: time.Now}
}

var _ model.SecondFactorVerifier = (*TOTPVerifier)(nil)

func (v *TOTPVerifier) Name() string { return "totp" }

func (v *TOTPVerifier) Verify(_ context.Context, user model.User, code string) (bool, error) {
	if !user.TwoFactorEnabled || user.TOTPSecret == "" {
		return false, nil
	}
	return totp.Verify(code, user.TOTPSecret, v.now(), totp.DefaultWindow), nil
}

// EmailOTPVerifier accepts the most recent emailed code once.
type EmailOTPVerifier struct {
	tokenStore model.EmailTokenStore
	now        func() time.Time
}

func NewEmailOTPVerifier(tokenStore model.EmailTokenStore) *EmailOTPVerifier {
	return &EmailOTPVerifier{tokenStore: tokenStore, now: time.Now}
}

var _ model.SecondFactorVerifier = (*EmailOTPVerifier)(nil)

func (v *EmailOTPVerifier) Name() string { return "email_otp" }

func (v *EmailOTPVerifier) Verify(ctx context.Context, user model.User, code string) (bool, error) {
	if !sixDigits(code) {
		return false, nil
	}

	token, err := v.tokenStore.GetLatestUnused(ctx, user.ID, model.EmailTokenOTP)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get email otp: %w", err)
	}

	if !token.Usable(v.now()) || !opaque.Equal(token.TokenHash, opaque.Hash(code)) {
		return false, nil
	}

	consumed, err := v.tokenStore.Consume(ctx, token.ID)
	if err != nil {
		return false, fmt.Errorf("failed to consume email otp: %w", err)
	}
	return consumed, nil
}

// BackupCodeVerifier accepts one of the recovery codes issued at enrollment
// and removes it.
type BackupCodeVerifier struct {
	userStore model.UserStore
	hasher    *password.Hasher
}

func NewBackupCodeVerifier(userStore model.UserStore, hasher *password.Hasher) *BackupCodeVerifier {
	return &BackupCodeVerifier{userStore: userStore, hasher: hasher}
}

var _ model.SecondFactorVerifier = (*BackupCodeVerifier)(nil)

func (v *BackupCodeVerifier) Name() string { return "backup_code" }

func (v *BackupCodeVerifier) Verify(ctx context.Context, user model.User, code string) (bool, error) {
	canonical, ok := canonicalBackupCode(code)
	if !ok {
		return false, nil
	}

	for _, hash := range user.BackupCodes {
		if !v.hasher.Verify(canonical, hash) {
			continue
		}
		consumed, err := v.userStore.ConsumeBackupCode(ctx, user.ID, hash)
		if err != nil {
			return false, fmt.Errorf("failed to consume backup code: %w", err)
		}
		return consumed, nil
	}
	return false, nil
}

// canonicalBackupCode maps user input to the xxxx-xxxx form codes are hashed in.
func canonicalBackupCode(code string) (string, bool) {
	s := strings.Map(func(r rune) rune {
		if r == '-' || r == ' ' {
			return -1
		}
		return r
	}, strings.ToLower(code))

	if len(s) != 8 {
		return "", false
	}
	for _, r := range s {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f') {
			return "", false
		}
	}
	return s[:4] + "-" + s[4:], true
}

func sixDigits(code string) bool {
	if len(code) != totp.Digits {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
