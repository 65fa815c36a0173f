package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dtroode/journal-auth/internal/apierror"
	"github.com/dtroode/journal-auth/internal/codec"
	"github.com/dtroode/journal-auth/internal/logger"
	"github.com/dtroode/journal-auth/internal/model"
	"github.com/dtroode/journal-auth/internal/opaque"
	"github.com/dtroode/journal-auth/internal/password"
	"github.com/dtroode/journal-auth/internal/totp"
)

const (
	// BackupCodeCount is the number of recovery codes issued at enrollment.
	BackupCodeCount = 8

	emailOTPTTL = 10 * time.Minute
	qrSize      = 200
)

var (
	errTwoFactorEnabled  = apierror.NewValidation("two-factor authentication is already enabled")
	errTwoFactorDisabled = apierror.NewValidation("two-factor authentication is not enabled")
)

type TwoFactor struct {
	userStore  model.UserStore
	tokenStore model.EmailTokenStore
	mailer     model.Mailer
	hasher     *password.Hasher
	sessions   *Sessions
	verifiers  []model.SecondFactorVerifier
	issuer     string
	logger     *logger.Logger
	now        func() time.Time
}

// NewTwoFactor creates the two-factor service. verifiers are tried in order
// during login.
func NewTwoFactor(
	userStore model.UserStore,
	tokenStore model.EmailTokenStore,
	mailer model.Mailer,
	hasher *password.Hasher,
	sessions *Sessions,
	verifiers []model.SecondFactorVerifier,
	issuer string,
	logger *logger.Logger,
) *TwoFactor {
	return &TwoFactor{
		userStore:  userStore,
		tokenStore: tokenStore,
		mailer:     mailer,
		hasher:     hasher,
		sessions:   sessions,
		verifiers:  verifiers,
		issuer:     issuer,
		logger:     logger,
		now:        time.Now,
	}
}

// Setup proposes a new secret. Nothing is stored until Enable succeeds.
func (s *TwoFactor) Setup(_ context.Context, claims model.SessionClaims) (model.TwoFactorSetup, error) {
	secret, err := totp.GenerateSecret()
	if err != nil {
		return model.TwoFactorSetup{}, err
	}

	uri := totp.KeyURI(s.issuer, claims.Email, secret)
	qr, err := totp.QRDataURL(uri, qrSize)
	if err != nil {
		s.logger.Error("TwoFactor service: failed to render qr code",
			"error", err.Error())
		return model.TwoFactorSetup{}, err
	}

	return model.TwoFactorSetup{Secret: secret, URI: uri, QRDataURL: qr}, nil
}

// Enable stores secret once code proves the authenticator holds it, and
// returns freshly generated backup codes. The raw codes are not kept.
func (s *TwoFactor) Enable(ctx context.Context, claims model.SessionClaims, secret, code string) ([]string, error) {
	secret = strings.ToUpper(strings.TrimSpace(secret))
	if len(codec.DecodeBase32(secret)) < 10 {
		return nil, apierror.NewValidation("a valid secret is required")
	}

	user, err := s.user(ctx, claims)
	if err != nil {
		return nil, err
	}
	if user.TwoFactorEnabled {
		return nil, errTwoFactorEnabled
	}

	if !totp.Verify(strings.TrimSpace(code), secret, s.now(), totp.DefaultWindow) {
		s.logger.Info("TwoFactor service: enable rejected, bad code",
			"user_id", user.ID)
		return nil, apierror.NewValidation(apierror.MsgInvalidCode)
	}

	codes, hashes, err := s.backupCodes()
	if err != nil {
		return nil, err
	}

	if err := s.userStore.EnableTwoFactor(ctx, user.ID, secret, hashes); err != nil {
		s.logger.Error("TwoFactor service: failed to enable",
			"user_id", user.ID,
			"error", err.Error())
		return nil, fmt.Errorf("failed to enable two-factor: %w", err)
	}

	s.logger.Info("TwoFactor service: enabled",
		"user_id", user.ID)

	return codes, nil
}

// Disable clears the secret and backup codes. Only a current TOTP code is accepted.
func (s *TwoFactor) Disable(ctx context.Context, claims model.SessionClaims, code string) error {
	user, err := s.user(ctx, claims)
	if err != nil {
		return err
	}
	if !user.TwoFactorEnabled {
		return errTwoFactorDisabled
	}

	if !totp.Verify(strings.TrimSpace(code), user.TOTPSecret, s.now(), totp.DefaultWindow) {
		s.logger.Info("TwoFactor service: disable rejected, bad code",
			"user_id", user.ID)
		return apierror.NewValidation(apierror.MsgInvalidCode)
	}

	if err := s.userStore.DisableTwoFactor(ctx, user.ID); err != nil {
		s.logger.Error("TwoFactor service: failed to disable",
			"user_id", user.ID,
			"error", err.Error())
		return fmt.Errorf("failed to disable two-factor: %w", err)
	}

	s.logger.Info("TwoFactor service: disabled",
		"user_id", user.ID)

	return nil
}

// RegenerateBackupCodes replaces every backup code. A current TOTP code is required.
func (s *TwoFactor) RegenerateBackupCodes(ctx context.Context, claims model.SessionClaims, code string) ([]string, error) {
	user, err := s.user(ctx, claims)
	if err != nil {
		return nil, err
	}
	if !user.TwoFactorEnabled {
		return nil, errTwoFactorDisabled
	}

	if !totp.Verify(strings.TrimSpace(code), user.TOTPSecret, s.now(), totp.DefaultWindow) {
		return nil, apierror.NewValidation(apierror.MsgInvalidCode)
	}

	codes, hashes, err := s.backupCodes()
	if err != nil {
		return nil, err
	}

	if err := s.userStore.ReplaceBackupCodes(ctx, user.ID, hashes); err != nil {
		return nil, fmt.Errorf("failed to replace backup codes: %w", err)
	}

	s.logger.Info("TwoFactor service: backup codes regenerated",
		"user_id", user.ID)

	return codes, nil
}

// Verify exchanges a pending session and a second factor for a full session.
func (s *TwoFactor) Verify(ctx context.Context, pending model.SessionClaims, code string) (model.Session, error) {
	user, err := s.user(ctx, pending)
	if err != nil {
		return model.Session{}, err
	}

	code = strings.TrimSpace(code)
	if code == "" {
		return model.Session{}, apierror.NewUnauthorized(apierror.MsgInvalidCode)
	}

	for _, v := range s.verifiers {
		ok, err := v.Verify(ctx, user, code)
		if err != nil {
			s.logger.Error("TwoFactor service: verifier failed",
				"user_id", user.ID,
				"verifier", v.Name(),
				"error", err.Error())
			return model.Session{}, err
		}
		if !ok {
			continue
		}

		s.logger.Info("TwoFactor service: second factor accepted",
			"user_id", user.ID,
			"verifier", v.Name())

		return s.sessions.Full(user)
	}

	s.logger.Info("TwoFactor service: second factor rejected",
		"user_id", user.ID)

	return model.Session{}, apierror.NewUnauthorized(apierror.MsgInvalidCode)
}

// RequestEmailOTP mails a six digit code valid for ten minutes, replacing any
// earlier unused code.
func (s *TwoFactor) RequestEmailOTP(ctx context.Context, pending model.SessionClaims) error {
	user, err := s.user(ctx, pending)
	if err != nil {
		return err
	}
	if !user.TwoFactorEnabled {
		return errTwoFactorDisabled
	}

	code, err := opaque.RandomOTP()
	if err != nil {
		return err
	}

	if err := storeToken(ctx, s.tokenStore, user, model.EmailTokenOTP, code, s.now().Add(emailOTPTTL)); err != nil {
		s.logger.Error("TwoFactor service: failed to store email otp",
			"user_id", user.ID,
			"error", err.Error())
		return err
	}

	err = s.mailer.Send(context.WithoutCancel(ctx), model.Message{
		To:      user.Email,
		Subject: "Your sign-in code",
		Body:    fmt.Sprintf("Your verification code is %s. It expires in 10 minutes.\n", code),
	})
	if err != nil {
		s.logger.Error("TwoFactor service: failed to deliver email otp",
			"user_id", user.ID,
			"error", err.Error())
		return fmt.Errorf("failed to deliver email otp: %w", err)
	}

	return nil
}

func (s *TwoFactor) user(ctx context.Context, claims model.SessionClaims) (model.User, error) {
	id, err := subjectID(claims)
	if err != nil {
		return model.User{}, err
	}

	user, err := s.userStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, apierror.NewUnauthorized(apierror.MsgNotAuthenticated)
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

func (s *TwoFactor) backupCodes() ([]string, []string, error) {
	codes := make([]string, 0, BackupCodeCount)
	hashes := make([]string, 0, BackupCodeCount)

	for range BackupCodeCount {
		code, err := opaque.BackupCode()
		if err != nil {
			return nil, nil, err
		}
		hash, err := s.hasher.Hash(code)
		if err != nil {
			return nil, nil, err
		}
		codes = append(codes, code)
		hashes = append(hashes, hash)
	}

	return codes, hashes, nil
}

