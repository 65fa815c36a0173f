package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/journal-auth/internal/apierror"
	"github.com/dtroode/journal-auth/internal/logger"
	"github.com/dtroode/journal-auth/internal/model"
	"github.com/dtroode/journal-auth/internal/opaque"
	"github.com/dtroode/journal-auth/internal/password"
)

const (
	verifyEmailTTL   = 24 * time.Hour
	resetPasswordTTL = time.Hour
)

type Auth struct {
	userStore  model.UserStore
	tokenStore model.EmailTokenStore
	mailer     model.Mailer
	hasher     *password.Hasher
	sessions   *Sessions
	baseURL    string
	logger     *logger.Logger
	now        func() time.Time
}

func NewAuth(
	userStore model.UserStore,
	tokenStore model.EmailTokenStore,
	mailer model.Mailer,
	hasher *password.Hasher,
	sessions *Sessions,
	baseURL string,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore:  userStore,
		tokenStore: tokenStore,
		mailer:     mailer,
		hasher:     hasher,
		sessions:   sessions,
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger,
		now:        time.Now,
	}
}

// Register creates an unverified account and mails a verification link.
func (a *Auth) Register(ctx context.Context, input model.RegisterInput) error {
	name := strings.TrimSpace(input.Name)
	email := normalizeEmail(input.Email)

	a.logger.Debug("Auth service: starting user registration",
		"email", email)

	if name == "" || email == "" || input.Password == "" {
		return apierror.NewValidation("name, email and password are required")
	}
	if !validEmail(email) {
		return apierror.NewValidation("invalid email address")
	}
	if err := validatePassword(input.Password, input.ConfirmPassword); err != nil {
		return err
	}

	_, err := a.userStore.GetByEmail(ctx, email)
	if err == nil {
		a.logger.Info("Auth service: user already exists",
			"email", email)
		return apierror.NewConflict("an account with this email already exists")
	}
	if !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return fmt.Errorf("failed to get user by email: %w", err)
	}

	hash, err := a.hasher.Hash(input.Password)
	if err != nil {
		return err
	}

	user, err := a.userStore.Create(ctx, model.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, model.ErrAlreadyExists) {
			return apierror.NewConflict("an account with this email already exists")
		}
		a.logger.Error("Auth service: failed to create user",
			"email", email,
			"error", err.Error())
		return fmt.Errorf("failed to create user: %w", err)
	}

	if err := a.sendVerification(ctx, user); err != nil {
		return err
	}

	a.logger.Info("Auth service: user registered",
		"user_id", user.ID)

	return nil
}

// VerifyEmail redeems a verification link token.
func (a *Auth) VerifyEmail(ctx context.Context, rawToken string) error {
	token, err := a.redeem(ctx, rawToken, model.EmailTokenVerifyEmail)
	if err != nil {
		return err
	}

	if err := a.userStore.MarkEmailVerified(ctx, token.UserID); err != nil {
		a.logger.Error("Auth service: failed to mark email verified",
			"user_id", token.UserID,
			"error", err.Error())
		return fmt.Errorf("failed to mark email verified: %w", err)
	}

	a.logger.Info("Auth service: email verified",
		"user_id", token.UserID)

	return nil
}

// ResendVerification mails a fresh verification link when the account exists
// and is unverified. It reports success in every case.
func (a *Auth) ResendVerification(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	user, err := a.userStore.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			a.logger.Error("Auth service: failed to get user for resend",
				"error", err.Error())
		}
		return nil
	}
	if user.EmailVerified {
		return nil
	}

	if err := a.sendVerification(ctx, user); err != nil {
		a.logger.Error("Auth service: failed to reissue verification token",
			"user_id", user.ID,
			"error", err.Error())
	}
	return nil
}

// Login checks credentials and issues either a full or a pending session.
func (a *Auth) Login(ctx context.Context, email, pw string) (model.LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || pw == "" {
		return model.LoginResult{}, apierror.NewValidation("email and password are required")
	}

	user, err := a.userStore.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Auth service: failed to get user by email",
			"error", err.Error())
		return model.LoginResult{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if !a.hasher.VerifyOrDummy(pw, user.PasswordHash) {
		a.logger.Info("Auth service: login rejected")
		return model.LoginResult{}, apierror.NewUnauthorized(apierror.MsgInvalidCredentials)
	}

	if !user.EmailVerified {
		return model.LoginResult{}, apierror.NewForbidden(apierror.MsgEmailNotVerified)
	}

	if user.TwoFactorEnabled {
		session, err := a.sessions.Pending(user)
		if err != nil {
			return model.LoginResult{}, err
		}
		a.logger.Info("Auth service: password accepted, second factor required",
			"user_id", user.ID)
		return model.LoginResult{RequiresTwoFactor: true, Session: session}, nil
	}

	session, err := a.sessions.Full(user)
	if err != nil {
		return model.LoginResult{}, err
	}

	a.logger.Info("Auth service: login successful",
		"user_id", user.ID)

	return model.LoginResult{Session: session}, nil
}

// RequestPasswordReset mails a reset link when the account exists. It reports
// success in every case.
func (a *Auth) RequestPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	user, err := a.userStore.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			a.logger.Error("Auth service: failed to get user for password reset",
				"error", err.Error())
		}
		return nil
	}

	raw, err := a.issueToken(ctx, user, model.EmailTokenResetPassword, resetPasswordTTL)
	if err != nil {
		a.logger.Error("Auth service: failed to issue reset token",
			"user_id", user.ID,
			"error", err.Error())
		return nil
	}

	a.deliver(ctx, model.Message{
		To:      user.Email,
		Subject: "Reset your password",
		Body: fmt.Sprintf("Hi %s,\n\nUse the link below to choose a new password. It expires in one hour.\n\n%s/reset-password?token=%s\n\nIf you did not ask for this, ignore this email.\n",
			user.Name, a.baseURL, raw),
	})

	return nil
}

// ResetPassword redeems a reset token and replaces the password.
func (a *Auth) ResetPassword(ctx context.Context, input model.PasswordReset) error {
	if err := validatePassword(input.Password, input.ConfirmPassword); err != nil {
		return err
	}

	hash, err := a.hasher.Hash(input.Password)
	if err != nil {
		return err
	}

	token, err := a.redeem(ctx, input.Token, model.EmailTokenResetPassword)
	if err != nil {
		return err
	}

	if err := a.userStore.UpdatePassword(ctx, token.UserID, hash); err != nil {
		a.logger.Error("Auth service: failed to update password",
			"user_id", token.UserID,
			"error", err.Error())
		return fmt.Errorf("failed to update password: %w", err)
	}

	a.logger.Info("Auth service: password reset",
		"user_id", token.UserID)

	return nil
}

// Me returns the current account.
func (a *Auth) Me(ctx context.Context, claims model.SessionClaims) (model.User, error) {
	id, err := subjectID(claims)
	if err != nil {
		return model.User{}, err
	}

	user, err := a.userStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, apierror.NewUnauthorized(apierror.MsgNotAuthenticated)
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

func (a *Auth) sendVerification(ctx context.Context, user model.User) error {
	raw, err := a.issueToken(ctx, user, model.EmailTokenVerifyEmail, verifyEmailTTL)
	if err != nil {
		return err
	}

	a.deliver(ctx, model.Message{
		To:      user.Email,
		Subject: "Verify your email",
		Body: fmt.Sprintf("Hi %s,\n\nConfirm your email address to finish setting up your account:\n\n%s/api/auth/verify-email?token=%s\n\nThe link expires in 24 hours.\n",
			user.Name, a.baseURL, raw),
	})
	return nil
}

// issueToken invalidates the user's unused tokens of the type and stores the
// hash of a new one. The raw value is returned for delivery only.
func (a *Auth) issueToken(ctx context.Context, user model.User, tokenType model.EmailTokenType, ttl time.Duration) (string, error) {
	raw, err := opaque.RandomToken(opaque.DefaultTokenBytes)
	if err != nil {
		return "", err
	}
	return raw, storeToken(ctx, a.tokenStore, user, tokenType, raw, a.now().Add(ttl))
}

func (a *Auth) redeem(ctx context.Context, raw string, tokenType model.EmailTokenType) (model.EmailToken, error) {
	if raw == "" {
		return model.EmailToken{}, apierror.NewValidation(apierror.MsgInvalidToken)
	}

	token, err := a.tokenStore.GetByHash(ctx, opaque.Hash(raw), tokenType)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.EmailToken{}, apierror.NewValidation(apierror.MsgInvalidToken)
		}
		return model.EmailToken{}, fmt.Errorf("failed to get email token: %w", err)
	}
	if !token.Usable(a.now()) {
		return model.EmailToken{}, apierror.NewValidation(apierror.MsgInvalidToken)
	}

	consumed, err := a.tokenStore.Consume(ctx, token.ID)
	if err != nil {
		return model.EmailToken{}, fmt.Errorf("failed to consume email token: %w", err)
	}
	if !consumed {
		return model.EmailToken{}, apierror.NewValidation(apierror.MsgInvalidToken)
	}

	return token, nil
}

func (a *Auth) deliver(ctx context.Context, msg model.Message) {
	if err := a.mailer.Send(context.WithoutCancel(ctx), msg); err != nil {
		a.logger.Error("Auth service: failed to deliver email",
			"subject", msg.Subject,
			"error", err.Error())
	}
}

func storeToken(
	ctx context.Context,
	store model.EmailTokenStore,
	user model.User,
	tokenType model.EmailTokenType,
	raw string,
	expiresAt time.Time,
) error {
	if err := store.InvalidateUnused(ctx, user.ID, tokenType); err != nil {
		return fmt.Errorf("failed to invalidate previous tokens: %w", err)
	}

	err := store.Create(ctx, model.EmailToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		Email:     user.Email,
		TokenHash: opaque.Hash(raw),
		Type:      tokenType,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return fmt.Errorf("failed to store email token: %w", err)
	}
	return nil
}
