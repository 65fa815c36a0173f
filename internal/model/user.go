package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	Create(ctx context.Context, user User) (User, error)
	MarkEmailVerified(ctx context.Context, id uuid.UUID) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	EnableTwoFactor(ctx context.Context, id uuid.UUID, secret string, backupCodeHashes []string) error
	DisableTwoFactor(ctx context.Context, id uuid.UUID) error
	ReplaceBackupCodes(ctx context.Context, id uuid.UUID, backupCodeHashes []string) error
	// ConsumeBackupCode removes hash from the user's backup codes and reports
	// whether it was still present.
	ConsumeBackupCode(ctx context.Context, id uuid.UUID, hash string) (bool, error)
	// ClaimFirstAdmin promotes the user only if no admin exists yet. The check
	// and the update happen atomically inside the store.
	ClaimFirstAdmin(ctx context.Context, id uuid.UUID) (bool, error)
	SetAdmin(ctx context.Context, id uuid.UUID, isAdmin bool) error
	CountAdmins(ctx context.Context) (int, error)
}

// User represents a stored account with its authentication material.
type User struct {
	ID               uuid.UUID
	Email            string
	Name             string
	PasswordHash     string
	EmailVerified    bool
	TOTPSecret       string
	TwoFactorEnabled bool
	BackupCodes      []string
	IsAdmin          bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
