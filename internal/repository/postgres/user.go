package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/journal-auth/internal/model"
)

// adminClaimLock serializes first-admin claims across connections.
const adminClaimLock = 0x61646d696e

var _ model.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

const userColumns = `id, email, name, password_hash, email_verified, totp_secret,
	two_factor_enabled, backup_codes, is_admin, created_at, updated_at`

func scanUser(row pgx.Row) (model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.EmailVerified, &user.TOTPSecret,
		&user.TwoFactorEnabled, &user.BackupCodes, &user.IsAdmin, &user.CreatedAt, &user.UpdatedAt,
	)
	return user, err
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`

	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now().UTC()
	if user.BackupCodes == nil {
		user.BackupCodes = []string{}
	}

	query := `INSERT INTO users (id, email, name, password_hash, email_verified, totp_secret,
			  two_factor_enabled, backup_codes, is_admin, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
			  RETURNING ` + userColumns

	saved, err := scanUser(r.db.QueryRow(ctx, query,
		user.ID, strings.ToLower(user.Email), user.Name, user.PasswordHash, user.EmailVerified, user.TOTPSecret,
		user.TwoFactorEnabled, user.BackupCodes, user.IsAdmin, now,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, model.ErrAlreadyExists
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return saved, nil
}

func (r *UserRepository) MarkEmailVerified(ctx context.Context, id uuid.UUID) error {
	return r.exec(ctx, "mark email verified",
		`UPDATE users SET email_verified = TRUE, updated_at = NOW() WHERE id = $1`, id)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.exec(ctx, "update password",
		`UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`, id, passwordHash)
}

func (r *UserRepository) EnableTwoFactor(ctx context.Context, id uuid.UUID, secret string, backupCodeHashes []string) error {
	return r.exec(ctx, "enable two-factor",
		`UPDATE users SET totp_secret = $2, two_factor_enabled = TRUE, backup_codes = $3, updated_at = NOW()
		 WHERE id = $1`, id, secret, backupCodeHashes)
}

func (r *UserRepository) DisableTwoFactor(ctx context.Context, id uuid.UUID) error {
	return r.exec(ctx, "disable two-factor",
		`UPDATE users SET totp_secret = '', two_factor_enabled = FALSE, backup_codes = '{}', updated_at = NOW()
		 WHERE id = $1`, id)
}

func (r *UserRepository) ReplaceBackupCodes(ctx context.Context, id uuid.UUID, backupCodeHashes []string) error {
	return r.exec(ctx, "replace backup codes",
		`UPDATE users SET backup_codes = $2, updated_at = NOW() WHERE id = $1`, id, backupCodeHashes)
}

func (r *UserRepository) ConsumeBackupCode(ctx context.Context, id uuid.UUID, hash string) (bool, error) {
	query := `UPDATE users SET backup_codes = array_remove(backup_codes, $2), updated_at = NOW()
			  WHERE id = $1 AND $2 = ANY(backup_codes)`

	tag, err := r.db.Exec(ctx, query, id, hash)
	if err != nil {
		return false, fmt.Errorf("failed to consume backup code: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

func (r *UserRepository) ClaimFirstAdmin(ctx context.Context, id uuid.UUID) (bool, error) {
	var claimed, exists bool

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, adminClaimLock); err != nil {
			return fmt.Errorf("failed to acquire admin claim lock: %w", err)
		}

		tag, err := tx.Exec(ctx,
			`UPDATE users SET is_admin = TRUE, updated_at = NOW()
			 WHERE id = $1 AND NOT EXISTS (SELECT 1 FROM users WHERE is_admin)`, id)
		if err != nil {
			return fmt.Errorf("failed to claim admin: %w", err)
		}
		claimed = tag.RowsAffected() == 1
		if claimed {
			return nil
		}

		return tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists)
	})
	if err != nil {
		return false, err
	}
	if !claimed && !exists {
		return false, model.ErrNotFound
	}

	return claimed, nil
}

func (r *UserRepository) SetAdmin(ctx context.Context, id uuid.UUID, isAdmin bool) error {
	return r.exec(ctx, "set admin",
		`UPDATE users SET is_admin = $2, updated_at = NOW() WHERE id = $1`, id, isAdmin)
}

func (r *UserRepository) CountAdmins(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE is_admin`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count admins: %w", err)
	}
	return n, nil
}

func (r *UserRepository) exec(ctx context.Context, op, query string, args ...any) error {
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
