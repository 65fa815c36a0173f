package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/journal-auth/internal/model"
)

var _ model.EmailTokenStore = (*EmailTokenRepository)(nil)

type EmailTokenRepository struct {
	db *Connection
}

func NewEmailTokenRepository(db *Connection) *EmailTokenRepository {
	return &EmailTokenRepository{
		db: db,
	}
}

const emailTokenColumns = `id, user_id, email, token_hash, type, expires_at, used, created_at`

func scanEmailToken(row pgx.Row) (model.EmailToken, error) {
	var token model.EmailToken
	err := row.Scan(
		&token.ID, &token.UserID, &token.Email, &token.TokenHash,
		&token.Type, &token.ExpiresAt, &token.Used, &token.CreatedAt,
	)
	return token, err
}

func (r *EmailTokenRepository) Create(ctx context.Context, token model.EmailToken) error {
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO email_tokens (` + emailTokenColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(ctx, query,
		token.ID, token.UserID, token.Email, token.TokenHash,
		string(token.Type), token.ExpiresAt, token.Used, token.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrAlreadyExists
		}
		return fmt.Errorf("failed to create email token: %w", err)
	}

	return nil
}

func (r *EmailTokenRepository) GetByHash(ctx context.Context, hash string, tokenType model.EmailTokenType) (model.EmailToken, error) {
	query := `SELECT ` + emailTokenColumns + ` FROM email_tokens WHERE token_hash = $1 AND type = $2
			  ORDER BY created_at DESC LIMIT 1`

	token, err := scanEmailToken(r.db.QueryRow(ctx, query, hash, string(tokenType)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.EmailToken{}, model.ErrNotFound
		}
		return model.EmailToken{}, fmt.Errorf("failed to get email token by hash: %w", err)
	}

	return token, nil
}

func (r *EmailTokenRepository) GetLatestUnused(ctx context.Context, userID uuid.UUID, tokenType model.EmailTokenType) (model.EmailToken, error) {
	query := `SELECT ` + emailTokenColumns + ` FROM email_tokens WHERE user_id = $1 AND type = $2 AND NOT used
			  ORDER BY created_at DESC LIMIT 1`

	token, err := scanEmailToken(r.db.QueryRow(ctx, query, userID, string(tokenType)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.EmailToken{}, model.ErrNotFound
		}
		return model.EmailToken{}, fmt.Errorf("failed to get latest email token: %w", err)
	}

	return token, nil
}

func (r *EmailTokenRepository) Consume(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `UPDATE email_tokens SET used = TRUE WHERE id = $1 AND NOT used`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to consume email token: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

func (r *EmailTokenRepository) InvalidateUnused(ctx context.Context, userID uuid.UUID, tokenType model.EmailTokenType) error {
	query := `UPDATE email_tokens SET used = TRUE WHERE user_id = $1 AND type = $2 AND NOT used`

	_, err := r.db.Exec(ctx, query, userID, string(tokenType))
	if err != nil {
		return fmt.Errorf("failed to invalidate email tokens: %w", err)
	}

	return nil
}
