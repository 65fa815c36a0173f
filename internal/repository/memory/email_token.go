package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/journal-auth/internal/model"
)

// EmailTokenRepository is an in-memory EmailTokenStore.
type EmailTokenRepository struct {
	mu     sync.Mutex
	tokens []model.EmailToken
	now    func() time.Time
}

// NewEmailTokenRepository creates an empty EmailTokenRepository.
func NewEmailTokenRepository() *EmailTokenRepository {
	return &EmailTokenRepository{now: time.Now}
}

var _ model.EmailTokenStore = (*EmailTokenRepository)(nil)

func (r *EmailTokenRepository) Create(_ context.Context, token model.EmailToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = r.now()
	}
	for _, t := range r.tokens {
		if t.ID == token.ID {
			return model.ErrAlreadyExists
		}
	}
	r.tokens = append(r.tokens, token)
	return nil
}

func (r *EmailTokenRepository) GetByHash(_ context.Context, hash string, tokenType model.EmailTokenType) (model.EmailToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := len(r.tokens) - 1; i >= 0; i-- {
		t := r.tokens[i]
		if t.TokenHash == hash && t.Type == tokenType {
			return t, nil
		}
	}
	return model.EmailToken{}, model.ErrNotFound
}

func (r *EmailTokenRepository) GetLatestUnused(_ context.Context, userID uuid.UUID, tokenType model.EmailTokenType) (model.EmailToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := len(r.tokens) - 1; i >= 0; i-- {
		t := r.tokens[i]
		if t.UserID == userID && t.Type == tokenType && !t.Used {
			return t, nil
		}
	}
	return model.EmailToken{}, model.ErrNotFound
}

func (r *EmailTokenRepository) Consume(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.tokens {
		if r.tokens[i].ID != id {
			continue
		}
		if r.tokens[i].Used {
			return false, nil
		}
		r.tokens[i].Used = true
		return true, nil
	}
	return false, model.ErrNotFound
}

func (r *EmailTokenRepository) InvalidateUnused(_ context.Context, userID uuid.UUID, tokenType model.EmailTokenType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.tokens {
		if r.tokens[i].UserID == userID && r.tokens[i].Type == tokenType {
			r.tokens[i].Used = true
		}
	}
	return nil
}
