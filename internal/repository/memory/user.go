// Package memory implements the stores in process memory. It backs
// development runs without a database and the service scenario tests.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/journal-auth/internal/model"
)

// UserRepository is an in-memory UserStore.
type UserRepository struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]model.User
	byEmail map[string]uuid.UUID
	now     func() time.Time
}

// NewUserRepository creates an empty UserRepository.
func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[uuid.UUID]model.User),
		byEmail: make(map[string]uuid.UUID),
		now:     time.Now,
	}
}

var _ model.UserStore = (*UserRepository)(nil)

func (r *UserRepository) GetByEmail(_ context.Context, email string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return clone(r.byID[id]), nil
}

func (r *UserRepository) GetByID(_ context.Context, id uuid.UUID) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return clone(u), nil
}

func (r *UserRepository) Create(_ context.Context, user model.User) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, ok := r.byEmail[email]; ok {
		return model.User{}, model.ErrAlreadyExists
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := r.now()
	user.Email = email
	user.CreatedAt = now
	user.UpdatedAt = now

	r.byID[user.ID] = clone(user)
	r.byEmail[email] = user.ID
	return user, nil
}

func (r *UserRepository) MarkEmailVerified(_ context.Context, id uuid.UUID) error {
	return r.update(id, func(u *model.User) {
		u.EmailVerified = true
	})
}

func (r *UserRepository) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	return r.update(id, func(u *model.User) {
		u.PasswordHash = passwordHash
	})
}

func (r *UserRepository) EnableTwoFactor(_ context.Context, id uuid.UUID, secret string, backupCodeHashes []string) error {
	return r.update(id, func(u *model.User) {
		u.TOTPSecret = secret
		u.TwoFactorEnabled = true
		u.BackupCodes = slices.Clone(backupCodeHashes)
	})
}

func (r *UserRepository) DisableTwoFactor(_ context.Context, id uuid.UUID) error {
	return r.update(id, func(u *model.User) {
		u.TOTPSecret = ""
		u.TwoFactorEnabled = false
		u.BackupCodes = nil
	})
}

func (r *UserRepository) ReplaceBackupCodes(_ context.Context, id uuid.UUID, backupCodeHashes []string) error {
	return r.update(id, func(u *model.User) {
		u.BackupCodes = slices.Clone(backupCodeHashes)
	})
}

func (r *UserRepository) ConsumeBackupCode(_ context.Context, id uuid.UUID, hash string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return false, model.ErrNotFound
	}

	i := slices.Index(u.BackupCodes, hash)
	if i < 0 {
		return false, nil
	}
	u.BackupCodes = slices.Delete(slices.Clone(u.BackupCodes), i, i+1)
	u.UpdatedAt = r.now()
	r.byID[id] = u
	return true, nil
}

func (r *UserRepository) ClaimFirstAdmin(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return false, model.ErrNotFound
	}
	for _, other := range r.byID {
		if other.IsAdmin {
			return false, nil
		}
	}

	u.IsAdmin = true
	u.UpdatedAt = r.now()
	r.byID[id] = u
	return true, nil
}

func (r *UserRepository) SetAdmin(_ context.Context, id uuid.UUID, isAdmin bool) error {
	return r.update(id, func(u *model.User) {
		u.IsAdmin = isAdmin
	})
}

func (r *UserRepository) CountAdmins(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, u := range r.byID {
		if u.IsAdmin {
			n++
		}
	}
	return n, nil
}

func (r *UserRepository) update(id uuid.UUID, fn func(u *model.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return model.ErrNotFound
	}
	fn(&u)
	u.UpdatedAt = r.now()
	r.byID[id] = u
	return nil
}

func clone(u model.User) model.User {
	u.BackupCodes = slices.Clone(u.BackupCodes)
	return u
}
