package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/journal-auth/internal/model"
)

// UserStore is a mock type for the UserStore type.
type UserStore struct {
	mock.Mock
}

// GetByEmail provides a mock function.
func (_m *UserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	ret := _m.Called(ctx, email)
	r0, _ := ret.Get(0).(model.User)
	return r0, ret.Error(1)
}

// GetByID provides a mock function.
func (_m *UserStore) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	ret := _m.Called(ctx, id)
	r0, _ := ret.Get(0).(model.User)
	return r0, ret.Error(1)
}

// Create provides a mock function.
func (_m *UserStore) Create(ctx context.Context, user model.User) (model.User, error) {
	ret := _m.Called(ctx, user)
	r0, _ := ret.Get(0).(model.User)
	return r0, ret.Error(1)
}

// MarkEmailVerified provides a mock function.
func (_m *UserStore) MarkEmailVerified(ctx context.Context, id uuid.UUID) error {
	ret := _m.Called(ctx, id)
	return ret.Error(0)
}

// UpdatePassword provides a mock function.
func (_m *UserStore) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	ret := _m.Called(ctx, id, passwordHash)
	return ret.Error(0)
}

// EnableTwoFactor provides a mock function.
func (_m *UserStore) EnableTwoFactor(ctx context.Context, id uuid.UUID, secret string, backupCodeHashes []string) error {
	ret := _m.Called(ctx, id, secret, backupCodeHashes)
	return ret.Error(0)
}

// DisableTwoFactor provides a mock function.
func (_m *UserStore) DisableTwoFactor(ctx context.Context, id uuid.UUID) error {
	ret := _m.Called(ctx, id)
	return ret.Error(0)
}

// ReplaceBackupCodes provides a mock function.
func (_m *UserStore) ReplaceBackupCodes(ctx context.Context, id uuid.UUID, backupCodeHashes []string) error {
	ret := _m.Called(ctx, id, backupCodeHashes)
	return ret.Error(0)
}

// ConsumeBackupCode provides a mock function.
func (_m *UserStore) ConsumeBackupCode(ctx context.Context, id uuid.UUID, hash string) (bool, error) {
	ret := _m.Called(ctx, id, hash)
	r0, _ := ret.Get(0).(bool)
	return r0, ret.Error(1)
}

// ClaimFirstAdmin provides a mock function.
func (_m *UserStore) ClaimFirstAdmin(ctx context.Context, id uuid.UUID) (bool, error) {
	ret := _m.Called(ctx, id)
	r0, _ := ret.Get(0).(bool)
	return r0, ret.Error(1)
}

// SetAdmin provides a mock function.
func (_m *UserStore) SetAdmin(ctx context.Context, id uuid.UUID, isAdmin bool) error {
	ret := _m.Called(ctx, id, isAdmin)
	return ret.Error(0)
}

// CountAdmins provides a mock function.
func (_m *UserStore) CountAdmins(ctx context.Context) (int, error) {
	ret := _m.Called(ctx)
	r0, _ := ret.Get(0).(int)
	return r0, ret.Error(1)
}

// NewUserStore creates a new instance of UserStore. It registers a cleanup
// function to assert the mocks expectations.
func NewUserStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *UserStore {
	m := &UserStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
