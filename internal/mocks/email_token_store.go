package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/journal-auth/internal/model"
)

// EmailTokenStore is a mock type for the EmailTokenStore type.
type EmailTokenStore struct {
	mock.Mock
}

// Create provides a mock function.
func (_m *EmailTokenStore) Create(ctx context.Context, token model.EmailToken) error {
	ret := _m.Called(ctx, token)
	return ret.Error(0)
}

// GetByHash provides a mock function.
func (_m *EmailTokenStore) GetByHash(ctx context.Context, hash string, tokenType model.EmailTokenType) (model.EmailToken, error) {
	ret := _m.Called(ctx, hash, tokenType)
	r0, _ := ret.Get(0).(model.EmailToken)
	return r0, ret.Error(1)
}

// GetLatestUnused provides a mock function.
func (_m *EmailTokenStore) GetLatestUnused(ctx context.Context, userID uuid.UUID, tokenType model.EmailTokenType) (model.EmailToken, error) {
	ret := _m.Called(ctx, userID, tokenType)
	r0, _ := ret.Get(0).(model.EmailToken)
	return r0, ret.Error(1)
}

// Consume provides a mock function.
func (_m *EmailTokenStore) Consume(ctx context.Context, id uuid.UUID) (bool, error) {
	ret := _m.Called(ctx, id)
	r0, _ := ret.Get(0).(bool)
	return r0, ret.Error(1)
}

// InvalidateUnused provides a mock function.
func (_m *EmailTokenStore) InvalidateUnused(ctx context.Context, userID uuid.UUID, tokenType model.EmailTokenType) error {
	ret := _m.Called(ctx, userID, tokenType)
	return ret.Error(0)
}

// NewEmailTokenStore creates a new instance of EmailTokenStore. It registers a cleanup
// function to assert the mocks expectations.
func NewEmailTokenStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *EmailTokenStore {
	m := &EmailTokenStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
