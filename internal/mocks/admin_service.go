package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/journal-auth/internal/model"
)

// AdminService is a mock type for the AdminService type.
type AdminService struct {
	mock.Mock
}

// Claimable provides a mock function.
func (_m *AdminService) Claimable(ctx context.Context) (bool, error) {
	ret := _m.Called(ctx)
	r0, _ := ret.Get(0).(bool)
	return r0, ret.Error(1)
}

// ClaimFirstAdmin provides a mock function.
func (_m *AdminService) ClaimFirstAdmin(ctx context.Context, claims model.SessionClaims) (model.Session, error) {
	ret := _m.Called(ctx, claims)
	r0, _ := ret.Get(0).(model.Session)
	return r0, ret.Error(1)
}

// SetAdmin provides a mock function.
func (_m *AdminService) SetAdmin(ctx context.Context, claims model.SessionClaims, targetID uuid.UUID, isAdmin bool) error {
	ret := _m.Called(ctx, claims, targetID, isAdmin)
	return ret.Error(0)
}

// NewAdminService creates a new instance of AdminService. It registers a cleanup
// function to assert the mocks expectations.
func NewAdminService(t interface {
	mock.TestingT
	Cleanup(func())
}) *AdminService {
	m := &AdminService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
