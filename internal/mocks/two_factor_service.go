package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/journal-auth/internal/model"
)

// TwoFactorService is a mock type for the TwoFactorService type.
type TwoFactorService struct {
	mock.Mock
}

// Setup provides a mock function.
func (_m *TwoFactorService) Setup(ctx context.Context, claims model.SessionClaims) (model.TwoFactorSetup, error) {
	ret := _m.Called(ctx, claims)
	r0, _ := ret.Get(0).(model.TwoFactorSetup)
	return r0, ret.Error(1)
}

// Enable provides a mock function.
func (_m *TwoFactorService) Enable(ctx context.Context, claims model.SessionClaims, secret string, code string) ([]string, error) {
	ret := _m.Called(ctx, claims, secret, code)
	r0, _ := ret.Get(0).([]string)
	return r0, ret.Error(1)
}

// Disable provides a mock function.
func (_m *TwoFactorService) Disable(ctx context.Context, claims model.SessionClaims, code string) error {
	ret := _m.Called(ctx, claims, code)
	return ret.Error(0)
}

// RegenerateBackupCodes provides a mock function.
func (_m *TwoFactorService) RegenerateBackupCodes(ctx context.Context, claims model.SessionClaims, code string) ([]string, error) {
	ret := _m.Called(ctx, claims, code)
	r0, _ := ret.Get(0).([]string)
	return r0, ret.Error(1)
}

// Verify provides a mock function.
func (_m *TwoFactorService) Verify(ctx context.Context, claims model.SessionClaims, code string) (model.Session, error) {
	ret := _m.Called(ctx, claims, code)
	r0, _ := ret.Get(0).(model.Session)
	return r0, ret.Error(1)
}

// RequestEmailOTP provides a mock function.
func (_m *TwoFactorService) RequestEmailOTP(ctx context.Context, claims model.SessionClaims) error {
	ret := _m.Called(ctx, claims)
	return ret.Error(0)
}

// NewTwoFactorService creates a new instance of TwoFactorService. It registers a cleanup
// function to assert the mocks expectations.
func NewTwoFactorService(t interface {
	mock.TestingT
	Cleanup(func())
}) *TwoFactorService {
	m := &TwoFactorService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
