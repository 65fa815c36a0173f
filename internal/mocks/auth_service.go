package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/journal-auth/internal/model"
)

// AuthService is a mock type for the AuthService type.
type AuthService struct {
	mock.Mock
}

// Register provides a mock function.
func (_m *AuthService) Register(ctx context.Context, input model.RegisterInput) error {
	ret := _m.Called(ctx, input)
	return ret.Error(0)
}

// VerifyEmail provides a mock function.
func (_m *AuthService) VerifyEmail(ctx context.Context, rawToken string) error {
	ret := _m.Called(ctx, rawToken)
	return ret.Error(0)
}

// ResendVerification provides a mock function.
func (_m *AuthService) ResendVerification(ctx context.Context, email string) error {
	ret := _m.Called(ctx, email)
	return ret.Error(0)
}

// Login provides a mock function.
func (_m *AuthService) Login(ctx context.Context, email string, password string) (model.LoginResult, error) {
	ret := _m.Called(ctx, email, password)
	r0, _ := ret.Get(0).(model.LoginResult)
	return r0, ret.Error(1)
}

// RequestPasswordReset provides a mock function.
func (_m *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	ret := _m.Called(ctx, email)
	return ret.Error(0)
}

// ResetPassword provides a mock function.
func (_m *AuthService) ResetPassword(ctx context.Context, input model.PasswordReset) error {
	ret := _m.Called(ctx, input)
	return ret.Error(0)
}

// Me provides a mock function.
func (_m *AuthService) Me(ctx context.Context, claims model.SessionClaims) (model.User, error) {
	ret := _m.Called(ctx, claims)
	r0, _ := ret.Get(0).(model.User)
	return r0, ret.Error(1)
}

// NewAuthService creates a new instance of AuthService. It registers a cleanup
// function to assert the mocks expectations.
func NewAuthService(t interface {
	mock.TestingT
	Cleanup(func())
}) *AuthService {
	m := &AuthService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
