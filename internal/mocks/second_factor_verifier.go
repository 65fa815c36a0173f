package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/journal-auth/internal/model"
)

// SecondFactorVerifier is a mock type for the SecondFactorVerifier type.
type SecondFactorVerifier struct {
	mock.Mock
}

// Name provides a mock function.
func (_m *SecondFactorVerifier) Name() string {
	ret := _m.Called()
	r0, _ := ret.Get(0).(string)
	return r0
}

// Verify provides a mock function.
func (_m *SecondFactorVerifier) Verify(ctx context.Context, user model.User, code string) (bool, error) {
	ret := _m.Called(ctx, user, code)
	r0, _ := ret.Get(0).(bool)
	return r0, ret.Error(1)
}

// NewSecondFactorVerifier creates a new instance of SecondFactorVerifier. It registers a cleanup
// function to assert the mocks expectations.
func NewSecondFactorVerifier(t interface {
	mock.TestingT
	Cleanup(func())
}) *SecondFactorVerifier {
	m := &SecondFactorVerifier{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
