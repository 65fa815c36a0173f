package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/journal-auth/internal/ratelimit"
)

// Limiter is a mock type for the Limiter type.
type Limiter struct {
	mock.Mock
}

// Allow provides a mock function.
func (_m *Limiter) Allow(ctx context.Context, policy ratelimit.Policy, clientKey string) (ratelimit.Decision, error) {
	ret := _m.Called(ctx, policy, clientKey)
	r0, _ := ret.Get(0).(ratelimit.Decision)
	return r0, ret.Error(1)
}

// NewLimiter creates a new instance of Limiter. It registers a cleanup
// function to assert the mocks expectations.
func NewLimiter(t interface {
	mock.TestingT
	Cleanup(func())
}) *Limiter {
	m := &Limiter{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
