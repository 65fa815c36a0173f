package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/journal-auth/internal/model"
)

// ContextManager is a mock type for the ContextManager type.
type ContextManager struct {
	mock.Mock
}

// SetClaimsToContext provides a mock function.
func (_m *ContextManager) SetClaimsToContext(ctx context.Context, claims model.SessionClaims) context.Context {
	ret := _m.Called(ctx, claims)
	r0, _ := ret.Get(0).(context.Context)
	return r0
}

// GetClaimsFromContext provides a mock function.
func (_m *ContextManager) GetClaimsFromContext(ctx context.Context) (model.SessionClaims, bool) {
	ret := _m.Called(ctx)
	r0, _ := ret.Get(0).(model.SessionClaims)
	r1, _ := ret.Get(1).(bool)
	return r0, r1
}

// NewContextManager creates a new instance of ContextManager. It registers a cleanup
// function to assert the mocks expectations.
func NewContextManager(t interface {
	mock.TestingT
	Cleanup(func())
}) *ContextManager {
	m := &ContextManager{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
