package mocks

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/journal-auth/internal/model"
)

// SessionIssuer is a mock type for the SessionIssuer type.
type SessionIssuer struct {
	mock.Mock
}

// Sign provides a mock function.
func (_m *SessionIssuer) Sign(claims model.SessionClaims, ttl time.Duration) (string, error) {
	ret := _m.Called(claims, ttl)
	r0, _ := ret.Get(0).(string)
	return r0, ret.Error(1)
}

// Verify provides a mock function.
func (_m *SessionIssuer) Verify(token string) (model.SessionClaims, error) {
	ret := _m.Called(token)
	r0, _ := ret.Get(0).(model.SessionClaims)
	return r0, ret.Error(1)
}

// VerifySession provides a mock function.
func (_m *SessionIssuer) VerifySession(token string) (model.SessionClaims, error) {
	ret := _m.Called(token)
	r0, _ := ret.Get(0).(model.SessionClaims)
	return r0, ret.Error(1)
}

// VerifyPending provides a mock function.
func (_m *SessionIssuer) VerifyPending(token string) (model.SessionClaims, error) {
	ret := _m.Called(token)
	r0, _ := ret.Get(0).(model.SessionClaims)
	return r0, ret.Error(1)
}

// NewSessionIssuer creates a new instance of SessionIssuer. It registers a cleanup
// function to assert the mocks expectations.
func NewSessionIssuer(t interface {
	mock.TestingT
	Cleanup(func())
}) *SessionIssuer {
	m := &SessionIssuer{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
