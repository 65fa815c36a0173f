package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/journal-auth/internal/model"
)

// Mailer is a mock type for the Mailer type.
type Mailer struct {
	mock.Mock
}

// Send provides a mock function.
func (_m *Mailer) Send(ctx context.Context, msg model.Message) error {
	ret := _m.Called(ctx, msg)
	return ret.Error(0)
}

// NewMailer creates a new instance of Mailer. It registers a cleanup
// function to assert the mocks expectations.
func NewMailer(t interface {
	mock.TestingT
	Cleanup(func())
}) *Mailer {
	m := &Mailer{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
