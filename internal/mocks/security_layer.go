package mocks

import (
	"net"

	"github.com/stretchr/testify/mock"
)

// SecurityLayer is a mock type for the SecurityLayer type.
type SecurityLayer struct {
	mock.Mock
}

// Listen provides a mock function.
func (_m *SecurityLayer) Listen(protocol string, addr string) (net.Listener, error) {
	ret := _m.Called(protocol, addr)
	r0, _ := ret.Get(0).(net.Listener)
	return r0, ret.Error(1)
}

// NewSecurityLayer creates a new instance of SecurityLayer. It registers a cleanup
// function to assert the mocks expectations.
func NewSecurityLayer(t interface {
	mock.TestingT
	Cleanup(func())
}) *SecurityLayer {
	m := &SecurityLayer{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
