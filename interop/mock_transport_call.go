// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package interop

import mock "github.com/stretchr/testify/mock"

// MockTransportCall is a testify mock of the TransportCall interface.
type MockTransportCall struct {
	mock.Mock
}

func (_m *MockTransportCall) StartSend(onDone SendDoneFunc, payload []byte, flags SendFlags, isFirstMessage bool) {
	_m.Called(onDone, payload, flags, isFirstMessage)
}

func (_m *MockTransportCall) StartReceive(onDone ReceiveDoneFunc) {
	_m.Called(onDone)
}

func (_m *MockTransportCall) StartHalfclose(onDone SendDoneFunc) {
	_m.Called(onDone)
}

func (_m *MockTransportCall) StartSendStatus(onDone SendDoneFunc, status Status) {
	_m.Called(onDone, status)
}

func (_m *MockTransportCall) Cancel() {
	_m.Called()
}

func (_m *MockTransportCall) CancelWithStatus(status Status) {
	_m.Called(status)
}

func (_m *MockTransportCall) Dispose() {
	_m.Called()
}

func NewMockTransportCall(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTransportCall {
	mock := &MockTransportCall{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
