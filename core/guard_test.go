// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/duplexrpc/callcore/interop"
)

// Drives a full initiator lifecycle against the testify transport mock
// and verifies the resource is disposed exactly one time.
func TestGuardDisposesExactlyOnce(t *testing.T) {
	transport := interop.NewMockTransportCall(t)

	var halfcloseDone interop.SendDoneFunc
	var receiveDone interop.ReceiveDoneFunc
	transport.On("StartHalfclose", mock.Anything).Run(func(args mock.Arguments) {
		halfcloseDone = args.Get(0).(interop.SendDoneFunc)
	}).Once()
	transport.On("StartReceive", mock.Anything).Run(func(args mock.Arguments) {
		receiveDone = args.Get(0).(interop.ReceiveDoneFunc)
	}).Once()
	transport.On("Dispose").Once()

	call := NewCall(Initiator, newTestAdapter())
	require.NoError(t, call.Start(transport))

	require.NoError(t, call.Halfclose(nil))
	halfcloseDone(true)

	fut, err := call.Read()
	require.NoError(t, err)
	receiveDone(true, nil)
	_, err = fut.Result()
	require.NoError(t, err)

	require.NoError(t, call.Finish(interop.OKStatus()))
	assert.True(t, call.Disposed())
	assert.False(t, call.TryRelease())
	transport.AssertNumberOfCalls(t, "Dispose", 1)
}

func TestGuardPredicateRequiresAllClauses(t *testing.T) {
	call, transport := newStartedCall(t, Initiator)

	// finished alone is not enough.
	require.NoError(t, call.Finish(interop.OKStatus()))
	assert.False(t, call.Disposed())

	// readingDone completes the predicate.
	fut, err := call.Read()
	require.NoError(t, err)
	transport.lastReceive()(true, nil)
	_, err = fut.Result()
	require.NoError(t, err)

	assert.True(t, call.Disposed())
	assert.Equal(t, 1, transport.disposeCount())
}
