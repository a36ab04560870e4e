// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadFutureResolvesOnce(t *testing.T) {
	fut := newReadFuture()
	assert.False(t, fut.Resolved())

	fut.resolve("first", nil)
	fut.resolve("second", errors.New("ignored"))

	msg, err := fut.Result()
	assert.Equal(t, "first", msg)
	assert.NoError(t, err)
	assert.True(t, fut.Resolved())
}

func TestReadFutureDoneChannel(t *testing.T) {
	fut := newReadFuture()
	select {
	case <-fut.Done():
		t.Fatal("future resolved prematurely")
	default:
	}

	want := errors.New("ReadFailed")
	fut.resolve(nil, want)
	<-fut.Done()
	_, err := fut.Result()
	assert.Equal(t, want, err)
}
