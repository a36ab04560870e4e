// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package interop

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusString(t *testing.T) {
	assert.Equal(t, "OK", OKStatus().String())
	assert.Equal(t, "Cancelled: deadline passed", CancelledStatus("deadline passed").String())
	assert.Equal(t, "Internal: boom", InternalStatus("boom").String())
}

func TestSendFlags(t *testing.T) {
	flags := SendBufferHint | SendNoCompress
	assert.NotZero(t, flags&SendBufferHint)
	assert.NotZero(t, flags&SendNoCompress)
}
