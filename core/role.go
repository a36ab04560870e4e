// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"github.com/duplexrpc/callcore/interop"
)

// Role selects the two-variant behavior of a call: the Initiator
// originates the call, the Responder serves it. The variants differ only
// in how a decode failure on read is disposed of and in what a terminal
// read means to the higher layer.
type Role int

const (
	Initiator Role = iota
	Responder
)

func (r Role) String() string {
	switch r {
	case Initiator:
		return "Initiator"
	case Responder:
		return "Responder"
	default:
		return "Unknown"
	}
}

const deserializeFailureMessage = "Failed to deserialize response message."

// onDecodeFailure applies the role-specific disposition of a decode
// failure to the call. Invoked with the call lock held; it returns the
// error the pending future resolves with and, for the Initiator, the
// status the call must be cancelled with after the lock is released.
//
// The Initiator escalates: the read pipeline terminates, the failure
// surfaces through the call's terminal status, and the pending future
// still resolves successfully with an empty message. The Responder fails
// only the read itself: the future resolves with the decode error and
// call state is left untouched.
func (r Role) onDecodeFailure(c *Call, fut *ReadFuture, cause error) (resolveErr error, escalate *interop.Status) {
	if r == Initiator {
		c.readingDone = true
		c.lastReadFuture = fut
		status := interop.InternalStatus(deserializeFailureMessage)
		return nil, &status
	}
	return cause, nil
}
