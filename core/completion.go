// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	log "github.com/sirupsen/logrus"
)

// CompletionFunc is a user-supplied completion callback for a send
// operation. It receives nil on success or a typed operation error.
type CompletionFunc func(err error)

// dispatchCompletion invokes a user callback outside the call lock.
// Panics raised by the callback are isolated and logged so that a
// misbehaving consumer cannot corrupt the state machine or crash the
// dispatching goroutine.
func dispatchCompletion(logger *log.Entry, cb CompletionFunc, err error) {
	if cb == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("Completion callback panicked: %v", r)
		}
	}()
	cb(err)
}
