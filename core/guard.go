// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

// releaseReadyUnsafe is the release predicate, evaluated with the call
// lock held. The transport resource may be released once no send-side
// completion can still arrive and the read pipeline has fully drained:
// no pending write or status, an outgoing close (half-close, cancel or
// finish) has been requested, the terminal read has been observed, and
// the peer's terminal signal has been received.
func (c *Call) releaseReadyUnsafe() bool {
	noMoreSendCompletions := !c.writePending && !c.statusPending &&
		(c.halfcloseRequested || c.cancelRequested || c.finished)
	return noMoreSendCompletions && c.readingDone && c.finished
}

// releaseResourcesIfPossibleUnsafe disposes the transport resource when
// the release predicate holds. Called with the lock held after every
// state transition; redundant evaluation is a no-op. It returns whether
// release occurred along with the post-release hook, which the caller
// must invoke after unlocking.
func (c *Call) releaseResourcesIfPossibleUnsafe() (bool, func()) {
	if c.disposed || c.transport == nil {
		return false, nil
	}
	if !c.releaseReadyUnsafe() {
		return false, nil
	}
	c.disposed = true
	c.transport.Dispose()
	c.touchUnsafe()
	c.logger.Debug("Call resources released")
	return true, c.AfterRelease
}

// TryRelease re-evaluates the release predicate and disposes the
// transport resource if it holds. Safe to call redundantly; returns
// whether release occurred on this evaluation.
func (c *Call) TryRelease() bool {
	c.mutex.Lock()
	released, hook := c.releaseResourcesIfPossibleUnsafe()
	c.mutex.Unlock()
	if released && hook != nil {
		hook()
	}
	return released
}
