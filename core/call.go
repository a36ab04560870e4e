// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package core implements the lifecycle state machine for a single
// bidirectional-streaming call. It mediates between application code
// issuing typed send/receive operations and a transport-level call
// handle that invokes completion callbacks from arbitrary goroutines.
//
// All mutable call state is guarded by one mutex. The lock is held only
// for state inspection and mutation; user-visible completions and
// futures are always dispatched after the lock has been released, so a
// consumer may re-enter the call synchronously from its callback.
package core

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/duplexrpc/callcore/core/statejson"
	"github.com/duplexrpc/callcore/interop"
	"github.com/duplexrpc/callcore/serdes"
)

// Call is the lifecycle state of one RPC invocation. A Call is
// constructed unstarted, bound to its transport resource with Start,
// and becomes inert once the resource guard has disposed the resource.
type Call struct {
	// AfterRelease, if set before Start, is invoked once after the
	// transport resource has been disposed. It runs outside the call lock.
	AfterRelease func()

	mutex     sync.Mutex
	id        string
	role      Role
	adapter   *serdes.Adapter
	transport interop.TransportCall
	logger    *log.Entry

	started             bool
	disposed            bool
	cancelRequested     bool
	halfcloseRequested  bool
	finished            bool
	readingDone         bool
	initialMetadataSent bool

	writePending     bool
	writeCompletion  CompletionFunc
	statusPending    bool
	statusCompletion CompletionFunc
	pendingRead      *ReadFuture
	lastReadFuture   *ReadFuture

	writeSequenceCounter uint64
	terminalStatus       *interop.Status
	stateLastModified    time.Time
}

// NewCall returns a new unstarted call bound to a serializer/deserializer pair.
func NewCall(role Role, adapter *serdes.Adapter) *Call {
	id := uuid.New().String()
	return &Call{
		id:      id,
		role:    role,
		adapter: adapter,
		logger:  log.WithField("callID", id),
	}
}

// ID returns the unique identifier of this call.
func (c *Call) ID() string {
	return c.id
}

// Role returns the role this call was constructed with.
func (c *Call) Role() Role {
	return c.role
}

// Start binds the call to its transport resource. It must be called
// exactly once, before any send or read.
func (c *Call) Start(transport interop.TransportCall) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.started {
		return ErrAlreadyStarted
	}
	c.started = true
	c.transport = transport
	c.touchUnsafe()
	return nil
}

// Send starts an asynchronous send of msg. At most one send may be
// outstanding at a time; onComplete is dispatched once the transport
// reports the outcome. The message is encoded before the lock is
// acquired so serialization cost never blocks other call operations.
func (c *Call) Send(msg interface{}, flags interop.SendFlags, onComplete CompletionFunc) error {
	payload, err := c.adapter.Encode(msg)
	if err != nil {
		return fmt.Errorf("EncodeFailed: %w", err)
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	if err := c.checkSendAllowedUnsafe(); err != nil {
		return err
	}
	isFirst := !c.initialMetadataSent
	c.initialMetadataSent = true
	c.writeSequenceCounter++
	c.writePending = true
	c.writeCompletion = onComplete
	c.touchUnsafe()
	c.transport.StartSend(c.onSendCompleted, payload, flags, isFirst)
	return nil
}

func (c *Call) checkSendAllowedUnsafe() error {
	if !c.started {
		return ErrNotStarted
	}
	if c.halfcloseRequested {
		return ErrAlreadyHalfclosed
	}
	if c.finished {
		return ErrAlreadyFinished
	}
	if c.writePending {
		return ErrWriteAlreadyPending
	}
	if c.cancelRequested {
		return ErrCancelled
	}
	return nil
}

// Halfclose signals that no further outgoing messages will be sent.
// Initiator role only. The half-close shares the single pending-write
// slot with Send.
func (c *Call) Halfclose(onComplete CompletionFunc) error {
	if c.role != Initiator {
		return ErrWrongRole
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if err := c.checkSendAllowedUnsafe(); err != nil {
		return err
	}
	c.halfcloseRequested = true
	c.writePending = true
	c.writeCompletion = onComplete
	c.touchUnsafe()
	c.transport.StartHalfclose(c.onSendCompleted)
	return nil
}

// SendStatus writes the call's terminal status to the peer. Responder
// role only. Completion marks the call half-closed: no further outgoing
// messages may follow a terminal status.
func (c *Call) SendStatus(status interop.Status, onComplete CompletionFunc) error {
	if c.role != Responder {
		return ErrWrongRole
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if !c.started {
		return ErrNotStarted
	}
	if c.halfcloseRequested {
		return ErrAlreadyHalfclosed
	}
	if c.finished {
		return ErrAlreadyFinished
	}
	if c.statusPending {
		return ErrStatusAlreadyPending
	}
	if c.cancelRequested {
		return ErrCancelled
	}
	c.statusPending = true
	c.statusCompletion = onComplete
	if c.terminalStatus == nil {
		st := status
		c.terminalStatus = &st
	}
	c.touchUnsafe()
	c.transport.StartSendStatus(c.onStatusSendCompleted, status)
	return nil
}

// Read starts an asynchronous receive and returns its future. At most
// one read may be outstanding at a time. Once a terminal (end-of-stream)
// result has been observed, Read returns the same resolved future on
// every subsequent invocation without touching the transport.
func (c *Call) Read() (*ReadFuture, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if !c.started {
		return nil, ErrNotStarted
	}
	if c.disposed {
		if c.readingDone && c.lastReadFuture != nil {
			return c.lastReadFuture, nil
		}
		return nil, ErrDisposed
	}
	if c.readingDone {
		if c.lastReadFuture == nil {
			return nil, ErrNoTerminalRead
		}
		return c.lastReadFuture, nil
	}
	if c.pendingRead != nil {
		return nil, ErrReadAlreadyPending
	}
	fut := newReadFuture()
	c.pendingRead = fut
	c.touchUnsafe()
	c.transport.StartReceive(c.onReadCompleted)
	return fut, nil
}

// Cancel requests cancellation of the call. The flag is monotonic: all
// subsequent send attempts fail, while in-flight operations are left to
// the transport to resolve. Safe to call repeatedly.
func (c *Call) Cancel() error {
	c.mutex.Lock()
	if !c.started {
		c.mutex.Unlock()
		return ErrNotStarted
	}
	c.cancelRequested = true
	if !c.disposed {
		c.transport.Cancel()
	}
	c.touchUnsafe()
	released, hook := c.releaseResourcesIfPossibleUnsafe()
	c.mutex.Unlock()
	if released && hook != nil {
		hook()
	}
	return nil
}

// CancelWithStatus is Cancel with an explicit terminal status supplied
// to the transport. Used internally to fail an initiator call on a
// deserialization error.
func (c *Call) CancelWithStatus(status interop.Status) error {
	c.mutex.Lock()
	if !c.started {
		c.mutex.Unlock()
		return ErrNotStarted
	}
	c.cancelRequested = true
	if c.terminalStatus == nil {
		st := status
		c.terminalStatus = &st
	}
	if !c.disposed {
		c.transport.CancelWithStatus(status)
	}
	c.touchUnsafe()
	released, hook := c.releaseResourcesIfPossibleUnsafe()
	c.mutex.Unlock()
	if released && hook != nil {
		hook()
	}
	return nil
}

// Finish records that the peer has delivered its terminal status or
// close signal. The higher layer that interprets terminal signals calls
// this once they arrive. Idempotent.
func (c *Call) Finish(status interop.Status) error {
	c.mutex.Lock()
	if !c.started {
		c.mutex.Unlock()
		return ErrNotStarted
	}
	if c.finished {
		c.mutex.Unlock()
		return nil
	}
	c.finished = true
	if c.terminalStatus == nil {
		st := status
		c.terminalStatus = &st
	}
	c.touchUnsafe()
	released, hook := c.releaseResourcesIfPossibleUnsafe()
	c.mutex.Unlock()
	if released && hook != nil {
		hook()
	}
	return nil
}

// TerminalStatus returns the recorded terminal status, if any.
func (c *Call) TerminalStatus() (interop.Status, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.terminalStatus == nil {
		return interop.Status{}, false
	}
	return *c.terminalStatus, true
}

// Disposed reports whether the transport resource has been released.
func (c *Call) Disposed() bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.disposed
}

// onSendCompleted is invoked by the transport when a send or half-close
// operation completes. Late completions arriving after disposal find no
// pending write and are ignored.
func (c *Call) onSendCompleted(ok bool) {
	c.mutex.Lock()
	if !c.writePending {
		c.mutex.Unlock()
		c.logger.Warn("Discarding send completion with no pending write")
		return
	}
	cb := c.writeCompletion
	c.writePending = false
	c.writeCompletion = nil
	c.touchUnsafe()
	released, hook := c.releaseResourcesIfPossibleUnsafe()
	c.mutex.Unlock()
	if released && hook != nil {
		hook()
	}
	var err error
	if !ok {
		err = ErrSendFailed
	}
	dispatchCompletion(c.logger, cb, err)
}

func (c *Call) onStatusSendCompleted(ok bool) {
	c.mutex.Lock()
	if !c.statusPending {
		c.mutex.Unlock()
		c.logger.Warn("Discarding status completion with no pending status")
		return
	}
	cb := c.statusCompletion
	c.statusPending = false
	c.statusCompletion = nil
	c.halfcloseRequested = true
	c.touchUnsafe()
	released, hook := c.releaseResourcesIfPossibleUnsafe()
	c.mutex.Unlock()
	if released && hook != nil {
		hook()
	}
	var err error
	if !ok {
		err = ErrSendFailed
	}
	dispatchCompletion(c.logger, cb, err)
}

// onReadCompleted is invoked by the transport when a receive operation
// completes. A nil payload, or a failed receive, is the terminal read:
// the resolved future is remembered and returned verbatim on any further
// read request.
func (c *Call) onReadCompleted(ok bool, payload []byte) {
	c.mutex.Lock()
	fut := c.pendingRead
	c.pendingRead = nil
	if fut == nil {
		c.mutex.Unlock()
		c.logger.Warn("Discarding receive completion with no pending read")
		return
	}

	var msg interface{}
	var resolveErr error
	var escalate *interop.Status
	if !ok || payload == nil {
		c.readingDone = true
		c.lastReadFuture = fut
	} else {
		decoded, err := c.adapter.Decode(payload)
		if err != nil {
			resolveErr, escalate = c.role.onDecodeFailure(c, fut, err)
		} else {
			msg = decoded
		}
	}
	c.touchUnsafe()
	released, hook := c.releaseResourcesIfPossibleUnsafe()
	c.mutex.Unlock()
	if released && hook != nil {
		hook()
	}

	if escalate != nil {
		if err := c.CancelWithStatus(*escalate); err != nil {
			c.logger.Errorf("Failed to cancel call on decode failure: %s", err)
		}
	}
	fut.resolve(msg, resolveErr)
}

func (c *Call) touchUnsafe() {
	c.stateLastModified = time.Now()
}

// Describe returns a state description object for debugging purposes.
func (c *Call) Describe() statejson.CallDescription {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	desc := statejson.CallDescription{
		ID:   c.id,
		Role: c.role.String(),
		Flags: statejson.FlagsDescription{
			Started:            c.started,
			Disposed:           c.disposed,
			CancelRequested:    c.cancelRequested,
			HalfcloseRequested: c.halfcloseRequested,
			Finished:           c.finished,
			ReadingDone:        c.readingDone,
			WritePending:       c.writePending,
			ReadPending:        c.pendingRead != nil,
			StatusPending:      c.statusPending,
		},
		WriteCount:   c.writeSequenceCounter,
		LastModified: c.stateLastModified.UnixNano() / int64(time.Millisecond),
	}
	if c.terminalStatus != nil {
		desc.TerminalStatus = &statejson.StatusDescription{
			Code:    string(c.terminalStatus.Code),
			Message: c.terminalStatus.Message,
		}
	}
	return desc
}
