// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package local provides an in-process transport pair for wiring an
// initiator call to a responder call without a network. Every completion
// is delivered on a fresh goroutine, matching the contract that
// transport completions arrive on arbitrary worker goroutines.
package local

import (
	"sync"

	"github.com/duplexrpc/callcore/core"
	"github.com/duplexrpc/callcore/interop"
)

// Endpoint is one side of an in-process transport pair.
type Endpoint struct {
	mutex       sync.Mutex
	peer        *Endpoint
	queue       [][]byte
	eof         bool
	terminal    *interop.Status
	pendingRecv interop.ReceiveDoneFunc
	onTerminal  func(interop.Status)
	cancelled   bool
	disposed    bool
}

var _ interop.TransportCall = (*Endpoint)(nil)

// NewPair returns two endpoints wired back to back.
func NewPair() (*Endpoint, *Endpoint) {
	a := &Endpoint{}
	b := &Endpoint{}
	a.peer = b
	b.peer = a
	return a, b
}

// NotifyTerminal registers fn to be invoked once a terminal status
// reaches this endpoint, either from the peer or from local
// cancellation. Must be set before the endpoint is used.
func (e *Endpoint) NotifyTerminal(fn func(interop.Status)) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.onTerminal = fn
}

func (e *Endpoint) StartSend(onDone interop.SendDoneFunc, payload []byte, flags interop.SendFlags, isFirstMessage bool) {
	e.mutex.Lock()
	cancelled := e.cancelled || e.disposed
	e.mutex.Unlock()
	if cancelled {
		go onDone(false)
		return
	}
	buf := make([]byte, len(payload))
	copy(buf, payload)
	e.peer.deliver(buf)
	go onDone(true)
}

func (e *Endpoint) StartHalfclose(onDone interop.SendDoneFunc) {
	e.peer.deliverEOF()
	go onDone(true)
}

func (e *Endpoint) StartSendStatus(onDone interop.SendDoneFunc, status interop.Status) {
	e.peer.deliverTerminal(status)
	// The sending side's call is over once the status is on the wire.
	e.deliverTerminal(status)
	go onDone(true)
}

func (e *Endpoint) StartReceive(onDone interop.ReceiveDoneFunc) {
	e.mutex.Lock()
	if len(e.queue) > 0 {
		payload := e.queue[0]
		e.queue = e.queue[1:]
		e.mutex.Unlock()
		go onDone(true, payload)
		return
	}
	if e.eof {
		e.mutex.Unlock()
		go onDone(true, nil)
		return
	}
	e.pendingRecv = onDone
	e.mutex.Unlock()
}

func (e *Endpoint) Cancel() {
	e.CancelWithStatus(interop.CancelledStatus("Call cancelled"))
}

func (e *Endpoint) CancelWithStatus(status interop.Status) {
	e.mutex.Lock()
	e.cancelled = true
	e.mutex.Unlock()
	e.peer.deliverTerminal(status)
	e.deliverTerminal(status)
}

func (e *Endpoint) Dispose() {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.disposed = true
	e.queue = nil
	e.pendingRecv = nil
}

func (e *Endpoint) deliver(payload []byte) {
	e.mutex.Lock()
	if e.eof || e.disposed {
		// Late message after close, dropped.
		e.mutex.Unlock()
		return
	}
	if e.pendingRecv != nil {
		cb := e.pendingRecv
		e.pendingRecv = nil
		e.mutex.Unlock()
		go cb(true, payload)
		return
	}
	e.queue = append(e.queue, payload)
	e.mutex.Unlock()
}

func (e *Endpoint) deliverEOF() {
	e.mutex.Lock()
	e.eof = true
	cb := e.pendingRecv
	e.pendingRecv = nil
	e.mutex.Unlock()
	if cb != nil {
		go cb(true, nil)
	}
}

func (e *Endpoint) deliverTerminal(status interop.Status) {
	e.mutex.Lock()
	if e.terminal != nil {
		e.mutex.Unlock()
		return
	}
	st := status
	e.terminal = &st
	e.eof = true
	cb := e.pendingRecv
	e.pendingRecv = nil
	notify := e.onTerminal
	e.mutex.Unlock()
	if cb != nil {
		go cb(true, nil)
	}
	if notify != nil {
		go notify(status)
	}
}

// Connect wires an initiator call and a responder call over a new
// endpoint pair and starts both. Terminal statuses observed by each
// endpoint are forwarded to the matching call via Finish.
func Connect(initiator *core.Call, responder *core.Call) error {
	a, b := NewPair()
	a.NotifyTerminal(func(st interop.Status) { _ = initiator.Finish(st) })
	b.NotifyTerminal(func(st interop.Status) { _ = responder.Finish(st) })
	if err := initiator.Start(a); err != nil {
		return err
	}
	return responder.Start(b)
}
