// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package interop defines the contract between the call lifecycle core
// and its transport-level collaborator, plus the status model shared by
// both sides of a call.
package interop

import "fmt"

// SendDoneFunc is invoked by the transport when a send-pipeline
// operation completes. It may be invoked from any goroutine.
type SendDoneFunc func(ok bool)

// ReceiveDoneFunc is invoked by the transport when a receive operation
// completes. A nil payload signals end-of-stream; transports must
// deliver zero-length messages as non-nil empty slices.
type ReceiveDoneFunc func(ok bool, payload []byte)

// SendFlags carry per-send hints to the transport.
type SendFlags uint32

const (
	// SendBufferHint indicates the transport may delay flushing this message.
	SendBufferHint SendFlags = 1 << iota
	// SendNoCompress indicates the transport must not compress this message.
	SendNoCompress
)

// TransportCall is the capability the lifecycle core requires of the
// underlying call resource. All Start* methods are non-blocking and must
// not invoke their completion callback synchronously from the calling
// goroutine; completions arrive later from transport-owned goroutines.
type TransportCall interface {
	StartSend(onDone SendDoneFunc, payload []byte, flags SendFlags, isFirstMessage bool)
	StartReceive(onDone ReceiveDoneFunc)
	// StartHalfclose signals that the initiator will send no further messages.
	StartHalfclose(onDone SendDoneFunc)
	// StartSendStatus writes the responder's terminal status to the peer.
	StartSendStatus(onDone SendDoneFunc, status Status)
	Cancel()
	CancelWithStatus(status Status)
	// Dispose releases all native resources held by the call. It is called
	// exactly once, after which no other method is invoked.
	Dispose()
}

// StatusCode classifies a terminal call status.
type StatusCode string

const (
	StatusOK        StatusCode = "OK"
	StatusCancelled StatusCode = "Cancelled"
	StatusInternal  StatusCode = "Internal"
	StatusUnknown   StatusCode = "Unknown"
)

// Status is a terminal call status delivered to or received from the peer.
type Status struct {
	Code    StatusCode
	Message string
}

func (s Status) String() string {
	if s.Message == "" {
		return string(s.Code)
	}
	return fmt.Sprintf("%s: %s", s.Code, s.Message)
}

// OKStatus is the terminal status of a call that completed normally.
func OKStatus() Status {
	return Status{Code: StatusOK}
}

// CancelledStatus builds a cancellation status with the given message.
func CancelledStatus(message string) Status {
	return Status{Code: StatusCancelled, Message: message}
}

// InternalStatus builds an internal-error status with the given message.
func InternalStatus(message string) Status {
	return Status{Code: StatusInternal, Message: message}
}
