// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"context"
	"sync"
)

// ReadFuture is the asynchronous result of one read operation. It is
// resolved exactly once, with either a decoded message, a nil message
// signaling end-of-stream, or an error.
type ReadFuture struct {
	once sync.Once
	done chan struct{}
	msg  interface{}
	err  error
}

func newReadFuture() *ReadFuture {
	return &ReadFuture{done: make(chan struct{})}
}

func (f *ReadFuture) resolve(msg interface{}, err error) {
	f.once.Do(func() {
		f.msg = msg
		f.err = err
		close(f.done)
	})
}

// Done is closed when the future has been resolved.
func (f *ReadFuture) Done() <-chan struct{} {
	return f.done
}

// Result blocks until the future resolves. A nil message with a nil
// error signals end-of-stream.
func (f *ReadFuture) Result() (interface{}, error) {
	<-f.done
	return f.msg, f.err
}

// Wait blocks until the future resolves or ctx is done.
func (f *ReadFuture) Wait(ctx context.Context) (interface{}, error) {
	select {
	case <-f.done:
		return f.msg, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Resolved reports whether the future has been resolved.
func (f *ReadFuture) Resolved() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}
