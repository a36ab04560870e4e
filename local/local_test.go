// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package local

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/duplexrpc/callcore/core"
	"github.com/duplexrpc/callcore/interop"
	"github.com/duplexrpc/callcore/serdes"
	"github.com/duplexrpc/callcore/testdata"
)

type echoMessage struct {
	Seq int `json:"seq"`
}

func newEchoAdapter() *serdes.Adapter {
	return serdes.NewAdapter(serdes.JSONCodec{}, func() interface{} { return &echoMessage{} })
}

func sendAndAwait(ctx context.Context, call *core.Call, msg interface{}) error {
	done := make(chan error, 1)
	if err := call.Send(msg, 0, func(err error) { done <- err }); err != nil {
		return err
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func readAndAwait(ctx context.Context, call *core.Call) (interface{}, error) {
	fut, err := call.Read()
	if err != nil {
		return nil, err
	}
	return fut.Wait(ctx)
}

func TestEchoSession(t *testing.T) {
	initiator := core.NewCall(core.Initiator, newEchoAdapter())
	responder := core.NewCall(core.Responder, newEchoAdapter())
	require.NoError(t, Connect(initiator, responder))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	const messages = 3
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for seq := 1; seq <= messages; seq++ {
			if err := sendAndAwait(ctx, initiator, &echoMessage{Seq: seq}); err != nil {
				return err
			}
			reply, err := readAndAwait(ctx, initiator)
			if err != nil {
				return err
			}
			assert.Equal(t, seq, reply.(*echoMessage).Seq)
		}
		halfcloseDone := make(chan error, 1)
		if err := initiator.Halfclose(func(err error) { halfcloseDone <- err }); err != nil {
			return err
		}
		if err := testdata.WaitForErrorWithTimeout(halfcloseDone, time.Second); err != nil {
			return err
		}
		reply, err := readAndAwait(ctx, initiator)
		if err != nil {
			return err
		}
		assert.Nil(t, reply)
		return nil
	})

	g.Go(func() error {
		for {
			msg, err := readAndAwait(ctx, responder)
			if err != nil {
				return err
			}
			if msg == nil {
				statusDone := make(chan error, 1)
				if err := responder.SendStatus(interop.OKStatus(), func(err error) { statusDone <- err }); err != nil {
					return err
				}
				return <-statusDone
			}
			if err := sendAndAwait(ctx, responder, msg); err != nil {
				return err
			}
		}
	})

	require.NoError(t, g.Wait())

	// Both calls converge to released once the terminal signals land.
	assert.True(t, testdata.Eventually(t, func() (bool, error) {
		return initiator.Disposed() && responder.Disposed(), nil
	}, 10*time.Millisecond, 20))

	status, ok := initiator.TerminalStatus()
	require.True(t, ok)
	assert.Equal(t, interop.StatusOK, status.Code)
}

func TestCancellationPropagates(t *testing.T) {
	initiator := core.NewCall(core.Initiator, newEchoAdapter())
	responder := core.NewCall(core.Responder, newEchoAdapter())
	require.NoError(t, Connect(initiator, responder))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	respFut, err := responder.Read()
	require.NoError(t, err)

	require.NoError(t, initiator.Cancel())

	// The responder observes end-of-stream and its call finishes.
	msg, err := respFut.Wait(ctx)
	require.NoError(t, err)
	assert.Nil(t, msg)

	assert.True(t, testdata.Eventually(t, func() (bool, error) {
		status, ok := responder.TerminalStatus()
		return ok && status.Code == interop.StatusCancelled, nil
	}, 10*time.Millisecond, 20))
}

func TestLateSendAfterCloseDropped(t *testing.T) {
	a, b := NewPair()

	received := make(chan []byte, 1)
	b.deliverEOF()
	a.StartSend(func(ok bool) {}, []byte("late"), 0, true)
	b.StartReceive(func(ok bool, payload []byte) { received <- payload })

	select {
	case payload := <-received:
		assert.Nil(t, payload, "reads after EOF resolve end-of-stream")
	case <-time.After(time.Second):
		t.Fatal("receive did not complete")
	}
}
