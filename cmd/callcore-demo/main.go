// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// callcore-demo runs an initiator/responder echo session over the
// in-process transport and optionally serves the debug state API.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/duplexrpc/callcore/core"
	"github.com/duplexrpc/callcore/interop"
	"github.com/duplexrpc/callcore/local"
	"github.com/duplexrpc/callcore/logging"
	"github.com/duplexrpc/callcore/serdes"
	"github.com/duplexrpc/callcore/standalone"
)

type options struct {
	LogLevel  string `long:"log-level" default:"info" description:"log level"`
	Messages  int    `long:"messages" default:"3" description:"number of messages the initiator sends"`
	DebugAddr string `long:"debug-listen" description:"listen address for the debug state API"`
}

type echoMessage struct {
	Seq  int    `json:"seq"`
	Body string `json:"body"`
}

func main() {
	opts := getCLIArgs()
	logging.SetLogLevel(opts.LogLevel)

	registry := core.NewRegistry()
	adapter := serdes.NewAdapter(serdes.JSONCodec{}, func() interface{} { return &echoMessage{} })

	initiator := core.NewCall(core.Initiator, adapter)
	responder := core.NewCall(core.Responder, adapter)
	registry.Register(initiator)
	registry.Register(responder)

	if opts.DebugAddr != "" {
		go func() {
			log.Infof("Debug state API listening on %s", opts.DebugAddr)
			if err := http.ListenAndServe(opts.DebugAddr, standalone.NewHTTPRouter(registry)); err != nil {
				log.WithError(err).Error("Debug state API failed")
			}
		}()
	}

	if err := local.Connect(initiator, responder); err != nil {
		log.WithError(err).Fatal("Failed to connect calls")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return runInitiator(ctx, initiator, opts.Messages) })
	g.Go(func() error { return runResponder(ctx, responder) })
	if err := g.Wait(); err != nil {
		log.WithError(err).Fatal("Echo session failed")
	}

	waitReleased(initiator, "initiator")
	waitReleased(responder, "responder")
	log.Infof("Echo session complete, %d calls still registered", registry.Count())
}

func getCLIArgs() options {
	var opts options
	parser := flags.NewParser(&opts, flags.IgnoreUnknown)
	if _, err := parser.ParseArgs(os.Args); err != nil {
		log.WithError(err).Fatal("Failed to parse command line arguments:", os.Args)
	}
	return opts
}

func runInitiator(ctx context.Context, call *core.Call, messages int) error {
	for seq := 1; seq <= messages; seq++ {
		if err := sendAndAwait(ctx, call, &echoMessage{Seq: seq, Body: fmt.Sprintf("message-%d", seq)}); err != nil {
			return err
		}
		reply, err := readAndAwait(ctx, call)
		if err != nil {
			return err
		}
		log.Infof("initiator: <- %+v", reply)
	}

	halfcloseDone := make(chan error, 1)
	if err := call.Halfclose(func(err error) { halfcloseDone <- err }); err != nil {
		return err
	}
	if err := awaitCompletion(ctx, halfcloseDone); err != nil {
		return err
	}

	// Drain the terminal read; the responder's status arrives as end-of-stream.
	reply, err := readAndAwait(ctx, call)
	if err != nil {
		return err
	}
	if reply != nil {
		return fmt.Errorf("expected end-of-stream, got %+v", reply)
	}
	if status, ok := call.TerminalStatus(); ok {
		log.Infof("initiator: call finished with status %s", status)
	}
	return nil
}

func runResponder(ctx context.Context, call *core.Call) error {
	for {
		msg, err := readAndAwait(ctx, call)
		if err != nil {
			return err
		}
		if msg == nil {
			// Initiator half-closed, send the terminal status.
			statusDone := make(chan error, 1)
			if err := call.SendStatus(interop.OKStatus(), func(err error) { statusDone <- err }); err != nil {
				return err
			}
			return awaitCompletion(ctx, statusDone)
		}
		echo := msg.(*echoMessage)
		log.Debugf("responder: echoing %+v", echo)
		if err := sendAndAwait(ctx, call, echo); err != nil {
			return err
		}
	}
}

func sendAndAwait(ctx context.Context, call *core.Call, msg *echoMessage) error {
	done := make(chan error, 1)
	if err := call.Send(msg, 0, func(err error) { done <- err }); err != nil {
		return err
	}
	return awaitCompletion(ctx, done)
}

func readAndAwait(ctx context.Context, call *core.Call) (interface{}, error) {
	fut, err := call.Read()
	if err != nil {
		return nil, err
	}
	return fut.Wait(ctx)
}

func awaitCompletion(ctx context.Context, done <-chan error) error {
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func waitReleased(call *core.Call, name string) {
	for i := 0; i < 50; i++ {
		if call.Disposed() {
			log.Debugf("%s: resources released", name)
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	log.Warnf("%s: resources still held", name)
}
