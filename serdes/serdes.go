// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package serdes adapts pluggable encode/decode function pairs to the
// raw byte payloads exchanged with the transport. Decode failures are
// captured as values and never unwound across the asynchronous boundary.
package serdes

import (
	"encoding/json"
	"fmt"
)

// Codec is a pluggable serialization format.
type Codec interface {
	Marshal(v interface{}) ([]byte, error)
	Unmarshal(data []byte, v interface{}) error
}

// DecodeError wraps a deserialization failure captured at decode time.
type DecodeError struct {
	Cause error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("MessageDecodeFailed: %s", e.Cause)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// Adapter binds a codec to a message constructor. One adapter is shared
// across all calls carrying the same message types.
type Adapter struct {
	codec      Codec
	newMessage func() interface{}
}

// NewAdapter returns an adapter decoding into messages produced by newMessage.
func NewAdapter(codec Codec, newMessage func() interface{}) *Adapter {
	return &Adapter{codec: codec, newMessage: newMessage}
}

// Encode converts a typed message to its wire payload.
func (a *Adapter) Encode(msg interface{}) ([]byte, error) {
	return a.codec.Marshal(msg)
}

// Decode converts a wire payload to a typed message. Failures are
// returned as a *DecodeError value.
func (a *Adapter) Decode(payload []byte) (interface{}, error) {
	msg := a.newMessage()
	if err := a.codec.Unmarshal(payload, msg); err != nil {
		return nil, &DecodeError{Cause: err}
	}
	return msg, nil
}

// JSONCodec serializes messages with encoding/json.
type JSONCodec struct{}

func (JSONCodec) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (JSONCodec) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}
