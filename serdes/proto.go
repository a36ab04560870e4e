// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package serdes

import (
	"fmt"

	"google.golang.org/protobuf/proto"
)

// ProtoCodec serializes protobuf messages.
type ProtoCodec struct{}

func (ProtoCodec) Marshal(v interface{}) ([]byte, error) {
	msg, ok := v.(proto.Message)
	if !ok {
		return nil, fmt.Errorf("NotAProtoMessage: %T", v)
	}
	return proto.Marshal(msg)
}

func (ProtoCodec) Unmarshal(data []byte, v interface{}) error {
	msg, ok := v.(proto.Message)
	if !ok {
		return fmt.Errorf("NotAProtoMessage: %T", v)
	}
	return proto.Unmarshal(data, msg)
}
