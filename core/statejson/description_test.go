// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package statejson

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallDescriptionAsJSON(t *testing.T) {
	description := CallDescription{
		ID:   "abc",
		Role: "Initiator",
		Flags: FlagsDescription{
			Started:     true,
			ReadingDone: true,
		},
		WriteCount:     3,
		TerminalStatus: &StatusDescription{Code: "OK"},
		LastModified:   1700000000000,
	}

	var decoded CallDescription
	require.NoError(t, json.Unmarshal(description.AsJSON(), &decoded))
	assert.Equal(t, description, decoded)
}

func TestStatusMessageOmittedWhenEmpty(t *testing.T) {
	description := CallDescription{ID: "abc", TerminalStatus: &StatusDescription{Code: "Cancelled"}}
	assert.NotContains(t, string(description.AsJSON()), "message")
}
