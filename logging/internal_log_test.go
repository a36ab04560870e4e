// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInternalFormatter(t *testing.T) {
	entry := &logrus.Entry{
		Time:    time.Date(2021, time.March, 12, 14, 15, 16, 17000000, time.UTC),
		Level:   logrus.WarnLevel,
		Message: "call released",
		Data:    logrus.Fields{"callID": "abc"},
	}

	line, err := (&InternalFormatter{}).Format(entry)
	require.NoError(t, err)
	assert.Equal(t, "12 Mar 2021 14:15:16.017 [WARNING] (callID=abc) call released\n", string(line))
}

func TestInternalFormatterWithoutFields(t *testing.T) {
	entry := &logrus.Entry{
		Time:    time.Date(2021, time.March, 12, 14, 15, 16, 0, time.UTC),
		Level:   logrus.InfoLevel,
		Message: "started",
	}

	line, err := (&InternalFormatter{}).Format(entry)
	require.NoError(t, err)
	assert.Equal(t, "12 Mar 2021 14:15:16.000 [INFO] started\n", string(line))
}
