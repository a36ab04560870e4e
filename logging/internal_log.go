// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package logging configures the library's internal operational logs.
package logging

import (
	"fmt"
	"io"
	"log"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// SetOutput configures logging output for standard loggers.
func SetOutput(w io.Writer) {
	log.SetOutput(w)
	logrus.SetOutput(w)
}

// SetLogLevel sets the log level for internal logging. Needs to be called
// very early during startup to configure logs emitted during initialization.
func SetLogLevel(logLevel string) {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to set log level. Valid log levels are:", logrus.AllLevels)
	}

	logrus.SetLevel(level)
	logrus.SetFormatter(&InternalFormatter{})
}

// InternalFormatter renders internal log lines as
// "02 Jan 2006 15:04:05.000 [LEVEL] (field=value ...) msg".
type InternalFormatter struct{}

func (f *InternalFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var sb strings.Builder

	sb.WriteString(entry.Time.Format("02 Jan 2006 15:04:05.000"))
	sb.WriteString(fmt.Sprintf(" [%s]", strings.ToUpper(entry.Level.String())))

	if len(entry.Data) > 0 {
		keys := make([]string, 0, len(entry.Data))
		for k := range entry.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, entry.Data[k]))
		}
		sb.WriteString(fmt.Sprintf(" (%s)", strings.Join(parts, " ")))
	}

	sb.WriteString(" ")
	sb.WriteString(entry.Message)
	sb.WriteString("\n")
	return []byte(sb.String()), nil
}
