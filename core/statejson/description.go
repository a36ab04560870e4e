// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package statejson

import (
	"encoding/json"

	log "github.com/sirupsen/logrus"
)

// FlagsDescription mirrors the lifecycle flags of one call.
type FlagsDescription struct {
	Started            bool `json:"started"`
	Disposed           bool `json:"disposed"`
	CancelRequested    bool `json:"cancelRequested"`
	HalfcloseRequested bool `json:"halfcloseRequested"`
	Finished           bool `json:"finished"`
	ReadingDone        bool `json:"readingDone"`
	WritePending       bool `json:"writePending"`
	ReadPending        bool `json:"readPending"`
	StatusPending      bool `json:"statusPending"`
}

// StatusDescription describes a recorded terminal status.
type StatusDescription struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

// CallDescription describes internal state of one call for debugging purposes.
type CallDescription struct {
	ID             string             `json:"id"`
	Role           string             `json:"role"`
	Flags          FlagsDescription   `json:"flags"`
	WriteCount     uint64             `json:"writeCount"`
	TerminalStatus *StatusDescription `json:"terminalStatus,omitempty"`
	LastModified   int64              `json:"lastModified"`
}

// RegistryDescription lists the calls currently tracked by a registry.
type RegistryDescription struct {
	Calls []CallDescription `json:"calls"`
}

func (d *CallDescription) AsJSON() []byte {
	bytes, err := json.Marshal(d)
	if err != nil {
		log.Panicf("Failed to marshal call description: %s", err)
	}
	return bytes
}

func (d *RegistryDescription) AsJSON() []byte {
	bytes, err := json.Marshal(d)
	if err != nil {
		log.Panicf("Failed to marshal registry description: %s", err)
	}
	return bytes
}
