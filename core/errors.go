// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import "errors"

var ErrNotStarted = errors.New("CallNotStarted")
var ErrAlreadyStarted = errors.New("CallAlreadyStarted")
var ErrDisposed = errors.New("CallDisposed")

var ErrAlreadyHalfclosed = errors.New("AlreadyHalfclosed")
var ErrAlreadyFinished = errors.New("AlreadyFinished")
var ErrWriteAlreadyPending = errors.New("WriteAlreadyPending")
var ErrReadAlreadyPending = errors.New("ReadAlreadyPending")
var ErrStatusAlreadyPending = errors.New("StatusAlreadyPending")
var ErrCancelled = errors.New("CancelRequested")

var ErrSendFailed = errors.New("SendFailed")
var ErrNoTerminalRead = errors.New("NoTerminalReadResult")
var ErrWrongRole = errors.New("OperationNotAllowedForRole")
