// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package standalone

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"

	"github.com/duplexrpc/callcore/core"
)

const callNotFoundErrorType = "Call.NotFound"

// ErrorResponse is the standard error body of the debug API.
type ErrorResponse struct {
	ErrorMessage string `json:"errorMessage"`
	ErrorType    string `json:"errorType"`
}

func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("pong"))
}

// CallsHandler lists the state of all registered calls.
func CallsHandler(w http.ResponseWriter, r *http.Request, registry *core.Registry) {
	description := registry.Describe()
	w.Header().Set("Content-Type", "application/json")
	w.Write(description.AsJSON())
}

// CallStateHandler returns the internal state of one call for debugging purposes.
func CallStateHandler(w http.ResponseWriter, r *http.Request, registry *core.Registry) {
	id := chi.URLParam(r, "id")
	call, ok := registry.Lookup(id)
	if !ok {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, &ErrorResponse{
			ErrorType:    callNotFoundErrorType,
			ErrorMessage: "No registered call with ID " + id,
		})
		return
	}
	description := call.Describe()
	w.Header().Set("Content-Type", "application/json")
	w.Write(description.AsJSON())
}
