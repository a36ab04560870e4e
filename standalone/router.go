// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package standalone exposes live call state over HTTP for debugging.
package standalone

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/duplexrpc/callcore/core"
)

// NewHTTPRouter returns the debug API router backed by the given call registry.
func NewHTTPRouter(registry *core.Registry) *chi.Mux {
	r := chi.NewRouter()
	r.Use(accessLogDecorator)

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) { PingHandler(w, r) })
	r.Get("/calls", func(w http.ResponseWriter, r *http.Request) { CallsHandler(w, r, registry) })
	r.Get("/calls/{id}", func(w http.ResponseWriter, r *http.Request) { CallStateHandler(w, r, registry) })
	return r
}
