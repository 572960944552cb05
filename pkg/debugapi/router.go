// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package debugapi

import (
	"net/http"
	"strings"

	"github.com/ethersphere/payadjuster/pkg/jsonhttp"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"resenje.org/web"
)

// maxRequestBodySize limits POST /adjust payloads.
const maxRequestBodySize = 4 * 1024 * 1024

func (s *Service) newRouter() *mux.Router {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(jsonhttp.NotFoundHandler)

	router.Path("/metrics").Handler(promhttp.InstrumentMetricHandler(
		s.metricsRegistry,
		promhttp.HandlerFor(s.metricsRegistry, promhttp.HandlerOpts{}),
	))

	router.Handle("/health", jsonhttp.MethodHandler{
		"GET": http.HandlerFunc(s.statusHandler),
	})

	router.Handle("/adjust", jsonhttp.MethodHandler{
		"POST": web.ChainHandlers(
			jsonhttp.NewMaxBodyBytesHandler(maxRequestBodySize),
			web.FinalHandlerFunc(s.adjustHandler),
		),
	})

	if s.store != nil {
		router.Handle("/payables", jsonhttp.MethodHandler{
			"GET": http.HandlerFunc(s.payablesHandler),
		})
	}

	if s.scanner != nil {
		router.Handle("/scan", jsonhttp.MethodHandler{
			"POST": http.HandlerFunc(s.scanHandler),
		})
	}

	return router
}

// setRouter sets the base handler with common middlewares.
func (s *Service) setRouter(router http.Handler) {
	s.handler = web.ChainHandlers(
		func(h http.Handler) http.Handler {
			return handlers.CombinedLoggingHandler(accessLogWriter{s: s}, h)
		},
		handlers.RecoveryHandler(
			handlers.RecoveryLogger(s.logger.WithField("component", "debugapi")),
			handlers.PrintRecoveryStack(false),
		),
		handlers.CompressHandler,
		web.NoCacheHeadersHandler,
		web.FinalHandler(router),
	)
}

func (s *Service) statusHandler(w http.ResponseWriter, _ *http.Request) {
	jsonhttp.OK(w, struct {
		Status string `json:"status"`
	}{
		Status: "ok",
	})
}

// accessLogWriter forwards access log lines to the debug log.
type accessLogWriter struct {
	s *Service
}

func (a accessLogWriter) Write(p []byte) (int, error) {
	a.s.logger.Debug("debug api access: ", strings.TrimSpace(string(p)))
	return len(p), nil
}
