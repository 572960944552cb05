// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package debugapi exposes the HTTP API used to run the payment adjuster on
// request, inspect the payables and collect metrics.
package debugapi

import (
	"net/http"

	"github.com/ethersphere/payadjuster"
	"github.com/ethersphere/payadjuster/pkg/adjuster"
	"github.com/ethersphere/payadjuster/pkg/logging"
	"github.com/ethersphere/payadjuster/pkg/metrics"
	"github.com/ethersphere/payadjuster/pkg/payable"
	"github.com/ethersphere/payadjuster/pkg/scanner"
	"github.com/prometheus/client_golang/prometheus"
)

type Options struct {
	Logger   logging.Logger
	Adjuster *adjuster.Adjuster
	// Store enables GET /payables.
	Store *payable.Store
	// Scanner enables POST /scan.
	Scanner *scanner.Scanner
}

// Service implements http.Handler interface to be used in HTTP server.
type Service struct {
	logger          logging.Logger
	adjuster        *adjuster.Adjuster
	store           *payable.Store
	scanner         *scanner.Scanner
	metricsRegistry *prometheus.Registry
	handler         http.Handler
}

func New(o Options) *Service {
	s := &Service{
		logger:          o.Logger,
		adjuster:        o.Adjuster,
		store:           o.Store,
		scanner:         o.Scanner,
		metricsRegistry: metrics.NewRegistry(payadjuster.Version),
	}
	if s.logger == nil {
		s.logger = logging.Noop()
	}
	s.setRouter(s.newRouter())
	return s
}

// MustRegisterMetrics registers collectors to be served on /metrics.
func (s *Service) MustRegisterMetrics(cs ...prometheus.Collector) {
	s.metricsRegistry.MustRegister(cs...)
}

// ServeHTTP implements http.Handler interface.
func (s *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}
