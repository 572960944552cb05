// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package adjuster

import (
	m "github.com/ethersphere/payadjuster/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	// all metrics fields must be exported
	// to be able to return them by Metrics()
	// using reflection
	RunsCount               prometheus.Counter
	FailedRunsCount         prometheus.Counter
	PassesCount             prometheus.Counter
	OutweighedAccountsCount prometheus.Counter
	DisqualifiedAccounts    prometheus.Counter
	FeeTruncatedAccounts    prometheus.Counter
	AdjustedAccountsCount   prometheus.Counter
}

func newMetrics() metrics {
	subsystem := "adjuster"

	return metrics{
		RunsCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "runs_count",
			Help:      "Number of payment adjustment runs.",
		}),
		FailedRunsCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "failed_runs_count",
			Help:      "Number of payment adjustment runs aborted by an error.",
		}),
		PassesCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "passes_count",
			Help:      "Number of allocation passes.",
		}),
		OutweighedAccountsCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "outweighed_accounts_count",
			Help:      "Number of accounts whose share exceeded their debt and were paid in full.",
		}),
		DisqualifiedAccounts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "disqualified_accounts_count",
			Help:      "Number of accounts dropped because their share was below the disqualification limit.",
		}),
		FeeTruncatedAccounts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "fee_truncated_accounts_count",
			Help:      "Number of accounts left out because the transaction fee budget did not cover them.",
		}),
		AdjustedAccountsCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "adjusted_accounts_count",
			Help:      "Number of accounts in adjusted payment lists.",
		}),
	}
}

func (a *Adjuster) Metrics() []prometheus.Collector {
	return m.PrometheusCollectorsFromFields(a.metrics)
}
