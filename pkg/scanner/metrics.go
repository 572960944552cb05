// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scanner

import (
	m "github.com/ethersphere/payadjuster/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	ScansCount           prometheus.Counter
	QualifiedDebtsCount  prometheus.Counter
	AdjustedScansCount   prometheus.Counter
	PaymentsCount        prometheus.Counter
	PaymentFailuresCount prometheus.Counter
}

func newMetrics() metrics {
	subsystem := "scanner"

	return metrics{
		ScansCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "scans_count",
			Help:      "Number of payable scans.",
		}),
		QualifiedDebtsCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "qualified_debts_count",
			Help:      "Number of debts that qualified for payment.",
		}),
		AdjustedScansCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "adjusted_scans_count",
			Help:      "Number of scans that needed payment adjustment.",
		}),
		PaymentsCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "payments_count",
			Help:      "Number of payments sent.",
		}),
		PaymentFailuresCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "payment_failures_count",
			Help:      "Number of payments that failed to send.",
		}),
	}
}

func (s *Scanner) Metrics() []prometheus.Collector {
	return m.PrometheusCollectorsFromFields(s.metrics)
}
