// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package metrics_test

import (
	"strings"
	"testing"

	m "github.com/ethersphere/payadjuster/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

func TestPrometheusCollectorsFromFields(t *testing.T) {
	t.Parallel()

	s := newService()
	collectors := m.PrometheusCollectorsFromFields(s)

	if l := len(collectors); l != 2 {
		t.Fatalf("got %v collectors %+v, want 2", l, collectors)
	}

	m1 := collectors[0].(prometheus.Metric).Desc().String()
	if !strings.Contains(m1, "runs_count") {
		t.Errorf("unexpected metric %s", m1)
	}

	m2 := collectors[1].(prometheus.Metric).Desc().String()
	if !strings.Contains(m2, "passes_count") {
		t.Errorf("unexpected metric %s", m2)
	}
}

func TestNewRegistry(t *testing.T) {
	t.Parallel()

	families, err := m.NewRegistry("1.0.0").Gather()
	if err != nil {
		t.Fatal(err)
	}
	var found bool
	for _, f := range families {
		if f.GetName() == m.Namespace+"_info" {
			found = true
		}
	}
	if !found {
		t.Errorf("info metric not registered")
	}
}

type service struct {
	// valid metrics
	RunsCount   prometheus.Counter
	PassesCount prometheus.Counter
	// invalid metrics
	unexportedCount prometheus.Counter
	UnrelatedField  int
}

func newService() *service {
	subsystem := "adjuster"
	return &service{
		RunsCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "runs_count",
			Help:      "Number of runs.",
		}),
		PassesCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "passes_count",
			Help:      "Number of passes.",
		}),
		unexportedCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "unexported_count",
			Help:      "This metrics should not be discoverable by metrics.PrometheusCollectorsFromFields.",
		}),
	}
}
