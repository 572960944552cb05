// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package adjuster

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethersphere/payadjuster/pkg/bigint"
	"github.com/ethersphere/payadjuster/pkg/logging"
	"github.com/sirupsen/logrus"
)

// Diagnostics receives a report after every allocation pass. It is passed in
// through Options and is never shared between runs by the adjuster itself.
type Diagnostics interface {
	Pass(r PassReport)
}

// PassReport describes one allocation pass of the engine.
type PassReport struct {
	Pass         int
	Working      int
	Disposable   bigint.Uint128
	TotalWeight  bigint.Uint128
	Outweighed   []common.Address
	Disqualified []common.Address
	Resolved     bool
}

type logDiagnostics struct {
	logger logging.Logger
}

// NewLogDiagnostics reports passes to logger at trace level.
func NewLogDiagnostics(logger logging.Logger) Diagnostics {
	return &logDiagnostics{logger: logger}
}

func (d *logDiagnostics) Pass(r PassReport) {
	d.logger.WithFields(logrus.Fields{
		"pass":         r.Pass,
		"working":      r.Working,
		"disposable":   r.Disposable.String(),
		"total_weight": r.TotalWeight.String(),
		"outweighed":   len(r.Outweighed),
		"disqualified": len(r.Disqualified),
		"resolved":     r.Resolved,
	}).Trace("payment adjuster pass")
}

type noopDiagnostics struct{}

func (noopDiagnostics) Pass(PassReport) {}
