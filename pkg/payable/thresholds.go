// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package payable

import (
	"errors"
	"time"

	"github.com/ethersphere/payadjuster/pkg/bigint"
)

var ErrInvalidThresholds = errors.New("invalid payment thresholds")

// Thresholds decide when a debt is due. A debt younger than MaturityThreshold
// is never due. After maturity the required balance descends linearly from
// DebtThreshold to PermanentDebtAllowed over ThresholdInterval and stays
// there afterwards.
type Thresholds struct {
	DebtThreshold        bigint.Uint128
	PermanentDebtAllowed bigint.Uint128
	MaturityThreshold    time.Duration
	ThresholdInterval    time.Duration
}

// DefaultThresholds are suitable for a token with 18 decimals.
var DefaultThresholds = Thresholds{
	DebtThreshold:        bigint.MustParse("1000000000000000000"),
	PermanentDebtAllowed: bigint.MustParse("500000000000000"),
	MaturityThreshold:    20 * time.Minute,
	ThresholdInterval:    6 * time.Hour,
}

func (t Thresholds) Validate() error {
	if t.PermanentDebtAllowed.Gt(t.DebtThreshold) {
		return ErrInvalidThresholds
	}
	if t.MaturityThreshold < 0 || t.ThresholdInterval <= 0 {
		return ErrInvalidThresholds
	}
	return nil
}

// Threshold returns the balance a debt of the given age has to exceed to be
// due. The second result is false while the debt is not mature.
func (t Thresholds) Threshold(age time.Duration) (bigint.Uint128, bool) {
	if age <= t.MaturityThreshold {
		return bigint.Zero, false
	}
	past := age - t.MaturityThreshold
	if past >= t.ThresholdInterval {
		return t.PermanentDebtAllowed, true
	}
	span, err := t.DebtThreshold.Sub(t.PermanentDebtAllowed)
	if err != nil {
		return t.DebtThreshold, true
	}
	drop, err := bigint.MulDiv(span, bigint.NewUint128(uint64(past)), bigint.NewUint128(uint64(t.ThresholdInterval)))
	if err != nil {
		return t.DebtThreshold, true
	}
	threshold, err := t.DebtThreshold.Sub(drop)
	if err != nil {
		return t.PermanentDebtAllowed, true
	}
	return threshold, true
}

// Qualify returns the debts that are due at now.
func (t Thresholds) Qualify(debts []BareDebt, now time.Time) []QualifiedDebt {
	var qualified []QualifiedDebt
	for _, d := range debts {
		if !d.Balance.Gt(t.PermanentDebtAllowed) {
			continue
		}
		threshold, mature := t.Threshold(now.Sub(d.LastPaid))
		if !mature || !d.Balance.Gt(threshold) {
			continue
		}
		qualified = append(qualified, QualifiedDebt{BareDebt: d, Qualified: true})
	}
	return qualified
}
