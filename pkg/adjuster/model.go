// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package adjuster

import (
	"bytes"

	"github.com/ethersphere/payadjuster/pkg/bigint"
	"github.com/ethersphere/payadjuster/pkg/payable"
)

// analyzedDebt carries the disqualification limit computed once per run.
type analyzedDebt struct {
	payable.QualifiedDebt
	disqualificationLimit bigint.Uint128
}

// weightedDebt is an analyzed debt with its aggregated criteria weight. rank
// is its position in the weight ordering of the run.
type weightedDebt struct {
	analyzedDebt
	weight bigint.Uint128
	rank   int
}

// proposedAdjustment is a candidate allocation that is not accepted yet.
type proposedAdjustment struct {
	index    int
	proposed bigint.Uint128
}

// FinalizedDebt is a debt with the amount that will be paid for it.
type FinalizedDebt struct {
	Debt             payable.BareDebt
	Weight           bigint.Uint128
	FinalizedBalance bigint.Uint128

	rank int
}

// Output returns the debt record with its balance replaced by the
// finalized balance.
func (f FinalizedDebt) Output() payable.BareDebt {
	d := f.Debt
	d.Balance = f.FinalizedBalance
	return d
}

// heavier orders debts by descending weight. Equal weights fall back to the
// larger balance, then the older last payment, then the lower creditor
// address, so the order is total and deterministic.
func heavier(a, b *weightedDebt) bool {
	if c := a.weight.Cmp(b.weight); c != 0 {
		return c > 0
	}
	if c := a.Balance.Cmp(b.Balance); c != 0 {
		return c > 0
	}
	if !a.LastPaid.Equal(b.LastPaid) {
		return a.LastPaid.Before(b.LastPaid)
	}
	return bytes.Compare(a.Creditor.Bytes(), b.Creditor.Bytes()) < 0
}
