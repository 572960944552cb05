// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package adjuster

import (
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethersphere/payadjuster/pkg/bigint"
	"github.com/ethersphere/payadjuster/pkg/payable"
	"github.com/hashicorp/go-multierror"
)

// InvariantViolation is the panic value raised when the engine produced an
// allocation that breaks the payment invariants. It indicates a defect in
// the adjuster, not bad input.
type InvariantViolation struct {
	Err error
}

func (v *InvariantViolation) Error() string {
	return fmt.Sprintf("payment adjuster invariant violated: %v", v.Err)
}

func (v *InvariantViolation) Unwrap() error {
	return v.Err
}

// finalize turns the finalized debts into output records ordered by weight.
// Zero amounts are left out. It panics with *InvariantViolation if any
// amount exceeds the original debt, the total exceeds disposable, or a
// creditor appears twice.
func finalize(finalized []FinalizedDebt, disposable bigint.Uint128) []payable.BareDebt {
	sorted := make([]FinalizedDebt, 0, len(finalized))
	for _, f := range finalized {
		if !f.FinalizedBalance.IsZero() {
			sorted = append(sorted, f)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].rank < sorted[j].rank
	})

	if err := checkInvariants(sorted, disposable); err != nil {
		panic(&InvariantViolation{Err: err})
	}

	out := make([]payable.BareDebt, len(sorted))
	for i, f := range sorted {
		out[i] = f.Output()
	}
	return out
}

func checkInvariants(finalized []FinalizedDebt, disposable bigint.Uint128) error {
	var result *multierror.Error

	seen := make(map[common.Address]struct{}, len(finalized))
	total := bigint.Zero
	for _, f := range finalized {
		creditor := f.Debt.Creditor
		if f.FinalizedBalance.IsZero() {
			result = multierror.Append(result, fmt.Errorf("zero payment to %s", creditor.Hex()))
		}
		if f.FinalizedBalance.Gt(f.Debt.Balance) {
			result = multierror.Append(result, fmt.Errorf("payment %s to %s exceeds debt %s", f.FinalizedBalance, creditor.Hex(), f.Debt.Balance))
		}
		if _, ok := seen[creditor]; ok {
			result = multierror.Append(result, fmt.Errorf("duplicate creditor %s", creditor.Hex()))
		}
		seen[creditor] = struct{}{}

		var err error
		if total, err = total.Add(f.FinalizedBalance); err != nil {
			result = multierror.Append(result, fmt.Errorf("total payments: %w", err))
		}
	}
	if total.Gt(disposable) {
		result = multierror.Append(result, fmt.Errorf("total payments %s exceed disposable balance %s", total, disposable))
	}

	return result.ErrorOrNil()
}
