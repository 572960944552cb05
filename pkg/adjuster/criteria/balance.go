// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package criteria

import (
	"github.com/ethersphere/payadjuster/pkg/bigint"
	"github.com/ethersphere/payadjuster/pkg/payable"
)

// BalanceScale brings the balance into a range where its logarithm is
// comparable with the Age criterion. The value was chosen empirically.
const BalanceScale = 18_490_000

// Balance weighs a debt by balance * log2(balance / BalanceScale) * 2. The
// logarithmic factor keeps very large debts from annihilating small ones
// while bigger debts still come before equally old smaller ones.
type Balance struct{}

func (Balance) Name() string {
	return "balance"
}

func (Balance) Weigh(d payable.QualifiedDebt) (bigint.Uint128, error) {
	return BalanceWeight(d.Balance)
}

// BalanceWeight returns the Balance criterion for balance.
func BalanceWeight(balance bigint.Uint128) (bigint.Uint128, error) {
	arg, err := balance.Quo(bigint.NewUint128(BalanceScale))
	if err != nil {
		return bigint.Zero, err
	}
	w, err := balance.Mul(bigint.NewUint128(NonzeroLog2(arg)))
	if err != nil {
		return bigint.Zero, err
	}
	return w.Mul(bigint.NewUint128(2))
}

// NonzeroLog2 returns max(floor(log2(x)), 1); the logarithm of zero counts
// as 1 as well.
func NonzeroLog2(x bigint.Uint128) uint64 {
	l, ok := x.Log2Floor()
	if !ok || l < 1 {
		return 1
	}
	return uint64(l)
}
