// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package blockchain

import (
	"math/big"
)

// DefaultGasPerTransfer is the gas an ERC20 transfer is budgeted with.
const DefaultGasPerTransfer = 70000

// DefaultMarginPercent is added on top of the suggested gas price.
const DefaultMarginPercent = 10

// FeeBudget describes how many token transfers the native coin balance of
// the wallet can pay for.
type FeeBudget struct {
	GasPrice       *big.Int
	GasPerTransfer uint64
	MarginPercent  uint64
	Balance        *big.Int
}

// PricePerTransfer is GasPrice * GasPerTransfer raised by MarginPercent.
func (b FeeBudget) PricePerTransfer() *big.Int {
	if b.GasPrice == nil {
		return new(big.Int)
	}
	p := new(big.Int).Mul(b.GasPrice, new(big.Int).SetUint64(b.GasPerTransfer))
	p.Mul(p, new(big.Int).SetUint64(100+b.MarginPercent))
	return p.Quo(p, big.NewInt(100))
}

// AffordableTransfers returns the number of transfers the balance covers.
// limited is false when transfers are free and the count does not apply.
func (b FeeBudget) AffordableTransfers() (n int, limited bool) {
	price := b.PricePerTransfer()
	if price.Sign() == 0 {
		return 0, false
	}
	if b.Balance == nil || b.Balance.Sign() <= 0 {
		return 0, true
	}
	q := new(big.Int).Quo(b.Balance, price)
	if !q.IsInt64() || q.Int64() > int64(^uint32(0)>>1) {
		return int(^uint32(0) >> 1), true
	}
	return int(q.Int64()), true
}
