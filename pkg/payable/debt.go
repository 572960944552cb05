// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package payable holds the debts the node owes to its creditors, decides
// which of them are due for payment and keeps them in the state store.
package payable

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethersphere/payadjuster/pkg/bigint"
)

// BareDebt is an amount owed to a creditor together with the time it was
// last paid. Balance is in the minor unit of the service fee token.
type BareDebt struct {
	Creditor common.Address `json:"creditor"`
	Balance  bigint.Uint128 `json:"balance"`
	LastPaid time.Time      `json:"lastPaid"`
}

func (d BareDebt) String() string {
	return fmt.Sprintf("%s: %s (last paid %s)", d.Creditor.Hex(), d.Balance, d.LastPaid.UTC().Format(time.RFC3339))
}

// QualifiedDebt is a debt that passed the payment thresholds.
type QualifiedDebt struct {
	BareDebt
	Qualified bool `json:"qualified"`
}

// Qualify marks every debt as qualified without checking thresholds. It is
// meant for callers that filtered the debts on their own.
func Qualify(debts ...BareDebt) []QualifiedDebt {
	q := make([]QualifiedDebt, len(debts))
	for i, d := range debts {
		q[i] = QualifiedDebt{BareDebt: d, Qualified: true}
	}
	return q
}

// TotalBalance sums the balances of debts.
func TotalBalance(debts []BareDebt) (bigint.Uint128, error) {
	total := bigint.Zero
	for _, d := range debts {
		var err error
		if total, err = total.Add(d.Balance); err != nil {
			return bigint.Zero, fmt.Errorf("total balance: %w", err)
		}
	}
	return total, nil
}
