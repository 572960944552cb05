// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package payable

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethersphere/payadjuster/pkg/bigint"
	"github.com/ethersphere/payadjuster/pkg/storage"
)

const keyPrefix = "payable_"

// ErrOverpayment is returned when a recorded payment is larger than the debt.
var ErrOverpayment = errors.New("payment exceeds debt")

// Store keeps payables in a state store, one record per creditor.
type Store struct {
	store storage.StateStorer
}

func NewStore(store storage.StateStorer) *Store {
	return &Store{store: store}
}

func debtKey(creditor common.Address) string {
	return keyPrefix + strings.ToLower(creditor.Hex())
}

// Put replaces the debt stored for its creditor.
func (s *Store) Put(d BareDebt) error {
	return s.store.Put(debtKey(d.Creditor), d)
}

// Get returns the debt owed to creditor or storage.ErrNotFound.
func (s *Store) Get(creditor common.Address) (d BareDebt, err error) {
	err = s.store.Get(debtKey(creditor), &d)
	return d, err
}

func (s *Store) Delete(creditor common.Address) error {
	return s.store.Delete(debtKey(creditor))
}

// All returns every stored debt ordered by creditor.
func (s *Store) All() (debts []BareDebt, err error) {
	err = s.store.Iterate(keyPrefix, func(key, value []byte) (bool, error) {
		if !strings.HasPrefix(string(key), keyPrefix) {
			return true, nil
		}
		var d BareDebt
		if err := json.Unmarshal(value, &d); err != nil {
			return true, fmt.Errorf("payable %s: %w", key, err)
		}
		debts = append(debts, d)
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return debts, nil
}

// RecordPayment lowers the debt owed to creditor by amount and moves its
// last paid time to at. A fully paid debt is removed.
func (s *Store) RecordPayment(creditor common.Address, amount bigint.Uint128, at time.Time) error {
	d, err := s.Get(creditor)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("record payment to %s: %w", creditor.Hex(), err)
		}
		return err
	}
	rest, err := d.Balance.Sub(amount)
	if err != nil {
		return fmt.Errorf("record payment of %s to %s owed %s: %w", amount, creditor.Hex(), d.Balance, ErrOverpayment)
	}
	if rest.IsZero() {
		return s.Delete(creditor)
	}
	d.Balance = rest
	d.LastPaid = at
	return s.Put(d)
}
