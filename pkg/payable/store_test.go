// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package payable_test

import (
	"errors"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethersphere/payadjuster/pkg/bigint"
	"github.com/ethersphere/payadjuster/pkg/payable"
	"github.com/ethersphere/payadjuster/pkg/statestore/mock"
	"github.com/ethersphere/payadjuster/pkg/storage"
	"github.com/google/go-cmp/cmp"
)

func TestStore(t *testing.T) {
	t.Parallel()

	store := payable.NewStore(mock.NewStateStore())
	lastPaid := time.Unix(1_600_000_000, 0).UTC()

	a := payable.BareDebt{Creditor: common.HexToAddress("0xa1"), Balance: bigint.NewUint128(1000), LastPaid: lastPaid}
	b := payable.BareDebt{Creditor: common.HexToAddress("0xb2"), Balance: bigint.MustParse("123456789012345678901234567890"), LastPaid: lastPaid}
	for _, d := range []payable.BareDebt{b, a} {
		if err := store.Put(d); err != nil {
			t.Fatal(err)
		}
	}

	all, err := store.All()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]payable.BareDebt{a, b}, all, cmp.Comparer(bigint.Uint128.Eq)); diff != "" {
		t.Fatalf("stored debts mismatch (-want +got):\n%s", diff)
	}

	t.Run("partial payment", func(t *testing.T) {
		paidAt := lastPaid.Add(time.Hour)
		if err := store.RecordPayment(a.Creditor, bigint.NewUint128(400), paidAt); err != nil {
			t.Fatal(err)
		}
		got, err := store.Get(a.Creditor)
		if err != nil {
			t.Fatal(err)
		}
		if got.Balance.Uint64() != 600 {
			t.Errorf("got balance %s, want 600", got.Balance)
		}
		if !got.LastPaid.Equal(paidAt) {
			t.Errorf("got last paid %v, want %v", got.LastPaid, paidAt)
		}
	})

	t.Run("overpayment", func(t *testing.T) {
		err := store.RecordPayment(a.Creditor, bigint.NewUint128(601), lastPaid)
		if !errors.Is(err, payable.ErrOverpayment) {
			t.Fatalf("got error %v, want %v", err, payable.ErrOverpayment)
		}
	})

	t.Run("full payment removes the debt", func(t *testing.T) {
		if err := store.RecordPayment(a.Creditor, bigint.NewUint128(600), lastPaid); err != nil {
			t.Fatal(err)
		}
		if _, err := store.Get(a.Creditor); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("got error %v, want %v", err, storage.ErrNotFound)
		}
	})

	t.Run("unknown creditor", func(t *testing.T) {
		err := store.RecordPayment(common.HexToAddress("0xff"), bigint.NewUint128(1), lastPaid)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("got error %v, want %v", err, storage.ErrNotFound)
		}
	})
}
