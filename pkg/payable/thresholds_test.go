// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package payable_test

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethersphere/payadjuster/pkg/bigint"
	"github.com/ethersphere/payadjuster/pkg/payable"
)

var testThresholds = payable.Thresholds{
	DebtThreshold:        bigint.NewUint128(10000),
	PermanentDebtAllowed: bigint.NewUint128(1000),
	MaturityThreshold:    time.Hour,
	ThresholdInterval:    10 * time.Hour,
}

func TestThreshold(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name   string
		age    time.Duration
		want   uint64
		mature bool
	}{
		{"immature", 30 * time.Minute, 0, false},
		{"at maturity", time.Hour, 0, false},
		{"just mature", time.Hour + time.Nanosecond, 10000, true},
		{"half way", 6 * time.Hour, 5500, true},
		{"end of interval", 11 * time.Hour, 1000, true},
		{"long after", 100 * time.Hour, 1000, true},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, mature := testThresholds.Threshold(tc.age)
			if mature != tc.mature {
				t.Fatalf("got mature %v, want %v", mature, tc.mature)
			}
			if mature && got.Uint64() != tc.want {
				t.Errorf("got threshold %s, want %d", got, tc.want)
			}
		})
	}
}

func TestQualify(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)
	debts := []payable.BareDebt{
		{Creditor: common.HexToAddress("01"), Balance: bigint.NewUint128(20000), LastPaid: now.Add(-2 * time.Hour)},
		{Creditor: common.HexToAddress("02"), Balance: bigint.NewUint128(20000), LastPaid: now.Add(-time.Minute)},
		{Creditor: common.HexToAddress("03"), Balance: bigint.NewUint128(900), LastPaid: now.Add(-50 * time.Hour)},
		{Creditor: common.HexToAddress("04"), Balance: bigint.NewUint128(5000), LastPaid: now.Add(-6 * time.Hour)},
		{Creditor: common.HexToAddress("05"), Balance: bigint.NewUint128(5600), LastPaid: now.Add(-6 * time.Hour)},
	}

	got := testThresholds.Qualify(debts, now)
	want := []common.Address{common.HexToAddress("01"), common.HexToAddress("05")}
	if len(got) != len(want) {
		t.Fatalf("got %d qualified debts %v, want %d", len(got), got, len(want))
	}
	for i, q := range got {
		if !q.Qualified {
			t.Errorf("debt %s not flagged as qualified", q.Creditor)
		}
		if q.Creditor != want[i] {
			t.Errorf("got creditor %s, want %s", q.Creditor, want[i])
		}
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	if err := payable.DefaultThresholds.Validate(); err != nil {
		t.Fatal(err)
	}
	bad := testThresholds
	bad.PermanentDebtAllowed = bigint.NewUint128(20000)
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error")
	}
}
