// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package debugapi_test

import (
	"context"
	"math/big"
	"net/http"
	"testing"
	"time"

	"github.com/ethersphere/payadjuster/pkg/adjuster"
	"github.com/ethersphere/payadjuster/pkg/bigint"
	"github.com/ethersphere/payadjuster/pkg/blockchain"
	"github.com/ethersphere/payadjuster/pkg/jsonhttp"
	"github.com/ethersphere/payadjuster/pkg/jsonhttp/jsonhttptest"
	"github.com/ethersphere/payadjuster/pkg/payable"
	"github.com/ethersphere/payadjuster/pkg/scanner"
	"github.com/ethersphere/payadjuster/pkg/statestore/mock"
	"github.com/google/go-cmp/cmp"
)

type balances struct {
	token      bigint.Uint128
	walletCoin int64
}

func (b balances) TokenBalance(context.Context) (bigint.Uint128, error) {
	return b.token, nil
}

func (b balances) FeeBudget(context.Context) (blockchain.FeeBudget, error) {
	return blockchain.FeeBudget{
		GasPrice:       big.NewInt(1),
		GasPerTransfer: 100,
		Balance:        big.NewInt(b.walletCoin),
	}, nil
}

func newScanServer(t *testing.T, b balances, debts ...payable.BareDebt) *http.Client {
	t.Helper()

	store := payable.NewStore(mock.NewStateStore())
	for _, d := range debts {
		if err := store.Put(d); err != nil {
			t.Fatal(err)
		}
	}
	a, err := adjuster.New(adjuster.Options{})
	if err != nil {
		t.Fatal(err)
	}
	s, err := scanner.New(scanner.Options{
		Store: store,
		Thresholds: payable.Thresholds{
			DebtThreshold:        bigint.NewUint128(100),
			PermanentDebtAllowed: bigint.NewUint128(10),
			MaturityThreshold:    time.Minute,
			ThresholdInterval:    time.Hour,
		},
		Balances: b,
		Adjuster: a,
		Now:      func() time.Time { return now },
		DryRun:   true,
	})
	if err != nil {
		t.Fatal(err)
	}
	return newTestServer(t, testServerOptions{Adjuster: a, Store: store, Scanner: s})
}

func TestPayables(t *testing.T) {
	t.Parallel()

	debts := []payable.BareDebt{
		{Creditor: creditorA, Balance: bigint.NewUint128(100), LastPaid: now.Add(-time.Hour)},
		{Creditor: creditorB, Balance: bigint.NewUint128(200), LastPaid: now.Add(-2 * time.Hour)},
	}
	client := newScanServer(t, balances{}, debts...)

	var got struct {
		Payables []payable.BareDebt `json:"payables"`
	}
	jsonhttptest.Request(t, client, http.MethodGet, "/payables", http.StatusOK,
		jsonhttptest.WithUnmarshalResponse(&got),
	)
	if diff := cmp.Diff(debts, got.Payables, uint128Comparer); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestScan(t *testing.T) {
	t.Parallel()

	debts := []payable.BareDebt{
		{Creditor: creditorA, Balance: bigint.NewUint128(1000), LastPaid: now.Add(-2 * time.Hour)},
		{Creditor: creditorB, Balance: bigint.NewUint128(1000), LastPaid: now.Add(-2 * time.Hour)},
	}

	t.Run("dry run", func(t *testing.T) {
		t.Parallel()

		client := newScanServer(t, balances{token: bigint.NewUint128(1000), walletCoin: 1000}, debts...)

		var got scanner.Report
		jsonhttptest.Request(t, client, http.MethodPost, "/scan", http.StatusOK,
			jsonhttptest.WithUnmarshalResponse(&got),
		)
		want := scanner.Report{
			Qualified: 2,
			Adjusted:  true,
			Payments: []scanner.Payment{
				{Creditor: creditorA, Amount: bigint.NewUint128(500)},
				{Creditor: creditorB, Amount: bigint.NewUint128(500)},
			},
			TotalPaid: bigint.NewUint128(1000),
		}
		if diff := cmp.Diff(want, got, uint128Comparer); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("insufficient transaction fee", func(t *testing.T) {
		t.Parallel()

		client := newScanServer(t, balances{token: bigint.NewUint128(1000)}, debts...)

		jsonhttptest.Request(t, client, http.MethodPost, "/scan", http.StatusServiceUnavailable,
			jsonhttptest.WithExpectedJSONResponse(jsonhttp.StatusResponse{
				Message: "insufficient balance for transaction fees",
				Code:    http.StatusServiceUnavailable,
			}),
		)
	})
}
