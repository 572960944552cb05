// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scanner runs the payable scan cycle: it picks the debts that are
// due, checks what the consuming wallet can afford, lets the adjuster shrink
// the payments if needed and pays the creditors.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethersphere/payadjuster/pkg/adjuster"
	"github.com/ethersphere/payadjuster/pkg/bigint"
	"github.com/ethersphere/payadjuster/pkg/blockchain"
	"github.com/ethersphere/payadjuster/pkg/logging"
	"github.com/ethersphere/payadjuster/pkg/payable"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrInsufficientTransactionFee is returned when the wallet can not pay
	// the fee of a single transfer.
	ErrInsufficientTransactionFee = errors.New("insufficient balance for transaction fees")
	// ErrPaymentNotRecorded is returned when a transfer was sent but the
	// payable store could not be updated. The payment is in the report and
	// the stored debt must be reconciled before the next scan.
	ErrPaymentNotRecorded = errors.New("payment sent but not recorded")
)

// PaymentNotRecordedError carries the sent payment whose record failed.
type PaymentNotRecordedError struct {
	Payment Payment
	Err     error
}

func (e *PaymentNotRecordedError) Error() string {
	return fmt.Sprintf("%s to %s in transaction %s: %v", ErrPaymentNotRecorded, e.Payment.Creditor.Hex(), e.Payment.TxHash.Hex(), e.Err)
}

func (e *PaymentNotRecordedError) Unwrap() error { return e.Err }

func (e *PaymentNotRecordedError) Is(target error) bool { return target == ErrPaymentNotRecorded }

// BalanceReader reports the balances of the consuming wallet.
type BalanceReader interface {
	TokenBalance(ctx context.Context) (bigint.Uint128, error)
	FeeBudget(ctx context.Context) (blockchain.FeeBudget, error)
}

// Payer pays a single creditor.
type Payer interface {
	Pay(ctx context.Context, creditor common.Address, amount bigint.Uint128) (common.Hash, error)
}

type Options struct {
	Store      *payable.Store
	Thresholds payable.Thresholds
	Balances   BalanceReader
	Adjuster   *adjuster.Adjuster
	// Payer is not used in a dry run.
	Payer  Payer
	Logger logging.Logger
	// Now defaults to time.Now.
	Now func() time.Time
	// DryRun computes the payments without sending or recording them.
	DryRun bool
}

// Payment is a single transfer planned or made by a scan.
type Payment struct {
	Creditor common.Address `json:"creditor"`
	Amount   bigint.Uint128 `json:"amount"`
	TxHash   common.Hash    `json:"txHash"`
}

// Report summarizes a scan.
type Report struct {
	Qualified int            `json:"qualified"`
	Adjusted  bool           `json:"adjusted"`
	Payments  []Payment      `json:"payments"`
	TotalPaid bigint.Uint128 `json:"totalPaid"`
}

type Scanner struct {
	store      *payable.Store
	thresholds payable.Thresholds
	balances   BalanceReader
	adjuster   *adjuster.Adjuster
	payer      Payer
	logger     logging.Logger
	now        func() time.Time
	dryRun     bool
	metrics    metrics

	mu sync.Mutex // serializes scans
}

func New(o Options) (*Scanner, error) {
	if err := o.Thresholds.Validate(); err != nil {
		return nil, err
	}
	if o.Payer == nil && !o.DryRun {
		return nil, errors.New("scanner: payer required unless dry run")
	}
	s := &Scanner{
		store:      o.Store,
		thresholds: o.Thresholds,
		balances:   o.Balances,
		adjuster:   o.Adjuster,
		payer:      o.Payer,
		logger:     o.Logger,
		now:        o.Now,
		dryRun:     o.DryRun,
		metrics:    newMetrics(),
	}
	if s.logger == nil {
		s.logger = logging.Noop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

// Scan runs one payable scan. Payments made before an error are kept in
// the returned report.
func (s *Scanner) Scan(ctx context.Context) (r Report, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics.ScansCount.Inc()
	now := s.now()

	debts, err := s.store.All()
	if err != nil {
		return r, fmt.Errorf("load payables: %w", err)
	}
	qualified := s.thresholds.Qualify(debts, now)
	r.Qualified = len(qualified)
	s.metrics.QualifiedDebtsCount.Add(float64(len(qualified)))
	if len(qualified) == 0 {
		s.logger.Debugf("scanner: none of %d payables qualified", len(debts))
		return r, nil
	}

	var (
		tokenBalance bigint.Uint128
		budget       blockchain.FeeBudget
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		tokenBalance, err = s.balances.TokenBalance(gctx)
		return err
	})
	g.Go(func() (err error) {
		budget, err = s.balances.FeeBudget(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return r, fmt.Errorf("wallet balances: %w", err)
	}

	maxTransactions := adjuster.NoTransactionLimit
	if n, limited := budget.AffordableTransfers(); limited {
		if n == 0 {
			return r, ErrInsufficientTransactionFee
		}
		maxTransactions = n
	}

	setup := adjuster.Setup{
		Debts:             qualified,
		Now:               now,
		DisposableBalance: tokenBalance,
		MaxTransactions:   maxTransactions,
	}
	needed, err := s.adjuster.NeedsAdjustment(setup)
	if err != nil {
		return r, err
	}

	payments := make([]payable.BareDebt, len(qualified))
	for i, q := range qualified {
		payments[i] = q.BareDebt
	}
	if needed {
		s.metrics.AdjustedScansCount.Inc()
		r.Adjusted = true
		if payments, err = s.adjuster.Adjust(setup); err != nil {
			return r, fmt.Errorf("adjust payments: %w", err)
		}
	}

	for _, p := range payments {
		payment := Payment{Creditor: p.Creditor, Amount: p.Balance}
		var recordErr error
		if !s.dryRun {
			txHash, err := s.payer.Pay(ctx, p.Creditor, p.Balance)
			if err != nil {
				s.metrics.PaymentFailuresCount.Inc()
				return r, fmt.Errorf("pay %s: %w", p.Creditor.Hex(), err)
			}
			s.metrics.PaymentsCount.Inc()
			s.logger.Debugf("scanner: paid %s to %s in transaction %s", p.Balance, p.Creditor.Hex(), txHash.Hex())
			payment.TxHash = txHash

			if err := s.store.RecordPayment(p.Creditor, p.Balance, now); err != nil {
				s.logger.Errorf("scanner: payment to %s in transaction %s not recorded: %v", p.Creditor.Hex(), txHash.Hex(), err)
				recordErr = &PaymentNotRecordedError{Payment: payment, Err: err}
			}
		}
		r.Payments = append(r.Payments, payment)
		if r.TotalPaid, err = r.TotalPaid.Add(p.Balance); err != nil {
			return r, err
		}
		if recordErr != nil {
			return r, recordErr
		}
	}

	s.logger.Infof("scanner: %d of %d payables qualified, paying %s to %d creditors (adjusted %v, dry run %v)", len(qualified), len(debts), r.TotalPaid, len(r.Payments), r.Adjusted, s.dryRun)
	return r, nil
}
