// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package adjuster decides how a consuming wallet that can not pay every
// qualified debt in full spreads its balance across creditors.
//
// Each debt is weighed by its age and balance. The disposable balance is
// split in proportion to weight; accounts offered more than they are owed
// are paid in full and leave the competition, accounts offered less than
// their disqualification limit are dropped, and the split is repeated on
// what is left until it is stable. A run is a pure function of its Setup.
package adjuster

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethersphere/payadjuster/pkg/adjuster/criteria"
	"github.com/ethersphere/payadjuster/pkg/bigint"
	"github.com/ethersphere/payadjuster/pkg/logging"
	"github.com/ethersphere/payadjuster/pkg/payable"
)

// NoTransactionLimit disables the transaction fee ceiling.
const NoTransactionLimit = 0

var (
	// ErrDuplicateCreditor is returned when a creditor has more than one debt
	// in a Setup.
	ErrDuplicateCreditor = errors.New("duplicate creditor")
	// ErrInvalidMaxTransactions is returned for a negative transaction limit.
	ErrInvalidMaxTransactions = errors.New("invalid max transactions")
)

// Setup holds the inputs of one adjustment run.
type Setup struct {
	// Debts that qualified for payment.
	Debts []payable.QualifiedDebt
	// Now is the single point in time all ages are measured against.
	Now time.Time
	// DisposableBalance is the service fee balance available to the run.
	DisposableBalance bigint.Uint128
	// MaxTransactions is the number of payments the transaction fee budget
	// affords. NoTransactionLimit means the budget is not a constraint.
	MaxTransactions int
}

func (s Setup) validate() error {
	if s.MaxTransactions < 0 {
		return fmt.Errorf("%d: %w", s.MaxTransactions, ErrInvalidMaxTransactions)
	}
	return nil
}

// Options for the Adjuster.
type Options struct {
	Logger logging.Logger
	// Disqualification policy, DefaultDisqualificationPercent if nil.
	Disqualification *DisqualificationPolicy
	// Criteria returns the weigher for a run at now, criteria.Default if nil.
	Criteria func(now time.Time) *criteria.Weigher
	// Diagnostics receives a report per allocation pass.
	Diagnostics Diagnostics
}

// Adjuster computes adjusted payment lists. It keeps no state between runs
// apart from metrics, so concurrent runs on unrelated inputs are safe.
type Adjuster struct {
	logger           logging.Logger
	disqualification DisqualificationPolicy
	criteria         func(now time.Time) *criteria.Weigher
	diagnostics      Diagnostics
	metrics          metrics
}

func New(o Options) (*Adjuster, error) {
	a := &Adjuster{
		logger:           o.Logger,
		disqualification: DisqualificationPolicy{Percent: DefaultDisqualificationPercent},
		criteria:         o.Criteria,
		diagnostics:      o.Diagnostics,
		metrics:          newMetrics(),
	}
	if o.Disqualification != nil {
		if err := o.Disqualification.Validate(); err != nil {
			return nil, err
		}
		a.disqualification = *o.Disqualification
	}
	if a.logger == nil {
		a.logger = logging.Noop()
	}
	if a.criteria == nil {
		a.criteria = criteria.Default
	}
	if a.diagnostics == nil {
		a.diagnostics = noopDiagnostics{}
	}
	return a, nil
}

// NeedsAdjustment reports whether the debts can not all be paid in full,
// either because together they exceed the disposable balance or because
// there are more of them than the fee budget affords.
func (a *Adjuster) NeedsAdjustment(s Setup) (bool, error) {
	if err := s.validate(); err != nil {
		return false, err
	}
	debts := make([]payable.BareDebt, 0, len(s.Debts))
	for _, d := range s.Debts {
		if d.Qualified {
			debts = append(debts, d.BareDebt)
		}
	}
	if s.MaxTransactions != NoTransactionLimit && len(debts) > s.MaxTransactions {
		return true, nil
	}
	total, err := payable.TotalBalance(debts)
	if err != nil {
		return false, err
	}
	return total.Gt(s.DisposableBalance), nil
}

// Adjust returns the debts to pay and how much to pay each, ordered by
// descending weight. An empty result is not an error. Any arithmetic
// overflow aborts the run without a partial result.
func (a *Adjuster) Adjust(s Setup) ([]payable.BareDebt, error) {
	a.metrics.RunsCount.Inc()

	out, err := a.adjust(s)
	if err != nil {
		a.metrics.FailedRunsCount.Inc()
		return nil, err
	}
	a.metrics.AdjustedAccountsCount.Add(float64(len(out)))
	return out, nil
}

func (a *Adjuster) adjust(s Setup) ([]payable.BareDebt, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	debts, err := a.eligible(s.Debts)
	if err != nil {
		return nil, err
	}
	if len(debts) == 0 || s.DisposableBalance.IsZero() {
		a.logger.Debugf("payment adjuster: nothing to adjust, %d debts, disposable balance %s", len(debts), s.DisposableBalance)
		return nil, nil
	}

	analyzed, err := a.analyze(debts)
	if err != nil {
		return nil, err
	}

	weighted, err := a.weigh(analyzed, s.Now)
	if err != nil {
		return nil, err
	}

	if s.MaxTransactions != NoTransactionLimit && len(weighted) > s.MaxTransactions {
		a.logger.Debugf("payment adjuster: fee budget affords %d of %d payments", s.MaxTransactions, len(weighted))
		a.metrics.FeeTruncatedAccounts.Add(float64(len(weighted) - s.MaxTransactions))
		weighted = weighted[:s.MaxTransactions]
	}

	finalized, err := newEngine(weighted, s.DisposableBalance, a.logger, a.diagnostics, a.metrics).run()
	if err != nil {
		return nil, fmt.Errorf("payment adjuster: %w", err)
	}

	out := finalize(finalized, s.DisposableBalance)
	a.logger.Infof("payment adjuster: paying %d of %d qualified accounts from disposable balance %s", len(out), len(debts), s.DisposableBalance)
	return out, nil
}

// eligible drops unqualified and empty debts and rejects duplicate creditors.
func (a *Adjuster) eligible(debts []payable.QualifiedDebt) ([]payable.QualifiedDebt, error) {
	seen := make(map[common.Address]struct{}, len(debts))
	eligible := make([]payable.QualifiedDebt, 0, len(debts))
	for _, d := range debts {
		if _, ok := seen[d.Creditor]; ok {
			return nil, fmt.Errorf("%s: %w", d.Creditor.Hex(), ErrDuplicateCreditor)
		}
		seen[d.Creditor] = struct{}{}

		if !d.Qualified || d.Balance.IsZero() {
			a.logger.Tracef("payment adjuster: skipping debt %s", d)
			continue
		}
		eligible = append(eligible, d)
	}
	return eligible, nil
}

func (a *Adjuster) analyze(debts []payable.QualifiedDebt) ([]analyzedDebt, error) {
	analyzed := make([]analyzedDebt, len(debts))
	for i, d := range debts {
		limit, err := a.disqualification.Limit(d.Balance)
		if err != nil {
			return nil, fmt.Errorf("disqualification limit for %s: %w", d.Creditor.Hex(), err)
		}
		analyzed[i] = analyzedDebt{QualifiedDebt: d, disqualificationLimit: limit}
	}
	return analyzed, nil
}

// weigh computes the weights with a single now and returns the debts ranked
// by descending weight.
func (a *Adjuster) weigh(analyzed []analyzedDebt, now time.Time) ([]weightedDebt, error) {
	weigher := a.criteria(now)
	weighted := make([]weightedDebt, len(analyzed))
	for i, d := range analyzed {
		w, err := weigher.Weigh(d.QualifiedDebt)
		if err != nil {
			return nil, fmt.Errorf("payment adjuster: %w", err)
		}
		weighted[i] = weightedDebt{analyzedDebt: d, weight: w}
	}
	sort.Slice(weighted, func(i, j int) bool {
		return heavier(&weighted[i], &weighted[j])
	})
	for i := range weighted {
		weighted[i].rank = i
	}
	return weighted, nil
}
