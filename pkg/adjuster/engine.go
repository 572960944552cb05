// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package adjuster

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethersphere/payadjuster/pkg/bigint"
	"github.com/ethersphere/payadjuster/pkg/logging"
)

// engine allocates the disposable balance across the weighted accounts.
// accounts is an arena ordered by descending weight; working holds the
// indices still competing for funds. Every pass either resolves the run or
// removes at least one index from working, so the loop ends after at most
// len(accounts) passes.
type engine struct {
	accounts   []weightedDebt
	working    []int
	disposable bigint.Uint128
	finalized  []FinalizedDebt

	logger      logging.Logger
	diagnostics Diagnostics
	metrics     metrics
}

func newEngine(accounts []weightedDebt, disposable bigint.Uint128, logger logging.Logger, diagnostics Diagnostics, metrics metrics) *engine {
	working := make([]int, len(accounts))
	for i := range working {
		working[i] = i
	}
	return &engine{
		accounts:    accounts,
		working:     working,
		disposable:  disposable,
		logger:      logger,
		diagnostics: diagnostics,
		metrics:     metrics,
	}
}

func (e *engine) run() ([]FinalizedDebt, error) {
	for pass := 1; len(e.working) > 0 && !e.disposable.IsZero(); pass++ {
		e.metrics.PassesCount.Inc()

		if len(e.working) == 1 {
			report := PassReport{Pass: pass, Working: 1, Disposable: e.disposable, Resolved: true}
			e.finalizeSingle(e.working[0])
			e.report(report)
			break
		}

		report := PassReport{Pass: pass, Working: len(e.working), Disposable: e.disposable}

		proposals, totalWeight, err := e.propose()
		if err != nil {
			return nil, fmt.Errorf("pass %d: %w", pass, err)
		}
		report.TotalWeight = totalWeight

		outweighed, insignificant := e.classify(proposals)
		if len(outweighed) > 0 || len(insignificant) > 0 {
			if err := e.settleOutweighed(outweighed); err != nil {
				return nil, fmt.Errorf("pass %d: %w", pass, err)
			}
			e.disqualify(insignificant)
			if len(outweighed) > 0 {
				report.Outweighed = e.creditors(outweighed)
			}
			if len(insignificant) > 0 {
				report.Disqualified = e.creditors(insignificant)
			}
			e.report(report)
			continue
		}

		if err := e.accept(proposals); err != nil {
			return nil, fmt.Errorf("pass %d: %w", pass, err)
		}
		report.Resolved = true
		e.report(report)
		break
	}
	return e.finalized, nil
}

// propose splits the disposable balance among the working set in proportion
// to weight. Shares are truncated, so they may not add up to the whole
// balance.
func (e *engine) propose() ([]proposedAdjustment, bigint.Uint128, error) {
	total := bigint.Zero
	for _, i := range e.working {
		var err error
		if total, err = total.Add(e.accounts[i].weight); err != nil {
			return nil, bigint.Zero, fmt.Errorf("total weight: %w", err)
		}
	}

	proposals := make([]proposedAdjustment, len(e.working))
	for k, i := range e.working {
		weight, sum := e.accounts[i].weight, total
		if total.IsZero() {
			// no criterion distinguishes the accounts, split evenly
			weight, sum = bigint.NewUint128(1), bigint.NewUint128(uint64(len(e.working)))
		}
		share, err := bigint.MulDiv(e.disposable, weight, sum)
		if err != nil {
			return nil, bigint.Zero, fmt.Errorf("share of %s: %w", e.accounts[i].Creditor.Hex(), err)
		}
		proposals[k] = proposedAdjustment{index: i, proposed: share}
	}
	return proposals, total, nil
}

// classify sorts the proposals of a pass into outweighed accounts, whose
// share exceeds their balance, and insignificant ones, whose share is below
// their disqualification limit. The limit never exceeds the balance, so an
// account is at most in one of the two.
func (e *engine) classify(proposals []proposedAdjustment) (outweighed, insignificant []int) {
	for _, p := range proposals {
		a := &e.accounts[p.index]
		switch {
		case p.proposed.Gt(a.Balance):
			outweighed = append(outweighed, p.index)
		case p.proposed.Lt(a.disqualificationLimit):
			insignificant = append(insignificant, p.index)
		}
	}
	return outweighed, insignificant
}

// settleOutweighed pays outweighed accounts in full and takes them out of
// the competition for the rest of the balance.
func (e *engine) settleOutweighed(indices []int) error {
	for _, i := range indices {
		a := &e.accounts[i]
		rest, err := e.disposable.Sub(a.Balance)
		if err != nil {
			return fmt.Errorf("settle outweighed %s: %w", a.Creditor.Hex(), err)
		}
		e.disposable = rest
		e.finalized = append(e.finalized, FinalizedDebt{
			Debt:             a.BareDebt,
			Weight:           a.weight,
			FinalizedBalance: a.Balance,
			rank:             a.rank,
		})
		e.logger.Debugf("payment adjuster: account %s outweighed, paying full balance %s", a.Creditor.Hex(), a.Balance)
	}
	e.metrics.OutweighedAccountsCount.Add(float64(len(indices)))
	e.remove(indices...)
	return nil
}

// disqualify drops insignificant accounts from the run. Nothing is
// reserved for them.
func (e *engine) disqualify(indices []int) {
	if len(indices) == 0 {
		return
	}
	for _, i := range indices {
		a := &e.accounts[i]
		e.logger.Debugf("payment adjuster: account %s disqualified, balance %s, limit %s", a.Creditor.Hex(), a.Balance, a.disqualificationLimit)
	}
	e.metrics.DisqualifiedAccounts.Add(float64(len(indices)))
	e.remove(indices...)
}

// accept finalizes all proposals. The truncation remainder is handed out
// starting from the last account, never beyond an account's balance.
func (e *engine) accept(proposals []proposedAdjustment) error {
	spent := bigint.Zero
	for _, p := range proposals {
		var err error
		if spent, err = spent.Add(p.proposed); err != nil {
			return fmt.Errorf("sum of proposals: %w", err)
		}
	}
	remainder, err := e.disposable.Sub(spent)
	if err != nil {
		return fmt.Errorf("proposals exceed disposable balance: %w", err)
	}

	for k := len(proposals) - 1; k >= 0 && !remainder.IsZero(); k-- {
		p := &proposals[k]
		room, err := e.accounts[p.index].Balance.Sub(p.proposed)
		if err != nil {
			return fmt.Errorf("proposal above balance for %s: %w", e.accounts[p.index].Creditor.Hex(), err)
		}
		grant := bigint.Min(room, remainder)
		if p.proposed, err = p.proposed.Add(grant); err != nil {
			return err
		}
		if remainder, err = remainder.Sub(grant); err != nil {
			return err
		}
	}

	for _, p := range proposals {
		a := &e.accounts[p.index]
		e.finalized = append(e.finalized, FinalizedDebt{
			Debt:             a.BareDebt,
			Weight:           a.weight,
			FinalizedBalance: p.proposed,
			rank:             a.rank,
		})
	}
	e.disposable = remainder
	e.working = nil
	return nil
}

// finalizeSingle pays the last remaining account as much as possible; with a
// single account the weight does not matter.
func (e *engine) finalizeSingle(i int) {
	a := &e.accounts[i]
	amount := bigint.Min(a.Balance, e.disposable)
	e.finalized = append(e.finalized, FinalizedDebt{
		Debt:             a.BareDebt,
		Weight:           a.weight,
		FinalizedBalance: amount,
		rank:             a.rank,
	})
	// amount is at most disposable
	e.disposable, _ = e.disposable.Sub(amount)
	e.working = nil
}

func (e *engine) remove(indices ...int) {
	drop := make(map[int]struct{}, len(indices))
	for _, i := range indices {
		drop[i] = struct{}{}
	}
	working := e.working[:0]
	for _, i := range e.working {
		if _, ok := drop[i]; !ok {
			working = append(working, i)
		}
	}
	e.working = working
}

func (e *engine) creditors(indices []int) []common.Address {
	c := make([]common.Address, len(indices))
	for k, i := range indices {
		c[k] = e.accounts[i].Creditor
	}
	return c
}

func (e *engine) report(r PassReport) {
	e.logger.Debugf("payment adjuster: pass %d, %d accounts, disposable %s, outweighed %d, disqualified %d", r.Pass, r.Working, r.Disposable, len(r.Outweighed), len(r.Disqualified))
	e.diagnostics.Pass(r)
}
