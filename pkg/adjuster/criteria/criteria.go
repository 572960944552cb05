// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package criteria computes the weight of a debt. Every criterion maps one
// attribute of a debt to an unsigned contribution; a Weigher sums the
// contributions of its criteria into the total weight.
package criteria

import (
	"fmt"
	"time"

	"github.com/ethersphere/payadjuster/pkg/bigint"
	"github.com/ethersphere/payadjuster/pkg/payable"
)

// Criterion computes the weight contribution of a single debt attribute.
// Implementations must be pure and report overflows as errors wrapping
// bigint.ErrOverflow.
type Criterion interface {
	Name() string
	Weigh(d payable.QualifiedDebt) (bigint.Uint128, error)
}

// Weigher owns the set of criteria used during one adjustment run.
type Weigher struct {
	criteria []Criterion
}

func NewWeigher(criteria ...Criterion) *Weigher {
	return &Weigher{criteria: criteria}
}

// Default returns the Age and Balance criteria evaluated at now.
func Default(now time.Time) *Weigher {
	return NewWeigher(NewAge(now), Balance{})
}

// Weigh returns the sum of all criterion contributions for d.
func (w *Weigher) Weigh(d payable.QualifiedDebt) (bigint.Uint128, error) {
	total := bigint.Zero
	for _, c := range w.criteria {
		v, err := c.Weigh(d)
		if err != nil {
			return bigint.Zero, fmt.Errorf("%s criterion for %s: %w", c.Name(), d.Creditor.Hex(), err)
		}
		if total, err = total.Add(v); err != nil {
			return bigint.Zero, fmt.Errorf("summing criteria for %s: %w", d.Creditor.Hex(), err)
		}
	}
	return total, nil
}

// Names lists the criteria in evaluation order.
func (w *Weigher) Names() []string {
	names := make([]string, len(w.criteria))
	for i, c := range w.criteria {
		names[i] = c.Name()
	}
	return names
}
