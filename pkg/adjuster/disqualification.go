// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package adjuster

import (
	"errors"
	"fmt"

	"github.com/ethersphere/payadjuster/pkg/bigint"
)

// DefaultDisqualificationPercent is the share of the original balance an
// account has to be offered to stay in a run.
const DefaultDisqualificationPercent = 50

var ErrInvalidDisqualificationPercent = errors.New("disqualification percent above 100")

// DisqualificationPolicy computes the minimum acceptable payment for an
// account as a percentage of its original balance. An account offered less
// is dropped from the run.
type DisqualificationPolicy struct {
	Percent uint64
}

func (p DisqualificationPolicy) Validate() error {
	if p.Percent > 100 {
		return fmt.Errorf("%d: %w", p.Percent, ErrInvalidDisqualificationPercent)
	}
	return nil
}

// Limit returns floor(balance * Percent / 100).
func (p DisqualificationPolicy) Limit(balance bigint.Uint128) (bigint.Uint128, error) {
	return bigint.MulDiv(balance, bigint.NewUint128(p.Percent), bigint.NewUint128(100))
}
