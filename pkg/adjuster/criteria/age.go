// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package criteria

import (
	"math/big"
	"time"

	"github.com/ethersphere/payadjuster/pkg/bigint"
	"github.com/ethersphere/payadjuster/pkg/payable"
)

const (
	ageLogStressFactor     = 1000
	ageDivisorStressFactor = 10
)

// Age weighs a debt by the time elapsed since its last payment. The raw
// elapsed^3/sqrt(elapsed) term is scaled by a multiplier that descends as the
// debt gets older, so the criterion matters most for debts hours to days old
// and lets Balance take over for very old ones.
type Age struct {
	now time.Time
}

// NewAge returns the Age criterion measuring elapsed time up to now. The same
// now has to be used for every debt of a run.
func NewAge(now time.Time) Age {
	return Age{now: now}
}

func (Age) Name() string {
	return "age"
}

func (a Age) Weigh(d payable.QualifiedDebt) (bigint.Uint128, error) {
	return AgeWeight(ElapsedSeconds(a.now, d.LastPaid))
}

// ElapsedSeconds returns whole seconds from lastPaid to now, at least 1.
func ElapsedSeconds(now, lastPaid time.Time) uint64 {
	s := now.Unix() - lastPaid.Unix()
	if s < 1 {
		return 1
	}
	return uint64(s)
}

// AgeDivisor returns ceil(sqrt(elapsed)), at least 1.
func AgeDivisor(elapsed uint64) uint64 {
	x := new(big.Int).SetUint64(elapsed)
	s := new(big.Int).Sqrt(x)
	if new(big.Int).Mul(s, s).Cmp(x) < 0 {
		s.Add(s, big.NewInt(1))
	}
	if d := s.Uint64(); d > 1 {
		return d
	}
	return 1
}

// AgeMultiplier returns max((log2(elapsed^2)^2*1000 / (divisor*10))^3, 1).
func AgeMultiplier(elapsed, divisor uint64) (bigint.Uint128, error) {
	e := bigint.NewUint128(elapsed)
	logInput, err := e.Mul(e)
	if err != nil {
		return bigint.Zero, err
	}
	l := logFloorNonzero(logInput)
	logStressed := l * l * ageLogStressFactor
	divisorStressed := divisor * ageDivisorStressFactor

	q := bigint.NewUint128(logStressed / divisorStressed)
	q2, err := q.Mul(q)
	if err != nil {
		return bigint.Zero, err
	}
	m, err := q2.Mul(q)
	if err != nil {
		return bigint.Zero, err
	}
	if m.IsZero() {
		return bigint.NewUint128(1), nil
	}
	return m, nil
}

// AgeWeight returns (elapsed^3 / divisor) * multiplier.
func AgeWeight(elapsed uint64) (bigint.Uint128, error) {
	if elapsed < 1 {
		elapsed = 1
	}
	divisor := AgeDivisor(elapsed)
	multiplier, err := AgeMultiplier(elapsed, divisor)
	if err != nil {
		return bigint.Zero, err
	}

	e := bigint.NewUint128(elapsed)
	e2, err := e.Mul(e)
	if err != nil {
		return bigint.Zero, err
	}
	e3, err := e2.Mul(e)
	if err != nil {
		return bigint.Zero, err
	}
	base, err := e3.Quo(bigint.NewUint128(divisor))
	if err != nil {
		return bigint.Zero, err
	}
	return base.Mul(multiplier)
}

// logFloorNonzero is floor(log2(x)) for x >= 2 and 1 otherwise.
func logFloorNonzero(x bigint.Uint128) uint64 {
	if x.Lt(bigint.NewUint128(2)) {
		return 1
	}
	l, _ := x.Log2Floor()
	return uint64(l)
}
