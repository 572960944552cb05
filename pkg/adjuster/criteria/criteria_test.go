// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package criteria_test

import (
	"errors"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethersphere/payadjuster/pkg/adjuster/criteria"
	"github.com/ethersphere/payadjuster/pkg/bigint"
	"github.com/ethersphere/payadjuster/pkg/payable"
)

var now = time.Unix(1_700_000_000, 0)

func debt(balance string, age time.Duration) payable.QualifiedDebt {
	return payable.QualifiedDebt{
		BareDebt: payable.BareDebt{
			Creditor: common.HexToAddress("0x1234"),
			Balance:  bigint.MustParse(balance),
			LastPaid: now.Add(-age),
		},
		Qualified: true,
	}
}

func TestAgeDivisor(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		elapsed, want uint64
	}{
		{1, 1},
		{2, 2},
		{4, 2},
		{5, 3},
		{81, 9},
		{82, 10},
		{100, 10},
		{86400, 294},
	} {
		if got := criteria.AgeDivisor(tc.elapsed); got != tc.want {
			t.Errorf("divisor for %d: got %d, want %d", tc.elapsed, got, tc.want)
		}
	}
}

func TestElapsedSeconds(t *testing.T) {
	t.Parallel()

	if got := criteria.ElapsedSeconds(now, now); got != 1 {
		t.Errorf("just paid: got %d, want 1", got)
	}
	if got := criteria.ElapsedSeconds(now, now.Add(time.Hour)); got != 1 {
		t.Errorf("paid in the future: got %d, want 1", got)
	}
	if got := criteria.ElapsedSeconds(now, now.Add(-81*time.Second)); got != 81 {
		t.Errorf("got %d, want 81", got)
	}
}

func TestAgeWeight(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		elapsed uint64
		want    string
	}{
		{1, "1000000"},
		{2, "32000000"},
		{81, "241864704000000"},
		{100, "482680900000000"},
	} {
		got, err := criteria.AgeWeight(tc.elapsed)
		if err != nil {
			t.Fatal(err)
		}
		if got.String() != tc.want {
			t.Errorf("age weight for %d: got %s, want %s", tc.elapsed, got, tc.want)
		}
	}
}

func TestAgeMultiplierDescends(t *testing.T) {
	t.Parallel()

	hour, err := criteria.AgeMultiplier(3600, criteria.AgeDivisor(3600))
	if err != nil {
		t.Fatal(err)
	}
	day, err := criteria.AgeMultiplier(86400, criteria.AgeDivisor(86400))
	if err != nil {
		t.Fatal(err)
	}
	if day.String() != "42144192" {
		t.Errorf("got day multiplier %s, want 42144192", day)
	}
	if !day.Lt(hour) {
		t.Errorf("multiplier for a day %s not below the one for an hour %s", day, hour)
	}

	years, err := criteria.AgeMultiplier(1<<40, criteria.AgeDivisor(1<<40))
	if err != nil {
		t.Fatal(err)
	}
	if years.Uint64() != 1 {
		t.Errorf("got multiplier %s for a very old debt, want 1", years)
	}
}

func TestAgeCriterion(t *testing.T) {
	t.Parallel()

	got, err := criteria.NewAge(now).Weigh(debt("1", 100*time.Second))
	if err != nil {
		t.Fatal(err)
	}
	if got.String() != "482680900000000" {
		t.Errorf("got %s, want 482680900000000", got)
	}
}

func TestAgeOverflow(t *testing.T) {
	t.Parallel()

	if _, err := criteria.AgeWeight(1 << 50); !errors.Is(err, bigint.ErrOverflow) {
		t.Fatalf("got error %v, want %v", err, bigint.ErrOverflow)
	}
}

func TestBalanceWeight(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		balance string
		want    string
	}{
		// 111333555777 / 18490000 = 6021, log2(6021) = 12
		{"111333555777", "2672005338648"},
		// below the scale the logarithm floors at 1
		{"1000", "2000"},
		{"0", "0"},
		// log2(2) = 1
		{"36980000", "73960000"},
		// log2(1) = 0 floors at 1
		{"18490000", "36980000"},
	} {
		got, err := criteria.Balance{}.Weigh(debt(tc.balance, time.Hour))
		if err != nil {
			t.Fatal(err)
		}
		if got.String() != tc.want {
			t.Errorf("balance weight for %s: got %s, want %s", tc.balance, got, tc.want)
		}
	}
}

func TestNonzeroLog2(t *testing.T) {
	t.Parallel()

	arg := bigint.NewUint128(111_333_555_777 / criteria.BalanceScale)
	if got := criteria.NonzeroLog2(arg); got != 12 {
		t.Errorf("got %d, want 12", got)
	}
	if got := criteria.NonzeroLog2(bigint.Zero); got != 1 {
		t.Errorf("log of zero: got %d, want 1", got)
	}
}

func TestBalanceOverflow(t *testing.T) {
	t.Parallel()

	_, err := criteria.BalanceWeight(bigint.MustParse("170141183460469231731687303715884105728"))
	if !errors.Is(err, bigint.ErrOverflow) {
		t.Fatalf("got error %v, want %v", err, bigint.ErrOverflow)
	}
}

type fixed struct {
	name  string
	value bigint.Uint128
}

func (f fixed) Name() string { return f.name }

func (f fixed) Weigh(payable.QualifiedDebt) (bigint.Uint128, error) { return f.value, nil }

func TestWeigher(t *testing.T) {
	t.Parallel()

	t.Run("sum", func(t *testing.T) {
		t.Parallel()

		w := criteria.NewWeigher(fixed{"a", bigint.NewUint128(40)}, fixed{"b", bigint.NewUint128(2)})
		got, err := w.Weigh(debt("1", time.Hour))
		if err != nil {
			t.Fatal(err)
		}
		if got.Uint64() != 42 {
			t.Errorf("got %s, want 42", got)
		}
	})

	t.Run("order insensitive", func(t *testing.T) {
		t.Parallel()

		d := debt("111333555777", 90*time.Minute)
		a, err := criteria.NewWeigher(criteria.NewAge(now), criteria.Balance{}).Weigh(d)
		if err != nil {
			t.Fatal(err)
		}
		b, err := criteria.NewWeigher(criteria.Balance{}, criteria.NewAge(now)).Weigh(d)
		if err != nil {
			t.Fatal(err)
		}
		if !a.Eq(b) {
			t.Errorf("got %s and %s", a, b)
		}
	})

	t.Run("overflow", func(t *testing.T) {
		t.Parallel()

		w := criteria.NewWeigher(fixed{"a", bigint.Max}, fixed{"b", bigint.NewUint128(1)})
		if _, err := w.Weigh(debt("1", time.Hour)); !errors.Is(err, bigint.ErrOverflow) {
			t.Fatalf("got error %v, want %v", err, bigint.ErrOverflow)
		}
	})

	t.Run("default names", func(t *testing.T) {
		t.Parallel()

		names := criteria.Default(now).Names()
		if len(names) != 2 || names[0] != "age" || names[1] != "balance" {
			t.Errorf("got %v", names)
		}
	})
}
