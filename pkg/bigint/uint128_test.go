// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bigint_test

import (
	"encoding/json"
	"errors"
	"math"
	"math/big"
	"testing"

	"github.com/ethersphere/payadjuster/pkg/bigint"
	"gopkg.in/yaml.v2"
)

func TestMarshaling(t *testing.T) {
	t.Parallel()

	v, err := bigint.FromBig(new(big.Int).Mul(big.NewInt(math.MaxInt64), big.NewInt(math.MaxInt64)))
	if err != nil {
		t.Fatal(err)
	}
	mar, err := json.Marshal(struct {
		Bg bigint.Uint128
	}{
		Bg: v,
	})
	if err != nil {
		t.Fatalf("marshaling failed: %v", err)
	}
	if string(mar) != `{"Bg":"85070591730234615847396907784232501249"}` {
		t.Errorf("wrongly marshaled data %s", mar)
	}

	var got struct {
		Bg bigint.Uint128
	}
	if err := json.Unmarshal(mar, &got); err != nil {
		t.Fatal(err)
	}
	if !got.Bg.Eq(v) {
		t.Errorf("got %s, want %s", got.Bg, v)
	}

	if err := json.Unmarshal([]byte(`{"Bg":1234}`), &got); err != nil {
		t.Fatal(err)
	}
	if !got.Bg.Eq(bigint.NewUint128(1234)) {
		t.Errorf("got %s, want 1234", got.Bg)
	}
}

func TestYAML(t *testing.T) {
	t.Parallel()

	var got struct {
		A bigint.Uint128 `yaml:"a"`
		B bigint.Uint128 `yaml:"b"`
	}
	in := "a: \"340282366920938463463374607431768211455\"\nb: 42\n"
	if err := yaml.Unmarshal([]byte(in), &got); err != nil {
		t.Fatal(err)
	}
	if !got.A.Eq(bigint.Max) {
		t.Errorf("got %s, want %s", got.A, bigint.Max)
	}
	if !got.B.Eq(bigint.NewUint128(42)) {
		t.Errorf("got %s, want 42", got.B)
	}
}

func TestFromBig(t *testing.T) {
	t.Parallel()

	if _, err := bigint.FromBig(big.NewInt(-1)); !errors.Is(err, bigint.ErrNegative) {
		t.Errorf("got error %v, want %v", err, bigint.ErrNegative)
	}
	tooBig := new(big.Int).Lsh(big.NewInt(1), 128)
	if _, err := bigint.FromBig(tooBig); !errors.Is(err, bigint.ErrOverflow) {
		t.Errorf("got error %v, want %v", err, bigint.ErrOverflow)
	}
	if _, err := bigint.Parse("12a"); err == nil {
		t.Error("expected parse error")
	}
}

func TestCheckedArithmetic(t *testing.T) {
	t.Parallel()

	one := bigint.NewUint128(1)
	two := bigint.NewUint128(2)

	if _, err := bigint.Max.Add(one); !errors.Is(err, bigint.ErrOverflow) {
		t.Errorf("add: got error %v, want %v", err, bigint.ErrOverflow)
	}
	if _, err := bigint.Max.Mul(two); !errors.Is(err, bigint.ErrOverflow) {
		t.Errorf("mul: got error %v, want %v", err, bigint.ErrOverflow)
	}
	if _, err := one.Sub(two); !errors.Is(err, bigint.ErrUnderflow) {
		t.Errorf("sub: got error %v, want %v", err, bigint.ErrUnderflow)
	}
	if _, err := one.Quo(bigint.Zero); !errors.Is(err, bigint.ErrDivisionByZero) {
		t.Errorf("quo: got error %v, want %v", err, bigint.ErrDivisionByZero)
	}

	sum, err := bigint.NewUint128(40).Add(two)
	if err != nil {
		t.Fatal(err)
	}
	if sum.Uint64() != 42 {
		t.Errorf("got sum %s, want 42", sum)
	}
	q, err := bigint.NewUint128(100).Quo(bigint.NewUint128(3))
	if err != nil {
		t.Fatal(err)
	}
	if q.Uint64() != 33 {
		t.Errorf("got quotient %s, want 33", q)
	}
}

func TestMulDiv(t *testing.T) {
	t.Parallel()

	// the product of the operands needs more than 128 bits
	got, err := bigint.MulDiv(bigint.Max, bigint.Max, bigint.Max)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Eq(bigint.Max) {
		t.Errorf("got %s, want %s", got, bigint.Max)
	}

	if _, err := bigint.MulDiv(bigint.Max, bigint.NewUint128(2), bigint.NewUint128(1)); !errors.Is(err, bigint.ErrOverflow) {
		t.Errorf("got error %v, want %v", err, bigint.ErrOverflow)
	}
	if _, err := bigint.MulDiv(bigint.Max, bigint.Max, bigint.Zero); !errors.Is(err, bigint.ErrDivisionByZero) {
		t.Errorf("got error %v, want %v", err, bigint.ErrDivisionByZero)
	}

	got, err = bigint.MulDiv(bigint.NewUint128(100), bigint.NewUint128(1), bigint.NewUint128(3))
	if err != nil {
		t.Fatal(err)
	}
	if got.Uint64() != 33 {
		t.Errorf("got %s, want 33", got)
	}
}

func TestLog2Floor(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		in   uint64
		want uint
		ok   bool
	}{
		{0, 0, false},
		{1, 0, true},
		{2, 1, true},
		{3, 1, true},
		{4096, 12, true},
		{8191, 12, true},
		{math.MaxUint64, 63, true},
	} {
		got, ok := bigint.NewUint128(tc.in).Log2Floor()
		if got != tc.want || ok != tc.ok {
			t.Errorf("log2(%d): got (%d, %v), want (%d, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}

	if got, _ := bigint.Max.Log2Floor(); got != 127 {
		t.Errorf("log2(max): got %d, want 127", got)
	}
}
