// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bigint provides the unsigned 128-bit quantity used for token
// balances and weights. Every operation is checked: a result that does not
// fit into 128 bits is reported as an error and never wrapped or truncated.
package bigint

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strconv"

	"github.com/holiman/uint256"
)

const bits = 128

var (
	// ErrOverflow is returned when a result does not fit into 128 bits.
	ErrOverflow = errors.New("uint128 overflow")
	// ErrUnderflow is returned when a subtraction would go below zero.
	ErrUnderflow = errors.New("uint128 underflow")
	// ErrDivisionByZero is returned on division by zero.
	ErrDivisionByZero = errors.New("uint128 division by zero")
	// ErrNegative is returned when a negative number is converted.
	ErrNegative = errors.New("uint128 negative value")

	// Zero is the zero value.
	Zero = Uint128{}
	// Max is 2^128-1.
	Max = func() Uint128 {
		m := new(big.Int).Lsh(big.NewInt(1), bits)
		v, _ := uint256.FromBig(m.Sub(m, big.NewInt(1)))
		return Uint128{v: *v}
	}()
)

// Uint128 is an unsigned integer of at most 128 bits. The zero value is 0.
type Uint128 struct {
	v uint256.Int
}

// NewUint128 returns x as Uint128.
func NewUint128(x uint64) Uint128 {
	var u Uint128
	u.v.SetUint64(x)
	return u
}

// FromBig converts b, failing for negative values and values wider than 128 bits.
func FromBig(b *big.Int) (Uint128, error) {
	if b.Sign() < 0 {
		return Zero, fmt.Errorf("%s: %w", b, ErrNegative)
	}
	if b.BitLen() > bits {
		return Zero, fmt.Errorf("%s: %w", b, ErrOverflow)
	}
	v, _ := uint256.FromBig(b)
	return Uint128{v: *v}, nil
}

// Parse parses a base 10 representation.
func Parse(s string) (Uint128, error) {
	b, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Zero, fmt.Errorf("invalid uint128 %q", s)
	}
	return FromBig(b)
}

// MustParse is like Parse but panics on error. It is meant for constants.
func MustParse(s string) Uint128 {
	u, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return u
}

func fit(v *uint256.Int) (Uint128, error) {
	if v.BitLen() > bits {
		return Zero, ErrOverflow
	}
	return Uint128{v: *v}, nil
}

// Add returns a+b.
func (a Uint128) Add(b Uint128) (Uint128, error) {
	// operands are below 2^128, the 256-bit sum can not wrap
	var z uint256.Int
	z.Add(&a.v, &b.v)
	return fit(&z)
}

// Sub returns a-b.
func (a Uint128) Sub(b Uint128) (Uint128, error) {
	if a.v.Lt(&b.v) {
		return Zero, ErrUnderflow
	}
	var z uint256.Int
	z.Sub(&a.v, &b.v)
	return Uint128{v: z}, nil
}

// Mul returns a*b.
func (a Uint128) Mul(b Uint128) (Uint128, error) {
	// operands are below 2^128, the 256-bit product can not wrap
	var z uint256.Int
	z.Mul(&a.v, &b.v)
	return fit(&z)
}

// Quo returns a/b truncated towards zero.
func (a Uint128) Quo(b Uint128) (Uint128, error) {
	if b.IsZero() {
		return Zero, ErrDivisionByZero
	}
	var z uint256.Int
	z.Div(&a.v, &b.v)
	return Uint128{v: z}, nil
}

// MulDiv returns a*b/d truncated towards zero. The product is kept in 256
// bits so only a quotient wider than 128 bits is an overflow.
func MulDiv(a, b, d Uint128) (Uint128, error) {
	if d.IsZero() {
		return Zero, ErrDivisionByZero
	}
	var z uint256.Int
	z.Mul(&a.v, &b.v)
	z.Div(&z, &d.v)
	return fit(&z)
}

// Cmp compares a and b and returns -1, 0 or +1.
func (a Uint128) Cmp(b Uint128) int {
	return a.v.Cmp(&b.v)
}

// Lt reports whether a < b.
func (a Uint128) Lt(b Uint128) bool {
	return a.v.Lt(&b.v)
}

// Gt reports whether a > b.
func (a Uint128) Gt(b Uint128) bool {
	return a.v.Gt(&b.v)
}

// Eq reports whether a == b.
func (a Uint128) Eq(b Uint128) bool {
	return a.v.Eq(&b.v)
}

// IsZero reports whether a == 0.
func (a Uint128) IsZero() bool {
	return a.v.IsZero()
}

// Min returns the smaller of a and b.
func Min(a, b Uint128) Uint128 {
	if a.Lt(b) {
		return a
	}
	return b
}

// BitLen returns the number of bits required to represent a.
func (a Uint128) BitLen() int {
	return a.v.BitLen()
}

// Log2Floor returns floor(log2(a)) and false if a is zero.
func (a Uint128) Log2Floor() (uint, bool) {
	if a.IsZero() {
		return 0, false
	}
	return uint(a.v.BitLen() - 1), true
}

// IsUint64 reports whether a fits into uint64.
func (a Uint128) IsUint64() bool {
	return a.v.IsUint64()
}

// Uint64 returns the low 64 bits of a.
func (a Uint128) Uint64() uint64 {
	return a.v.Uint64()
}

// Big returns a as a new big.Int.
func (a Uint128) Big() *big.Int {
	return a.v.ToBig()
}

// String returns the base 10 representation.
func (a Uint128) String() string {
	return a.v.ToBig().String()
}

func (a Uint128) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(a.String())), nil
}

// UnmarshalJSON accepts both a quoted decimal string and a bare JSON number.
func (a *Uint128) UnmarshalJSON(b []byte) error {
	var val string
	if err := json.Unmarshal(b, &val); err != nil {
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return err
		}
		val = n.String()
	}
	u, err := Parse(val)
	if err != nil {
		return err
	}
	*a = u
	return nil
}

func (a Uint128) MarshalYAML() (interface{}, error) {
	return a.String(), nil
}

func (a *Uint128) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var val string
	if err := unmarshal(&val); err != nil {
		return err
	}
	u, err := Parse(val)
	if err != nil {
		return err
	}
	*a = u
	return nil
}
