// Copyright 2026 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package difficulty

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
)

var (
	maxUint64Value = Value{v: *uint256.NewInt(math.MaxUint64)}
	twoTo256Float  = new(big.Float).SetInt(new(big.Int).Lsh(big.NewInt(1), 256))
)

// Value is an unsigned difficulty or cumulative difficulty of up to 256 bits.
// The zero value is 0. Values are immutable: every operation returns a new
// Value.
type Value struct {
	v uint256.Int
}

func NewValue(n uint64) Value {
	return Value{v: *uint256.NewInt(n)}
}

// ParseValue accepts a decimal string or a 0x-prefixed hex string
func ParseValue(s string) (Value, error) {
	var ret Value
	s = strings.TrimSpace(s)
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
		base = 16
	}
	bi, ok := new(big.Int).SetString(s, base)
	if !ok || bi.Sign() < 0 {
		return ret, fmt.Errorf("invalid difficulty: %q", s)
	}
	tmp, overflow := uint256.FromBig(bi)
	if overflow {
		return ret, fmt.Errorf("difficulty exceeds 256 bits: %q", s)
	}
	ret.v = *tmp
	return ret, nil
}

// ValueFromBytes32 decodes a big-endian 32-byte value
func ValueFromBytes32(b [32]byte) Value {
	var ret Value
	ret.v.SetBytes32(b[:])
	return ret
}

// valueFromFloat truncates f toward zero. Negative and NaN inputs yield 0,
// values beyond 256 bits saturate.
func valueFromFloat(f float64) Value {
	if math.IsNaN(f) || f < 1 {
		return Value{}
	}
	bf := new(big.Float).SetFloat64(f)
	if bf.Cmp(twoTo256Float) >= 0 {
		return Value{v: *new(uint256.Int).SetAllOne()}
	}
	bi, _ := bf.Int(nil)
	tmp, _ := uint256.FromBig(bi)
	return Value{v: *tmp}
}

// Add returns x + y, wrapping at 2^256
func (x Value) Add(y Value) Value {
	var ret Value
	ret.v.Add(&x.v, &y.v)
	return ret
}

// Sub returns x - y, wrapping below zero
func (x Value) Sub(y Value) Value {
	var ret Value
	ret.v.Sub(&x.v, &y.v)
	return ret
}

// Rsh returns x >> n
func (x Value) Rsh(n uint) Value {
	var ret Value
	ret.v.Rsh(&x.v, n)
	return ret
}

// Cmp returns -1, 0 or +1 depending on whether x is less than, equal to or
// greater than y
func (x Value) Cmp(y Value) int {
	return x.v.Cmp(&y.v)
}

func (x Value) Lte(y Value) bool {
	return x.v.Cmp(&y.v) <= 0
}

func (x Value) Gte(y Value) bool {
	return x.v.Cmp(&y.v) >= 0
}

func (x Value) IsZero() bool {
	return x.v.IsZero()
}

// IsUint64 reports whether x can be represented as a uint64
func (x Value) IsUint64() bool {
	return x.v.IsUint64()
}

// Uint64 returns the low 64 bits of x. It is only meaningful when
// IsUint64 is true.
func (x Value) Uint64() uint64 {
	return x.v.Uint64()
}

// Float64 returns the nearest float64 to x, rounding half to even
func (x Value) Float64() float64 {
	if x.v.IsUint64() {
		return float64(x.v.Uint64())
	}
	f, _ := new(big.Float).SetInt(x.v.ToBig()).Float64()
	return f
}

// Hex renders x as lowercase 0x-prefixed hex without leading zeros.
// Zero renders as "0x0".
func (x Value) Hex() string {
	return x.v.Hex()
}

// String renders x in decimal
func (x Value) String() string {
	return x.v.Dec()
}

// Bytes32 returns x as a big-endian 32-byte array
func (x Value) Bytes32() [32]byte {
	return x.v.Bytes32()
}

func (x Value) MarshalText() ([]byte, error) {
	return []byte(x.v.Dec()), nil
}

func (x *Value) UnmarshalText(text []byte) error {
	tmp, err := ParseValue(string(text))
	if err != nil {
		return err
	}
	*x = tmp
	return nil
}

// UnmarshalYAML allows difficulties to be written as plain YAML integers or
// as quoted decimal/hex strings
func (x *Value) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	return x.UnmarshalText([]byte(s))
}
