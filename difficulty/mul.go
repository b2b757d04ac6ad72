// Copyright 2026 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package difficulty

import "math/bits"

// Multiplier computes the full 128-bit product of two 64-bit words,
// returned as its low and high halves.
type Multiplier interface {
	Mul(a, b uint64) (lo, hi uint64)
}

// NativeMultiplier uses the widening multiply provided by the runtime.
type NativeMultiplier struct{}

func (NativeMultiplier) Mul(a, b uint64) (uint64, uint64) {
	hi, lo := bits.Mul64(a, b)
	return lo, hi
}

// PortableMultiplier splits each operand into 32-bit halves and combines
// the four partial products with explicit carries. It never relies on a
// wide multiply instruction.
type PortableMultiplier struct{}

func (PortableMultiplier) Mul(a, b uint64) (uint64, uint64) {
	aLow := a & 0xFFFFFFFF
	aHigh := a >> 32
	bLow := b & 0xFFFFFFFF
	bHigh := b >> 32

	res := aLow * bLow
	lowRes1 := res & 0xFFFFFFFF
	carry := res >> 32

	res = aHigh*bLow + carry
	highResHigh1 := res >> 32
	highResLow1 := res & 0xFFFFFFFF

	res = aLow * bHigh
	lowRes2 := res & 0xFFFFFFFF
	carry = res >> 32

	res = aHigh*bHigh + carry
	highResHigh2 := res >> 32
	highResLow2 := res & 0xFFFFFFFF

	// Combine the middle lanes
	r := highResLow1 + lowRes2
	carry = r >> 32
	lo := (r << 32) | lowRes1
	r = highResHigh1 + highResLow2 + carry
	d3 := r & 0xFFFFFFFF
	carry = r >> 32
	r = highResHigh2 + carry
	hi := d3 | (r << 32)
	return lo, hi
}

// Mul128 multiplies a and b using the strategy selected at build time
func Mul128(a, b uint64) (lo, hi uint64) {
	return defaultMultiplier.Mul(a, b)
}

// DefaultMultiplier returns the strategy selected at build time
func DefaultMultiplier() Multiplier {
	return defaultMultiplier
}
