// Copyright 2026 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package difficulty_test

import (
	"math"
	"math/big"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/blinklabs-io/lwmad/difficulty"
)

var multipliers = map[string]difficulty.Multiplier{
	"native":   difficulty.NativeMultiplier{},
	"portable": difficulty.PortableMultiplier{},
}

func TestMul(t *testing.T) {
	testDefs := []struct {
		a, b   uint64
		lo, hi uint64
	}{
		{0, 0, 0, 0},
		{1, 1, 1, 0},
		{math.MaxUint64, 1, math.MaxUint64, 0},
		{math.MaxUint64, 2, math.MaxUint64 - 1, 1},
		{1 << 32, 1 << 32, 0, 1},
		{math.MaxUint32, math.MaxUint32, 0xfffffffe00000001, 0},
		// (2^64-1)^2 = 2^128 - 2^65 + 1
		{math.MaxUint64, math.MaxUint64, 1, math.MaxUint64 - 1},
		{0x0123456789abcdef, 0xfedcba9876543210, 0x2236d88fe5618cf0, 0x0121fa00ad77d742},
	}
	for name, m := range multipliers {
		for _, td := range testDefs {
			lo, hi := m.Mul(td.a, td.b)
			if lo != td.lo || hi != td.hi {
				t.Fatalf(
					"%s: Mul(%#x, %#x): got (%#x, %#x), want (%#x, %#x)",
					name,
					td.a,
					td.b,
					lo,
					hi,
					td.lo,
					td.hi,
				)
			}
		}
	}
}

func TestMulMatchesBigInt(t *testing.T) {
	properties := gopter.NewProperties(nil)
	for name, m := range multipliers {
		properties.Property(name+" multiply matches math/big", prop.ForAll(
			func(a, b uint64) bool {
				lo, hi := m.Mul(a, b)
				want := new(big.Int).Mul(
					new(big.Int).SetUint64(a),
					new(big.Int).SetUint64(b),
				)
				got := new(big.Int).Lsh(new(big.Int).SetUint64(hi), 64)
				got.Or(got, new(big.Int).SetUint64(lo))
				return got.Cmp(want) == 0
			},
			gen.UInt64(),
			gen.UInt64(),
		))
	}
	properties.TestingRun(t)
}

func TestMulStrategiesAgree(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 10000
	properties := gopter.NewProperties(parameters)
	properties.Property("native and portable multiply agree", prop.ForAll(
		func(a, b uint64) bool {
			nLo, nHi := difficulty.NativeMultiplier{}.Mul(a, b)
			pLo, pHi := difficulty.PortableMultiplier{}.Mul(a, b)
			dLo, dHi := difficulty.Mul128(a, b)
			return nLo == pLo && nHi == pHi && dLo == nLo && dHi == nHi
		},
		genWord(),
		genWord(),
	))
	properties.TestingRun(t)
}

// genWord favours values at the lane boundaries of the portable multiply
func genWord() gopter.Gen {
	return gen.OneGenOf(
		gen.UInt64(),
		gen.OneConstOf(
			uint64(0),
			uint64(1),
			uint64(math.MaxUint32),
			uint64(math.MaxUint32)+1,
			uint64(math.MaxUint64),
			uint64(math.MaxUint64)-1,
		),
		gen.UInt32().Map(func(v uint32) uint64 {
			return uint64(v) << 32
		}),
	)
}
