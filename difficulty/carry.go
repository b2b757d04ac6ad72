// Copyright 2026 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package difficulty

import "math"

// OverflowsAdd reports whether a + b wraps past the 64-bit range
func OverflowsAdd(a, b uint64) bool {
	return a+b < a
}

// OverflowsAddWithCarry reports whether a + b + carry wraps past the
// 64-bit range. This includes a + b == MaxUint64 with carry set.
func OverflowsAddWithCarry(a, b uint64, carry bool) bool {
	return a+b < a || (carry && a+b == math.MaxUint64)
}
