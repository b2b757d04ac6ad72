// Copyright 2026 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package difficulty

import "github.com/holiman/uint256"

// CheckHash64 reports whether hash * difficulty fits in 256 bits, with the
// hash read as a little-endian 256-bit integer.
func CheckHash64(hash Hash, difficulty uint64) bool {
	// The top word rejects almost every random hash on its own
	top, high := Mul128(hash.Word(3), difficulty)
	if high != 0 {
		return false
	}
	_, cur := Mul128(hash.Word(0), difficulty)
	low, high := Mul128(hash.Word(1), difficulty)
	carry := OverflowsAdd(cur, low)
	cur = high
	low, high = Mul128(hash.Word(2), difficulty)
	carry = OverflowsAddWithCarry(cur, low, carry)
	carry = OverflowsAddWithCarry(high, top, carry)
	return !carry
}

// CheckHashWide is the general form of CheckHash64 for difficulties of any
// width. The product is formed at full precision, so the check is exact.
func CheckHashWide(hash Hash, difficulty Value) bool {
	h := hash.uint256()
	var product uint256.Int
	_, overflow := product.MulOverflow(&h, &difficulty.v)
	return !overflow
}

// CheckHash reports whether hash meets difficulty. Difficulties that fit in
// 64 bits take the CheckHash64 path.
func CheckHash(hash Hash, difficulty Value) bool {
	if difficulty.Lte(maxUint64Value) {
		return CheckHash64(hash, difficulty.Uint64())
	}
	return CheckHashWide(hash, difficulty)
}
