// Copyright 2026 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

//go:build !purego

package difficulty

var defaultMultiplier Multiplier = NativeMultiplier{}
