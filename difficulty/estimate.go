// Copyright 2026 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package difficulty

import "math"

// minTimestamps is the shortest history the estimator will average over.
// Anything shorter is the start of the chain and gets difficulty 1.
const minTimestamps = 4

// window returns the offset and size N of the solve time window for count
// timestamps. ok is false at the start of the chain.
func (p Params) window(count int) (start int, n int, ok bool) {
	if count < minTimestamps {
		return 0, 0, false
	}
	if count < p.WindowSize+1 {
		return 0, count - 1, true
	}
	return count - (p.WindowSize + 1), p.WindowSize, true
}

// solveTime clamps the gap between two timestamps to [-FTL, 10*T]
func (p Params) solveTime(cur, prev uint64) int64 {
	t := int64(p.TargetSeconds)
	st := int64(cur) - int64(prev)
	return min(t*10, max(st, -int64(p.FutureTimeLimit)))
}

// nextRaw turns the accumulated LWMA and inverse difficulty sum into the
// untruncated next difficulty
func (p Params) nextRaw(n int, lwma float64, sumInverseD float64) float64 {
	t := int64(p.TargetSeconds)
	harmonicMeanD := float64(n) / sumInverseD
	// Same 1/4 limit as Bitcoin in case something unforeseen happens
	if int64(math.Round(lwma)) < t/4 {
		lwma = float64(t / 4)
	}
	return harmonicMeanD * float64(t) / lwma * p.Adjust
}

// NextDifficulty64 computes the difficulty for the next block from the
// timestamps and cumulative difficulties of the preceding blocks, oldest
// first. Both slices must have the same length and every block in the window
// must have a difficulty of at least 1.
//
// Unlike NextDifficulty, a result below 1 is returned as 0.
func NextDifficulty64(timestamps []uint64, cumulative []uint64, p Params) uint64 {
	start, n, ok := p.window(len(timestamps))
	if !ok {
		return 1
	}
	timestamps = timestamps[start : start+n+1]
	cumulative = cumulative[start : start+n+1]
	k := float64(n * (n + 1) / 2)
	var lwma, sumInverseD float64
	// Accumulation order is consensus critical
	for i := 1; i <= n; i++ {
		solveTime := p.solveTime(timestamps[i], timestamps[i-1])
		difficulty := cumulative[i] - cumulative[i-1]
		lwma += float64(solveTime*int64(i)) / k
		sumInverseD += 1 / float64(difficulty)
	}
	return truncateUint64(p.nextRaw(n, lwma, sumInverseD))
}

// NextDifficulty is NextDifficulty64 for arbitrary width cumulative
// difficulties. The result is never less than 1.
func NextDifficulty(timestamps []uint64, cumulative []Value, p Params) Value {
	start, n, ok := p.window(len(timestamps))
	if !ok {
		return NewValue(1)
	}
	timestamps = timestamps[start : start+n+1]
	cumulative = cumulative[start : start+n+1]
	k := float64(n * (n + 1) / 2)
	var lwma, sumInverseD float64
	for i := 1; i <= n; i++ {
		solveTime := p.solveTime(timestamps[i], timestamps[i-1])
		difficulty := cumulative[i].Sub(cumulative[i-1])
		lwma += float64(solveTime*int64(i)) / k
		sumInverseD += 1 / difficulty.Float64()
	}
	ret := valueFromFloat(p.nextRaw(n, lwma, sumInverseD))
	if ret.IsZero() {
		return NewValue(1)
	}
	return ret
}

func truncateUint64(f float64) uint64 {
	switch {
	case math.IsNaN(f) || f < 1:
		return 0
	case f >= math.MaxUint64:
		return math.MaxUint64
	}
	return uint64(f)
}
