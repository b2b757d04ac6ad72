// Copyright 2026 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package difficulty

import (
	"errors"
	"fmt"
)

const (
	// DefaultWindowSize is the number of solve times averaged by the
	// estimator once the chain is long enough
	DefaultWindowSize = 60
	// DefaultAdjust corrects the average solve time to within ~0.1% for
	// DefaultWindowSize. Other window sizes need their own factor.
	DefaultAdjust = 0.998
)

// Params holds the consensus constants consumed by the estimator. They are
// fixed for a given chain.
type Params struct {
	Name            string
	TargetSeconds   uint64
	FutureTimeLimit uint64
	WindowSize      int
	Adjust          float64
}

var MainnetParams = Params{
	Name:            "mainnet",
	TargetSeconds:   120,
	FutureTimeLimit: 600,
	WindowSize:      DefaultWindowSize,
	Adjust:          DefaultAdjust,
}

var TestnetParams = Params{
	Name:            "testnet",
	TargetSeconds:   120,
	FutureTimeLimit: 600,
	WindowSize:      DefaultWindowSize,
	Adjust:          DefaultAdjust,
}

var StagenetParams = Params{
	Name:            "stagenet",
	TargetSeconds:   60,
	FutureTimeLimit: 300,
	WindowSize:      DefaultWindowSize,
	Adjust:          DefaultAdjust,
}

func (p Params) Validate() error {
	if p.TargetSeconds < 4 {
		return fmt.Errorf(
			"target block time must be at least 4 seconds, got %d",
			p.TargetSeconds,
		)
	}
	if p.WindowSize < 3 {
		return fmt.Errorf(
			"difficulty window must be at least 3 blocks, got %d",
			p.WindowSize,
		)
	}
	if p.Adjust <= 0 {
		return errors.New("difficulty adjustment factor must be positive")
	}
	return nil
}
