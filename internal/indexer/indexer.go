// Copyright 2023 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package indexer

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/blinklabs-io/lwmad/difficulty"
	"github.com/blinklabs-io/lwmad/internal/config"
	"github.com/blinklabs-io/lwmad/internal/logging"
	"github.com/blinklabs-io/lwmad/internal/metrics"
	"github.com/blinklabs-io/lwmad/internal/state"

	"gopkg.in/yaml.v2"
)

var (
	ErrHeightMismatch     = errors.New("block does not extend the chain tip")
	ErrZeroDifficulty     = errors.New("block difficulty must be at least 1")
	ErrDifficultyMismatch = errors.New("block difficulty does not match required difficulty")
	ErrPowInvalid         = errors.New("block hash does not meet required difficulty")
)

// Store is the chain storage used by the indexer
type Store interface {
	AddBlock(b state.Block, next difficulty.Value) error
	GetTip() (state.Block, error)
	GetWindow(count int) ([]uint64, []difficulty.Value, error)
	GetNextDifficulty() (difficulty.Value, bool, error)
}

// BlockInput is a solved block offered to the indexer. Difficulty is
// optional: when present it must match the required difficulty.
type BlockInput struct {
	Height     uint64            `yaml:"height"`
	Timestamp  uint64            `yaml:"timestamp"`
	Hash       difficulty.Hash   `yaml:"hash"`
	Difficulty *difficulty.Value `yaml:"difficulty"`
}

type Indexer struct {
	mu     sync.Mutex
	store  Store
	params difficulty.Params
	logger *logging.Logger
}

// Singleton indexer instance
var globalIndexer = &Indexer{}

func New(store Store, params difficulty.Params) *Indexer {
	return &Indexer{
		store:  store,
		params: params,
		logger: logging.GetComponentLogger("indexer"),
	}
}

// Start wires the global indexer to the global state using the configured
// network params
func (i *Indexer) Start() error {
	cfg := config.GetConfig()
	params, err := cfg.Params()
	if err != nil {
		return err
	}
	i.store = state.GetState()
	i.params = params
	i.logger = logging.GetComponentLogger("indexer")
	next, err := i.NextDifficulty()
	if err != nil {
		return err
	}
	tip, err := i.store.GetTip()
	if err != nil {
		if !errors.Is(err, state.ErrBlockNotFound) {
			return err
		}
		i.logger.Infof(
			"starting with empty chain on %s, next difficulty %s",
			params.Name,
			next.Hex(),
		)
		return nil
	}
	metrics.SetTip(tip.Height, next)
	i.logger.Infof(
		"starting at height %d on %s, next difficulty %s",
		tip.Height,
		params.Name,
		next.Hex(),
	)
	return nil
}

func (i *Indexer) Params() difficulty.Params {
	return i.params
}

// NextDifficulty returns the difficulty required for the block after the
// current tip
func (i *Indexer) NextDifficulty() (difficulty.Value, error) {
	next, ok, err := i.store.GetNextDifficulty()
	if err != nil {
		return next, err
	}
	if ok {
		return next, nil
	}
	timestamps, cumulative, err := i.store.GetWindow(i.params.WindowSize + 1)
	if err != nil {
		return next, err
	}
	return i.estimate(timestamps, cumulative), nil
}

// estimate runs the estimator over the window. While the cumulative
// difficulties still fit in 64 bits the fixed width estimator is run as well,
// since the two differ when the raw result truncates to zero.
func (i *Indexer) estimate(
	timestamps []uint64,
	cumulative []difficulty.Value,
) difficulty.Value {
	next := difficulty.NextDifficulty(timestamps, cumulative, i.params)
	cumulative64 := make([]uint64, 0, len(cumulative))
	for _, v := range cumulative {
		if !v.IsUint64() {
			return next
		}
		cumulative64 = append(cumulative64, v.Uint64())
	}
	next64 := difficulty.NextDifficulty64(timestamps, cumulative64, i.params)
	if next64 != next.Uint64() {
		i.logger.Debugf(
			"fixed width estimator returned %d, using %s",
			next64,
			next.Hex(),
		)
	}
	return next
}

// AddBlock validates a block against the chain tip and stores it
func (i *Indexer) AddBlock(in BlockInput) (err error) {
	started := time.Now()
	defer func() {
		metrics.ObserveBlock(err, started)
	}()
	i.mu.Lock()
	defer i.mu.Unlock()
	var expectedHeight uint64
	var prevCumulative difficulty.Value
	tip, err := i.store.GetTip()
	if err != nil {
		if !errors.Is(err, state.ErrBlockNotFound) {
			return err
		}
	} else {
		expectedHeight = tip.Height + 1
		prevCumulative = tip.Cumulative
	}
	if in.Height != expectedHeight {
		return fmt.Errorf(
			"%w: got height %d, want %d",
			ErrHeightMismatch,
			in.Height,
			expectedHeight,
		)
	}
	required, err := i.NextDifficulty()
	if err != nil {
		return err
	}
	if in.Difficulty != nil {
		if in.Difficulty.IsZero() {
			return ErrZeroDifficulty
		}
		if in.Difficulty.Cmp(required) != 0 {
			return fmt.Errorf(
				"%w: got %s, want %s",
				ErrDifficultyMismatch,
				in.Difficulty.Hex(),
				required.Hex(),
			)
		}
	}
	ok := difficulty.CheckHash(in.Hash, required)
	metrics.ObserveHashCheck(required, ok)
	if !ok {
		return fmt.Errorf(
			"%w: hash %s, difficulty %s",
			ErrPowInvalid,
			in.Hash,
			required.Hex(),
		)
	}
	block := state.Block{
		Height:     in.Height,
		Timestamp:  in.Timestamp,
		Difficulty: required,
		Cumulative: prevCumulative.Add(required),
		Hash:       in.Hash,
	}
	// The new block is not stored yet, so fetch one less and append it
	timestamps, cumulative, err := i.store.GetWindow(i.params.WindowSize)
	if err != nil {
		return err
	}
	timestamps = append(timestamps, block.Timestamp)
	cumulative = append(cumulative, block.Cumulative)
	next := i.estimate(timestamps, cumulative)
	if err := i.store.AddBlock(block, next); err != nil {
		return err
	}
	metrics.SetTip(block.Height, next)
	i.logger.Debugf(
		"accepted block %d (%s) with difficulty %s, next difficulty %s",
		block.Height,
		block.Hash,
		block.Difficulty.Hex(),
		next.Hex(),
	)
	return nil
}

// ImportFile adds the blocks listed in a YAML file, in order. It returns the
// number of blocks added before any error.
func (i *Indexer) ImportFile(path string) (int, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("error reading block file: %w", err)
	}
	var blocks []BlockInput
	if err := yaml.Unmarshal(buf, &blocks); err != nil {
		return 0, fmt.Errorf("error parsing block file: %w", err)
	}
	for idx, block := range blocks {
		if err := i.AddBlock(block); err != nil {
			return idx, fmt.Errorf("block %d: %w", block.Height, err)
		}
	}
	i.logger.Infof("imported %d blocks from %s", len(blocks), path)
	return len(blocks), nil
}

// GetIndexer returns the global indexer instance
func GetIndexer() *Indexer {
	return globalIndexer
}
