// Copyright 2023 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package state

import (
	"encoding/binary"
	"errors"
	"fmt"
	"slices"

	"github.com/blinklabs-io/lwmad/difficulty"
	"github.com/blinklabs-io/lwmad/internal/config"
	"github.com/blinklabs-io/lwmad/internal/logging"
	"github.com/dgraph-io/badger/v4"
)

const (
	blockKeyPrefix     = "block_"
	chainTipKey        = "chain_tip"
	nextDifficultyKey  = "next_difficulty"
	blockRecordSize    = 8 + 32 + 32 + 32
	blockKeyHeightSize = 8
)

var ErrBlockNotFound = errors.New("block not found")

// Block is the stored record for a single accepted block
type Block struct {
	Height     uint64
	Timestamp  uint64
	Difficulty difficulty.Value
	Cumulative difficulty.Value
	Hash       difficulty.Hash
}

type State struct {
	db *badger.DB
}

var globalState = &State{}

func (s *State) Load() error {
	cfg := config.GetConfig()
	badgerOpts := badger.DefaultOptions(cfg.State.Directory).
		WithLogger(NewBadgerLogger()).
		// The default INFO logging is a bit verbose
		WithLoggingLevel(badger.WARNING)
	return s.Open(badgerOpts)
}

// Open opens the database with the provided options
func (s *State) Open(badgerOpts badger.Options) error {
	db, err := badger.Open(badgerOpts)
	// TODO: setup automatic GC for Badger
	if err != nil {
		return err
	}
	s.db = db
	return nil
}

func (s *State) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func blockKey(height uint64) []byte {
	key := make([]byte, 0, len(blockKeyPrefix)+blockKeyHeightSize)
	key = append(key, blockKeyPrefix...)
	return binary.BigEndian.AppendUint64(key, height)
}

func encodeBlock(b Block) []byte {
	ret := make([]byte, 0, blockRecordSize)
	ret = binary.BigEndian.AppendUint64(ret, b.Timestamp)
	tmpDifficulty := b.Difficulty.Bytes32()
	ret = append(ret, tmpDifficulty[:]...)
	tmpCumulative := b.Cumulative.Bytes32()
	ret = append(ret, tmpCumulative[:]...)
	return append(ret, b.Hash[:]...)
}

func decodeBlock(key []byte, val []byte) (Block, error) {
	var ret Block
	if len(key) != len(blockKeyPrefix)+blockKeyHeightSize {
		return ret, fmt.Errorf("invalid block key length: %d", len(key))
	}
	if len(val) != blockRecordSize {
		return ret, fmt.Errorf("invalid block record length: %d", len(val))
	}
	ret.Height = binary.BigEndian.Uint64(key[len(blockKeyPrefix):])
	ret.Timestamp = binary.BigEndian.Uint64(val[0:8])
	ret.Difficulty = difficulty.ValueFromBytes32([32]byte(val[8:40]))
	ret.Cumulative = difficulty.ValueFromBytes32([32]byte(val[40:72]))
	ret.Hash = difficulty.Hash([32]byte(val[72:104]))
	return ret, nil
}

// AddBlock stores the block, makes it the chain tip and caches the difficulty
// required for the block after it
func (s *State) AddBlock(b Block, next difficulty.Value) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(blockKey(b.Height), encodeBlock(b)); err != nil {
			return err
		}
		tip := binary.BigEndian.AppendUint64(nil, b.Height)
		if err := txn.Set([]byte(chainTipKey), tip); err != nil {
			return err
		}
		tmpNext := next.Bytes32()
		if err := txn.Set([]byte(nextDifficultyKey), tmpNext[:]); err != nil {
			return err
		}
		return nil
	})
	return err
}

func getBlock(txn *badger.Txn, height uint64) (Block, error) {
	key := blockKey(height)
	item, err := txn.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return Block{}, ErrBlockNotFound
		}
		return Block{}, err
	}
	var ret Block
	err = item.Value(func(v []byte) error {
		var err error
		ret, err = decodeBlock(key, v)
		return err
	})
	return ret, err
}

func (s *State) GetBlock(height uint64) (Block, error) {
	var ret Block
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		ret, err = getBlock(txn, height)
		return err
	})
	return ret, err
}

// GetTip returns the most recently added block, or ErrBlockNotFound for an
// empty chain
func (s *State) GetTip() (Block, error) {
	var ret Block
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(chainTipKey))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrBlockNotFound
			}
			return err
		}
		var height uint64
		err = item.Value(func(v []byte) error {
			if len(v) != 8 {
				return fmt.Errorf("invalid chain tip length: %d", len(v))
			}
			height = binary.BigEndian.Uint64(v)
			return nil
		})
		if err != nil {
			return err
		}
		ret, err = getBlock(txn, height)
		return err
	})
	return ret, err
}

// GetWindow returns the timestamps and cumulative difficulties of the most
// recent count blocks at or below the tip, oldest first. Fewer entries are
// returned near the start of the chain.
func (s *State) GetWindow(count int) ([]uint64, []difficulty.Value, error) {
	timestamps := make([]uint64, 0, count)
	cumulative := make([]difficulty.Value, 0, count)
	tip, err := s.GetTip()
	if err != nil {
		if errors.Is(err, ErrBlockNotFound) {
			return timestamps, cumulative, nil
		}
		return nil, nil, err
	}
	err = s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()
		prefix := []byte(blockKeyPrefix)
		for it.Seek(blockKey(tip.Height)); it.ValidForPrefix(prefix) && len(timestamps) < count; it.Next() {
			item := it.Item()
			k := item.KeyCopy(nil)
			err := item.Value(func(v []byte) error {
				b, err := decodeBlock(k, v)
				if err != nil {
					return err
				}
				timestamps = append(timestamps, b.Timestamp)
				cumulative = append(cumulative, b.Cumulative)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	slices.Reverse(timestamps)
	slices.Reverse(cumulative)
	return timestamps, cumulative, nil
}

// GetNextDifficulty returns the cached next difficulty. The second return
// value is false when nothing has been cached yet.
func (s *State) GetNextDifficulty() (difficulty.Value, bool, error) {
	var ret difficulty.Value
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(nextDifficultyKey))
		if err != nil {
			return err
		}
		return item.Value(func(v []byte) error {
			if len(v) != 32 {
				return fmt.Errorf("invalid next difficulty length: %d", len(v))
			}
			ret = difficulty.ValueFromBytes32([32]byte(v))
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ret, false, nil
	}
	if err != nil {
		return ret, false, err
	}
	return ret, true, nil
}

func GetState() *State {
	return globalState
}

// BadgerLogger is a wrapper type to give our logger the expected interface
type BadgerLogger struct {
	*logging.Logger
}

func NewBadgerLogger() *BadgerLogger {
	return &BadgerLogger{
		Logger: logging.GetComponentLogger("badger"),
	}
}

func (b *BadgerLogger) Warningf(msg string, args ...any) {
	b.Logger.Warnf(msg, args...)
}
