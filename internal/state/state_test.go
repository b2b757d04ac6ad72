// Copyright 2026 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package state_test

import (
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"

	"github.com/blinklabs-io/lwmad/difficulty"
	"github.com/blinklabs-io/lwmad/internal/state"
)

func newTestState(t *testing.T) *state.State {
	t.Helper()
	s := &state.State{}
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	require.NoError(t, s.Open(opts))
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

func testBlock(height uint64) state.Block {
	var hash difficulty.Hash
	hash[0] = byte(height)
	hash[31] = 0x01
	return state.Block{
		Height:     height,
		Timestamp:  1000 + height*120,
		Difficulty: difficulty.NewValue(100 + height),
		Cumulative: difficulty.NewValue(height * 1000),
		Hash:       hash,
	}
}

func TestEmptyState(t *testing.T) {
	s := newTestState(t)
	_, err := s.GetTip()
	require.ErrorIs(t, err, state.ErrBlockNotFound)
	_, err = s.GetBlock(0)
	require.ErrorIs(t, err, state.ErrBlockNotFound)
	timestamps, cumulative, err := s.GetWindow(61)
	require.NoError(t, err)
	require.Empty(t, timestamps)
	require.Empty(t, cumulative)
	_, ok, err := s.GetNextDifficulty()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestAddBlock(t *testing.T) {
	s := newTestState(t)
	for h := uint64(0); h < 10; h++ {
		require.NoError(t, s.AddBlock(testBlock(h), difficulty.NewValue(h+1)))
	}
	tip, err := s.GetTip()
	require.NoError(t, err)
	require.Equal(t, testBlock(9), tip)
	b, err := s.GetBlock(4)
	require.NoError(t, err)
	require.Equal(t, testBlock(4), b)
}

func TestGetWindow(t *testing.T) {
	s := newTestState(t)
	// Heights past 255 make sure keys sort numerically
	for h := uint64(0); h < 300; h++ {
		require.NoError(t, s.AddBlock(testBlock(h), difficulty.NewValue(h+1)))
	}
	timestamps, cumulative, err := s.GetWindow(5)
	require.NoError(t, err)
	require.Len(t, timestamps, 5)
	require.Len(t, cumulative, 5)
	for i := range 5 {
		expected := testBlock(uint64(295 + i))
		require.Equal(t, expected.Timestamp, timestamps[i])
		require.Equal(t, 0, expected.Cumulative.Cmp(cumulative[i]))
	}
	// More than available
	timestamps, _, err = s.GetWindow(1000)
	require.NoError(t, err)
	require.Len(t, timestamps, 300)
	require.Equal(t, testBlock(0).Timestamp, timestamps[0])
}

func TestNextDifficulty(t *testing.T) {
	s := newTestState(t)
	v, err := difficulty.ParseValue("0x1234567890abcdef1234567890")
	require.NoError(t, err)
	require.NoError(t, s.AddBlock(testBlock(0), v))
	got, ok, err := s.GetNextDifficulty()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, v.Hex(), got.Hex())
	require.NoError(t, s.AddBlock(testBlock(1), difficulty.NewValue(7)))
	got, ok, err = s.GetNextDifficulty()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "0x7", got.Hex())
}
