// Copyright 2026 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blinklabs-io/lwmad/difficulty"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "window.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestReadWindowFile(t *testing.T) {
	path := writeFile(t, `
- timestamp: 1000
  cumulative: 1000
- timestamp: 1100
  cumulative: 2000
- timestamp: 1200
  cumulative: 0xbb8
- timestamp: 1300
  cumulative: "4000"
`)
	timestamps, cumulative, err := readWindowFile(path)
	require.NoError(t, err)
	require.Equal(t, []uint64{1000, 1100, 1200, 1300}, timestamps)
	require.Len(t, cumulative, 4)
	require.Equal(t, "0xbb8", cumulative[2].Hex())
	require.Equal(t, "4000", cumulative[3].String())

	next := difficulty.NextDifficulty(timestamps, cumulative, difficulty.MainnetParams)
	require.Equal(t, uint64(1197), next.Uint64())
}

func TestReadWindowFileUnknownField(t *testing.T) {
	path := writeFile(t, `
- timestamp: 1000
  difficulty: 1000
`)
	_, _, err := readWindowFile(path)
	require.Error(t, err)
}

func TestCheckCommand(t *testing.T) {
	cmd := &checkCommand{
		Hash:       "0x" + difficulty.Hash{}.String(),
		Difficulty: "0xffffffffffffffffffffffffffffffff",
	}
	require.NoError(t, cmd.Execute(nil))

	cmd.Hash = "ff00000000000000000000000000000000000000000000000000000000000000"
	cmd.Difficulty = "2"
	require.NoError(t, cmd.Execute(nil))

	cmd.Hash = "00000000000000000000000000000000000000000000000000000000000000ff"
	require.ErrorIs(t, cmd.Execute(nil), errHashAboveTarget)

	cmd.Difficulty = "-1"
	require.Error(t, cmd.Execute(nil))
}
