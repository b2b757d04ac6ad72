// Copyright 2026 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package difficulty

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/holiman/uint256"
)

// Hash is a 256-bit proof-of-work hash stored as four little-endian 64-bit
// words, least significant word first
type Hash [32]byte

// ParseHash decodes a 64 character hex string
func ParseHash(s string) (Hash, error) {
	var ret Hash
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return ret, fmt.Errorf("invalid hash %q: %w", s, err)
	}
	if len(b) != len(ret) {
		return ret, fmt.Errorf(
			"invalid hash length: got %d bytes, want %d",
			len(b),
			len(ret),
		)
	}
	copy(ret[:], b)
	return ret, nil
}

// Word returns the i-th little-endian 64-bit word of the hash
func (h Hash) Word(i int) uint64 {
	return binary.LittleEndian.Uint64(h[i*8 : i*8+8])
}

// Words returns the hash as four 64-bit words, least significant first
func (h Hash) Words() [4]uint64 {
	return [4]uint64{h.Word(0), h.Word(1), h.Word(2), h.Word(3)}
}

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *Hash) UnmarshalText(text []byte) error {
	tmp, err := ParseHash(string(text))
	if err != nil {
		return err
	}
	*h = tmp
	return nil
}

func (h *Hash) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	return h.UnmarshalText([]byte(s))
}

func (h Hash) uint256() uint256.Int {
	return uint256.Int(h.Words())
}
