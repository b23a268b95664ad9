// math.go - math/rand replacement.
// Copyright (C) 2025  The Echomix Authors.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package rand provides various utilities related to generating
// cryptographically secure random numbers and byte vectors.
package rand

import (
	"encoding/binary"
	"io"
	"math/rand"
	"sync"

	"github.com/katzenpost/chacha20"

	"github.com/echomix/crypto/utils"
)

var mNonce [chacha20.NonceSize]byte

type randSource struct {
	sync.Mutex
	s   *chacha20.Cipher
	off int
}

func (s *randSource) feedForward() {
	var seed [chacha20.KeySize]byte
	defer utils.ExplicitBzero(seed[:])
	s.s.KeyStream(seed[:])
	if err := s.s.ReKey(seed[:], mNonce[:]); err != nil {
		panic("rand: failed to re-key source: " + err.Error())
	}
	s.off = 0
}

func (s *randSource) Uint64() uint64 {
	s.Lock()
	defer s.Unlock()

	// Leave enough keystream in the block to feed-forward into the
	// next key, so the previous state can never be reconstructed.
	if s.off+8 > chacha20.BlockSize-chacha20.KeySize {
		s.feedForward()
	}
	s.off += 8

	var tmp [8]byte
	s.s.KeyStream(tmp[:])
	return binary.LittleEndian.Uint64(tmp[:])
}

func (s *randSource) Int63() int64 {
	return int64(s.Uint64() & ((1 << 63) - 1))
}

func (s *randSource) Seed(unused int64) {
	var seed [chacha20.KeySize]byte
	defer utils.ExplicitBzero(seed[:])
	if _, err := io.ReadFull(Reader, seed[:]); err != nil {
		panic("rand: failed to read entropy: " + err.Error())
	}
	if err := s.s.ReKey(seed[:], mNonce[:]); err != nil {
		panic("rand: failed to key source: " + err.Error())
	}
	s.off = 0
}

// NewMath returns a "cryptographically secure" math/rand.Rand.
func NewMath() *rand.Rand {
	s := new(randSource)
	s.s = new(chacha20.Cipher)
	s.Seed(0)
	return rand.New(s)
}
