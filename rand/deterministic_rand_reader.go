// deterministic_rand_reader.go - Deterministic rand.Reader for tests.
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

package rand

import (
	"encoding/binary"
	"math/rand"

	"github.com/katzenpost/chacha20"
)

// DeterministicRandReader is a random Reader whose output is a ChaCha20
// keystream, entirely determined by the key it was created with.  It is
// meant for reproducible key generation in tests, never for production
// use.
type DeterministicRandReader struct {
	cipher *chacha20.Cipher
	key    []byte
}

// NewDeterministicRandReader returns a DeterministicRandReader
// initialized with key.
func NewDeterministicRandReader(key []byte) (*DeterministicRandReader, error) {
	var nonce [chacha20.NonceSize]byte
	cipher, err := chacha20.New(key, nonce[:])
	if err != nil {
		return nil, err
	}
	return &DeterministicRandReader{
		cipher: cipher,
		key:    key,
	}, nil
}

// Read writes keystream into the passed byte slice and returns the
// number of bytes written.
func (r *DeterministicRandReader) Read(data []byte) (int, error) {
	r.cipher.KeyStream(data)
	return len(data), nil
}

// Int63 returns a random int64 with the most significant bit set to 0.
func (r *DeterministicRandReader) Int63() int64 {
	var tmp [8]byte
	if _, err := r.Read(tmp[:]); err != nil {
		panic(err)
	}
	tmp[7] &= 0x7F
	return int64(binary.LittleEndian.Uint64(tmp[:]))
}

// Seed re-initializes the DeterministicRandReader keystream with the
// given nonce.
func (r *DeterministicRandReader) Seed(seed int64) {
	var nonce [chacha20.NonceSize]byte
	binary.PutUvarint(nonce[:], uint64(seed))
	cipher, err := chacha20.New(r.key, nonce[:])
	if err != nil {
		panic(err)
	}
	r.cipher = cipher
}

// Perm returns the shuffled slice of integers from 0 to n.
func (r *DeterministicRandReader) Perm(n int) []int {
	return rand.New(r).Perm(n)
}
