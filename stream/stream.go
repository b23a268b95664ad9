// stream.go - AES-CTR stream cipher wrappers.
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

// Package stream provides the symmetric layer transform, AES-256 in
// counter mode.
//
// The transform is unauthenticated and length preserving, and must
// always be paired with a MAC at the protocol layer.  IV freshness per
// key is the caller's obligation; IVs are expected to come out of the
// per-hop KDF, never from arbitrary caller chosen values.
package stream

import (
	"crypto/aes"
	"crypto/cipher"
)

const (
	// KeyLength is the length of a Stream cipher key in bytes.
	KeyLength = 32

	// IVLength is the length of a Stream cipher IV (the initial
	// counter block) in bytes.
	IVLength = aes.BlockSize
)

// Stream is a keyed layer transform instance.
type Stream struct {
	ctr cipher.Stream
}

// New returns a Stream keyed with key and iv.
func New(key *[KeyLength]byte, iv *[IVLength]byte) *Stream {
	blk, err := aes.NewCipher(key[:])
	if err != nil {
		// Only reachable with a key of the wrong length, which the
		// typed array rules out.
		panic("stream: failed to initialize AES: " + err.Error())
	}
	return &Stream{ctr: cipher.NewCTR(blk, iv[:])}
}

// KeyStream fills the buffer dst with keystream.
func (s *Stream) KeyStream(dst []byte) {
	for i := range dst {
		dst[i] = 0
	}
	s.ctr.XORKeyStream(dst, dst)
}

// XORKeyStream XORs each byte in the given slice src with a byte from
// the keystream, writing the result to dst.
func (s *Stream) XORKeyStream(dst, src []byte) {
	s.ctr.XORKeyStream(dst, src)
}

// Reset clears the Stream instance such that no sensitive data is left
// in memory.
func (s *Stream) Reset() {
	// The expanded AES key schedule lives inside the library type and
	// cannot be wiped directly, dropping the reference is the best
	// that can be done.
	s.ctr = nil
}

// Encrypt encrypts plaintext with key and iv, returning the
// ciphertext.  The ciphertext is exactly as long as the plaintext.
func Encrypt(key *[KeyLength]byte, iv *[IVLength]byte, plaintext []byte) []byte {
	s := New(key, iv)
	defer s.Reset()
	ciphertext := make([]byte, len(plaintext))
	s.XORKeyStream(ciphertext, plaintext)
	return ciphertext
}

// Decrypt decrypts ciphertext with key and iv, returning the
// plaintext.  CTR mode is self inverse, so this is the same operation
// as Encrypt.
func Decrypt(key *[KeyLength]byte, iv *[IVLength]byte, ciphertext []byte) []byte {
	return Encrypt(key, iv, ciphertext)
}
