// mac.go - Keyed BLAKE3 message authentication.
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

// Package mac provides message authentication tags via BLAKE3 in keyed
// mode.
//
// With a second key derived under a separate KDF context, the same
// construction doubles as a collision resistant content identifier,
// for example for replay detection tags.  The two keys must never be
// shared across roles.
package mac

import (
	"crypto/hmac"
	"hash"

	"lukechampine.com/blake3"
)

const (
	// KeyLength is the length of a MAC key in bytes.
	KeyLength = 32

	// Size is the length of a MAC tag in bytes.
	Size = 32
)

// New returns a new hash.Hash computing a keyed BLAKE3 tag with key.
func New(key *[KeyLength]byte) hash.Hash {
	return blake3.New(Size, key[:])
}

// Sum computes the tag of data under key in one shot.
func Sum(key *[KeyLength]byte, data []byte) [Size]byte {
	m := New(key)
	m.Write(data)

	var tag [Size]byte
	copy(tag[:], m.Sum(nil))
	return tag
}

// Verify recomputes the tag of data under key and compares it against
// candidate in constant time.  A truncated or over long candidate
// never verifies.
func Verify(key *[KeyLength]byte, data, candidate []byte) bool {
	tag := Sum(key, data)
	return hmac.Equal(tag[:], candidate)
}
