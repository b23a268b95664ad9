// hash.go - BLAKE3 content digests.
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

// Package hash provides unkeyed BLAKE3-256 content digests, used for
// key fingerprints and other public identifiers.
package hash

import (
	"encoding"

	"lukechampine.com/blake3"
)

// Size is the length of a digest in bytes.
const Size = 32

// Sum256 returns the BLAKE3-256 digest of data.
func Sum256(data []byte) [Size]byte {
	return blake3.Sum256(data)
}

// Sum256From returns the BLAKE3-256 digest of the key's serialized
// form.
func Sum256From(key encoding.BinaryMarshaler) [Size]byte {
	blob, err := key.MarshalBinary()
	if err != nil {
		panic(err)
	}
	return blake3.Sum256(blob)
}
