// rand_reader.go - `crypto/rand.Reader` replacement.
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
	csrand "crypto/rand"
	"io"

	"github.com/katzenpost/chacha20"

	"github.com/echomix/crypto/utils"
)

// Reader is a replacement for crypto/rand.Reader, backed by the system
// entropy source with the output whitened through a randomly keyed
// ChaCha20 instance.  It is safe for concurrent use.
//
// Entropy source failures are returned to the caller as read errors;
// there is no fallback to a weaker source.
var Reader io.Reader

type whitenedReader struct {
	entropy io.Reader
}

func (r *whitenedReader) Read(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, nil
	}

	// Each read draws a fresh key/nonce pair, so there is no shared
	// cipher state between callers.
	var stream chacha20.Cipher
	defer stream.Reset()

	var seed [chacha20.KeySize + chacha20.NonceSize]byte
	defer utils.ExplicitBzero(seed[:])

	if _, err := io.ReadFull(r.entropy, seed[:]); err != nil {
		return 0, err
	}
	if err := stream.ReKey(seed[:chacha20.KeySize], seed[chacha20.KeySize:]); err != nil {
		return 0, err
	}
	stream.KeyStream(b)
	return len(b), nil
}

func init() {
	Reader = &whitenedReader{entropy: csrand.Reader}
}
