// stream_test.go - AES-CTR stream cipher tests.
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

package stream

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStream(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	require := require.New(t)

	var key [KeyLength]byte
	_, err := rand.Read(key[:])
	require.NoError(err, "failed to read Stream key")

	var iv [IVLength]byte
	_, err = rand.Read(iv[:])
	require.NoError(err, "failed to read Stream IV")

	s := New(&key, &iv)

	var expected, actual [1024]byte
	blk, err := aes.NewCipher(key[:])
	require.NoError(err, "failed to initialize crypto/aes")
	ctr := cipher.NewCTR(blk, iv[:])

	ctr.XORKeyStream(expected[:], expected[:])
	s.KeyStream(actual[:])
	assert.Equal(expected, actual, "KeyStream() mismatch against CTR-AES256")

	ctr.XORKeyStream(expected[:], expected[:])
	s.XORKeyStream(actual[:], actual[:])
	assert.Equal(expected, actual, "XORKeyStream() mismatch against CTR-AES256")

	s.Reset()
}

func TestEncryptDecrypt(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	require := require.New(t)

	var key [KeyLength]byte
	_, err := rand.Read(key[:])
	require.NoError(err, "failed to read key")

	var iv [IVLength]byte
	_, err = rand.Read(iv[:])
	require.NoError(err, "failed to read IV")

	for _, n := range []int{0, 1, 15, 16, 17, 64, 1024} {
		plaintext := make([]byte, n)
		_, err = rand.Read(plaintext)
		require.NoError(err, "failed to read plaintext")

		ciphertext := Encrypt(&key, &iv, plaintext)
		assert.Equal(len(plaintext), len(ciphertext), "length not preserved (%d)", n)
		if n >= 16 {
			assert.NotEqual(plaintext, ciphertext, "Encrypt() did not encrypt (%d)", n)
		}

		recovered := Decrypt(&key, &iv, ciphertext)
		assert.Equal(plaintext, recovered, "round trip failed (%d)", n)
	}
}
