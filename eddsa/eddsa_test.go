// eddsa_test.go - Ed25519 wrapper tests.
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

package eddsa

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echomix/crypto/utils"
)

func TestKeypair(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	var shortBuffer = []byte("Short Buffer")

	privKey, err := NewKeypair(rand.Reader)
	require.NoError(t, err, "NewKeypair()")

	var privKey2 PrivateKey
	assert.ErrorIs(privKey2.FromBytes(shortBuffer), ErrInvalidKey, "PrivateKey.FromBytes(short)")

	err = privKey2.FromBytes(privKey.Bytes())
	assert.NoError(err, "PrivateKey.Bytes()->FromBytes()")
	assert.Equal(privKey, &privKey2, "PrivateKey.Bytes()->FromBytes()")

	privKey2.Reset()
	assert.True(utils.CtIsZero(privKey2.privKey), "PrivateKey.Reset()")

	var pubKey PublicKey
	assert.ErrorIs(pubKey.FromBytes(shortBuffer), ErrInvalidKey, "PublicKey.FromBytes(short)")

	err = pubKey.FromBytes(privKey.PublicKey().Bytes())
	assert.NoError(err, "PrivateKey.PublicKey().Bytes->FromBytes()")
	assert.True(pubKey.Equal(privKey.PublicKey()), "PrivateKey.PublicKey().Bytes->FromBytes()")

	pkArr := pubKey.ByteArray()
	assert.Equal(privKey.PublicKey().Bytes(), pkArr[:], "PublicKey.ByteArray()")
}

func TestNonCanonicalPublicKey(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	// Not the encoding of any curve point.
	notAPoint := make([]byte, PublicKeySize)
	for i := range notAPoint {
		notAPoint[i] = 0xff
	}

	var pubKey PublicKey
	assert.ErrorIs(pubKey.FromBytes(notAPoint), ErrInvalidKey, "PublicKey.FromBytes(non-canonical)")
}

func TestSignVerify(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	privKey, err := NewKeypair(rand.Reader)
	require.NoError(t, err, "NewKeypair()")
	pubKey := privKey.PublicKey()

	msg := []byte("The year was 2081, and everybody was finally equal.")

	sig := privKey.Sign(msg)
	assert.Equal(SignatureSize, len(sig), "Sign() length")
	assert.True(pubKey.Verify(sig, msg), "Verify(sig, msg)")

	// Determinism.
	assert.Equal(sig, privKey.Sign(msg), "Sign() not deterministic")

	// Any deviation in message, signature or key fails.
	assert.False(pubKey.Verify(sig, msg[:16]), "Verify(sig, truncated msg)")
	assert.False(pubKey.Verify(sig[:SignatureSize-1], msg), "Verify(truncated sig, msg)")

	for i := 0; i < SignatureSize; i++ {
		corrupted := append([]byte{}, sig...)
		corrupted[i] ^= 0x01
		assert.False(pubKey.Verify(corrupted, msg), "Verify() accepted corrupted sig byte %d", i)
	}

	otherKey, err := NewKeypair(rand.Reader)
	require.NoError(t, err, "NewKeypair()")
	assert.False(otherKey.PublicKey().Verify(sig, msg), "Verify() accepted unrelated key")
}

func TestVectorEdDSA(t *testing.T) {
	t.Parallel()
	// First test vector from https://ed25519.cr.yp.to/python/sign.input
	assert := assert.New(t)

	vectorSigned := [64]byte{229, 86, 67, 0, 195, 96, 172, 114, 144, 134, 226, 204, 128, 110, 130, 138, 132, 135, 127, 30, 184, 229, 217, 116, 216, 115, 224, 101, 34, 73, 1, 85, 95, 184, 130, 21, 144, 163, 59, 172, 198, 30, 57, 112, 28, 249, 180, 107, 210, 91, 245, 240, 89, 91, 190, 36, 101, 81, 65, 67, 142, 122, 16, 11}
	tsk := [64]byte{157, 97, 177, 157, 239, 253, 90, 96, 186, 132, 74, 244, 146, 236, 44, 196, 68, 73, 197, 105, 123, 50, 105, 25, 112, 59, 172, 3, 28, 174, 127, 96, 215, 90, 152, 1, 130, 177, 10, 183, 213, 75, 254, 211, 201, 100, 7, 58, 14, 225, 114, 243, 218, 166, 35, 37, 175, 2, 26, 104, 247, 7, 81, 26}
	tpk := [32]byte{215, 90, 152, 1, 130, 177, 10, 183, 213, 75, 254, 211, 201, 100, 7, 58, 14, 225, 114, 243, 218, 166, 35, 37, 175, 2, 26, 104, 247, 7, 81, 26}

	privKey := new(PrivateKey)
	assert.NoError(privKey.FromBytes(tsk[:]))
	assert.Equal(tpk[:], privKey.PublicKey().Bytes())

	signed := privKey.Sign([]byte{})
	assert.Equal(vectorSigned[:], signed)
	assert.True(privKey.PublicKey().Verify(vectorSigned[:], []byte{}))
	assert.False(privKey.PublicKey().Verify(vectorSigned[:], []byte{1}))
}

func TestNewKeyFromSeed(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	require := require.New(t)

	seed := make([]byte, KeySeedSize)
	_, err := rand.Read(seed)
	require.NoError(err, "failed to read seed")

	k1, err := NewKeyFromSeed(seed)
	require.NoError(err, "NewKeyFromSeed()")
	k2, err := NewKeyFromSeed(seed)
	require.NoError(err, "NewKeyFromSeed() repeat")
	assert.Equal(k1.Bytes(), k2.Bytes(), "seeded keygen not deterministic")

	_, err = NewKeyFromSeed(seed[:KeySeedSize-1])
	assert.ErrorIs(err, ErrInvalidKey, "NewKeyFromSeed(short)")
}

func TestPublicKeyText(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	require := require.New(t)

	privKey, err := NewKeypair(rand.Reader)
	require.NoError(err, "NewKeypair()")

	txt, err := privKey.PublicKey().MarshalText()
	require.NoError(err, "MarshalText()")

	pubKey := new(PublicKey)
	require.NoError(pubKey.UnmarshalText(txt), "UnmarshalText()")
	assert.Equal(privKey.PublicKey().Bytes(), pubKey.Bytes())
}
