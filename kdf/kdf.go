// kdf.go - HKDF-BLAKE3 key derivation.
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

// Package kdf expands Diffie-Hellman shared secrets into per-role
// sub-keys via HKDF instantiated with BLAKE3.
//
// The context label is the seam that keeps keys for different roles
// unrelated: two derivations from the same secret under different
// labels are computationally independent.  Every role (header
// encryption, payload encryption, integrity, blinding, replay tag
// identifiers) must use its own label.
package kdf

import (
	"errors"
	"hash"
	"io"

	"golang.org/x/crypto/hkdf"
	"lukechampine.com/blake3"

	"github.com/echomix/crypto/ecdh"
	"github.com/echomix/crypto/mac"
	"github.com/echomix/crypto/stream"
	"github.com/echomix/crypto/utils"
)

const (
	// HashLength is the output length of the underlying hash in bytes.
	HashLength = 32

	// MaxOutputLength is the maximum total output of a single Derive
	// call in bytes, the RFC 5869 bound for a 32 byte hash.
	MaxOutputLength = 255 * HashLength

	kdfInfo = "echomix-packet-kdf-v1"
)

// ErrInvalidLength is the error returned when a derivation is requested
// with an unsupported output length.
var ErrInvalidLength = errors.New("kdf: invalid output length")

func newHash() hash.Hash {
	return blake3.New(HashLength, nil)
}

// Derive expands secret into one sub-key per requested length, using
// HKDF extract-then-expand with context as the domain separation info.
// An optional salt strengthens the extract step and may be nil.
//
// The requested lengths must each be positive and sum to at most
// MaxOutputLength, otherwise ErrInvalidLength is returned.  The
// returned sub-keys are owned by the caller, who is responsible for
// wiping them once consumed.
func Derive(secret, salt, context []byte, lengths ...int) ([][]byte, error) {
	total := 0
	for _, l := range lengths {
		if l <= 0 {
			return nil, ErrInvalidLength
		}
		total += l
	}
	if total == 0 || total > MaxOutputLength {
		return nil, ErrInvalidLength
	}

	prk := hkdf.Extract(newHash, secret, salt)
	defer utils.ExplicitBzero(prk)

	okm := make([]byte, total)
	if _, err := io.ReadFull(hkdf.Expand(newHash, prk, context), okm); err != nil {
		return nil, err
	}

	keys := make([][]byte, 0, len(lengths))
	off := 0
	for _, l := range lengths {
		keys = append(keys, okm[off:off+l:off+l])
		off += l
	}
	return keys, nil
}

// PacketKeys is the fixed set of sub-keys a hop derives from a single
// shared secret.  Each field has exactly one use; a key must never be
// pressed into another field's role.
type PacketKeys struct {
	HeaderMAC           [mac.KeyLength]byte
	HeaderEncryption    [stream.KeyLength]byte
	HeaderEncryptionIV  [stream.IVLength]byte
	PayloadEncryption   [stream.KeyLength]byte
	PayloadEncryptionIV [stream.IVLength]byte
	BlindingFactor      [ecdh.GroupElementLength]byte
}

const okmLength = mac.KeyLength + stream.KeyLength + stream.IVLength +
	stream.KeyLength + stream.IVLength + ecdh.GroupElementLength

// KDF derives the PacketKeys for a hop from the raw shared secret ikm.
func KDF(ikm *[ecdh.SharedSecretSize]byte) *PacketKeys {
	prk := hkdf.Extract(newHash, ikm[:], nil)
	defer utils.ExplicitBzero(prk)

	okm := make([]byte, okmLength)
	defer utils.ExplicitBzero(okm)
	if _, err := io.ReadFull(hkdf.Expand(newHash, prk, []byte(kdfInfo)), okm); err != nil {
		// Only reachable if the requested length exceeds the HKDF
		// bound, which okmLength does not.
		panic("kdf: HKDF expansion failed: " + err.Error())
	}

	k := new(PacketKeys)
	ptr := okm
	copy(k.HeaderMAC[:], ptr[:mac.KeyLength])
	ptr = ptr[mac.KeyLength:]
	copy(k.HeaderEncryption[:], ptr[:stream.KeyLength])
	ptr = ptr[stream.KeyLength:]
	copy(k.HeaderEncryptionIV[:], ptr[:stream.IVLength])
	ptr = ptr[stream.IVLength:]
	copy(k.PayloadEncryption[:], ptr[:stream.KeyLength])
	ptr = ptr[stream.KeyLength:]
	copy(k.PayloadEncryptionIV[:], ptr[:stream.IVLength])
	ptr = ptr[stream.IVLength:]
	copy(k.BlindingFactor[:], ptr[:ecdh.GroupElementLength])

	return k
}

// Reset clears the PacketKeys structure such that no sensitive data is
// left in memory.
func (k *PacketKeys) Reset() {
	utils.ExplicitBzero(k.HeaderMAC[:])
	utils.ExplicitBzero(k.HeaderEncryption[:])
	utils.ExplicitBzero(k.HeaderEncryptionIV[:])
	utils.ExplicitBzero(k.PayloadEncryption[:])
	utils.ExplicitBzero(k.PayloadEncryptionIV[:])
	utils.ExplicitBzero(k.BlindingFactor[:])
}
