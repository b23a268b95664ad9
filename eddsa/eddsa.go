// eddsa.go - Ed25519 wrappers.
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

// Package eddsa provides EdDSA (Ed25519) wrappers for endpoint
// identity authentication.  Signing is independent of the per-hop
// symmetric path; it authenticates identities, not packet bytes.
package eddsa

import (
	"crypto/ed25519"
	"crypto/hmac"
	"encoding/base64"
	"errors"
	"io"

	"filippo.io/edwards25519"
	"golang.org/x/crypto/blake2b"

	"github.com/echomix/crypto/hash"
	"github.com/echomix/crypto/utils"
)

const (
	// PublicKeySize is the size of a serialized PublicKey in bytes.
	PublicKeySize = ed25519.PublicKeySize

	// PrivateKeySize is the size of a serialized PrivateKey in bytes.
	PrivateKeySize = ed25519.PrivateKeySize

	// SignatureSize is the size of a Signature in bytes.
	SignatureSize = ed25519.SignatureSize

	// KeySeedSize is the seed size used by NewKeyFromSeed to generate
	// a key pair deterministically.
	KeySeedSize = 32

	keyType = "ed25519"
)

// ErrInvalidKey is the error returned when a serialized key is
// malformed, of the wrong length, or not a canonical curve point.
var ErrInvalidKey = errors.New("eddsa: invalid key")

// PublicKey is an Ed25519 public key.
type PublicKey struct {
	pubKey    ed25519.PublicKey
	b64String string
}

// Bytes returns the raw public key.
func (p *PublicKey) Bytes() []byte {
	return p.pubKey
}

// ByteArray returns the raw public key as an array suitable for use as
// a map key.
func (p *PublicKey) ByteArray() [PublicKeySize]byte {
	var pk [PublicKeySize]byte
	copy(pk[:], p.pubKey)
	return pk
}

// FromBytes deserializes the byte slice b into the PublicKey,
// rejecting anything that is not a canonically encoded curve point.
func (p *PublicKey) FromBytes(b []byte) error {
	if len(b) != PublicKeySize {
		return ErrInvalidKey
	}
	if _, err := new(edwards25519.Point).SetBytes(b); err != nil {
		return ErrInvalidKey
	}

	p.pubKey = make([]byte, PublicKeySize)
	copy(p.pubKey, b)
	p.rebuildB64String()
	return nil
}

// MarshalBinary is an implementation of a method on the
// BinaryMarshaler interface defined in https://golang.org/pkg/encoding/
func (p *PublicKey) MarshalBinary() ([]byte, error) {
	return p.Bytes(), nil
}

// UnmarshalBinary is an implementation of a method on the
// BinaryUnmarshaler interface defined in https://golang.org/pkg/encoding/
func (p *PublicKey) UnmarshalBinary(data []byte) error {
	return p.FromBytes(data)
}

// MarshalText is an implementation of a method on the
// TextMarshaler interface defined in https://golang.org/pkg/encoding/
func (p *PublicKey) MarshalText() ([]byte, error) {
	return []byte(base64.StdEncoding.EncodeToString(p.Bytes())), nil
}

// UnmarshalText is an implementation of a method on the
// TextUnmarshaler interface defined in https://golang.org/pkg/encoding/
func (p *PublicKey) UnmarshalText(data []byte) error {
	raw, err := base64.StdEncoding.DecodeString(string(data))
	if err != nil {
		return err
	}
	return p.FromBytes(raw)
}

// Equal compares the public key against the provided one in constant
// time.
func (p *PublicKey) Equal(other *PublicKey) bool {
	return hmac.Equal(p.pubKey, other.pubKey)
}

// Verify returns true iff sig is a valid signature by the key over
// msg.  Any bit level deviation in message, key or signature fails.
func (p *PublicKey) Verify(sig, msg []byte) bool {
	return ed25519.Verify(p.pubKey, msg, sig)
}

// Sum256 returns the BLAKE3-256 digest of the raw public key, used as
// the key's identity.
func (p *PublicKey) Sum256() [hash.Size]byte {
	return hash.Sum256(p.Bytes())
}

// KeyType returns the key type string.
func (p *PublicKey) KeyType() string {
	return keyType
}

// Reset clears the PublicKey structure such that no sensitive data is
// left in memory.
func (p *PublicKey) Reset() {
	utils.ExplicitBzero(p.pubKey)
	p.b64String = "[scrubbed]"
}

// String returns the public key as a base64 encoded string.
func (p *PublicKey) String() string {
	return p.b64String
}

func (p *PublicKey) rebuildB64String() {
	p.b64String = base64.StdEncoding.EncodeToString(p.Bytes())
}

// PrivateKey is an Ed25519 private key.
type PrivateKey struct {
	pubKey  PublicKey
	privKey ed25519.PrivateKey
}

// Bytes returns the raw private key.
func (p *PrivateKey) Bytes() []byte {
	return p.privKey
}

// FromBytes deserializes the byte slice b into the PrivateKey.
func (p *PrivateKey) FromBytes(b []byte) error {
	if len(b) != PrivateKeySize {
		return ErrInvalidKey
	}

	p.privKey = make([]byte, PrivateKeySize)
	copy(p.privKey, b)
	p.pubKey.pubKey = p.privKey.Public().(ed25519.PublicKey)
	p.pubKey.rebuildB64String()
	return nil
}

// MarshalBinary is an implementation of a method on the
// BinaryMarshaler interface defined in https://golang.org/pkg/encoding/
func (p *PrivateKey) MarshalBinary() ([]byte, error) {
	return p.Bytes(), nil
}

// UnmarshalBinary is an implementation of a method on the
// BinaryUnmarshaler interface defined in https://golang.org/pkg/encoding/
func (p *PrivateKey) UnmarshalBinary(data []byte) error {
	return p.FromBytes(data)
}

// Sign signs the message with the private key and returns the
// signature.  Signing is deterministic, no caller supplied randomness
// is involved.
func (p *PrivateKey) Sign(msg []byte) []byte {
	return ed25519.Sign(p.privKey, msg)
}

// KeyType returns the key type string.
func (p *PrivateKey) KeyType() string {
	return keyType
}

// Identity returns the key's identity, the public key's BLAKE3-256
// digest.
func (p *PrivateKey) Identity() [hash.Size]byte {
	return p.pubKey.Sum256()
}

// PublicKey returns the PublicKey corresponding to the PrivateKey.
func (p *PrivateKey) PublicKey() *PublicKey {
	return &p.pubKey
}

// Reset clears the PrivateKey structure such that no sensitive data is
// left in memory.
func (p *PrivateKey) Reset() {
	p.pubKey.Reset()
	utils.ExplicitBzero(p.privKey)
}

// NewKeypair generates a new PrivateKey sampled from the provided
// entropy source.
func NewKeypair(r io.Reader) (*PrivateKey, error) {
	pubKey, privKey, err := ed25519.GenerateKey(r)
	if err != nil {
		return nil, err
	}

	k := new(PrivateKey)
	k.privKey = privKey
	k.pubKey.pubKey = pubKey
	k.pubKey.rebuildB64String()
	return k, nil
}

// NewKeyFromSeed deterministically generates a key pair from a
// KeySeedSize byte seed, by keying a BLAKE2Xb XOF as the entropy
// source.
func NewKeyFromSeed(seed []byte) (*PrivateKey, error) {
	if len(seed) != KeySeedSize {
		return nil, ErrInvalidKey
	}
	xof, err := blake2b.NewXOF(blake2b.OutputLengthUnknown, seed)
	if err != nil {
		return nil, err
	}
	return NewKeypair(xof)
}
