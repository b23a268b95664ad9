// ecdh.go - ECDH (X25519) wrappers.
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

// Package ecdh provides ECDH (X25519) wrappers used for the per-hop key
// agreement of the packet format.
package ecdh

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"io"
	"strings"

	"golang.org/x/crypto/curve25519"

	"github.com/echomix/crypto/utils"
)

const (
	// GroupElementLength is the length of a ECDH group element in bytes.
	GroupElementLength = 32

	// PublicKeySize is the size of a serialized PublicKey in bytes.
	PublicKeySize = GroupElementLength

	// PrivateKeySize is the size of a serialized PrivateKey in bytes.
	PrivateKeySize = GroupElementLength

	// SharedSecretSize is the size of a shared secret in bytes.
	SharedSecretSize = GroupElementLength
)

var (
	// ErrInvalidKey is the error returned when a serialized key is
	// malformed or of the wrong length.
	ErrInvalidKey = errors.New("ecdh: invalid key")

	// ErrDegenerateSharedSecret is the error returned when the peer
	// public key is a low order or identity point, such that the
	// resulting shared secret would be the all zero value.
	ErrDegenerateSharedSecret = errors.New("ecdh: degenerate shared secret")
)

// PublicKey is a ECDH public key.
type PublicKey struct {
	pubBytes  [GroupElementLength]byte
	hexString string
}

// Bytes returns the raw public key.
func (k *PublicKey) Bytes() []byte {
	return k.pubBytes[:]
}

// ByteArray returns the raw public key as an array suitable for use as
// a map key.
func (k *PublicKey) ByteArray() [PublicKeySize]byte {
	return k.pubBytes
}

// FromBytes deserializes the byte slice b into the PublicKey.
func (k *PublicKey) FromBytes(b []byte) error {
	if len(b) != PublicKeySize {
		return ErrInvalidKey
	}

	copy(k.pubBytes[:], b)
	k.rebuildHexString()

	return nil
}

// MarshalBinary is an implementation of a method on the
// BinaryMarshaler interface defined in https://golang.org/pkg/encoding/
func (k *PublicKey) MarshalBinary() ([]byte, error) {
	return k.Bytes(), nil
}

// UnmarshalBinary is an implementation of a method on the
// BinaryUnmarshaler interface defined in https://golang.org/pkg/encoding/
func (k *PublicKey) UnmarshalBinary(data []byte) error {
	return k.FromBytes(data)
}

// MarshalText is an implementation of a method on the
// TextMarshaler interface defined in https://golang.org/pkg/encoding/
func (k *PublicKey) MarshalText() ([]byte, error) {
	return []byte(base64.StdEncoding.EncodeToString(k.Bytes())), nil
}

// UnmarshalText is an implementation of a method on the
// TextUnmarshaler interface defined in https://golang.org/pkg/encoding/
func (k *PublicKey) UnmarshalText(data []byte) error {
	raw, err := base64.StdEncoding.DecodeString(string(data))
	if err != nil {
		return err
	}
	return k.FromBytes(raw)
}

// Reset clears the PublicKey structure such that no sensitive data is
// left in memory.
func (k *PublicKey) Reset() {
	utils.ExplicitBzero(k.pubBytes[:])
	k.hexString = "[scrubbed]"
}

// Blind blinds the public key with the provided blinding factor.
func (k *PublicKey) Blind(blindingFactor *[GroupElementLength]byte) error {
	blinded, err := Exp(k.pubBytes[:], blindingFactor[:])
	if err != nil {
		return err
	}
	copy(k.pubBytes[:], blinded)
	k.rebuildHexString()
	return nil
}

// String returns the public key as a hexadecimal encoded string.
func (k *PublicKey) String() string {
	return k.hexString
}

func (k *PublicKey) rebuildHexString() {
	k.hexString = strings.ToUpper(hex.EncodeToString(k.pubBytes[:]))
}

// PrivateKey is a ECDH private key.
type PrivateKey struct {
	pubKey    PublicKey
	privBytes [GroupElementLength]byte
}

// Bytes returns the raw private key.
func (k *PrivateKey) Bytes() []byte {
	return k.privBytes[:]
}

// FromBytes deserializes the byte slice b into the PrivateKey.
func (k *PrivateKey) FromBytes(b []byte) error {
	if len(b) != PrivateKeySize {
		return ErrInvalidKey
	}

	copy(k.privBytes[:], b)
	expG(&k.pubKey.pubBytes, &k.privBytes)
	k.pubKey.rebuildHexString()

	return nil
}

// SharedSecret calculates the shared secret with the provided public
// key.  Low order and identity peer points are rejected with
// ErrDegenerateSharedSecret, the caller must treat the handshake as
// failed and never use the output.
//
// The returned secret is owned by the caller, who is responsible for
// wiping it with utils.ExplicitBzero once it has been fed to the KDF.
func (k *PrivateKey) SharedSecret(publicKey *PublicKey) (*[SharedSecretSize]byte, error) {
	raw, err := Exp(publicKey.pubBytes[:], k.privBytes[:])
	if err != nil {
		return nil, err
	}
	secret := new([SharedSecretSize]byte)
	copy(secret[:], raw)
	utils.ExplicitBzero(raw)
	return secret, nil
}

// Reset clears the PrivateKey structure such that no sensitive data is
// left in memory.
func (k *PrivateKey) Reset() {
	k.pubKey.Reset()
	utils.ExplicitBzero(k.privBytes[:])
}

// PublicKey returns the PublicKey corresponding to the PrivateKey.
func (k *PrivateKey) PublicKey() *PublicKey {
	return &k.pubKey
}

// NewKeypair generates a new PrivateKey sampled from the provided
// entropy source.
func NewKeypair(r io.Reader) (*PrivateKey, error) {
	k := new(PrivateKey)
	if _, err := io.ReadFull(r, k.privBytes[:]); err != nil {
		return nil, err
	}

	expG(&k.pubKey.pubBytes, &k.privBytes)
	k.pubKey.rebuildHexString()

	return k, nil
}

// Exp returns the group element that is the result of x^y, over the
// ECDH group.  An all zero result is rejected as degenerate.
func Exp(x, y []byte) ([]byte, error) {
	if len(x) != GroupElementLength || len(y) != GroupElementLength {
		return nil, ErrInvalidKey
	}
	sharedSecret, err := curve25519.X25519(y, x)
	if err != nil {
		return nil, ErrDegenerateSharedSecret
	}
	return sharedSecret, nil
}

func expG(dst, y *[GroupElementLength]byte) {
	curve25519.ScalarBaseMult(dst, y)
}
