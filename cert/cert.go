// cert.go - Endpoint identity certificates.
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

// Package cert provides a certificate format for endpoint identity
// authentication, binding a payload to one or more Ed25519 identities
// with an expiration epoch.  Certificates are serialized with
// canonical CBOR.
package cert

import (
	"bytes"
	"crypto/hmac"
	"encoding/binary"
	"errors"

	"github.com/fxamacker/cbor/v2"

	"github.com/echomix/crypto/hash"
)

// Version is the certificate format version.
const Version = 0

var (
	// ErrInvalidCertificate indicates a structurally invalid
	// certificate.
	ErrInvalidCertificate = errors.New("cert: invalid certificate")

	// ErrBadSignature indicates that a signature does not sign the
	// certificate.  No further diagnostic detail is attached.
	ErrBadSignature = errors.New("cert: signature does not sign certificate")

	// ErrDuplicateSignature indicates that the given signature is
	// already present in the certificate.
	ErrDuplicateSignature = errors.New("cert: duplicate signature")

	// ErrVersionMismatch indicates that the certificate is of the
	// wrong format version.
	ErrVersionMismatch = errors.New("cert: version mismatch")

	// ErrCertificateExpired indicates that the certificate has
	// expired.
	ErrCertificateExpired = errors.New("cert: certificate expired")

	// ErrIdentityNotFound indicates that no signature by the given
	// identity is present in the certificate.
	ErrIdentityNotFound = errors.New("cert: identity signature not found")

	// ErrInvalidThreshold indicates the given threshold cannot be
	// used.
	ErrInvalidThreshold = errors.New("cert: invalid threshold")

	// ErrThresholdNotMet indicates that there were not enough valid
	// signatures to meet the threshold.
	ErrThresholdNotMet = errors.New("cert: threshold not met")

	// ccbor is a reusable canonical encoder, safe for concurrent use.
	ccbor cbor.EncMode
)

// Signer signs certificates.  eddsa.PrivateKey satisfies it.
type Signer interface {
	// Sign signs the message and returns the signature.
	Sign(msg []byte) []byte

	// KeyType returns the key type string.
	KeyType() string
}

// Verifier verifies certificate signatures.  eddsa.PublicKey satisfies
// it.
type Verifier interface {
	// Verify returns true iff sig is a valid signature over msg.
	Verify(sig, msg []byte) bool

	// Sum256 returns the BLAKE3-256 digest of the key's raw bytes.
	Sum256() [hash.Size]byte
}

// Signature is a signature over a certificate, tagged with the
// signer's identity.
type Signature struct {
	// PublicKeySum256 is the BLAKE3-256 digest of the signing public
	// key.
	PublicKeySum256 [hash.Size]byte

	// Payload is the actual signature value.
	Payload []byte
}

// Certificate is the serialized certificate structure.
type Certificate struct {
	// Version is the certificate format version.
	Version uint32

	// Expiration is the epoch id of the expiration; the certificate
	// is valid at `Expiration-1` and invalid at `Expiration` onward.
	Expiration uint64

	// KeyType indicates the type of key certified by this
	// certificate.
	KeyType string

	// Payload is the data certified by this certificate.
	Payload []byte

	// Signatures maps PublicKeySum256 to the signature by that
	// identity over the canonical encoding of the previous fields.
	Signatures map[[hash.Size]byte]Signature
}

// Unmarshal deserializes a Certificate from its CBOR encoding.
func Unmarshal(raw []byte) (*Certificate, error) {
	if raw == nil {
		return nil, ErrInvalidCertificate
	}
	cert := new(Certificate)
	if err := cbor.Unmarshal(raw, cert); err != nil {
		return nil, ErrInvalidCertificate
	}
	if cert.Signatures == nil {
		cert.Signatures = make(map[[hash.Size]byte]Signature)
	}
	return cert, nil
}

// Marshal serializes the Certificate with canonical CBOR.
func (c *Certificate) Marshal() ([]byte, error) {
	return ccbor.Marshal(c)
}

// message returns the canonical byte string the signatures cover.
func (c *Certificate) message() ([]byte, error) {
	message := new(bytes.Buffer)
	if err := binary.Write(message, binary.LittleEndian, c.Version); err != nil {
		return nil, err
	}
	if err := binary.Write(message, binary.LittleEndian, c.Expiration); err != nil {
		return nil, err
	}
	message.WriteString(c.KeyType)
	message.Write(c.Payload)
	return message.Bytes(), nil
}

// SanityCheck validates the certificate structure against the current
// epoch.
func (c *Certificate) SanityCheck(currentEpoch uint64) error {
	if c.Version != Version {
		return ErrVersionMismatch
	}
	if currentEpoch >= c.Expiration {
		return ErrCertificateExpired
	}
	if len(c.KeyType) == 0 || len(c.Payload) == 0 {
		return ErrInvalidCertificate
	}
	if c.Signatures == nil {
		// cbor faithfully round trips a nil map.
		c.Signatures = make(map[[hash.Size]byte]Signature)
	}
	return nil
}

// Sign uses the given Signer to create a certificate certifying data.
func Sign(signer Signer, verifier Verifier, data []byte, expirationEpoch, currentEpoch uint64) ([]byte, error) {
	cert := Certificate{
		Version:    Version,
		Expiration: expirationEpoch,
		KeyType:    signer.KeyType(),
		Payload:    data,
	}
	if err := cert.SanityCheck(currentEpoch); err != nil {
		return nil, err
	}
	mesg, err := cert.message()
	if err != nil {
		return nil, err
	}
	cert.Signatures = map[[hash.Size]byte]Signature{
		verifier.Sum256(): {
			PublicKeySum256: verifier.Sum256(),
			Payload:         signer.Sign(mesg),
		},
	}
	return cert.Marshal()
}

// SignMulti uses the given Signer to append its signature to an
// existing certificate.
func SignMulti(signer Signer, verifier Verifier, rawCert []byte, currentEpoch uint64) ([]byte, error) {
	cert, err := Unmarshal(rawCert)
	if err != nil {
		return nil, err
	}
	if err = cert.SanityCheck(currentEpoch); err != nil {
		return nil, err
	}
	if signer.KeyType() != cert.KeyType {
		return nil, ErrInvalidCertificate
	}

	mesg, err := cert.message()
	if err != nil {
		return nil, err
	}
	sig := Signature{
		PublicKeySum256: verifier.Sum256(),
		Payload:         signer.Sign(mesg),
	}
	cert.Signatures[sig.PublicKeySum256] = sig

	return cert.Marshal()
}

// AddSignature adds the signature to the certificate if the verifier
// confirms the signature signs the certificate.
func AddSignature(verifier Verifier, signature Signature, rawCert []byte) ([]byte, error) {
	cert, err := Unmarshal(rawCert)
	if err != nil {
		return nil, err
	}
	for _, sig := range cert.Signatures {
		if hmac.Equal(sig.PublicKeySum256[:], signature.PublicKeySum256[:]) {
			return nil, ErrDuplicateSignature
		}
	}

	mesg, err := cert.message()
	if err != nil {
		return nil, err
	}
	if !verifier.Verify(signature.Payload, mesg) {
		return nil, ErrBadSignature
	}
	cert.Signatures[signature.PublicKeySum256] = signature

	return cert.Marshal()
}

// GetPayload returns the certified data without verifying any
// signature.
func GetPayload(rawCert []byte) ([]byte, error) {
	cert, err := Unmarshal(rawCert)
	if err != nil {
		return nil, err
	}
	return cert.Payload, nil
}

// GetSignatures returns all the signatures attached to the
// certificate.
func GetSignatures(rawCert []byte) ([]Signature, error) {
	cert, err := Unmarshal(rawCert)
	if err != nil {
		return nil, err
	}
	sigs := make([]Signature, 0, len(cert.Signatures))
	for _, sig := range cert.Signatures {
		sigs = append(sigs, sig)
	}
	return sigs, nil
}

// GetSignature returns the signature by the given identity, if
// present.
func GetSignature(identity []byte, rawCert []byte, currentEpoch uint64) (*Signature, error) {
	cert, err := Unmarshal(rawCert)
	if err != nil {
		return nil, err
	}
	if err = cert.SanityCheck(currentEpoch); err != nil {
		return nil, err
	}
	for _, sig := range cert.Signatures {
		h := sig.PublicKeySum256
		if hmac.Equal(identity, h[:]) {
			return &sig, nil
		}
	}
	return nil, ErrIdentityNotFound
}

// Verify checks one of the signatures attached to the certificate and
// returns the certified data if the verifier's signature is valid.
func Verify(verifier Verifier, cert *Certificate, currentEpoch uint64) ([]byte, error) {
	if err := cert.SanityCheck(currentEpoch); err != nil {
		return nil, err
	}
	id := verifier.Sum256()
	sig, ok := cert.Signatures[id]
	if !ok {
		return nil, ErrIdentityNotFound
	}
	mesg, err := cert.message()
	if err != nil {
		return nil, err
	}
	if !verifier.Verify(sig.Payload, mesg) {
		return nil, ErrBadSignature
	}
	return cert.Payload, nil
}

// VerifyThreshold returns the certified data, the verifiers whose
// signatures checked out and the ones whose did not, provided at least
// threshold verifiers succeed.
func VerifyThreshold(verifiers []Verifier, threshold int, cert *Certificate, currentEpoch uint64) ([]byte, []Verifier, []Verifier, error) {
	if threshold > len(verifiers) || threshold < 1 {
		return nil, nil, nil, ErrInvalidThreshold
	}
	var certified []byte
	good := []Verifier{}
	bad := []Verifier{}
	for _, verifier := range verifiers {
		c, err := Verify(verifier, cert, currentEpoch)
		if err != nil {
			bad = append(bad, verifier)
			continue
		}
		good = append(good, verifier)
		certified = c
	}
	if len(good) < threshold {
		return nil, good, bad, ErrThresholdNotMet
	}
	return certified, good, bad, nil
}

func init() {
	var err error
	ccbor, err = cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
}
