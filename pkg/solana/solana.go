// Package solana holds the wire-format primitives for Solana public keys and
// ed25519 signatures as they appear in client payloads: base58 text outside,
// fixed-size byte arrays inside.
package solana

import (
	"crypto/ed25519"
	"errors"

	"github.com/btcsuite/btcutil/base58"
)

const (
	PublicKeyLength = ed25519.PublicKeySize // 32
	SignatureLength = ed25519.SignatureSize // 64
)

var (
	ErrBadEncoding      = errors.New("solana: not a base58 string")
	ErrBadPublicKeySize = errors.New("solana: public key must be 32 bytes")
	ErrBadSignatureSize = errors.New("solana: signature must be 64 bytes")
)

type PublicKey [PublicKeyLength]byte

type Signature [SignatureLength]byte

// PublicKeyFromBase58 decodes and reconstructs a public key from its external
// text encoding. Both failure modes (not base58, wrong length) are malformed
// input, never a verification verdict.
func PublicKeyFromBase58(s string) (PublicKey, error) {
	var pk PublicKey
	raw := base58.Decode(s)
	if len(raw) == 0 && s != "" {
		return pk, ErrBadEncoding
	}
	if len(raw) != PublicKeyLength {
		return pk, ErrBadPublicKeySize
	}
	copy(pk[:], raw)
	return pk, nil
}

// SignatureFromBase58 decodes and reconstructs a transaction or proof
// signature from its external text encoding.
func SignatureFromBase58(s string) (Signature, error) {
	var sig Signature
	raw := base58.Decode(s)
	if len(raw) == 0 && s != "" {
		return sig, ErrBadEncoding
	}
	if len(raw) != SignatureLength {
		return sig, ErrBadSignatureSize
	}
	copy(sig[:], raw)
	return sig, nil
}

// String returns the canonical base58 form.
func (pk PublicKey) String() string {
	return base58.Encode(pk[:])
}

func (sig Signature) String() string {
	return base58.Encode(sig[:])
}

// Verify reports whether sig is a valid ed25519 signature over message by the
// holder of pk's private key. Stateless and safe for concurrent use.
func Verify(message []byte, pk PublicKey, sig Signature) bool {
	return ed25519.Verify(pk[:], message, sig[:])
}
