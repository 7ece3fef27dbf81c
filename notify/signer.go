// Package notify signs and verifies the verdict payloads of the
// broadcaster described in SPEC_FULL.md §4.7. The websocket broadcast
// itself lives in cmd/auxnotify; this package holds only the secp256k1
// signing side.
package notify

import (
	"crypto/sha256"
	"fmt"

	secp256k1 "github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// Signer signs verdict payloads with a pool operator's secp256k1 key so
// subscribers can authenticate the source of a notification over an
// otherwise unauthenticated websocket feed.
type Signer struct {
	priv *secp256k1.PrivateKey
}

// NewSigner wraps an existing private key.
func NewSigner(priv *secp256k1.PrivateKey) *Signer {
	return &Signer{priv: priv}
}

// GenerateSigner creates a Signer backed by a freshly generated key,
// returning both so the caller can persist the key for future restarts.
func GenerateSigner() (*Signer, *secp256k1.PrivateKey, error) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, nil, fmt.Errorf("notify: generate signer key: %w", err)
	}
	return NewSigner(priv), priv, nil
}

// PublicKey returns the signer's public key in 33-byte compressed form.
func (s *Signer) PublicKey() []byte {
	return s.priv.PubKey().SerializeCompressed()
}

// Sign returns a DER-encoded ECDSA signature over SHA-256(payload).
func (s *Signer) Sign(payload []byte) []byte {
	digest := sha256.Sum256(payload)
	sig := ecdsa.Sign(s.priv, digest[:])
	return sig.Serialize()
}

// Verify checks sig (DER-encoded) against SHA-256(payload) using
// pubKeyCompressed, a 33-byte compressed public key.
func Verify(pubKeyCompressed, payload, sig []byte) (bool, error) {
	pub, err := secp256k1.ParsePubKey(pubKeyCompressed)
	if err != nil {
		return false, fmt.Errorf("notify: parse public key: %w", err)
	}
	parsed, err := ecdsa.ParseDERSignature(sig)
	if err != nil {
		return false, fmt.Errorf("notify: parse signature: %w", err)
	}
	digest := sha256.Sum256(payload)
	return parsed.Verify(digest[:], pub), nil
}
