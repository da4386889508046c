package vault

import (
	"crypto/ed25519"
	"encoding/hex"
)

// Signer is an opaque signing capability handed to the execution
// collaborator. The private key is unexported and never leaves this type.
type Signer struct {
	keyRefID string
	priv     ed25519.PrivateKey
}

// KeyRefID returns the reference this signer was derived from.
func (s *Signer) KeyRefID() string { return s.keyRefID }

// PublicKey returns the hex-encoded public key.
func (s *Signer) PublicKey() string {
	return hex.EncodeToString(s.priv.Public().(ed25519.PublicKey))
}

// Sign signs the message with the underlying key.
func (s *Signer) Sign(message []byte) []byte {
	return ed25519.Sign(s.priv, message)
}
