package vault

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"

	"github.com/harun/ledgerctl/pkg/state"
)

// Store namespaces. Secrets are kept apart from metadata so that listing or
// exporting records can never leak key material.
const (
	NamespaceRecords   = "vault.records"
	NamespaceSecrets   = "vault.secrets"
	NamespaceOperators = "vault.operators"
)

// KeyAlgorithmEd25519 is the only algorithm the vault currently produces.
const KeyAlgorithmEd25519 = "ed25519"

// CredentialRecord is the public metadata of a stored key.
type CredentialRecord struct {
	KeyRefID  string   `json:"keyRefId"`
	Type      string   `json:"type"`
	PublicKey string   `json:"publicKey"`
	Labels    []string `json:"labels,omitempty"`
}

// CredentialSecret is the private half of a stored key. It never crosses
// the vault boundary.
type CredentialSecret struct {
	KeyAlgorithm string    `json:"keyAlgorithm"`
	PrivateKey   string    `json:"privateKey"`
	CreatedAt    time.Time `json:"createdAt"`
}

// KeyInfo is what import and generation hand back to the caller: the opaque
// reference and the derived public key, nothing else.
type KeyInfo struct {
	KeyRefID  string `json:"keyRefId"`
	PublicKey string `json:"publicKey"`
}

// Vault manages credential records on top of the state store.
type Vault struct {
	records   *state.Namespace
	secrets   *state.Namespace
	operators *state.Namespace
	logger    zerolog.Logger
}

// New creates a vault over the given store.
func New(st *state.Store, logger zerolog.Logger) *Vault {
	return &Vault{
		records:   st.Namespace(NamespaceRecords),
		secrets:   st.Namespace(NamespaceSecrets),
		operators: st.Namespace(NamespaceOperators),
		logger:    logger.With().Str("component", "vault").Logger(),
	}
}

// ImportPrivateKey stores the provided ed25519 secret (hex-encoded 32-byte
// seed or 64-byte private key) and returns an opaque reference plus the
// derived public key.
func (v *Vault) ImportPrivateKey(secret string, labels []string) (*KeyInfo, error) {
	priv, err := parsePrivateKey(secret)
	if err != nil {
		return nil, err
	}
	return v.store(priv, "imported", labels)
}

// CreateLocalPrivateKey generates a fresh ed25519 key and stores it through
// the same path as ImportPrivateKey, so generated and imported keys behave
// identically downstream.
func (v *Vault) CreateLocalPrivateKey(labels []string) (*KeyInfo, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return v.store(priv, "local", labels)
}

func (v *Vault) store(priv ed25519.PrivateKey, keyType string, labels []string) (*KeyInfo, error) {
	keyRefID, err := newKeyRefID()
	if err != nil {
		return nil, err
	}
	publicKey := hex.EncodeToString(priv.Public().(ed25519.PublicKey))

	secret := CredentialSecret{
		KeyAlgorithm: KeyAlgorithmEd25519,
		PrivateKey:   hex.EncodeToString(priv.Seed()),
		CreatedAt:    time.Now().UTC(),
	}
	if err := v.secrets.Set(keyRefID, secret); err != nil {
		return nil, fmt.Errorf("failed to store secret: %w", err)
	}

	record := CredentialRecord{
		KeyRefID:  keyRefID,
		Type:      keyType,
		PublicKey: publicKey,
		Labels:    labels,
	}
	if err := v.records.Set(keyRefID, record); err != nil {
		// Keep the two namespaces consistent if the second write fails.
		_ = v.secrets.Delete(keyRefID)
		return nil, fmt.Errorf("failed to store record: %w", err)
	}

	v.logger.Debug().Str("keyRefId", keyRefID).Str("type", keyType).Msg("Stored credential")

	return &KeyInfo{KeyRefID: keyRefID, PublicKey: publicKey}, nil
}

// Get returns the metadata record for a reference, or nil if unknown.
func (v *Vault) Get(keyRefID string) (*CredentialRecord, error) {
	record, ok, err := state.Get[CredentialRecord](v.records, keyRefID)
	if err != nil || !ok {
		return nil, err
	}
	return &record, nil
}

// GetPublicKey returns the public key for a reference, or "" if unknown.
func (v *Vault) GetPublicKey(keyRefID string) (string, error) {
	record, err := v.Get(keyRefID)
	if err != nil || record == nil {
		return "", err
	}
	return record.PublicKey, nil
}

// FindByPublicKey returns the reference whose record carries the given
// public key, or "" if none does.
func (v *Vault) FindByPublicKey(publicKey string) (string, error) {
	records, err := v.List()
	if err != nil {
		return "", err
	}
	for _, r := range records {
		if r.PublicKey == publicKey {
			return r.KeyRefID, nil
		}
	}
	return "", nil
}

// Has reports whether a reference exists.
func (v *Vault) Has(keyRefID string) bool {
	ok, err := v.records.Has(keyRefID)
	return err == nil && ok
}

// List returns all metadata records. Secret material is never included.
func (v *Vault) List() ([]CredentialRecord, error) {
	return state.List[CredentialRecord](v.records)
}

// Remove deletes both the metadata and the secret for a reference. Removing
// an unknown reference is a no-op.
func (v *Vault) Remove(keyRefID string) error {
	if err := v.records.Delete(keyRefID); err != nil {
		return err
	}
	return v.secrets.Delete(keyRefID)
}

// SignerHandle returns an opaque signing capability for a stored key, or
// nil if the reference is unknown. The caller never sees the key itself.
func (v *Vault) SignerHandle(keyRefID string) (*Signer, error) {
	secret, ok, err := state.Get[CredentialSecret](v.secrets, keyRefID)
	if err != nil || !ok {
		return nil, err
	}
	priv, err := parsePrivateKey(secret.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("stored secret for %s is unusable: %w", keyRefID, err)
	}
	return &Signer{keyRefID: keyRefID, priv: priv}, nil
}

func newKeyRefID() (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("failed to allocate key reference: %w", err)
	}
	return "kr_" + id, nil
}

func parsePrivateKey(secret string) (ed25519.PrivateKey, error) {
	raw, err := hex.DecodeString(secret)
	if err != nil {
		return nil, fmt.Errorf("secret is not valid hex: %w", err)
	}
	switch len(raw) {
	case ed25519.SeedSize:
		return ed25519.NewKeyFromSeed(raw), nil
	case ed25519.PrivateKeySize:
		return ed25519.PrivateKey(raw), nil
	default:
		return nil, fmt.Errorf("secret must be a %d or %d byte ed25519 key, got %d bytes",
			ed25519.SeedSize, ed25519.PrivateKeySize, len(raw))
	}
}
