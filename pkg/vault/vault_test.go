package vault

import (
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harun/ledgerctl/pkg/state"
)

func newTestVault(t *testing.T) (*Vault, *state.Store) {
	t.Helper()
	st := state.New(state.NewMemoryBackend(), zerolog.Nop())
	return New(st, zerolog.Nop()), st
}

func TestVault_ImportPrivateKey(t *testing.T) {
	v, _ := newTestVault(t)

	seed := strings.Repeat("ab", ed25519.SeedSize)
	wantPub := hex.EncodeToString(ed25519.NewKeyFromSeed(mustHex(t, seed)).Public().(ed25519.PublicKey))

	t.Run("derives public key from seed", func(t *testing.T) {
		info, err := v.ImportPrivateKey(seed, []string{"ops"})
		require.NoError(t, err)
		assert.Equal(t, wantPub, info.PublicKey)
		assert.True(t, strings.HasPrefix(info.KeyRefID, "kr_"))

		got, err := v.GetPublicKey(info.KeyRefID)
		require.NoError(t, err)
		assert.Equal(t, wantPub, got)
	})

	t.Run("keyRefId is not derived from the key", func(t *testing.T) {
		info, err := v.ImportPrivateKey(seed, nil)
		require.NoError(t, err)
		assert.NotContains(t, info.KeyRefID, info.PublicKey)
		assert.NotContains(t, info.KeyRefID, seed)
	})

	t.Run("rejects non-hex secret", func(t *testing.T) {
		_, err := v.ImportPrivateKey("not-hex", nil)
		require.Error(t, err)
	})

	t.Run("rejects wrong-length secret", func(t *testing.T) {
		_, err := v.ImportPrivateKey("abcd", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ed25519")
	})
}

func TestVault_CreateLocalPrivateKey(t *testing.T) {
	v, _ := newTestVault(t)

	info, err := v.CreateLocalPrivateKey([]string{"treasury"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(info.KeyRefID, "kr_"))
	assert.NotEmpty(t, info.PublicKey)

	record, err := v.Get(info.KeyRefID)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "local", record.Type)
	assert.Equal(t, []string{"treasury"}, record.Labels)
}

func TestVault_ListNeverExposesSecrets(t *testing.T) {
	v, st := newTestVault(t)

	seed := strings.Repeat("cd", ed25519.SeedSize)
	_, err := v.ImportPrivateKey(seed, nil)
	require.NoError(t, err)
	_, err = v.CreateLocalPrivateKey(nil)
	require.NoError(t, err)

	records, err := v.List()
	require.NoError(t, err)
	require.Len(t, records, 2)

	raw, err := json.Marshal(records)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), seed)
	assert.NotContains(t, string(raw), "privateKey")

	// The records namespace itself must hold no secret material either.
	raws, err := st.List(NamespaceRecords)
	require.NoError(t, err)
	for _, r := range raws {
		assert.NotContains(t, string(r), seed)
	}
}

func TestVault_FindByPublicKey(t *testing.T) {
	v, _ := newTestVault(t)

	info, err := v.CreateLocalPrivateKey(nil)
	require.NoError(t, err)

	ref, err := v.FindByPublicKey(info.PublicKey)
	require.NoError(t, err)
	assert.Equal(t, info.KeyRefID, ref)

	ref, err = v.FindByPublicKey("unknown")
	require.NoError(t, err)
	assert.Empty(t, ref)
}

func TestVault_RemoveIsIdempotent(t *testing.T) {
	v, _ := newTestVault(t)

	info, err := v.CreateLocalPrivateKey(nil)
	require.NoError(t, err)

	require.NoError(t, v.Remove(info.KeyRefID))
	require.NoError(t, v.Remove(info.KeyRefID))
	require.NoError(t, v.Remove("kr_never_existed"))

	record, err := v.Get(info.KeyRefID)
	require.NoError(t, err)
	assert.Nil(t, record)

	signer, err := v.SignerHandle(info.KeyRefID)
	require.NoError(t, err)
	assert.Nil(t, signer)
}

func TestVault_UnknownRefIsAbsentNotError(t *testing.T) {
	v, _ := newTestVault(t)

	pub, err := v.GetPublicKey("kr_missing")
	require.NoError(t, err)
	assert.Empty(t, pub)

	record, err := v.Get("kr_missing")
	require.NoError(t, err)
	assert.Nil(t, record)

	assert.False(t, v.Has("kr_missing"))
}

func TestSigner_SignsWithoutExposingKey(t *testing.T) {
	v, _ := newTestVault(t)

	seed := strings.Repeat("ef", ed25519.SeedSize)
	info, err := v.ImportPrivateKey(seed, nil)
	require.NoError(t, err)

	signer, err := v.SignerHandle(info.KeyRefID)
	require.NoError(t, err)
	require.NotNil(t, signer)
	assert.Equal(t, info.KeyRefID, signer.KeyRefID())
	assert.Equal(t, info.PublicKey, signer.PublicKey())

	message := []byte("transfer 1")
	sig := signer.Sign(message)

	pub := ed25519.NewKeyFromSeed(mustHex(t, seed)).Public().(ed25519.PublicKey)
	assert.True(t, ed25519.Verify(pub, message, sig))
}

func TestVault_Operator(t *testing.T) {
	v, _ := newTestVault(t)

	t.Run("unset network returns nil", func(t *testing.T) {
		mapping, err := v.GetOperator("testnet")
		require.NoError(t, err)
		assert.Nil(t, mapping)
	})

	t.Run("set surfaces previous mapping before replacing", func(t *testing.T) {
		previous, err := v.SetOperator("testnet", OperatorMapping{AccountID: "0.0.5", KeyRefID: "kr_1"})
		require.NoError(t, err)
		assert.Nil(t, previous)

		previous, err = v.SetOperator("testnet", OperatorMapping{AccountID: "0.0.5", KeyRefID: "kr_2"})
		require.NoError(t, err)
		require.NotNil(t, previous)
		assert.Equal(t, "0.0.5", previous.AccountID)
		assert.Equal(t, "kr_1", previous.KeyRefID)

		current, err := v.GetOperator("testnet")
		require.NoError(t, err)
		require.NotNil(t, current)
		assert.Equal(t, "kr_2", current.KeyRefID)
	})

	t.Run("networks are independent", func(t *testing.T) {
		mapping, err := v.GetOperator("mainnet")
		require.NoError(t, err)
		assert.Nil(t, mapping)
	})
}

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	raw, err := hex.DecodeString(s)
	require.NoError(t, err)
	return raw
}
