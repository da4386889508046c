// Package vault stores private keys behind opaque references so that raw
// secrets never leave the vault boundary.
//
// Invariants:
// - Key metadata and secret material live in separate namespaces; List
//   returns metadata only.
// - A keyRefId is vault-assigned and carries no information about the key
//   it stands for.
// - Lookups of an unknown keyRefId report absence, never an error; Remove
//   is idempotent so cleanup flows are never blocked.
//
// Usage:
//
//	v := vault.New(store, logger)
//	info, _ := v.CreateLocalPrivateKey([]string{"treasury"})
//	signer, _ := v.SignerHandle(info.KeyRefID)
//	sig := signer.Sign([]byte("payload"))
//	_ = sig
package vault
