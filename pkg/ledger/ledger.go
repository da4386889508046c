// Package ledger defines the boundary contracts for transaction execution
// and read-only network queries. The core never inspects transaction
// internals; it hands an opaque transaction and a signing capability to an
// Executor and consumes the result.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Signer is the opaque signing capability an Executor consumes. The vault's
// signer handle satisfies it; an executor never sees key material.
type Signer interface {
	KeyRefID() string
	PublicKey() string
	Sign(message []byte) []byte
}

// Result is what an Executor reports back for one submitted transaction.
type Result struct {
	Success       bool            `json:"success"`
	TransactionID string          `json:"transactionId"`
	Receipt       json.RawMessage `json:"receipt,omitempty"`
	Err           string          `json:"error,omitempty"`
}

// Executor signs and submits a constructed transaction. tx is opaque to the
// core; its shape is an agreement between plugins and the executor.
type Executor interface {
	Execute(ctx context.Context, tx any, signer Signer) (*Result, error)
}

// LocalExecutor is an in-process Executor that signs the serialized
// transaction and fabricates a receipt. It backs tests and dry runs; no
// network is involved.
type LocalExecutor struct{}

func (LocalExecutor) Execute(_ context.Context, tx any, signer Signer) (*Result, error) {
	if signer == nil {
		return nil, fmt.Errorf("no signer provided")
	}
	payload, err := json.Marshal(tx)
	if err != nil {
		return nil, fmt.Errorf("transaction is not serializable: %w", err)
	}
	sig := signer.Sign(payload)
	receipt, err := json.Marshal(map[string]any{
		"status":    "SUCCESS",
		"publicKey": signer.PublicKey(),
		"sigBytes":  len(sig),
	})
	if err != nil {
		return nil, err
	}
	return &Result{
		Success:       true,
		TransactionID: uuid.NewString(),
		Receipt:       receipt,
	}, nil
}
