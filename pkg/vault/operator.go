package vault

import "github.com/harun/ledgerctl/pkg/state"

// OperatorMapping is the per-network default signer.
type OperatorMapping struct {
	AccountID string `json:"accountId"`
	KeyRefID  string `json:"keyRefId"`
}

// SetOperator records the default signer for a network and returns the
// previous mapping, if any, so the caller can surface the overwrite instead
// of losing it silently.
func (v *Vault) SetOperator(network string, mapping OperatorMapping) (*OperatorMapping, error) {
	previous, err := v.GetOperator(network)
	if err != nil {
		return nil, err
	}
	if err := v.operators.Set(network, mapping); err != nil {
		return nil, err
	}
	if previous != nil {
		v.logger.Info().
			Str("network", network).
			Str("previousAccountId", previous.AccountID).
			Str("accountId", mapping.AccountID).
			Msg("Replaced network operator")
	}
	return previous, nil
}

// GetOperator returns the default signer for a network, or nil if none is
// configured.
func (v *Vault) GetOperator(network string) (*OperatorMapping, error) {
	mapping, ok, err := state.Get[OperatorMapping](v.operators, network)
	if err != nil || !ok {
		return nil, err
	}
	return &mapping, nil
}
