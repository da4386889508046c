// Package alias maps human-chosen names to network-scoped entities and
// optional signing references. A name registered on one network is
// invisible on every other, since entity ids are not portable across
// networks.
package alias

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/harun/ledgerctl/pkg/state"
)

// Namespace is the state namespace the registry lives in.
const Namespace = "aliases"

// Entity types an alias can name.
const (
	TypeAccount = "account"
	TypeToken   = "token"
	TypeTopic   = "topic"
)

// Record binds an alias to an entity on one network.
type Record struct {
	Alias     string            `json:"alias"`
	Network   string            `json:"network"`
	Type      string            `json:"type"`
	EntityID  string            `json:"entityId"`
	KeyRefID  string            `json:"keyRefId,omitempty"`
	PublicKey string            `json:"publicKey,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// DuplicateAliasError reports a registration that matches an existing
// (alias, network, type) triple. Callers must remove the old record first;
// the registry never overwrites silently.
type DuplicateAliasError struct {
	Alias   string
	Network string
	Type    string
}

func (e *DuplicateAliasError) Error() string {
	return fmt.Sprintf("alias %q already registered for type %s on %s", e.Alias, e.Type, e.Network)
}

// InUseError reports that a name is taken on a network by any entity type.
type InUseError struct {
	Alias   string
	Network string
	Type    string // type of the existing record
}

func (e *InUseError) Error() string {
	return fmt.Sprintf("alias %q is in use on %s (registered as %s)", e.Alias, e.Network, e.Type)
}

// CredentialChecker is the narrow slice of the vault the registry needs to
// verify that a key reference exists.
type CredentialChecker interface {
	Has(keyRefID string) bool
}

// Filter narrows List results. Zero fields match everything.
type Filter struct {
	Network string
	Type    string
}

// Registry resolves aliases over the state store.
type Registry struct {
	ns     *state.Namespace
	creds  CredentialChecker
	logger zerolog.Logger
}

// New creates a registry over the given store. creds may be nil, in which
// case key references are not checked.
func New(st *state.Store, creds CredentialChecker, logger zerolog.Logger) *Registry {
	return &Registry{
		ns:     st.Namespace(Namespace),
		creds:  creds,
		logger: logger.With().Str("component", "alias-registry").Logger(),
	}
}

// Register stores a record. It fails with *DuplicateAliasError when the
// (alias, network, type) triple already exists, and rejects key references
// that do not resolve in the vault.
func (r *Registry) Register(record Record) error {
	key, err := recordKey(record.Network, record.Type, record.Alias)
	if err != nil {
		return err
	}
	exists, err := r.ns.Has(key)
	if err != nil {
		return err
	}
	if exists {
		return &DuplicateAliasError{Alias: record.Alias, Network: record.Network, Type: record.Type}
	}
	if record.KeyRefID != "" && r.creds != nil && !r.creds.Has(record.KeyRefID) {
		return fmt.Errorf("alias %q references unknown credential %s", record.Alias, record.KeyRefID)
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	if err := r.ns.Set(key, record); err != nil {
		return err
	}
	r.logger.Debug().
		Str("alias", record.Alias).
		Str("network", record.Network).
		Str("type", record.Type).
		Msg("Registered alias")
	return nil
}

// Resolve returns the record matching the exact (alias, type, network)
// triple, or nil when no such record exists.
func (r *Registry) Resolve(aliasName, entityType, network string) (*Record, error) {
	key, err := recordKey(network, entityType, aliasName)
	if err != nil {
		return nil, err
	}
	record, ok, err := state.Get[Record](r.ns, key)
	if err != nil || !ok {
		return nil, err
	}
	return &record, nil
}

// List returns all records matching the filter in registration order.
func (r *Registry) List(filter Filter) ([]Record, error) {
	records, err := state.List[Record](r.ns)
	if err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if filter.Network != "" && rec.Network != filter.Network {
			continue
		}
		if filter.Type != "" && rec.Type != filter.Type {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// Remove deletes every record for (alias, network) across all entity
// types. Removing a name that is not registered is a no-op.
func (r *Registry) Remove(aliasName, network string) error {
	records, err := r.List(Filter{Network: network})
	if err != nil {
		return err
	}
	for _, rec := range records {
		if rec.Alias != aliasName {
			continue
		}
		key, err := recordKey(rec.Network, rec.Type, rec.Alias)
		if err != nil {
			return err
		}
		if err := r.ns.Delete(key); err != nil {
			return err
		}
	}
	return nil
}

// EnsureAvailable fails with *InUseError if any record on the network
// carries the name, regardless of entity type. It is the guard callers run
// before registering, so an account alias and a token alias cannot collide
// under one name.
func (r *Registry) EnsureAvailable(aliasName, network string) error {
	records, err := r.List(Filter{Network: network})
	if err != nil {
		return err
	}
	for _, rec := range records {
		if rec.Alias == aliasName {
			return &InUseError{Alias: aliasName, Network: network, Type: rec.Type}
		}
	}
	return nil
}

const keySep = "|"

func recordKey(network, entityType, aliasName string) (string, error) {
	for name, v := range map[string]string{"alias": aliasName, "network": network, "type": entityType} {
		if v == "" {
			return "", fmt.Errorf("alias %s cannot be empty", name)
		}
		if strings.Contains(v, keySep) {
			return "", fmt.Errorf("alias %s cannot contain %q", name, keySep)
		}
	}
	return network + keySep + entityType + keySep + aliasName, nil
}
