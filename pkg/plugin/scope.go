package plugin

import (
	"github.com/harun/ledgerctl/pkg/alias"
	"github.com/harun/ledgerctl/pkg/ledger"
	"github.com/harun/ledgerctl/pkg/state"
	"github.com/harun/ledgerctl/pkg/vault"
)

// Platform is the shared handle the manager is constructed with. There are
// no ambient singletons; everything a plugin may touch is threaded through
// here and narrowed per plugin.
type Platform struct {
	Store    *state.Store
	Vault    *vault.Vault
	Aliases  *alias.Registry
	Mirror   *ledger.MirrorClient
	Executor ledger.Executor
}

// Scope is the capability-scoped view of the platform built for one
// plugin. Handlers receive it through a closure; it exposes only what the
// plugin's manifest authorizes. Every accessor also checks its grant
// defensively, so even a scope handed around by accident cannot widen
// access.
type Scope struct {
	pluginName  string
	namespaces  map[string]*state.Namespace
	aliases     *alias.Registry
	vault       *vault.Vault
	mirror      *ledger.MirrorClient
	executor    ledger.Executor
	credentials bool
	networkRead bool
	txExecution bool
}

func newScope(platform Platform, manifest Manifest, caps []Capability) *Scope {
	s := &Scope{
		pluginName: manifest.Name,
		namespaces: make(map[string]*state.Namespace),
		aliases:    platform.Aliases,
	}
	for _, c := range caps {
		switch {
		case c.Kind == KindNamespace:
			s.namespaces[c.Namespace] = platform.Store.Namespace(c.Namespace)
		case c.Kind == KindNetworkRead:
			s.networkRead = true
			s.mirror = platform.Mirror
		case c.Kind == KindNetworkWrite, c.Kind == KindTxExecutionUse:
			s.txExecution = true
			s.executor = platform.Executor
		}
		if c.grantsCredentials() {
			s.credentials = true
			s.vault = platform.Vault
		}
	}
	return s
}

// PluginName returns the owning plugin's name.
func (s *Scope) PluginName() string { return s.pluginName }

// Namespace returns the façade for one of the plugin's granted namespaces.
// Asking for an undeclared namespace fails with *NamespaceDeniedError.
func (s *Scope) Namespace(name string) (*state.Namespace, error) {
	ns, ok := s.namespaces[name]
	if !ok {
		return nil, &NamespaceDeniedError{Plugin: s.pluginName, Namespace: name}
	}
	return ns, nil
}

// Namespaces returns the names of all granted namespaces.
func (s *Scope) Namespaces() []string {
	names := make([]string, 0, len(s.namespaces))
	for name := range s.namespaces {
		names = append(names, name)
	}
	return names
}

// Aliases returns the alias registry. Aliases are shared naming fabric,
// available to every plugin.
func (s *Scope) Aliases() *alias.Registry { return s.aliases }

// Vault returns the credential vault if the plugin holds a credentials,
// signing, or tx-execution capability.
func (s *Scope) Vault() (*vault.Vault, error) {
	if !s.credentials || s.vault == nil {
		return nil, &CapabilityDeniedError{Plugin: s.pluginName, Capability: string(KindCredentialsUse)}
	}
	return s.vault, nil
}

// Mirror returns the read-only query client, gated on network:read.
func (s *Scope) Mirror() (*ledger.MirrorClient, error) {
	if !s.networkRead || s.mirror == nil {
		return nil, &CapabilityDeniedError{Plugin: s.pluginName, Capability: string(KindNetworkRead)}
	}
	return s.mirror, nil
}

// Executor returns the signing/execution collaborator, gated on
// network:write or tx-execution:use.
func (s *Scope) Executor() (ledger.Executor, error) {
	if !s.txExecution || s.executor == nil {
		return nil, &CapabilityDeniedError{Plugin: s.pluginName, Capability: string(KindNetworkWrite)}
	}
	return s.executor, nil
}
