package plugin

import (
	"fmt"
	"strings"
)

// CapabilityKind enumerates the closed set of capability kinds. Capability
// tokens outside this set fail to parse at registration, so a misspelled
// token can never silently grant nothing.
type CapabilityKind string

const (
	KindNamespace      CapabilityKind = "state:namespace"
	KindNetworkRead    CapabilityKind = "network:read"
	KindNetworkWrite   CapabilityKind = "network:write"
	KindCredentialsUse CapabilityKind = "credentials:use"
	KindSigningUse     CapabilityKind = "signing:use"
	KindTxExecutionUse CapabilityKind = "tx-execution:use"
)

// Capability is a parsed capability token. Namespace is set only for
// KindNamespace.
type Capability struct {
	Kind      CapabilityKind
	Namespace string
}

// NamespaceCapability builds the capability granting access to one state
// namespace.
func NamespaceCapability(namespace string) Capability {
	return Capability{Kind: KindNamespace, Namespace: namespace}
}

const namespacePrefix = string(KindNamespace) + ":"

// ParseCapability parses a manifest token into a typed capability.
func ParseCapability(token string) (Capability, error) {
	if ns, ok := strings.CutPrefix(token, namespacePrefix); ok {
		if ns == "" {
			return Capability{}, fmt.Errorf("capability %q names no namespace", token)
		}
		return NamespaceCapability(ns), nil
	}
	switch CapabilityKind(token) {
	case KindNetworkRead, KindNetworkWrite, KindCredentialsUse, KindSigningUse, KindTxExecutionUse:
		return Capability{Kind: CapabilityKind(token)}, nil
	}
	return Capability{}, fmt.Errorf("unrecognized capability token %q", token)
}

// String renders the capability back into token form.
func (c Capability) String() string {
	if c.Kind == KindNamespace {
		return namespacePrefix + c.Namespace
	}
	return string(c.Kind)
}

// grantsCredentials reports whether the capability authorizes use of the
// credential vault.
func (c Capability) grantsCredentials() bool {
	switch c.Kind {
	case KindCredentialsUse, KindSigningUse, KindTxExecutionUse:
		return true
	}
	return false
}
