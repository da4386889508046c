package plugin

import "fmt"

// ManifestError reports a manifest that failed validation. It is fatal to
// the offending plugin only.
type ManifestError struct {
	Plugin string
	Reason string
}

func (e *ManifestError) Error() string {
	return fmt.Sprintf("plugin %q: invalid manifest: %s", e.Plugin, e.Reason)
}

// CommandCollisionError reports two plugins declaring the same command
// name. Ambiguous dispatch is worse than refusing to start, so this is
// fatal to the whole manager.
type CommandCollisionError struct {
	Command  string
	Plugin   string
	Existing string
}

func (e *CommandCollisionError) Error() string {
	return fmt.Sprintf("command %q of plugin %q collides with plugin %q", e.Command, e.Plugin, e.Existing)
}

// NamespaceDeniedError reports an access attempt outside a plugin's granted
// namespaces. The scope construction makes this structurally impossible for
// well-behaved callers; it exists as a defensive check.
type NamespaceDeniedError struct {
	Plugin    string
	Namespace string
}

func (e *NamespaceDeniedError) Error() string {
	return fmt.Sprintf("plugin %q has no capability for namespace %q", e.Plugin, e.Namespace)
}

// CapabilityDeniedError reports use of a service the plugin's manifest does
// not authorize.
type CapabilityDeniedError struct {
	Plugin     string
	Capability string
}

func (e *CapabilityDeniedError) Error() string {
	return fmt.Sprintf("plugin %q lacks capability %q", e.Plugin, e.Capability)
}
