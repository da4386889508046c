package plugin

import (
	"context"
	"encoding/json"
)

// PluginState represents the lifecycle state of a registered plugin.
type PluginState string

const (
	StatePending  PluginState = "pending"
	StateReady    PluginState = "ready"
	StateFailed   PluginState = "failed"
	StateTornDown PluginState = "torn-down"
)

// OptionType enumerates the value types a command option can declare.
type OptionType string

const (
	OptionString OptionType = "string"
	OptionInt    OptionType = "int"
	OptionBool   OptionType = "bool"
)

// OptionSpec declares one option of a command.
type OptionSpec struct {
	Name        string     `json:"name"`
	Type        OptionType `json:"type"`
	Required    bool       `json:"required,omitempty"`
	Default     any        `json:"default,omitempty"`
	Description string     `json:"description,omitempty"`
}

// OutputSpec is a command's optional output contract: a schema describing
// the result shape and a human-readable template the surface may render.
// The core never renders anything itself.
type OutputSpec struct {
	Schema   json.RawMessage `json:"schema,omitempty"`
	Template string          `json:"template,omitempty"`
}

// CommandSpec declares one command contributed by a plugin. Command names
// are unique across the whole surface; specs are immutable once registered.
type CommandSpec struct {
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Options     []OptionSpec `json:"options,omitempty"`
	Output      *OutputSpec  `json:"output,omitempty"`
}

// StateSchema declares a namespace a plugin stores data in, together with
// the schema its records are validated against.
type StateSchema struct {
	Namespace     string          `json:"namespace"`
	SchemaVersion int             `json:"schemaVersion"`
	Schema        json.RawMessage `json:"schema,omitempty"`
	Scope         string          `json:"scope,omitempty"`
}

// Manifest is a plugin's declaration of identity, capabilities, commands,
// and state namespaces. Manifests arrive as in-memory structures; how they
// were loaded (file, embedded, generated) is a source concern.
type Manifest struct {
	Name         string        `json:"name"`
	Version      string        `json:"version"`
	Description  string        `json:"description,omitempty"`
	Author       string        `json:"author,omitempty"`
	Capabilities []string      `json:"capabilities,omitempty"`
	Commands     []CommandSpec `json:"commands,omitempty"`
	StateSchemas []StateSchema `json:"stateSchemas,omitempty"`
}

// Handler executes one command invocation. It receives the plugin's scope
// and the parsed options, and returns the result object the surface renders
// against the command's output contract.
type Handler func(ctx context.Context, scope *Scope, opts map[string]any) (any, error)

// Hooks are a plugin's lifecycle callbacks. Both are optional.
type Hooks struct {
	Init     func(ctx context.Context, scope *Scope) error
	Teardown func(ctx context.Context) error
}

// Registration pairs a manifest with its implementation: lifecycle hooks
// and one handler per declared command.
type Registration struct {
	Manifest Manifest
	Hooks    Hooks
	Handlers map[string]Handler
}

// BoundCommand is a command ready for the CLI surface: the spec plus a
// runner closed over the owning plugin's scope.
type BoundCommand struct {
	Plugin string
	Spec   CommandSpec
	Run    func(ctx context.Context, opts map[string]any) (any, error)
}

// CommandSurface is the CLI boundary the manager registers commands into.
// The surface owns argument parsing and output rendering.
type CommandSurface interface {
	AddCommand(cmd BoundCommand) error
}

// InitResult reports the outcome of initializing all pending plugins.
type InitResult struct {
	Initialized []string
	Failed      map[string]error
}
