package plugin

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// RegisteredPlugin tracks one plugin through its lifecycle.
type RegisteredPlugin struct {
	Manifest Manifest
	State    PluginState
	Scope    *Scope
	LastErr  error

	hooks    Hooks
	handlers map[string]Handler
}

// Manager registers plugins, drives their lifecycle, and binds their
// commands to the CLI surface under an isolation boundary.
type Manager struct {
	platform  Platform
	logger    zerolog.Logger
	validator *ManifestValidator

	plugins  []*RegisteredPlugin
	byName   map[string]*RegisteredPlugin
	commands map[string]string // command name -> owning plugin
	fatal    error
}

// NewManager creates a manager over the shared platform handle.
func NewManager(platform Platform, logger zerolog.Logger) *Manager {
	return &Manager{
		platform:  platform,
		logger:    logger.With().Str("component", "plugin-manager").Logger(),
		validator: NewManifestValidator(logger),
		byName:    make(map[string]*RegisteredPlugin),
		commands:  make(map[string]string),
	}
}

// Register validates a registration and stores the plugin as pending. A
// manifest failure returns *ManifestError and affects only this plugin. A
// command name collision returns *CommandCollisionError and poisons the
// whole manager: dispatch would be ambiguous, so the load must not proceed.
func (m *Manager) Register(reg Registration) error {
	if m.fatal != nil {
		return m.fatal
	}
	name := reg.Manifest.Name

	if _, exists := m.byName[name]; exists {
		return &ManifestError{Plugin: name, Reason: "plugin name already registered"}
	}

	caps, err := m.validator.Validate(reg.Manifest)
	if err != nil {
		return &ManifestError{Plugin: name, Reason: err.Error()}
	}

	if err := m.checkHandlers(reg); err != nil {
		return &ManifestError{Plugin: name, Reason: err.Error()}
	}

	for _, cmd := range reg.Manifest.Commands {
		if owner, taken := m.commands[cmd.Name]; taken {
			collision := &CommandCollisionError{Command: cmd.Name, Plugin: name, Existing: owner}
			m.fatal = collision
			return collision
		}
	}
	for _, cmd := range reg.Manifest.Commands {
		m.commands[cmd.Name] = name
	}

	p := &RegisteredPlugin{
		Manifest: reg.Manifest,
		State:    StatePending,
		Scope:    newScope(m.platform, reg.Manifest, caps),
		hooks:    reg.Hooks,
		handlers: reg.Handlers,
	}
	m.plugins = append(m.plugins, p)
	m.byName[name] = p

	m.logger.Info().
		Str("plugin", name).
		Str("version", reg.Manifest.Version).
		Int("commands", len(reg.Manifest.Commands)).
		Msg("Plugin registered")

	return nil
}

func (m *Manager) checkHandlers(reg Registration) error {
	for _, cmd := range reg.Manifest.Commands {
		if _, ok := reg.Handlers[cmd.Name]; !ok {
			return fmt.Errorf("command %q has no handler", cmd.Name)
		}
	}
	for name := range reg.Handlers {
		found := false
		for _, cmd := range reg.Manifest.Commands {
			if cmd.Name == name {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("handler %q matches no declared command", name)
		}
	}
	return nil
}

// InitializeAll runs each pending plugin's init hook in registration
// order. A failing hook marks that plugin failed and excludes it from
// command registration, but the remaining plugins are still attempted;
// all failures are reported together in the result.
func (m *Manager) InitializeAll(ctx context.Context) (*InitResult, error) {
	if m.fatal != nil {
		return nil, m.fatal
	}
	result := &InitResult{Failed: make(map[string]error)}

	for _, p := range m.plugins {
		if p.State != StatePending {
			continue
		}
		if p.hooks.Init != nil {
			if err := p.hooks.Init(ctx, p.Scope); err != nil {
				p.State = StateFailed
				p.LastErr = err
				result.Failed[p.Manifest.Name] = err
				m.logger.Error().Err(err).Str("plugin", p.Manifest.Name).Msg("Plugin init failed")
				continue
			}
		}
		p.State = StateReady
		result.Initialized = append(result.Initialized, p.Manifest.Name)
	}

	m.logger.Info().
		Int("initialized", len(result.Initialized)).
		Int("failed", len(result.Failed)).
		Msg("Plugin initialization complete")

	return result, nil
}

// RegisterCommands binds every command of every ready plugin to the
// surface. The runner closes over the plugin's scope, so a handler can
// only ever see the services its capabilities authorize.
func (m *Manager) RegisterCommands(surface CommandSurface) error {
	if m.fatal != nil {
		return m.fatal
	}
	for _, p := range m.plugins {
		if p.State != StateReady {
			continue
		}
		scope := p.Scope
		for _, cmd := range p.Manifest.Commands {
			handler := p.handlers[cmd.Name]
			bound := BoundCommand{
				Plugin: p.Manifest.Name,
				Spec:   cmd,
				Run: func(ctx context.Context, opts map[string]any) (any, error) {
					return handler(ctx, scope, opts)
				},
			}
			if err := surface.AddCommand(bound); err != nil {
				return fmt.Errorf("failed to bind command %q of plugin %q: %w", cmd.Name, p.Manifest.Name, err)
			}
		}
	}
	return nil
}

// TeardownAll runs teardown hooks in reverse registration order. Teardown
// errors are logged, not propagated; shutdown proceeds best-effort.
func (m *Manager) TeardownAll(ctx context.Context) {
	for i := len(m.plugins) - 1; i >= 0; i-- {
		p := m.plugins[i]
		if p.State != StateReady {
			continue
		}
		if p.hooks.Teardown != nil {
			if err := p.hooks.Teardown(ctx); err != nil {
				m.logger.Error().Err(err).Str("plugin", p.Manifest.Name).Msg("Plugin teardown failed")
			}
		}
		p.State = StateTornDown
	}
}

// Plugins returns all registered plugins in registration order.
func (m *Manager) Plugins() []*RegisteredPlugin {
	out := make([]*RegisteredPlugin, len(m.plugins))
	copy(out, m.plugins)
	return out
}

// Get returns a registered plugin by name.
func (m *Manager) Get(name string) (*RegisteredPlugin, bool) {
	p, ok := m.byName[name]
	return p, ok
}
