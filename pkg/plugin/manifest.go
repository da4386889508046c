package plugin

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/Masterminds/semver/v3"
	"github.com/rs/zerolog"
	"github.com/xeipuuv/gojsonschema"
)

// pluginNameRegex validates plugin name format (lowercase alphanumeric with hyphens)
var pluginNameRegex = regexp.MustCompile(`^[a-z0-9-]+$`)

// ManifestValidator validates manifests before registration.
type ManifestValidator struct {
	logger       zerolog.Logger
	schemaLoader gojsonschema.JSONLoader
}

// NewManifestValidator creates a validator using the embedded manifest
// schema.
func NewManifestValidator(logger zerolog.Logger) *ManifestValidator {
	return &ManifestValidator{
		logger:       logger.With().Str("component", "manifest-validator").Logger(),
		schemaLoader: gojsonschema.NewStringLoader(ManifestSchema),
	}
}

// Validate checks the manifest's shape and internal consistency and returns
// the parsed capability set. Any failure is wrapped into a *ManifestError
// by the manager.
func (v *ManifestValidator) Validate(manifest Manifest) ([]Capability, error) {
	if err := v.validateSchema(manifest); err != nil {
		return nil, err
	}
	if err := v.validateIdentity(manifest); err != nil {
		return nil, err
	}
	caps, err := v.parseCapabilities(manifest)
	if err != nil {
		return nil, err
	}
	if err := v.validateCommands(manifest); err != nil {
		return nil, err
	}
	if err := v.validateStateSchemas(manifest, caps); err != nil {
		return nil, err
	}

	v.logger.Debug().
		Str("plugin", manifest.Name).
		Str("version", manifest.Version).
		Int("commands", len(manifest.Commands)).
		Msg("Manifest validated")

	return caps, nil
}

func (v *ManifestValidator) validateSchema(manifest Manifest) error {
	data, err := json.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("manifest is not serializable: %w", err)
	}
	result, err := gojsonschema.Validate(v.schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if !result.Valid() {
		var errMsg string
		for i, verr := range result.Errors() {
			if i > 0 {
				errMsg += "; "
			}
			errMsg += verr.String()
		}
		return fmt.Errorf("schema validation errors: %s", errMsg)
	}
	return nil
}

func (v *ManifestValidator) validateIdentity(manifest Manifest) error {
	if !pluginNameRegex.MatchString(manifest.Name) {
		return fmt.Errorf("invalid plugin name %q (must be lowercase alphanumeric with hyphens)", manifest.Name)
	}
	if _, err := semver.StrictNewVersion(manifest.Version); err != nil {
		return fmt.Errorf("invalid version %q: %w", manifest.Version, err)
	}
	return nil
}

func (v *ManifestValidator) parseCapabilities(manifest Manifest) ([]Capability, error) {
	caps := make([]Capability, 0, len(manifest.Capabilities))
	seen := make(map[string]bool)
	for _, token := range manifest.Capabilities {
		c, err := ParseCapability(token)
		if err != nil {
			return nil, err
		}
		if seen[c.String()] {
			return nil, fmt.Errorf("duplicate capability %q", token)
		}
		seen[c.String()] = true
		caps = append(caps, c)
	}
	return caps, nil
}

func (v *ManifestValidator) validateCommands(manifest Manifest) error {
	names := make(map[string]bool)
	for _, cmd := range manifest.Commands {
		if names[cmd.Name] {
			return fmt.Errorf("duplicate command %q", cmd.Name)
		}
		names[cmd.Name] = true

		optNames := make(map[string]bool)
		for _, opt := range cmd.Options {
			if optNames[opt.Name] {
				return fmt.Errorf("command %q: duplicate option %q", cmd.Name, opt.Name)
			}
			optNames[opt.Name] = true
		}
	}
	return nil
}

// validateStateSchemas enforces the pairing invariant: every namespace
// capability has a schema declaration and every declared namespace has a
// capability. A plugin cannot touch a namespace it did not declare both
// ways.
func (v *ManifestValidator) validateStateSchemas(manifest Manifest, caps []Capability) error {
	granted := make(map[string]bool)
	for _, c := range caps {
		if c.Kind == KindNamespace {
			granted[c.Namespace] = true
		}
	}

	declared := make(map[string]bool)
	for _, schema := range manifest.StateSchemas {
		if declared[schema.Namespace] {
			return fmt.Errorf("duplicate state schema for namespace %q", schema.Namespace)
		}
		declared[schema.Namespace] = true

		if !granted[schema.Namespace] {
			return fmt.Errorf("state schema for namespace %q has no matching %s capability",
				schema.Namespace, namespacePrefix+schema.Namespace)
		}
		if len(schema.Schema) > 0 {
			if _, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schema.Schema)); err != nil {
				return fmt.Errorf("state schema for namespace %q does not compile: %w", schema.Namespace, err)
			}
		}
	}

	for ns := range granted {
		if !declared[ns] {
			return fmt.Errorf("capability %s has no matching state schema declaration", namespacePrefix+ns)
		}
	}
	return nil
}
