package plugin

import (
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validManifest() Manifest {
	return Manifest{
		Name:         "account-tools",
		Version:      "1.0.0",
		Capabilities: []string{"state:namespace:acct", "network:read"},
		Commands: []CommandSpec{
			{
				Name: "account-list",
				Options: []OptionSpec{
					{Name: "network", Type: OptionString, Required: true},
				},
			},
		},
		StateSchemas: []StateSchema{
			{
				Namespace:     "acct",
				SchemaVersion: 1,
				Schema:        json.RawMessage(`{"type":"object","required":["entityId"]}`),
			},
		},
	}
}

func TestManifestValidator_Validate(t *testing.T) {
	v := NewManifestValidator(zerolog.Nop())

	t.Run("accepts a well-formed manifest", func(t *testing.T) {
		caps, err := v.Validate(validManifest())
		require.NoError(t, err)
		assert.Len(t, caps, 2)
		assert.Equal(t, NamespaceCapability("acct"), caps[0])
	})

	t.Run("rejects invalid plugin name", func(t *testing.T) {
		m := validManifest()
		m.Name = "Account Tools"
		_, err := v.Validate(m)
		require.Error(t, err)
	})

	t.Run("rejects non-semver version", func(t *testing.T) {
		m := validManifest()
		m.Version = "1.0"
		_, err := v.Validate(m)
		require.Error(t, err)
	})

	t.Run("rejects unrecognized capability token", func(t *testing.T) {
		m := validManifest()
		m.Capabilities = append(m.Capabilities, "process:spawn")
		_, err := v.Validate(m)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "process:spawn")
	})

	t.Run("rejects duplicate capability", func(t *testing.T) {
		m := validManifest()
		m.Capabilities = append(m.Capabilities, "network:read")
		_, err := v.Validate(m)
		require.Error(t, err)
	})

	t.Run("rejects duplicate command names", func(t *testing.T) {
		m := validManifest()
		m.Commands = append(m.Commands, CommandSpec{Name: "account-list"})
		_, err := v.Validate(m)
		require.Error(t, err)
	})

	t.Run("rejects duplicate option names", func(t *testing.T) {
		m := validManifest()
		m.Commands[0].Options = append(m.Commands[0].Options, OptionSpec{Name: "network", Type: OptionBool})
		_, err := v.Validate(m)
		require.Error(t, err)
	})

	t.Run("namespace capability without state schema is rejected", func(t *testing.T) {
		m := validManifest()
		m.StateSchemas = nil
		_, err := v.Validate(m)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "state schema")
	})

	t.Run("state schema without matching capability is rejected", func(t *testing.T) {
		m := validManifest()
		m.StateSchemas = append(m.StateSchemas, StateSchema{Namespace: "tokens", SchemaVersion: 1})
		_, err := v.Validate(m)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "tokens")
	})

	t.Run("state schema that does not compile is rejected", func(t *testing.T) {
		m := validManifest()
		m.StateSchemas[0].Schema = json.RawMessage(`{"type":42}`)
		_, err := v.Validate(m)
		require.Error(t, err)
	})

	t.Run("state schema may omit the validation schema", func(t *testing.T) {
		m := validManifest()
		m.StateSchemas[0].Schema = nil
		_, err := v.Validate(m)
		require.NoError(t, err)
	})

	t.Run("rejects invalid option type via schema", func(t *testing.T) {
		m := validManifest()
		m.Commands[0].Options[0].Type = "float"
		_, err := v.Validate(m)
		require.Error(t, err)
	})
}
