package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/harun/ledgerctl/pkg/alias"
	"github.com/harun/ledgerctl/pkg/plugin"
	"github.com/harun/ledgerctl/pkg/vault"
)

// builtinRegistrations returns the plugins that ship with ledgerctl. They
// go through the same manifest validation and capability scoping as any
// third-party bundle; nothing here touches the platform directly.
func builtinRegistrations(defaultNetwork string) []plugin.Registration {
	return []plugin.Registration{
		credentialsPlugin(defaultNetwork),
		aliasPlugin(defaultNetwork),
		networkPlugin(defaultNetwork),
	}
}

func credentialsPlugin(defaultNetwork string) plugin.Registration {
	manifest := plugin.Manifest{
		Name:        "credentials",
		Version:     "1.0.0",
		Description: "Manage vault keys and network operators",
		Capabilities: []string{
			"credentials:use",
		},
		Commands: []plugin.CommandSpec{
			{
				Name:        "key-generate",
				Description: "Generate a key in the vault",
				Options: []plugin.OptionSpec{
					{Name: "labels", Type: plugin.OptionString, Description: "comma-separated labels"},
				},
				Output: &plugin.OutputSpec{
					Template: "keyRefId: {{.KeyRefID}}\npublicKey: {{.PublicKey}}",
				},
			},
			{
				Name:        "key-import",
				Description: "Import a private key into the vault",
				Options: []plugin.OptionSpec{
					{Name: "secret", Type: plugin.OptionString, Required: true, Description: "hex-encoded ed25519 secret"},
					{Name: "labels", Type: plugin.OptionString},
				},
				Output: &plugin.OutputSpec{
					Template: "keyRefId: {{.KeyRefID}}\npublicKey: {{.PublicKey}}",
				},
			},
			{
				Name:        "key-list",
				Description: "List vault key records",
			},
			{
				Name:        "key-remove",
				Description: "Remove a key from the vault",
				Options: []plugin.OptionSpec{
					{Name: "key-ref", Type: plugin.OptionString, Required: true},
				},
			},
			{
				Name:        "operator-set",
				Description: "Set the default signer for a network",
				Options: []plugin.OptionSpec{
					{Name: "network", Type: plugin.OptionString, Default: defaultNetwork},
					{Name: "account", Type: plugin.OptionString, Required: true},
					{Name: "key-ref", Type: plugin.OptionString, Required: true},
				},
			},
			{
				Name:        "operator-show",
				Description: "Show the default signer for a network",
				Options: []plugin.OptionSpec{
					{Name: "network", Type: plugin.OptionString, Default: defaultNetwork},
				},
			},
		},
	}

	handlers := map[string]plugin.Handler{
		"key-generate": func(ctx context.Context, scope *plugin.Scope, opts map[string]any) (any, error) {
			v, err := scope.Vault()
			if err != nil {
				return nil, err
			}
			return v.CreateLocalPrivateKey(splitLabels(opts["labels"]))
		},
		"key-import": func(ctx context.Context, scope *plugin.Scope, opts map[string]any) (any, error) {
			v, err := scope.Vault()
			if err != nil {
				return nil, err
			}
			return v.ImportPrivateKey(opts["secret"].(string), splitLabels(opts["labels"]))
		},
		"key-list": func(ctx context.Context, scope *plugin.Scope, opts map[string]any) (any, error) {
			v, err := scope.Vault()
			if err != nil {
				return nil, err
			}
			return v.List()
		},
		"key-remove": func(ctx context.Context, scope *plugin.Scope, opts map[string]any) (any, error) {
			v, err := scope.Vault()
			if err != nil {
				return nil, err
			}
			return nil, v.Remove(opts["key-ref"].(string))
		},
		"operator-set": func(ctx context.Context, scope *plugin.Scope, opts map[string]any) (any, error) {
			v, err := scope.Vault()
			if err != nil {
				return nil, err
			}
			mapping := vault.OperatorMapping{
				AccountID: opts["account"].(string),
				KeyRefID:  opts["key-ref"].(string),
			}
			if !v.Has(mapping.KeyRefID) {
				return nil, fmt.Errorf("unknown key reference %s", mapping.KeyRefID)
			}
			previous, err := v.SetOperator(opts["network"].(string), mapping)
			if err != nil {
				return nil, err
			}
			return map[string]any{"previous": previous, "current": mapping}, nil
		},
		"operator-show": func(ctx context.Context, scope *plugin.Scope, opts map[string]any) (any, error) {
			v, err := scope.Vault()
			if err != nil {
				return nil, err
			}
			mapping, err := v.GetOperator(opts["network"].(string))
			if err != nil {
				return nil, err
			}
			if mapping == nil {
				return map[string]any{"network": opts["network"], "operator": nil}, nil
			}
			return mapping, nil
		},
	}

	return plugin.Registration{Manifest: manifest, Handlers: handlers}
}

func aliasPlugin(defaultNetwork string) plugin.Registration {
	networkOpt := plugin.OptionSpec{Name: "network", Type: plugin.OptionString, Default: defaultNetwork}

	manifest := plugin.Manifest{
		Name:        "aliases",
		Version:     "1.0.0",
		Description: "Name entities per network",
		Commands: []plugin.CommandSpec{
			{
				Name:        "alias-register",
				Description: "Register an alias for an entity",
				Options: []plugin.OptionSpec{
					{Name: "alias", Type: plugin.OptionString, Required: true},
					networkOpt,
					{Name: "type", Type: plugin.OptionString, Default: alias.TypeAccount},
					{Name: "entity", Type: plugin.OptionString, Required: true},
					{Name: "key-ref", Type: plugin.OptionString},
				},
			},
			{
				Name:        "alias-resolve",
				Description: "Resolve an alias to its entity",
				Options: []plugin.OptionSpec{
					{Name: "alias", Type: plugin.OptionString, Required: true},
					networkOpt,
					{Name: "type", Type: plugin.OptionString, Default: alias.TypeAccount},
				},
			},
			{
				Name:        "alias-list",
				Description: "List aliases",
				Options: []plugin.OptionSpec{
					{Name: "network", Type: plugin.OptionString},
					{Name: "type", Type: plugin.OptionString},
				},
			},
			{
				Name:        "alias-remove",
				Description: "Remove an alias on a network",
				Options: []plugin.OptionSpec{
					{Name: "alias", Type: plugin.OptionString, Required: true},
					networkOpt,
				},
			},
		},
	}

	handlers := map[string]plugin.Handler{
		"alias-register": func(ctx context.Context, scope *plugin.Scope, opts map[string]any) (any, error) {
			record := alias.Record{
				Alias:    opts["alias"].(string),
				Network:  opts["network"].(string),
				Type:     opts["type"].(string),
				EntityID: opts["entity"].(string),
			}
			if ref, _ := opts["key-ref"].(string); ref != "" {
				record.KeyRefID = ref
			}
			if err := scope.Aliases().EnsureAvailable(record.Alias, record.Network); err != nil {
				return nil, err
			}
			if err := scope.Aliases().Register(record); err != nil {
				return nil, err
			}
			return record, nil
		},
		"alias-resolve": func(ctx context.Context, scope *plugin.Scope, opts map[string]any) (any, error) {
			record, err := scope.Aliases().Resolve(
				opts["alias"].(string),
				opts["type"].(string),
				opts["network"].(string),
			)
			if err != nil {
				return nil, err
			}
			if record == nil {
				return nil, fmt.Errorf("alias %q not found on %s", opts["alias"], opts["network"])
			}
			return record, nil
		},
		"alias-list": func(ctx context.Context, scope *plugin.Scope, opts map[string]any) (any, error) {
			network, _ := opts["network"].(string)
			entityType, _ := opts["type"].(string)
			return scope.Aliases().List(alias.Filter{Network: network, Type: entityType})
		},
		"alias-remove": func(ctx context.Context, scope *plugin.Scope, opts map[string]any) (any, error) {
			return nil, scope.Aliases().Remove(opts["alias"].(string), opts["network"].(string))
		},
	}

	return plugin.Registration{Manifest: manifest, Handlers: handlers}
}

func networkPlugin(defaultNetwork string) plugin.Registration {
	manifest := plugin.Manifest{
		Name:        "network",
		Version:     "1.0.0",
		Description: "Read-only network queries",
		Capabilities: []string{
			"network:read",
		},
		Commands: []plugin.CommandSpec{
			{
				Name:        "account-info",
				Description: "Show account info from the mirror",
				Options: []plugin.OptionSpec{
					{Name: "account", Type: plugin.OptionString, Required: true},
				},
			},
			{
				Name:        "topic-messages",
				Description: "Show messages of a topic",
				Options: []plugin.OptionSpec{
					{Name: "topic", Type: plugin.OptionString, Required: true},
					{Name: "limit", Type: plugin.OptionInt, Default: 10},
				},
			},
		},
	}

	handlers := map[string]plugin.Handler{
		"account-info": func(ctx context.Context, scope *plugin.Scope, opts map[string]any) (any, error) {
			mirror, err := scope.Mirror()
			if err != nil {
				return nil, err
			}
			return mirror.AccountInfo(ctx, opts["account"].(string))
		},
		"topic-messages": func(ctx context.Context, scope *plugin.Scope, opts map[string]any) (any, error) {
			mirror, err := scope.Mirror()
			if err != nil {
				return nil, err
			}
			limit, _ := opts["limit"].(int)
			return mirror.TopicMessages(ctx, opts["topic"].(string), limit)
		},
	}

	return plugin.Registration{Manifest: manifest, Handlers: handlers}
}

func splitLabels(v any) []string {
	s, _ := v.(string)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	labels := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			labels = append(labels, trimmed)
		}
	}
	return labels
}
