package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harun/ledgerctl/pkg/alias"
	"github.com/harun/ledgerctl/pkg/ledger"
	"github.com/harun/ledgerctl/pkg/plugin"
	"github.com/harun/ledgerctl/pkg/state"
	"github.com/harun/ledgerctl/pkg/vault"
)

// newTestRoot builds a full command tree over an in-memory platform with
// the builtin plugins mounted.
func newTestRoot(t *testing.T) (*cobra.Command, *plugin.Manager) {
	t.Helper()

	st := state.New(state.NewMemoryBackend(), zerolog.Nop())
	v := vault.New(st, zerolog.Nop())
	platform := plugin.Platform{
		Store:    st,
		Vault:    v,
		Aliases:  alias.New(st, v, zerolog.Nop()),
		Mirror:   ledger.NewMirrorClient("http://mirror.invalid", zerolog.Nop()),
		Executor: ledger.LocalExecutor{},
	}

	manager := plugin.NewManager(platform, zerolog.Nop())
	for _, reg := range builtinRegistrations("testnet") {
		require.NoError(t, manager.Register(reg))
	}
	_, err := manager.InitializeAll(context.Background())
	require.NoError(t, err)

	root := &cobra.Command{Use: "ledgerctl", SilenceUsage: true, SilenceErrors: true}
	require.NoError(t, manager.RegisterCommands(NewCobraSurface(root, zerolog.Nop())))
	root.AddCommand(newPluginCmd(manager))
	return root, manager
}

func run(t *testing.T, root *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestSurface_KeyGenerateRendersTemplate(t *testing.T) {
	root, _ := newTestRoot(t)

	out, err := run(t, root, "key-generate", "--labels", "ops, treasury")
	require.NoError(t, err)
	assert.Contains(t, out, "keyRefId: kr_")
	assert.Contains(t, out, "publicKey: ")
}

func TestSurface_RequiredFlagEnforced(t *testing.T) {
	root, _ := newTestRoot(t)

	_, err := run(t, root, "key-import")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "secret")
}

func TestSurface_AliasRoundTrip(t *testing.T) {
	root, _ := newTestRoot(t)

	out, err := run(t, root, "alias-register", "--alias", "bob", "--entity", "0.0.5")
	require.NoError(t, err)
	assert.Contains(t, out, "bob")

	out, err = run(t, root, "alias-resolve", "--alias", "bob")
	require.NoError(t, err)
	assert.Contains(t, out, "0.0.5")
	assert.Contains(t, out, "testnet")

	// Same name again is refused, regardless of type.
	_, err = run(t, root, "alias-register", "--alias", "bob", "--type", "token", "--entity", "0.0.100")
	require.Error(t, err)
	var inUse *alias.InUseError
	assert.ErrorAs(t, err, &inUse)
}

func TestSurface_OperatorOverwriteSurfacesPrevious(t *testing.T) {
	root, _ := newTestRoot(t)

	out, err := run(t, root, "key-generate")
	require.NoError(t, err)
	ref1 := extractKeyRef(t, out)
	out, err = run(t, root, "key-generate")
	require.NoError(t, err)
	ref2 := extractKeyRef(t, out)

	_, err = run(t, root, "operator-set", "--account", "0.0.5", "--key-ref", ref1)
	require.NoError(t, err)

	out, err = run(t, root, "operator-set", "--account", "0.0.5", "--key-ref", ref2)
	require.NoError(t, err)
	assert.Contains(t, out, ref1) // previous mapping surfaced
	assert.Contains(t, out, ref2)
}

func TestSurface_OperatorSetRejectsUnknownKeyRef(t *testing.T) {
	root, _ := newTestRoot(t)

	_, err := run(t, root, "operator-set", "--account", "0.0.5", "--key-ref", "kr_ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kr_ghost")
}

func TestPluginListCmd(t *testing.T) {
	root, _ := newTestRoot(t)

	out, err := run(t, root, "plugin", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "credentials")
	assert.Contains(t, out, "aliases")
	assert.Contains(t, out, "network")
	assert.Contains(t, out, "ready")
}

func TestPluginShowCmd(t *testing.T) {
	root, _ := newTestRoot(t)

	out, err := run(t, root, "plugin", "show", "credentials")
	require.NoError(t, err)
	assert.Contains(t, out, "credentials:use")
	assert.Contains(t, out, "key-generate")

	_, err = run(t, root, "plugin", "show", "ghost")
	require.Error(t, err)
}

func extractKeyRef(t *testing.T, out string) string {
	t.Helper()
	const marker = "keyRefId: "
	idx := bytes.Index([]byte(out), []byte(marker))
	require.GreaterOrEqual(t, idx, 0)
	rest := out[idx+len(marker):]
	for i := 0; i < len(rest); i++ {
		if rest[i] == '\n' {
			return rest[:i]
		}
	}
	return rest
}
