package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harun/ledgerctl/pkg/plugin"
)

// newPluginCmd builds the introspection command group for the plugin
// runtime itself.
func newPluginCmd(manager *plugin.Manager) *cobra.Command {
	pluginCmd := &cobra.Command{
		Use:   "plugin",
		Short: "Inspect the plugin runtime",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List registered plugins and their state",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tVERSION\tSTATE\tCOMMANDS\tNAMESPACES")
			for _, p := range manager.Plugins() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n",
					p.Manifest.Name,
					p.Manifest.Version,
					p.State,
					len(p.Manifest.Commands),
					len(p.Scope.Namespaces()),
				)
			}
			return w.Flush()
		},
	}

	showCmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show one plugin's manifest details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ok := manager.Get(args[0])
			if !ok {
				return fmt.Errorf("plugin %q not registered", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "name: %s\nversion: %s\nstate: %s\n",
				p.Manifest.Name, p.Manifest.Version, p.State)
			if p.LastErr != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "error: %v\n", p.LastErr)
			}
			if len(p.Manifest.Capabilities) > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "capabilities:")
				for _, c := range p.Manifest.Capabilities {
					fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", c)
				}
			}
			for _, spec := range p.Manifest.Commands {
				fmt.Fprintf(cmd.OutOrStdout(), "command: %s\n", spec.Name)
			}
			return nil
		},
	}

	pluginCmd.AddCommand(listCmd, showCmd)
	return pluginCmd
}
