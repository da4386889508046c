package cli

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const version = "0.1.0"

var (
	cfgFile  string
	logLevel string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ledgerctl",
	Short: "ledgerctl - plugin-driven ledger operations",
	Long: `ledgerctl is a command-line platform for operating against a distributed
ledger. Business commands are contributed by plugins; each plugin declares
the capabilities it needs and runs against a scoped view of the shared
state store, credential vault, and alias registry.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.ledgerctl/ledgerctl.json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
`)
}

// preParseGlobalFlags scans args for --config and --log-level before the
// full command surface exists. Unknown flags are tolerated wherever they
// appear, so the globals are found even after subcommand flags; cobra
// parses everything for real during Execute.
func preParseGlobalFlags(args []string) (cfg, level string) {
	fs := pflag.NewFlagSet("ledgerctl", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.Usage = func() {}
	fs.StringVar(&cfg, "config", "", "")
	fs.StringVar(&level, "log-level", "", "")
	_ = fs.Parse(args)
	return cfg, level
}

// Execute builds the application, registers all plugin commands, and runs
// the root command. Plugin commands must exist before cobra dispatches, so
// persistent flags are pre-parsed to locate the config file first.
func Execute() error {
	cfgFile, logLevel = preParseGlobalFlags(os.Args[1:])

	app, err := newApp(cfgFile, logLevel)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.Mount(rootCmd); err != nil {
		return err
	}
	return rootCmd.Execute()
}

// GetRootCmd returns the root command for testing
func GetRootCmd() *cobra.Command {
	return rootCmd
}
