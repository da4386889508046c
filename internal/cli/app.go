package cli

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/harun/ledgerctl/internal/config"
	"github.com/harun/ledgerctl/internal/logger"
	"github.com/harun/ledgerctl/pkg/alias"
	"github.com/harun/ledgerctl/pkg/ledger"
	"github.com/harun/ledgerctl/pkg/plugin"
	"github.com/harun/ledgerctl/pkg/state"
	"github.com/harun/ledgerctl/pkg/vault"
)

// App wires configuration, logging, the platform services, and the plugin
// manager into one process.
type App struct {
	cfg     *config.Config
	log     *logger.Logger
	store   *state.Store
	manager *plugin.Manager
}

func newApp(configPath, logLevelOverride string) (*App, error) {
	cfg, err := config.NewLoader(configPath).Load()
	if err != nil {
		return nil, err
	}

	logCfg := logger.Config{
		Level:     cfg.Logging.Level,
		File:      cfg.Logging.File,
		Console:   false,
		Redaction: cfg.Logging.Redaction,
	}
	if logLevelOverride != "" {
		logCfg.Level = logLevelOverride
		logCfg.Console = true
	}
	log, err := logger.New(logCfg)
	if err != nil {
		return nil, err
	}
	zl := log.Zerolog()

	backend, err := state.NewSQLiteBackend(cfg.StatePath())
	if err != nil {
		log.Close()
		return nil, err
	}
	store := state.New(backend, zl)

	v := vault.New(store, zl)
	platform := plugin.Platform{
		Store:    store,
		Vault:    v,
		Aliases:  alias.New(store, v, zl),
		Mirror:   ledger.NewMirrorClient(cfg.Networks[cfg.DefaultNetwork].MirrorURL, zl),
		Executor: ledger.LocalExecutor{},
	}

	app := &App{
		cfg:     cfg,
		log:     log,
		store:   store,
		manager: plugin.NewManager(platform, zl),
	}
	if err := app.register(zl); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

// register loads built-in plugins and any manifests found in the
// configured plugin directories. A manifest failure excludes that plugin
// and is logged; a command collision aborts the load.
func (a *App) register(zl zerolog.Logger) error {
	for _, reg := range builtinRegistrations(a.cfg.DefaultNetwork) {
		if err := a.manager.Register(reg); err != nil {
			return err
		}
	}

	src := plugin.NewDirSource(a.cfg.Plugins.Dirs, zl)
	manifests, err := src.Manifests()
	if err != nil {
		return err
	}
	for _, manifest := range manifests {
		// Bundles discovered on disk carry no in-process handlers yet, so
		// only command-less manifests (pure state declarations) can load.
		err := a.manager.Register(plugin.Registration{Manifest: manifest})
		if err == nil {
			continue
		}
		if _, isManifest := err.(*plugin.ManifestError); isManifest {
			zl.Warn().Err(err).Str("plugin", manifest.Name).Msg("Skipping plugin")
			continue
		}
		return err
	}
	return nil
}

// Mount initializes all plugins and binds their commands under root.
func (a *App) Mount(root *cobra.Command) error {
	zl := a.log.Zerolog()

	result, err := a.manager.InitializeAll(context.Background())
	if err != nil {
		return err
	}
	for name, initErr := range result.Failed {
		zl.Error().Err(initErr).Str("plugin", name).Msg("Plugin failed to initialize")
	}

	surface := NewCobraSurface(root, zl)
	if err := a.manager.RegisterCommands(surface); err != nil {
		return err
	}

	root.AddCommand(newPluginCmd(a.manager))
	return nil
}

// Close tears down plugins and releases the store and logger.
func (a *App) Close() {
	if a.manager != nil {
		a.manager.TeardownAll(context.Background())
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			zl := a.log.Zerolog()
			zl.Error().Err(err).Msg("Failed to close state store")
		}
	}
	if a.log != nil {
		a.log.Close()
	}
}
