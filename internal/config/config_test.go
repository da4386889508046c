package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "testnet", cfg.DefaultNetwork)
	assert.Contains(t, cfg.Networks, "testnet")
	assert.Contains(t, cfg.Networks, "mainnet")
	assert.True(t, cfg.Logging.Redaction)
}

func TestConfig_Validate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		require.NoError(t, DefaultConfig().Validate())
	})

	t.Run("default network must be configured", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.DefaultNetwork = "devnet"
		require.Error(t, cfg.Validate())
	})

	t.Run("network needs a mirror url", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Networks["broken"] = NetworkConfig{}
		require.Error(t, cfg.Validate())
	})
}

func TestLoader_Load(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		loader := NewLoader(filepath.Join(t.TempDir(), "absent.json"))
		cfg, err := loader.Load()
		require.NoError(t, err)
		assert.Equal(t, "testnet", cfg.DefaultNetwork)
		assert.NotEmpty(t, cfg.DataDir)
		assert.NotEmpty(t, cfg.Logging.File)
		assert.NotEmpty(t, cfg.Plugins.Dirs)
	})

	t.Run("file values override defaults", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "ledgerctl.json")
		content := `{
			"data_dir": "` + dir + `",
			"default_network": "local",
			"networks": {"local": {"mirror_url": "http://localhost:5551"}},
			"logging": {"level": "debug"}
		}`
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))

		cfg, err := NewLoader(path).Load()
		require.NoError(t, err)
		assert.Equal(t, "local", cfg.DefaultNetwork)
		assert.Equal(t, "http://localhost:5551", cfg.Networks["local"].MirrorURL)
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Equal(t, filepath.Join(dir, "state.db"), cfg.StatePath())
	})

	t.Run("malformed file is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ledgerctl.json")
		require.NoError(t, os.WriteFile(path, []byte("{nope"), 0600))
		_, err := NewLoader(path).Load()
		require.Error(t, err)
	})

	t.Run("invalid config is rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ledgerctl.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"default_network":"ghost"}`), 0600))
		_, err := NewLoader(path).Load()
		require.Error(t, err)
	})
}
