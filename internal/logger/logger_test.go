package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "ledgerctl.log")

	l, err := New(Config{Level: "debug", File: path, Console: false, Redaction: true})
	require.NoError(t, err)

	zl := l.Zerolog()
	zl.Info().Str("component", "test").Msg("hello")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}

func TestNew_RedactsSecrets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledgerctl.log")

	l, err := New(Config{Level: "info", File: path, Console: false, Redaction: true})
	require.NoError(t, err)

	seed := strings.Repeat("ab", 32)
	zl := l.Zerolog()
	zl.Info().Str("imported", seed).Msg("import")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), seed)
	assert.Contains(t, string(data), "[REDACTED]")
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	l, err := New(Config{Level: "nonsense", Console: false})
	require.NoError(t, err)
	defer l.Close()

	assert.Equal(t, "info", l.Zerolog().GetLevel().String())
}
