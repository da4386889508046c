package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedactor_Redact(t *testing.T) {
	r := NewRedactor()

	tests := []struct {
		name  string
		input string
		leak  string
	}{
		{
			name:  "hex seed",
			input: "imported key " + strings.Repeat("ab", 32),
			leak:  strings.Repeat("ab", 32),
		},
		{
			name:  "hex private key",
			input: "raw " + strings.Repeat("cd", 64),
			leak:  strings.Repeat("cd", 64),
		},
		{
			name:  "privateKey field",
			input: `{"privateKey":"302e0201"}`,
			leak:  "302e0201",
		},
		{
			name:  "secret field",
			input: `secret=topsecret123`,
			leak:  "topsecret123",
		},
		{
			name:  "bearer token",
			input: "Authorization: Bearer abc.def.ghi",
			leak:  "abc.def.ghi",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := r.Redact(tt.input)
			assert.NotContains(t, out, tt.leak)
			assert.Contains(t, out, "[REDACTED]")
		})
	}
}

func TestRedactor_LeavesOrdinaryOutputAlone(t *testing.T) {
	r := NewRedactor()
	in := `{"level":"info","component":"vault","keyRefId":"kr_V1StGXR8_Z5jdHi6B-myT","message":"Stored credential"}`
	assert.Equal(t, in, r.Redact(in))
}

func TestRedactor_Wrap(t *testing.T) {
	var buf bytes.Buffer
	w := NewRedactor().Wrap(&buf)

	payload := "seed " + strings.Repeat("ef", 32) + "\n"
	n, err := w.Write([]byte(payload))
	require.NoError(t, err)
	assert.Equal(t, len(payload), n)
	assert.NotContains(t, buf.String(), strings.Repeat("ef", 32))
}

func TestRedactor_AddPattern(t *testing.T) {
	r := NewRedactor()
	require.NoError(t, r.AddPattern(`opaque-[0-9]+`))
	assert.NotContains(t, r.Redact("value opaque-12345"), "opaque-12345")

	require.Error(t, r.AddPattern(`[unclosed`))
}
