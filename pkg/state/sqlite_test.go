package state

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteBackend_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	backend, err := NewSQLiteBackend(path)
	require.NoError(t, err)

	st := New(backend, zerolog.Nop())
	require.NoError(t, st.Set("accounts", "b", testRecord{Name: "second"}))
	require.NoError(t, st.Set("accounts", "a", testRecord{Name: "first"}))
	require.NoError(t, st.Set("tokens", "t", testRecord{Name: "token"}))
	require.NoError(t, st.Close())

	backend, err = NewSQLiteBackend(path)
	require.NoError(t, err)
	st = New(backend, zerolog.Nop())
	defer st.Close()

	ns := st.Namespace("accounts")
	records, err := List[testRecord](ns)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "second", records[0].Name)
	assert.Equal(t, "first", records[1].Name)

	got, ok, err := Get[testRecord](st.Namespace("tokens"), "t")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "token", got.Name)
}

func TestSQLiteBackend_OverwriteKeepsPosition(t *testing.T) {
	backend, err := NewSQLiteBackend(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	defer backend.Close()

	require.NoError(t, backend.Set("ns", "a", []byte(`"a1"`)))
	require.NoError(t, backend.Set("ns", "b", []byte(`"b1"`)))
	require.NoError(t, backend.Set("ns", "a", []byte(`"a2"`)))

	entries, err := backend.List("ns")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].Key)
	assert.Equal(t, `"a2"`, string(entries[0].Value))
	assert.Equal(t, "b", entries[1].Key)
}

func TestSQLiteBackend_ClearIsNamespaceLocal(t *testing.T) {
	backend, err := NewSQLiteBackend(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	defer backend.Close()

	require.NoError(t, backend.Set("one", "k", []byte("1")))
	require.NoError(t, backend.Set("two", "k", []byte("2")))
	require.NoError(t, backend.Clear("one"))

	entries, err := backend.List("one")
	require.NoError(t, err)
	assert.Empty(t, entries)

	entries, err = backend.List("two")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
