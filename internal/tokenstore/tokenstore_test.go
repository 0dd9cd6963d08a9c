package tokenstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFile_SaveLoadClear(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "state")
	st := NewFile(dir)

	tok, err := st.Load()
	require.NoError(t, err)
	require.Empty(t, tok, "missing file means no token")

	require.NoError(t, st.Save("abc123"))
	tok, err = st.Load()
	require.NoError(t, err)
	require.Equal(t, "abc123", tok)

	fi, err := os.Stat(st.Path())
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), fi.Mode().Perm())

	require.NoError(t, st.Clear())
	require.NoError(t, st.Clear(), "clear is idempotent")
	tok, err = st.Load()
	require.NoError(t, err)
	require.Empty(t, tok)
}

func TestFile_SaveEmptyClears(t *testing.T) {
	t.Parallel()
	st := NewFile(t.TempDir())
	require.NoError(t, st.Save("x"))
	require.NoError(t, st.Save(""))
	_, err := os.Stat(st.Path())
	require.True(t, os.IsNotExist(err))
}

func TestFile_CorruptFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("{not json"), 0o600))
	_, err := NewFile(dir).Load()
	require.Error(t, err)
}

func TestDefaultDir(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/tmp/state")
	require.Equal(t, filepath.Join("/tmp/state", "staffdesk"), DefaultDir())

	t.Setenv("XDG_STATE_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	require.Equal(t, filepath.Join("/tmp/cfg", "staffdesk"), DefaultDir())
}

func TestMemory(t *testing.T) {
	t.Parallel()
	m := NewMemory("seed")
	tok, _ := m.Load()
	require.Equal(t, "seed", tok)
	require.NoError(t, m.Clear())
	tok, _ = m.Load()
	require.Empty(t, tok)
}
