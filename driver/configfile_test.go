package driver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mqss-project/qdmi-go/qdmi"
)

func TestParseConfigFileAcceptsPathsUnderCWD(t *testing.T) {
	dir := t.TempDir()
	libPath := filepath.Join(dir, "device.so")
	require.NoError(t, os.WriteFile(libPath, []byte{}, 0o644))

	confPath := filepath.Join(dir, "qdmi.conf")
	conf := "# comment\n" + libPath + " read_write\n"
	require.NoError(t, os.WriteFile(confPath, []byte(conf), 0o644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })

	entries, err := ParseConfigFile(confPath)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, qdmi.ModeReadWrite, entries[0].Mode)
}

func TestParseConfigFileRejectsOutsideAllowedRoots(t *testing.T) {
	confPath := filepath.Join(t.TempDir(), "qdmi.conf")
	require.NoError(t, os.WriteFile(confPath, []byte("/etc/passwd read_only\n"), 0o644))

	entries, err := ParseConfigFile(confPath)
	require.NoError(t, err)
	assert.Empty(t, entries, "a path outside cwd/home must be skipped, not returned")
}

func TestParseConfigFileSkipsUnknownModeKeyword(t *testing.T) {
	dir := t.TempDir()
	libPath := filepath.Join(dir, "device.so")
	require.NoError(t, os.WriteFile(libPath, []byte{}, 0o644))

	confPath := filepath.Join(dir, "qdmi.conf")
	require.NoError(t, os.WriteFile(confPath, []byte(libPath+" bogus_mode\n"), 0o644))

	entries, err := ParseConfigFile(confPath)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
