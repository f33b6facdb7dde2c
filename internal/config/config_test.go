package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProfileFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadProfileOverlaysDefinedKeys(t *testing.T) {
	path := writeProfileFile(t, `
[profiles.prod]
addr = "10.0.0.5:25575"
password = "hunter2"
safe_command = "echo"
timeout_seconds = 5

[profiles.minimal]
addr = "127.0.0.1:25575"
`)

	prod, err := LoadProfile(path, "prod")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.5:25575", prod.Addr)
	assert.Equal(t, "hunter2", prod.Password)
	assert.Equal(t, "echo", prod.SafeCommand)
	assert.Equal(t, 5*time.Second, prod.Timeout)

	// Keys absent from the file keep their defaults.
	minimal, err := LoadProfile(path, "minimal")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:25575", minimal.Addr)
	assert.Equal(t, "", minimal.Password)
	assert.Equal(t, "", minimal.SafeCommand)
	assert.Zero(t, minimal.Timeout)
}

func TestLoadProfileUnknownName(t *testing.T) {
	path := writeProfileFile(t, `
[profiles.prod]
addr = "10.0.0.5:25575"
`)

	_, err := LoadProfile(path, "staging")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `profile "staging" not found`)
}

func TestLoadProfileRejectsNegativeTimeout(t *testing.T) {
	path := writeProfileFile(t, `
[profiles.bad]
addr = "10.0.0.5:25575"
timeout_seconds = -3
`)

	_, err := LoadProfile(path, "bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout_seconds")
}

func TestLoadProfileMissingFile(t *testing.T) {
	_, err := LoadProfile(filepath.Join(t.TempDir(), "absent.toml"), "prod")
	require.Error(t, err)
}

func TestLoadProfileTrimsWhitespace(t *testing.T) {
	path := writeProfileFile(t, `
[profiles.padded]
addr = "  10.0.0.5:25575  "
safe_command = " echo "
`)

	p, err := LoadProfile(path, "padded")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.5:25575", p.Addr)
	assert.Equal(t, "echo", p.SafeCommand)
}
