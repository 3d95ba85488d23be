package app

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tecnojuy/aula/internal/session"
)

func TestNewEnv_WiresDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	var out bytes.Buffer
	nav := &session.RecordingNavigator{}
	env, err := NewEnv(EnvOptions{ConfigPath: filepath.Join(home, "missing.toml"), Output: &out, Navigator: nav})
	require.NoError(t, err)
	defer func() { _ = env.Close() }()

	assert.False(t, env.Resolver.Dev())
	assert.NotNil(t, env.Client)
	assert.NotNil(t, env.Uploader)
	assert.False(t, env.Session.Snapshot().Authenticated())

	require.NoError(t, env.Session.Login())
	assert.Equal(t, []string{env.Resolver.LoginURL()}, nav.Targets())
}

func TestNewEnv_FileLoggingAndDevOrigin(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	logPath := filepath.Join(home, "logs", "aula.log")
	cfgPath := filepath.Join(home, "config.toml")
	cfg := "origin = \"http://localhost:4321\"\nlog_path = \"" + logPath + "\"\nlog_level = \"debug\"\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))

	env, err := NewEnv(EnvOptions{ConfigPath: cfgPath, LogToFile: true})
	require.NoError(t, err)
	assert.True(t, env.Resolver.Dev())
	assert.Equal(t, "http://localhost:4321/api/auth/google/login", env.Resolver.LoginURL())
	require.NoError(t, env.Close())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "environment ready")
}

func TestNewEnv_BadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("api_base = "), 0o600))
	_, err := NewEnv(EnvOptions{ConfigPath: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}
