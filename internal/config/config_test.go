package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadConfig_ServerTimeoutsAreSeconds(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 8080
  read_timeout_seconds: 30
  write_timeout_seconds: 45
storage:
  endpoint: localhost:9000
  bucket: reports
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Server.ReadTimeoutSeconds)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout())
	assert.Equal(t, 45*time.Second, cfg.Server.WriteTimeout())
}

func TestLoadConfig_MissingServerTimeoutsRejected(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 8080
storage:
  endpoint: localhost:9000
  bucket: reports
`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read_timeout_seconds")
}
