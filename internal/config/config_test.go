package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvAPIKey, EnvBaseURL, EnvBoardID, EnvTimeout, EnvLedger, EnvLogLevel} {
		t.Setenv(k, "")
	}
	t.Chdir(t.TempDir())
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://kanbanize.com/index.php/api/kanbanize", cfg.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Timeout.Duration)
	assert.True(t, errors.Is(cfg.Validate(), ErrMissingAPIKey))
}

func TestLoadTOML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "sync.toml", `
api_key = "from-file"
board_id = "5"
timeout = "30s"
log_level = "debug"
ledger_path = "/tmp/ledger.db"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "from-file", cfg.APIKey)
	assert.Equal(t, "5", cfg.BoardID)
	assert.Equal(t, 30*time.Second, cfg.Timeout.Duration)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/ledger.db", cfg.LedgerPath)
}

func TestLoadYAML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "sync.yaml", "api_key: yaml-key\nbase_url: http://localhost:9000/api\ntimeout: 2m\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "yaml-key", cfg.APIKey)
	assert.Equal(t, "http://localhost:9000/api", cfg.BaseURL)
	assert.Equal(t, 2*time.Minute, cfg.Timeout.Duration)
}

func TestLoadUnsupportedFormat(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeFile(t, "sync.ini", "api_key=x"))
	assert.ErrorContains(t, err, "unsupported config format")
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "sync.toml", "api_key = \"from-file\"\nboard_id = \"5\"\n")
	t.Setenv(EnvAPIKey, "from-env")
	t.Setenv(EnvTimeout, "1s")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.APIKey)
	assert.Equal(t, "5", cfg.BoardID)
	assert.Equal(t, time.Second, cfg.Timeout.Duration)
}

func TestInvalidTimeoutEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvTimeout, "soon")

	_, err := Load("")
	assert.ErrorContains(t, err, EnvTimeout)
}

func TestDotEnv(t *testing.T) {
	clearEnv(t)
	os.Unsetenv(EnvAPIKey)
	os.Unsetenv(EnvBoardID)
	require.NoError(t, os.WriteFile(".env", []byte(EnvAPIKey+"=dotenv-key\n"+EnvBoardID+"=9\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "dotenv-key", cfg.APIKey)
	assert.Equal(t, "9", cfg.BoardID)
}
