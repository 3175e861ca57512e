package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"WATCHLIST_PATH", "SCAN_BENCHMARK", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID",
		"OPENAI_API_KEY", "OPENAI_BASE_URL", "HTTPS_PROXY", "SQLITE_PATH",
		"CRON_SCAN", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "watchlist.txt", cfg.Watchlist.Path)
	assert.Equal(t, "DAX", cfg.Scan.Benchmark)
	assert.Equal(t, 300, cfg.Scan.HistoryDays)
	assert.Equal(t, 4, cfg.Scan.Workers)
	assert.Equal(t, "yahoo", cfg.DataSource.Provider)
	assert.Equal(t, "24h", cfg.DataSource.CacheMaxAge)
	assert.Equal(t, "data/screener.db", cfg.Database.SQLitePath)
	assert.Equal(t, "reports", cfg.Reports.Dir)
	assert.Equal(t, "0 30 18 * * 1-5", cfg.Schedule.ScanCron)
	assert.Equal(t, "https://api.openai.com/v1", cfg.OpenAI.BaseURL)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_YAMLFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
watchlist:
  path: lists/eu.txt
scan:
  benchmark: ^GSPC
  history_days: 400
  workers: 8
data_source:
  provider: mock
log:
  level: debug
  format: json
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "lists/eu.txt", cfg.Watchlist.Path)
	assert.Equal(t, "^GSPC", cfg.Scan.Benchmark)
	assert.Equal(t, 400, cfg.Scan.HistoryDays)
	assert.Equal(t, 8, cfg.Scan.Workers)
	assert.Equal(t, "mock", cfg.DataSource.Provider)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("SCAN_BENCHMARK", "^NDX")
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok-123")
	t.Setenv("SQLITE_PATH", "/tmp/other.db")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scan:\n  benchmark: DAX\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "^NDX", cfg.Scan.Benchmark)
	assert.Equal(t, "tok-123", cfg.Telegram.BotToken)
	assert.Equal(t, "/tmp/other.db", cfg.Database.SQLitePath)
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("watchlist: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	cfg.Scan.HistoryDays = 100
	assert.ErrorContains(t, cfg.Validate(), "history_days")

	cfg.Scan.HistoryDays = 300
	cfg.Scan.Workers = -1
	assert.ErrorContains(t, cfg.Validate(), "workers")

	cfg.Scan.Workers = 4
	cfg.DataSource.Provider = "csv"
	assert.ErrorContains(t, cfg.Validate(), "provider")
}
