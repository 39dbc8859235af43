package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "database:\n  driver: sqlite\n  database: \"file::memory:\"\n")

	cfg, err := Load("", path)
	require.NoError(t, err)

	assert.Equal(t, "0 2 * * *", cfg.Scheduler.ReminderCron)
	assert.Equal(t, "0 3 * * *", cfg.Scheduler.ExpirationCron)
	assert.Equal(t, "UTC", cfg.Scheduler.Timezone)
	assert.Equal(t, 30*time.Minute, cfg.Scheduler.PassTimeout)
	assert.Equal(t, 4, cfg.Reconciler.Workers)
	assert.Equal(t, 15*time.Minute, cfg.Reconciler.ReminderLease)
	assert.Equal(t, 1, cfg.Reconciler.ReminderWindowMinDays)
	assert.Equal(t, 7, cfg.Reconciler.ReminderWindowMaxDays)
	assert.False(t, cfg.Redis.Enabled)
	assert.Same(t, cfg, Get())
}

func TestLoad_FileOverridesAndEnvMode(t *testing.T) {
	path := writeConfig(t, `
database:
  driver: sqlite
  database: leadhub.db
reconciler:
  workers: 8
  item_timeout: 5s
scheduler:
  reminder_cron: "30 2 * * *"
`)

	cfg, err := Load("production", path)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Reconciler.Workers)
	assert.Equal(t, 5*time.Second, cfg.Reconciler.ItemTimeout)
	assert.Equal(t, "30 2 * * *", cfg.Scheduler.ReminderCron)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "leadhub.db", cfg.Database.GetDSN())
}

func TestLoad_RejectsInvalidWindow(t *testing.T) {
	path := writeConfig(t, `
database:
  driver: sqlite
  database: leadhub.db
reconciler:
  reminder_window_min_days: 7
  reminder_window_max_days: 3
`)

	_, err := Load("", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	path := writeConfig(t, "database:\n  driver: oracle\n")

	_, err := Load("", path)
	assert.Error(t, err)
}
