package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "contactstore.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, filepath.Join("data", "contacts.db"), cfg.Database.Path)
	assert.Equal(t, 5000, cfg.Database.BusyTimeoutMS)
	assert.Equal(t, 21, cfg.Retention.DataDays)
	assert.Equal(t, 10, cfg.Retention.ExposureDays)
	assert.Equal(t, "6h", cfg.Sweeper.Interval)
	require.NoError(t, cfg.Validate())
}

func TestLoad_OverridesAndDefaults(t *testing.T) {
	path := writeConfig(t, `
[database]
path = "/var/lib/contacts.db"
integrity_check = true

[retention]
data_days = 14

[sweeper]
interval = "30m"

[log]
level = "DEBUG"
format = "json"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/contacts.db", cfg.Database.Path)
	assert.True(t, cfg.Database.IntegrityCheck)
	assert.Equal(t, 5000, cfg.Database.BusyTimeoutMS)
	assert.Equal(t, 14, cfg.Retention.DataDays)
	assert.Equal(t, 10, cfg.Retention.ExposureDays)

	interval, err := cfg.SweepInterval()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, interval)

	level, err := cfg.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"bad toml", "[database\npath = 1", "failed to parse"},
		{"negative window", "[retention]\ndata_days = -3", "data retention"},
		{"bad interval", "[sweeper]\ninterval = \"soon\"", "invalid sweeper interval"},
		{"bad level", "[log]\nlevel = \"loud\"", "invalid log level"},
		{"bad format", "[log]\nformat = \"xml\"", "log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSave_RoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Database.Path = "/tmp/x.db"
	cfg.Retention.ExposureDays = 5

	path := filepath.Join(t.TempDir(), "out.toml")
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestEnsureDirs(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Database.Path = filepath.Join(t.TempDir(), "nested", "dir", "contacts.db")

	require.NoError(t, cfg.EnsureDirs())

	info, err := os.Stat(filepath.Dir(cfg.Database.Path))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
