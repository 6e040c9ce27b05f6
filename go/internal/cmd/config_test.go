package main

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
	path := filepath.Join(t.TempDir(), "matchday.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	config, err := loadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "8080", config.Server.Port)
	assert.Equal(t, SourceFixtures, config.Providers.Matches)
	assert.Equal(t, SourceFixtures, config.Providers.Users)
	assert.Equal(t, 10*time.Second, config.Server.ReadTimeout)
	assert.False(t, config.needsDatabase())
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9090"
providers:
  matches: postgres
  users: http
  social_api:
    base_url: https://social.example.com
    timeout: 3s
observers:
  journal:
    enabled: true
  nats:
    enabled: true
    stream_name: EVENTS
`)
	config, err := loadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", config.Server.Port)
	assert.Equal(t, SourcePostgres, config.Providers.Matches)
	assert.Equal(t, SourceHTTP, config.Providers.Users)
	assert.Equal(t, 3*time.Second, config.Providers.SocialAPI.Timeout)
	assert.True(t, config.Observers.Journal.Enabled)
	assert.Equal(t, "EVENTS", config.Observers.NATS.StreamName)
	assert.True(t, config.needsDatabase())
	// untouched keys keep their defaults
	assert.Equal(t, "config/fixtures.yaml", config.Providers.FixturesPath)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "7000")
	t.Setenv("JOURNAL_ENABLED", "true")
	t.Setenv("NATS_URL", "nats://broker:4222")

	config, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "7000", config.Server.Port)
	assert.True(t, config.Observers.Journal.Enabled)
	assert.Equal(t, "nats://broker:4222", config.Observers.NATS.URL)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown matches provider", "providers:\n  matches: csv\n"},
		{"unknown users provider", "providers:\n  users: postgres\n"},
		{"http without base url", "providers:\n  matches: http\n"},
		{"malformed yaml", "server: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}

	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("MATCHDAY_INT", "12")
	t.Setenv("MATCHDAY_BAD_INT", "twelve")
	t.Setenv("MATCHDAY_BOOL", "true")

	assert.Equal(t, 12, getEnvAsInt("MATCHDAY_INT", 1))
	assert.Equal(t, 1, getEnvAsInt("MATCHDAY_BAD_INT", 1))
	assert.Equal(t, 5, getEnvAsInt("MATCHDAY_UNSET_INT", 5))
	assert.True(t, getEnvAsBool("MATCHDAY_BOOL", false))
	assert.False(t, getEnvAsBool("MATCHDAY_UNSET_BOOL", false))
	assert.Equal(t, "fallback", getEnv("MATCHDAY_UNSET", "fallback"))
}
