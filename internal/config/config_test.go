package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidBaseURL(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"https://server.cieloblu.co.kr", true},
		{"http://localhost:8080", true},
		{" https://example.com ", true},
		{"ftp://example.com", false},
		{"server.cieloblu.co.kr", false},
		{"", false},
		{"https://", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsValidBaseURL(tt.raw), "url %q", tt.raw)
	}
}

func TestBaseURLDefaultAndOverride(t *testing.T) {
	c := &Config{}
	assert.Equal(t, DefaultBaseURL, c.BaseURL())

	c.SetBaseURL("http://localhost:9999/")
	assert.Equal(t, "http://localhost:9999", c.BaseURL())
}

func TestFileConfigDefaults(t *testing.T) {
	cfg := DefaultFileConfig()
	assert.Equal(t, DefaultRequestTimeout, cfg.RequestTimeout())
	assert.Equal(t, DefaultHierarchyTimeout, cfg.HierarchyTimeout())
	assert.Equal(t, DefaultWeatherTimeout, cfg.WeatherTimeout())
	assert.Equal(t, DefaultWeatherStale, cfg.WeatherStale())
	assert.Equal(t, DefaultMaxChatSessions, cfg.MaxChatSessions())
	assert.True(t, cfg.SaveChatSessions())
}

func TestFileConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, SetConfigPath(filepath.Join(dir, "config.yaml")))
	t.Cleanup(func() { _ = SetConfigPath(filepath.Join(t.TempDir(), "config.yaml")) })

	cfg := DefaultFileConfig()
	cfg.Timeouts.Request = Duration(7 * time.Second)
	cfg.Chat.MaxSessions = 5
	require.NoError(t, cfg.Save())

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7*time.Second, loaded.RequestTimeout())
	assert.Equal(t, 5, loaded.MaxChatSessions())
	// Untouched fields keep their defaults.
	assert.Equal(t, DefaultWeatherStale, loaded.WeatherStale())
}

func TestLoadToleratesMissingFile(t *testing.T) {
	require.NoError(t, SetConfigPath(filepath.Join(t.TempDir(), "nope.yaml")))
	t.Cleanup(func() { _ = SetConfigPath(filepath.Join(t.TempDir(), "config.yaml")) })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultRequestTimeout, cfg.RequestTimeout())
}

func TestLoadAppliesDefaultsToPartialFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timeouts:\n  request: 3s\n"), 0600))
	require.NoError(t, SetConfigPath(path))
	t.Cleanup(func() { _ = SetConfigPath(filepath.Join(t.TempDir(), "config.yaml")) })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout())
	assert.Equal(t, DefaultHierarchyTimeout, cfg.HierarchyTimeout())
	assert.Equal(t, DefaultMaxChatSessions, cfg.MaxChatSessions())
}
