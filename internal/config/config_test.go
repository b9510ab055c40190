package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	cfg := New()

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.Bot.SessionTimeout)
	assert.Equal(t, 20, cfg.Bot.MaxExifShow)
	assert.Equal(t, 10*time.Second, cfg.Geocode.Timeout)
	assert.Equal(t, "https://api.tianditu.gov.cn/geocoder", cfg.Geocode.Endpoint)
	assert.Empty(t, cfg.Geocode.APIKey)
	assert.False(t, cfg.Archive.Enabled)
	assert.Equal(t, 4, cfg.Analyze.Concurrency)
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, New(), cfg)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("IMGMETA_GEOCODE_API_KEY", "env-key")
	t.Setenv("IMGMETA_BOT_MAX_EXIF_SHOW", "5")

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.Geocode.APIKey)
	assert.Equal(t, 5, cfg.Bot.MaxExifShow)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/imgmeta.yaml")
	assert.Error(t, err)
}
