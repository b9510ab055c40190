package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nightdust/imgmeta/internal/config"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func runGeocode(t *testing.T, args ...string) string {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	return out.String()
}

// An out-of-range latitude makes the resolver answer before any
// network call, so the output tells us which API key took effect:
// a configured key reports the range error, a missing key reports
// that geocoding is disabled.
func TestRootCommand_FlagBeatsConfigFile(t *testing.T) {
	path := writeConfigFile(t, "geocode:\n  api_key: \"\"\n")

	got := runGeocode(t, "geocode", "--config", path, "--api-key", "flag-key", "91", "0")

	assert.Contains(t, got, "invalid coordinates: latitude 91.000000 out of range")
}

func TestRootCommand_ConfigFileBeatsDefault(t *testing.T) {
	path := writeConfigFile(t, "geocode:\n  api_key: file-key\n")

	got := runGeocode(t, "geocode", "--config", path, "91", "0")

	assert.Contains(t, got, "invalid coordinates: latitude 91.000000 out of range")
}

func TestRootCommand_NoKeyAnywhere(t *testing.T) {
	path := writeConfigFile(t, "geocode:\n  api_key: \"\"\n")

	got := runGeocode(t, "geocode", "--config", path, "91", "0")

	assert.Contains(t, got, "geocoding disabled")
}

func TestApplyFlagOverrides(t *testing.T) {
	fromFlags := config.New()
	fromFlags.Geocode.APIKey = "flag-key"
	fromFlags.Analyze.Concurrency = 8

	loaded := config.New()
	loaded.Geocode.APIKey = "file-key"
	loaded.Analyze.Concurrency = 2
	loaded.Bot.MaxExifShow = 5

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("api-key", "", "")
	fs.Int("concurrency", 4, "")
	fs.Int("max-exif", 20, "")
	require.NoError(t, fs.Parse([]string{"--concurrency", "8"}))

	applyFlagOverrides(fs, loaded, fromFlags)

	assert.Equal(t, 8, loaded.Analyze.Concurrency, "explicit flag wins over file")
	assert.Equal(t, "file-key", loaded.Geocode.APIKey, "unset flag keeps the file value")
	assert.Equal(t, 5, loaded.Bot.MaxExifShow, "unset flag keeps the file value")
}
