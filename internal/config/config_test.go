package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "https://places.googleapis.com/v1", cfg.Google.PlacesBaseURL)
	assert.Equal(t, "https://maps.googleapis.com/maps/api/distancematrix/json", cfg.Google.DistanceBaseURL)
	assert.InDelta(t, 50000.0, cfg.Google.SearchRadiusM, 0.001)
	assert.Equal(t, 10, cfg.Google.MaxPhotos)
	assert.Equal(t, 800, cfg.Google.PhotoMaxWidth)
	assert.Equal(t, 600, cfg.Google.PhotoMaxHeight)
	assert.True(t, cfg.Location.IPLookup)
	assert.Equal(t, "http://ip-api.com/json/", cfg.Location.GeoIPURL)
	assert.Equal(t, 5, cfg.Location.TimeoutSecs)
	assert.False(t, cfg.Location.HasFixed())
	assert.Empty(t, cfg.Catalog.Path)
	assert.Empty(t, cfg.Catalog.URL)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
log:
  level: debug
  format: console
server:
  port: 9090
google:
  key: test-key
  max_photos: 3
location:
  lat: 28.5384
  lng: -81.3789
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "test-key", cfg.Google.Key)
	assert.Equal(t, 3, cfg.Google.MaxPhotos)
	require.True(t, cfg.Location.HasFixed())
	assert.InDelta(t, 28.5384, *cfg.Location.Lat, 1e-9)
	// Defaults still apply for unset values
	assert.InDelta(t, 50000.0, cfg.Google.SearchRadiusM, 0.001)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
log:
  level: debug
google:
  key: file-key
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("PICKER_GOOGLE_KEY", "env-key")
	t.Setenv("PICKER_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "env-key", cfg.Google.Key)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	t.Setenv("PICKER_SERVER_PORT", "3000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Google.Key = "test-key"
	cfg.Google.SearchRadiusM = 50000
	cfg.Location.IPLookup = true
	cfg.Location.GeoIPURL = "http://ip-api.com/json/"
	cfg.Server.Port = 8080
	return cfg
}

func TestValidatePick(t *testing.T) {
	cfg := validDefaults()
	assert.NoError(t, cfg.Validate("pick"))
}

func TestValidateMissingKey(t *testing.T) {
	cfg := validDefaults()
	cfg.Google.Key = ""

	err := cfg.Validate("pick")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "google.key is required")
}

func TestValidateServe_InvalidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0

	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")
}

func TestValidateRadius(t *testing.T) {
	cfg := validDefaults()
	cfg.Google.SearchRadiusM = 0

	err := cfg.Validate("pick")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "search_radius_m")
}

func TestValidateGeoIPURL(t *testing.T) {
	cfg := validDefaults()
	cfg.Location.GeoIPURL = ""

	err := cfg.Validate("pick")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "geoip_url")

	cfg.Location.IPLookup = false
	assert.NoError(t, cfg.Validate("pick"))
}

func TestValidateUnknownMode(t *testing.T) {
	cfg := validDefaults()
	err := cfg.Validate("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}
