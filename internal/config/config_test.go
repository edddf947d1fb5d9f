package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func writeConfig(t *testing.T, path string, values map[string]any) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	data, err := json.Marshal(values)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

// isolate points config lookups at empty temp dirs and clears env.
func isolate(t *testing.T) (configHome, workDir string) {
	t.Helper()
	configHome = t.TempDir()
	workDir = t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	for _, k := range []string{"PLACES_ENDPOINT", "PLACES_COLLECTION", "PLACES_RESOURCE", "PLACES_FORMAT", "PLACES_VERBOSE"} {
		t.Setenv(k, "")
	}
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(workDir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return configHome, workDir
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "http://localhost:3000/places", cfg.Endpoint)
	assert.Equal(t, "$.places", cfg.Collection)
	assert.Equal(t, "places", cfg.Resource)
	assert.Equal(t, "auto", cfg.Format)
	assert.Equal(t, 0, cfg.Verbose)
	assert.Equal(t, "default", cfg.Sources["endpoint"])
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	writeConfig(t, path, map[string]any{
		"endpoint":   "https://api.example.com/spots",
		"collection": "$.data.spots",
		"resource":   "spots",
		"format":     "json",
		"verbose":    2,
	})

	cfg := Default()
	loadFromFile(cfg, path, SourceGlobal, zap.NewNop())

	assert.Equal(t, "https://api.example.com/spots", cfg.Endpoint)
	assert.Equal(t, "$.data.spots", cfg.Collection)
	assert.Equal(t, "spots", cfg.Resource)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, 2, cfg.Verbose)
	assert.Equal(t, "global", cfg.Sources["endpoint"])
	assert.Equal(t, "global", cfg.Sources["verbose"])
}

func TestLoadFromFileSkipsInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("not valid json"), 0o644))

	core, logs := observer.New(zap.WarnLevel)
	cfg := Default()
	loadFromFile(cfg, path, SourceGlobal, zap.New(core))

	assert.Equal(t, "http://localhost:3000/places", cfg.Endpoint)
	assert.Equal(t, 1, logs.FilterMessage("skipping malformed config").Len())
}

func TestLoadFromFileSkipsMissingFile(t *testing.T) {
	cfg := Default()
	loadFromFile(cfg, "/nonexistent/path/config.json", SourceGlobal, zap.NewNop())
	assert.Equal(t, "default", cfg.Sources["endpoint"])
}

func TestLocalConfigCannotSetEndpoint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	writeConfig(t, path, map[string]any{
		"endpoint": "https://evil.example.com/places",
		"resource": "spots",
	})

	core, logs := observer.New(zap.WarnLevel)
	cfg := Default()
	loadFromFile(cfg, path, SourceLocal, zap.New(core))

	assert.Equal(t, "http://localhost:3000/places", cfg.Endpoint)
	assert.Equal(t, "spots", cfg.Resource)
	assert.Equal(t, 1, logs.FilterMessage("ignoring endpoint from local config").Len())
}

func TestLoadFromFileRejectsOutOfRangeVerbose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	writeConfig(t, path, map[string]any{"verbose": 5})

	cfg := Default()
	loadFromFile(cfg, path, SourceGlobal, zap.NewNop())
	assert.Equal(t, 0, cfg.Verbose)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PLACES_ENDPOINT", "http://env.example.com/places")
	t.Setenv("PLACES_COLLECTION", "$.items")
	t.Setenv("PLACES_RESOURCE", "items")
	t.Setenv("PLACES_FORMAT", "yaml")
	t.Setenv("PLACES_VERBOSE", "1")

	cfg := Default()
	LoadFromEnv(cfg)

	assert.Equal(t, "http://env.example.com/places", cfg.Endpoint)
	assert.Equal(t, "$.items", cfg.Collection)
	assert.Equal(t, "items", cfg.Resource)
	assert.Equal(t, "yaml", cfg.Format)
	assert.Equal(t, 1, cfg.Verbose)
	assert.Equal(t, "env", cfg.Sources["endpoint"])
}

func TestApplyOverridesSkipsEmpty(t *testing.T) {
	cfg := Default()
	ApplyOverrides(cfg, FlagOverrides{Resource: "spots"})

	assert.Equal(t, "spots", cfg.Resource)
	assert.Equal(t, "flag", cfg.Sources["resource"])
	assert.Equal(t, "default", cfg.Sources["endpoint"])
}

func TestFullLayeringPrecedence(t *testing.T) {
	configHome, workDir := isolate(t)

	writeConfig(t, filepath.Join(configHome, "places", "config.json"), map[string]any{
		"endpoint":   "https://global.example.com/places",
		"collection": "$.global",
		"resource":   "global",
		"format":     "yaml",
	})
	writeConfig(t, filepath.Join(workDir, ".places", "config.json"), map[string]any{
		"collection": "$.local",
		"resource":   "local",
	})
	t.Setenv("PLACES_RESOURCE", "env")

	cfg, err := Load(FlagOverrides{Format: "json"}, nil)
	require.NoError(t, err)

	assert.Equal(t, "https://global.example.com/places", cfg.Endpoint)
	assert.Equal(t, "global", cfg.Sources["endpoint"])
	assert.Equal(t, "$.local", cfg.Collection)
	assert.Equal(t, "local", cfg.Sources["collection"])
	assert.Equal(t, "env", cfg.Resource)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "flag", cfg.Sources["format"])
}

func TestLoadValidatesEndpoint(t *testing.T) {
	isolate(t)

	_, err := Load(FlagOverrides{Endpoint: "ftp://example.com/places"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "from flag")

	_, err = Load(FlagOverrides{Collection: "places"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JSONPath")
}

func TestGlobalConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	assert.Equal(t, "/custom/config/places", GlobalConfigDir())
}
