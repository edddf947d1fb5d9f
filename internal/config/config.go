// Package config provides layered configuration loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// Config holds the resolved configuration.
type Config struct {
	// Endpoint is the URL fetched with GET.
	Endpoint string `json:"endpoint"`
	// Collection is the JSONPath of the item array in the response.
	Collection string `json:"collection"`
	// Resource is the human name of the records, e.g. "places".
	Resource string `json:"resource"`

	// Output settings
	Format  string `json:"format"`
	Verbose int    `json:"verbose"`

	// Sources tracks where each value came from (for debugging).
	Sources map[string]string `json:"-"`
}

// Source indicates where a config value came from.
type Source string

const (
	SourceDefault Source = "default"
	SourceGlobal  Source = "global"
	SourceLocal   Source = "local"
	SourceEnv     Source = "env"
	SourceFlag    Source = "flag"
)

// FlagOverrides holds command-line flag values.
type FlagOverrides struct {
	Endpoint   string
	Collection string
	Resource   string
	Format     string
}

// Default returns the default configuration.
func Default() *Config {
	cfg := &Config{
		Endpoint:   "http://localhost:3000/places",
		Collection: "$.places",
		Resource:   "places",
		Format:     "auto",
		Sources:    make(map[string]string),
	}
	for _, k := range []string{"endpoint", "collection", "resource", "format", "verbose"} {
		cfg.Sources[k] = string(SourceDefault)
	}
	return cfg
}

// Load loads configuration from all sources with proper precedence.
// Precedence: flags > env > local > global > defaults
func Load(overrides FlagOverrides, logger *zap.Logger) (*Config, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg := Default()

	loadFromFile(cfg, globalConfigPath(), SourceGlobal, logger)
	if path := localConfigPath(); path != "" {
		loadFromFile(cfg, path, SourceLocal, logger)
	}

	LoadFromEnv(cfg)
	ApplyOverrides(cfg, overrides)
	cfg.Endpoint = NormalizeEndpoint(cfg.Endpoint)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFromFile(cfg *Config, path string, source Source, logger *zap.Logger) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: Path is from trusted config locations
	if err != nil {
		return // File doesn't exist, skip
	}

	var fileCfg map[string]any
	if err := json.Unmarshal(data, &fileCfg); err != nil {
		logger.Warn("skipping malformed config", zap.String("path", path), zap.Error(err))
		return
	}

	// The endpoint decides where requests go; a config dropped into the
	// working directory must not redirect them.
	if v, ok := fileCfg["endpoint"].(string); ok && v != "" {
		if source == SourceLocal {
			logger.Warn("ignoring endpoint from local config",
				zap.String("path", path), zap.String("endpoint", v))
		} else {
			cfg.Endpoint = v
			cfg.Sources["endpoint"] = string(source)
		}
	}
	if v, ok := fileCfg["collection"].(string); ok && v != "" {
		cfg.Collection = v
		cfg.Sources["collection"] = string(source)
	}
	if v, ok := fileCfg["resource"].(string); ok && v != "" {
		cfg.Resource = v
		cfg.Sources["resource"] = string(source)
	}
	if v, ok := fileCfg["format"].(string); ok && v != "" {
		cfg.Format = v
		cfg.Sources["format"] = string(source)
	}
	if v, ok := fileCfg["verbose"].(float64); ok {
		if iv := int(v); iv >= 0 && iv <= 2 && v == float64(iv) {
			cfg.Verbose = iv
			cfg.Sources["verbose"] = string(source)
		}
	}
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("PLACES_ENDPOINT"); v != "" {
		cfg.Endpoint = v
		cfg.Sources["endpoint"] = string(SourceEnv)
	}
	if v := os.Getenv("PLACES_COLLECTION"); v != "" {
		cfg.Collection = v
		cfg.Sources["collection"] = string(SourceEnv)
	}
	if v := os.Getenv("PLACES_RESOURCE"); v != "" {
		cfg.Resource = v
		cfg.Sources["resource"] = string(SourceEnv)
	}
	if v := os.Getenv("PLACES_FORMAT"); v != "" {
		cfg.Format = v
		cfg.Sources["format"] = string(SourceEnv)
	}
	if v := os.Getenv("PLACES_VERBOSE"); v != "" {
		if iv, err := strconv.Atoi(v); err == nil && iv >= 0 && iv <= 2 {
			cfg.Verbose = iv
			cfg.Sources["verbose"] = string(SourceEnv)
		}
	}
}

// ApplyOverrides applies non-empty flag overrides to cfg.
func ApplyOverrides(cfg *Config, o FlagOverrides) {
	if o.Endpoint != "" {
		cfg.Endpoint = o.Endpoint
		cfg.Sources["endpoint"] = string(SourceFlag)
	}
	if o.Collection != "" {
		cfg.Collection = o.Collection
		cfg.Sources["collection"] = string(SourceFlag)
	}
	if o.Resource != "" {
		cfg.Resource = o.Resource
		cfg.Sources["resource"] = string(SourceFlag)
	}
	if o.Format != "" {
		cfg.Format = o.Format
		cfg.Sources["format"] = string(SourceFlag)
	}
}

// Validate checks that the endpoint is an absolute http(s) URL.
func (cfg *Config) Validate() error {
	ep := cfg.Endpoint
	if !strings.HasPrefix(ep, "http://") && !strings.HasPrefix(ep, "https://") {
		return fmt.Errorf("endpoint %q (from %s) must be an http:// or https:// URL",
			ep, cfg.Sources["endpoint"])
	}
	if !strings.HasPrefix(cfg.Collection, "$") {
		return fmt.Errorf("collection %q (from %s) must be a JSONPath starting with $",
			cfg.Collection, cfg.Sources["collection"])
	}
	return nil
}

// Path helpers

func globalConfigPath() string {
	return filepath.Join(GlobalConfigDir(), "config.json")
}

// localConfigPath returns ./.places/config.json if it exists.
func localConfigPath() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	path := filepath.Join(dir, ".places", "config.json")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// GlobalConfigDir returns the global config directory path.
func GlobalConfigDir() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, _ := os.UserHomeDir()
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "places")
}
