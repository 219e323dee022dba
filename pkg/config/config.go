// Package config loads crawler settings from a TOML file, the
// environment, and built-in defaults, in ascending precedence:
// defaults, then file, then DVMETA_* environment variables.
package config

import (
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/openrdm/dvmeta/pkg/dataverse"
	"github.com/openrdm/dvmeta/pkg/errors"
)

// Config holds everything a crawl run needs to know up front.
type Config struct {
	// BaseURL is the root URL of the Dataverse installation.
	BaseURL string `toml:"base_url"`
	// APIToken authenticates requests. Empty means unauthenticated.
	APIToken string `toml:"api_token"`
	// CollectionAlias scopes the crawl to one collection subtree.
	CollectionAlias string `toml:"collection_alias"`
	// Version selects which dataset version to fetch metadata for:
	// "draft", "latest", "latest-published", or "x" / "x.y".
	Version string `toml:"version"`
	// MaxInFlight bounds simultaneous HTTP requests across all batches.
	MaxInFlight int `toml:"max_in_flight"`
	// TimeoutSeconds bounds each individual request. Zero means no
	// timeout, matching Dataverse installations that take minutes to
	// answer large contents listings.
	TimeoutSeconds int `toml:"timeout_seconds"`
	// ExportDir is where export files and the run log are written.
	ExportDir string `toml:"export_dir"`
}

// Default returns the built-in configuration baseline.
func Default() Config {
	return Config{
		Version:     "latest-published",
		MaxInFlight: dataverse.DefaultMaxInFlight,
		ExportDir:   "exported_files",
	}
}

// Load builds the effective configuration: defaults, overlaid with the
// TOML file at path (skipped when path is empty), overlaid with
// environment variables. Validation is left to the caller, since flags
// may still override fields afterwards.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "could not read config file %q", path)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "could not parse config file %q", path)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DVMETA_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("DVMETA_API_TOKEN"); v != "" {
		c.APIToken = v
	}
	if v := os.Getenv("DVMETA_COLLECTION_ALIAS"); v != "" {
		c.CollectionAlias = v
	}
	if v := os.Getenv("DVMETA_VERSION"); v != "" {
		c.Version = v
	}
	if v := os.Getenv("DVMETA_MAX_IN_FLIGHT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxInFlight = n
		}
	}
	if v := os.Getenv("DVMETA_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("DVMETA_EXPORT_DIR"); v != "" {
		c.ExportDir = v
	}
}

// Validate checks the effective configuration for a crawl run.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "base URL must be set")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "base URL %q is not an absolute URL", c.BaseURL)
	}
	if c.CollectionAlias == "" {
		return errors.New(errors.ErrCodeInvalidCollection, "collection alias must be set")
	}
	if err := dataverse.ValidateVersion(c.Version); err != nil {
		return err
	}
	if c.MaxInFlight < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "max_in_flight must be at least 1, got %d", c.MaxInFlight)
	}
	if c.TimeoutSeconds < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "timeout_seconds must not be negative, got %d", c.TimeoutSeconds)
	}
	return nil
}

// Timeout returns the per-request timeout as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
