// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Environment variables consulted by Resolve and ApplyEnv.
const (
	EnvConfig      = "TICKETDESK_CONFIG"
	EnvAPIURL      = "TICKETDESK_API_URL"
	EnvEnvironment = "TICKETDESK_ENV"
)

// Environment represents the deployment the client talks to.
type Environment string

const (
	// Development is a local API server.
	Development Environment = "development"
	// Staging is a pre-production API.
	Staging Environment = "staging"
	// Production is the live API.
	Production Environment = "production"
)

// Config is the ticketdesk configuration.
type Config struct {
	// Environment selects which override section applies.
	Environment Environment `yaml:"environment" json:"environment"`

	// API configures the REST API connection.
	API APIConfig `yaml:"api" json:"api"`

	// Auth configures where the bearer token comes from.
	Auth AuthConfig `yaml:"auth" json:"auth"`

	// UI configures the interactive viewer.
	UI UIConfig `yaml:"ui" json:"ui"`

	// Log configures diagnostic logging.
	Log LogConfig `yaml:"log" json:"log"`

	// Per-environment overrides, applied after the base config is
	// loaded.
	Development *ConfigOverrides `yaml:"development,omitempty" json:"development,omitempty"`
	Staging     *ConfigOverrides `yaml:"staging,omitempty" json:"staging,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty" json:"production,omitempty"`
}

// ConfigOverrides contains fields that can be overridden per environment.
type ConfigOverrides struct {
	API  *APIConfig  `yaml:"api,omitempty" json:"api,omitempty"`
	Auth *AuthConfig `yaml:"auth,omitempty" json:"auth,omitempty"`
	UI   *UIConfig   `yaml:"ui,omitempty" json:"ui,omitempty"`
	Log  *LogConfig  `yaml:"log,omitempty" json:"log,omitempty"`
}

// APIConfig configures the REST API connection.
type APIConfig struct {
	// BaseURL is the API root, without the /api prefix.
	// Default: http://127.0.0.1:8000
	BaseURL string `yaml:"base_url" json:"base_url"`

	// Timeout bounds each request, as a Go duration string.
	// Default: 30s
	Timeout string `yaml:"timeout" json:"timeout"`

	// UserAgent overrides the default "ticketdesk/<version>".
	UserAgent string `yaml:"user_agent" json:"user_agent,omitempty"`
}

// AuthConfig configures where the bearer token comes from. The
// TICKETDESK_TOKEN environment variable takes precedence over both.
type AuthConfig struct {
	// Token is an inline bearer token. Prefer TokenFile.
	Token string `yaml:"token" json:"token,omitempty"`

	// TokenFile is a file holding the token. Files ending in .age are
	// decrypted with IdentityFile.
	TokenFile string `yaml:"token_file" json:"token_file,omitempty"`

	// IdentityFile is an age identity file used to decrypt TokenFile.
	IdentityFile string `yaml:"identity_file" json:"identity_file,omitempty"`
}

// UIConfig configures the interactive viewer.
type UIConfig struct {
	// PageSize is the number of tickets per list page.
	// Default: 15
	PageSize int `yaml:"page_size" json:"page_size"`

	// ActivityLimit is the number of global activity entries shown on
	// the stats tab. Default: 50
	ActivityLimit int `yaml:"activity_limit" json:"activity_limit"`

	// Theme selects the color palette: auto, dark, or light.
	// Default: auto
	Theme string `yaml:"theme" json:"theme"`

	// Timezone is the IANA zone used to render timestamps. Empty uses
	// the system zone.
	Timezone string `yaml:"timezone" json:"timezone,omitempty"`
}

// LogConfig configures diagnostic logging.
type LogConfig struct {
	// Level is debug, info, warn, or error. Default: info
	Level string `yaml:"level" json:"level"`
}

// Default returns the default configuration, used as the base before
// loading a file.
func Default() *Config {
	return &Config{
		Environment: Development,
		API: APIConfig{
			BaseURL: "http://127.0.0.1:8000",
			Timeout: "30s",
		},
		UI: UIConfig{
			PageSize:      15,
			ActivityLimit: 50,
			Theme:         "auto",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Resolve loads the configuration for a command. The file is path
// when non-empty, else the TICKETDESK_CONFIG environment variable.
// With neither set, Default is used. Environment variable overrides
// (ApplyEnv) are applied last in every case.
func Resolve(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfig)
	}

	var cfg *Config
	if path == "" {
		cfg = Default()
		cfg.expandVariables()
	} else {
		loaded, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	cfg.ApplyEnv(os.LookupEnv)
	return cfg, nil
}

// LoadFile loads configuration from a specific file path. Files ending
// in .json or .jsonc are parsed as JSON with comments and trailing
// commas allowed; everything else is parsed as YAML.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	// Apply environment-specific overrides (development/staging/production sections in the file).
	cfg.applyEnvironmentOverrides()

	// Expand ${HOME} and similar variables in paths for portability.
	cfg.expandVariables()

	return cfg, nil
}

// loadFile loads a single configuration file, merging into the current config.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), c); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	}
	return nil
}

// ApplyEnv applies environment variable overrides: TICKETDESK_ENV
// selects the environment and TICKETDESK_API_URL replaces the base
// URL. lookup is os.LookupEnv outside tests.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if value, ok := lookup(EnvEnvironment); ok && value != "" {
		c.Environment = Environment(value)
	}
	if value, ok := lookup(EnvAPIURL); ok && value != "" {
		c.API.BaseURL = value
	}
}

// applyEnvironmentOverrides applies the environment-specific overrides.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
	}

	if overrides == nil {
		return
	}

	if overrides.API != nil {
		if overrides.API.BaseURL != "" {
			c.API.BaseURL = overrides.API.BaseURL
		}
		if overrides.API.Timeout != "" {
			c.API.Timeout = overrides.API.Timeout
		}
		if overrides.API.UserAgent != "" {
			c.API.UserAgent = overrides.API.UserAgent
		}
	}

	if overrides.Auth != nil {
		if overrides.Auth.Token != "" {
			c.Auth.Token = overrides.Auth.Token
		}
		if overrides.Auth.TokenFile != "" {
			c.Auth.TokenFile = overrides.Auth.TokenFile
		}
		if overrides.Auth.IdentityFile != "" {
			c.Auth.IdentityFile = overrides.Auth.IdentityFile
		}
	}

	if overrides.UI != nil {
		if overrides.UI.PageSize != 0 {
			c.UI.PageSize = overrides.UI.PageSize
		}
		if overrides.UI.ActivityLimit != 0 {
			c.UI.ActivityLimit = overrides.UI.ActivityLimit
		}
		if overrides.UI.Theme != "" {
			c.UI.Theme = overrides.UI.Theme
		}
		if overrides.UI.Timezone != "" {
			c.UI.Timezone = overrides.UI.Timezone
		}
	}

	if overrides.Log != nil && overrides.Log.Level != "" {
		c.Log.Level = overrides.Log.Level
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns and a
// leading ~ in file paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}

	c.Auth.TokenFile = expandPath(c.Auth.TokenFile, vars)
	c.Auth.IdentityFile = expandPath(c.Auth.IdentityFile, vars)
}

func expandPath(path string, vars map[string]string) string {
	path = expandVars(path, vars)
	if path == "~" {
		return vars["HOME"]
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(vars["HOME"], path[2:])
	}
	return path
}

// expandVars expands ${VAR} and ${VAR:-default} patterns.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Staging && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	if parsed, err := url.Parse(c.API.BaseURL); err != nil {
		errs = append(errs, fmt.Errorf("api.base_url: %w", err))
	} else if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		errs = append(errs, fmt.Errorf("api.base_url must be an http(s) URL with a host, got %q", c.API.BaseURL))
	}

	if _, err := c.Timeout(); err != nil {
		errs = append(errs, err)
	}

	if c.UI.PageSize < 1 || c.UI.PageSize > 100 {
		errs = append(errs, fmt.Errorf("ui.page_size must be between 1 and 100, got %d", c.UI.PageSize))
	}
	if c.UI.ActivityLimit < 1 || c.UI.ActivityLimit > 200 {
		errs = append(errs, fmt.Errorf("ui.activity_limit must be between 1 and 200, got %d", c.UI.ActivityLimit))
	}

	themes := []string{"auto", "dark", "light"}
	if !contains(themes, c.UI.Theme) {
		errs = append(errs, fmt.Errorf("ui.theme must be one of: %v", themes))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}

	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}

	if c.Auth.Token != "" && c.Auth.TokenFile != "" {
		errs = append(errs, errors.New("auth.token and auth.token_file are mutually exclusive"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Timeout returns the parsed API timeout.
func (c *Config) Timeout() (time.Duration, error) {
	timeout, err := time.ParseDuration(c.API.Timeout)
	if err != nil {
		return 0, fmt.Errorf("api.timeout: %w", err)
	}
	if timeout <= 0 {
		return 0, fmt.Errorf("api.timeout must be positive, got %s", c.API.Timeout)
	}
	return timeout, nil
}

// Location returns the zone timestamps render in.
func (c *Config) Location() (*time.Location, error) {
	if c.UI.Timezone == "" {
		return time.Local, nil
	}
	location, err := time.LoadLocation(c.UI.Timezone)
	if err != nil {
		return nil, fmt.Errorf("ui.timezone: %w", err)
	}
	return location, nil
}

// LogLevel returns the configured slog level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

func contains(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}
