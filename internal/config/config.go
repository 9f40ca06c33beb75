// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/jeranaias/sitegen-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete sitegen configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	Server ServerConfig `toml:"server" json:"server"`
	UI     UIConfig     `toml:"ui" json:"ui"`
	Log    LogConfig    `toml:"log" json:"log"`
}

// ServerConfig describes how to reach the generator backend.
type ServerConfig struct {
	// BaseURL is the origin serving "/", "/generate" and the history endpoints.
	BaseURL string `toml:"base_url" json:"base_url"`

	// CSRFToken is sent as X-CSRFToken on every POST. When empty it is
	// scraped from the page served at BaseURL.
	CSRFToken string `toml:"csrf_token" json:"csrf_token"`

	// TimeoutSecs bounds the non-streaming requests. Generation streams
	// are not bounded.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`

	// RequestsPerSecond and Burst pace the history GETs.
	RequestsPerSecond float64 `toml:"requests_per_second" json:"requests_per_second"`
	Burst             int     `toml:"burst" json:"burst"`
}

// UIConfig holds terminal UI preferences.
type UIConfig struct {
	Theme       string `toml:"theme" json:"theme"`               // dark, light
	NarrowWidth int    `toml:"narrow_width" json:"narrow_width"` // columns below which the layout is narrow
	PreviewMode string `toml:"preview_mode" json:"preview_mode"` // rendered, source
	PromptLimit int    `toml:"prompt_limit" json:"prompt_limit"`
}

// LogConfig controls the zerolog output.
type LogConfig struct {
	Level   string `toml:"level" json:"level"`
	File    string `toml:"file" json:"file"`
	Console bool   `toml:"console" json:"console"`
}

// Timeout returns the request timeout as a duration.
func (s ServerConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSecs) * time.Second
}

// =============================================================================
// DEFAULTS
// =============================================================================

const (
	// CurrentVersion is the config schema version written by Save.
	CurrentVersion = "1"

	DefaultBaseURL           = "http://127.0.0.1:5000"
	DefaultTimeoutSecs       = 30
	DefaultRequestsPerSecond = 10
	DefaultBurst             = 5
	DefaultNarrowWidth       = 100
	DefaultPromptLimit       = 1000
)

// Default returns a configuration with every field set.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Server: ServerConfig{
			BaseURL:           DefaultBaseURL,
			TimeoutSecs:       DefaultTimeoutSecs,
			RequestsPerSecond: DefaultRequestsPerSecond,
			Burst:             DefaultBurst,
		},
		UI: UIConfig{
			Theme:       "dark",
			NarrowWidth: DefaultNarrowWidth,
			PreviewMode: "rendered",
			PromptLimit: DefaultPromptLimit,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the sitegen configuration directory path.
func ConfigDir() (string, error) {
	if dir := os.Getenv("SITEGEN_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".sitegen"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// LoadDotEnv loads KEY=VALUE pairs from the given files (default ./.env)
// into the process environment. Variables that are already set win.
// A missing file is not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var present []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return nil
	}
	if err := godotenv.Load(present...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	var loadErr error

	if path, err := ConfigPathTOML(); err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			cfg, err := LoadFromPath(path)
			if err == nil {
				return cfg, nil
			}
			loadErr = err
		}
	}

	if path, err := ConfigPathJSON(); err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			cfg, err := LoadFromPath(path)
			if err == nil {
				return cfg, nil
			}
			loadErr = err
		}
	}

	cfg := Default()
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// Defaults plus the load error, if any, for the caller to report.
	return cfg, loadErr
}

// LoadFromPath loads configuration from a specific file, applies env
// overrides and validates the result.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	var err error
	if strings.HasSuffix(path, ".json") {
		err = LoadJSON(cfg, path)
	} else {
		err = LoadTOML(cfg, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file over cfg.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON decodes a JSON file over cfg.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// SetDefaults fills zero values left by a partial config file.
func (c *Config) SetDefaults() {
	d := Default()
	if c.Version == "" {
		c.Version = d.Version
	}
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = d.Server.BaseURL
	}
	if c.Server.TimeoutSecs == 0 {
		c.Server.TimeoutSecs = d.Server.TimeoutSecs
	}
	if c.Server.RequestsPerSecond == 0 {
		c.Server.RequestsPerSecond = d.Server.RequestsPerSecond
	}
	if c.Server.Burst == 0 {
		c.Server.Burst = d.Server.Burst
	}
	if c.UI.Theme == "" {
		c.UI.Theme = d.UI.Theme
	}
	if c.UI.NarrowWidth == 0 {
		c.UI.NarrowWidth = d.UI.NarrowWidth
	}
	if c.UI.PreviewMode == "" {
		c.UI.PreviewMode = d.UI.PreviewMode
	}
	if c.UI.PromptLimit == 0 {
		c.UI.PromptLimit = d.UI.PromptLimit
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes the configuration as TOML with 0600 permissions.
// The CSRF token lives in this file, so it stays owner-only.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# sitegen configuration file\n")
	buf.WriteString("# Generated by sitegen - edit with care\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.WriteFileAtomic(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveJSON writes the configuration as indented JSON with 0600 permissions.
func SaveJSON(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.WriteFileAtomic(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the configuration and returns every problem found.
func (c *Config) Validate() error {
	var errs ValidateErrors

	u, err := url.Parse(c.Server.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, ValidationError{
			Field:   "server.base_url",
			Message: fmt.Sprintf("invalid URL '%s', must be an absolute http(s) URL", c.Server.BaseURL),
		})
	}
	if c.Server.TimeoutSecs < 0 || c.Server.TimeoutSecs > 3600 {
		errs = append(errs, ValidationError{
			Field:   "server.timeout_secs",
			Message: fmt.Sprintf("%d out of range 0-3600", c.Server.TimeoutSecs),
		})
	}
	if c.Server.RequestsPerSecond < 0 {
		errs = append(errs, ValidationError{Field: "server.requests_per_second", Message: "must not be negative"})
	}
	if c.Server.Burst < 0 {
		errs = append(errs, ValidationError{Field: "server.burst", Message: "must not be negative"})
	}

	switch strings.ToLower(c.UI.Theme) {
	case "dark", "light":
	default:
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light", c.UI.Theme),
		})
	}
	switch strings.ToLower(c.UI.PreviewMode) {
	case "rendered", "source":
	default:
		errs = append(errs, ValidationError{
			Field:   "ui.preview_mode",
			Message: fmt.Sprintf("invalid mode '%s', must be one of: rendered, source", c.UI.PreviewMode),
		})
	}
	if c.UI.NarrowWidth < 0 {
		errs = append(errs, ValidationError{Field: "ui.narrow_width", Message: "must not be negative"})
	}
	if c.UI.PromptLimit < 0 {
		errs = append(errs, ValidationError{Field: "ui.prompt_limit", Message: "must not be negative"})
	}

	switch strings.ToLower(c.Log.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "disabled":
	default:
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s'", c.Log.Level),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - SITEGEN_BASE_URL: overrides server.base_url
//   - SITEGEN_CSRF_TOKEN: overrides server.csrf_token
//   - SITEGEN_TIMEOUT: overrides server.timeout_secs
//   - SITEGEN_THEME: overrides ui.theme
//   - SITEGEN_LOG_LEVEL: overrides log.level
//   - SITEGEN_LOG_FILE: overrides log.file
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("SITEGEN_BASE_URL"); v != "" {
		c.Server.BaseURL = v
	}
	if v := os.Getenv("SITEGEN_CSRF_TOKEN"); v != "" {
		c.Server.CSRFToken = v
	}
	if v := os.Getenv("SITEGEN_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			c.Server.TimeoutSecs = secs
		}
	}
	if v := os.Getenv("SITEGEN_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("SITEGEN_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("SITEGEN_LOG_FILE"); v != "" {
		c.Log.File = v
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a value by its dotted TOML key, e.g. "server.base_url".
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set parses value into the field named by the dotted TOML key.
func (c *Config) Set(key, value string) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: expected an integer, got %q", key, value)
		}
		field.SetInt(int64(n))
	case reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%s: expected a number, got %q", key, value)
		}
		field.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: expected true or false, got %q", key, value)
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("%s: cannot be set from the command line", key)
	}
	return nil
}

// Keys lists every settable dotted key.
func Keys() []string {
	var keys []string
	t := reflect.TypeOf(Config{})
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := tomlName(f)
		if f.Type.Kind() != reflect.Struct {
			keys = append(keys, tag)
			continue
		}
		for j := 0; j < f.Type.NumField(); j++ {
			keys = append(keys, tag+"."+tomlName(f.Type.Field(j)))
		}
	}
	return keys
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")
	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		if v.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("'%s' is not a section", strings.Join(parts[:i], "."))
		}
		found := false
		for j := 0; j < v.NumField(); j++ {
			if tomlName(v.Type().Field(j)) == part {
				v = v.Field(j)
				found = true
				break
			}
		}
		if !found {
			return reflect.Value{}, fmt.Errorf("unknown key: %s", strings.Join(parts[:i+1], "."))
		}
	}
	return v, nil
}

func tomlName(f reflect.StructField) string {
	tag := f.Tag.Get("toml")
	if name, _, _ := strings.Cut(tag, ","); name != "" {
		return name
	}
	return strings.ToLower(f.Name)
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance, loading it on first
// access. Load errors fall back to defaults.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		}
		if cfg == nil {
			cfg = Default()
		}
		globalConfigMu.Lock()
		if globalConfig == nil {
			globalConfig = cfg
		}
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigOnce.Do(func() {})
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
