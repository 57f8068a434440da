// Package config provides layered configuration loading.
// Precedence: flags > env > .env file > config file > defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultBaseURL is the hosted Letta API origin.
const DefaultBaseURL = "https://api.letta.com"

// DefaultTimeout bounds each probe request so a hung connection
// cannot stall a batch indefinitely.
const DefaultTimeout = 15 * time.Second

// Config holds the resolved configuration. It is constructed once at
// process start and passed down; nothing reads the environment after Load.
type Config struct {
	// API settings
	BaseURL string `json:"base_url"`
	AgentID string `json:"agent_id"`

	// Request settings
	Timeout time.Duration `json:"-"`

	// Output settings
	Format string `json:"format"`

	// Sources tracks where each value came from (for doctor/config show).
	Sources map[string]string `json:"-"`
}

// Source indicates where a config value came from.
type Source string

const (
	SourceDefault Source = "default"
	SourceFile    Source = "file"
	SourceDotenv  Source = "dotenv"
	SourceEnv     Source = "env"
	SourceFlag    Source = "flag"
)

// FlagOverrides holds command-line flag values.
type FlagOverrides struct {
	BaseURL string
	AgentID string
	Timeout time.Duration
	Format  string
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		BaseURL: DefaultBaseURL,
		Timeout: DefaultTimeout,
		Format:  "auto",
		Sources: make(map[string]string),
	}
}

// Load loads configuration from all sources with proper precedence.
func Load(overrides FlagOverrides) (*Config, error) {
	cfg := Default()

	loadFromFile(cfg, ConfigFilePath())

	// A local .env is loaded into the process environment before env vars
	// are read; godotenv never overrides variables that are already set,
	// which preserves env > .env precedence.
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: skipping malformed .env: %v\n", err)
		} else {
			cfg.Sources[".env"] = string(SourceDotenv)
		}
	}

	LoadFromEnv(cfg)
	ApplyOverrides(cfg, overrides)

	cfg.BaseURL = NormalizeBaseURL(cfg.BaseURL)
	return cfg, nil
}

func loadFromFile(cfg *Config, path string) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: Path is the user's own config location
	if err != nil {
		return // File doesn't exist, skip
	}

	var fileCfg map[string]any
	if err := json.Unmarshal(data, &fileCfg); err != nil {
		fmt.Fprintf(os.Stderr, "warning: skipping malformed config at %s: %v\n", path, err)
		return
	}

	if v, ok := fileCfg["base_url"].(string); ok && v != "" {
		cfg.BaseURL = v
		cfg.Sources["base_url"] = string(SourceFile)
	}
	if v := getStringOrNumber(fileCfg, "agent_id"); v != "" {
		cfg.AgentID = v
		cfg.Sources["agent_id"] = string(SourceFile)
	}
	if v, ok := fileCfg["format"].(string); ok && v != "" {
		cfg.Format = v
		cfg.Sources["format"] = string(SourceFile)
	}
	if v, ok := fileCfg["timeout_seconds"].(float64); ok && v > 0 {
		cfg.Timeout = time.Duration(v * float64(time.Second))
		cfg.Sources["timeout_seconds"] = string(SourceFile)
	}
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("LETTA_BASE_URL"); v != "" {
		cfg.BaseURL = v
		cfg.Sources["base_url"] = string(SourceEnv)
	}
	if v := os.Getenv("LETTA_AGENT_ID"); v != "" {
		cfg.AgentID = v
		cfg.Sources["agent_id"] = string(SourceEnv)
	}
	if v := os.Getenv("LETTAQ_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Timeout = d
			cfg.Sources["timeout_seconds"] = string(SourceEnv)
		}
	}
}

// ApplyOverrides applies non-empty flag overrides to cfg.
func ApplyOverrides(cfg *Config, o FlagOverrides) {
	if o.BaseURL != "" {
		cfg.BaseURL = o.BaseURL
		cfg.Sources["base_url"] = string(SourceFlag)
	}
	if o.AgentID != "" {
		cfg.AgentID = o.AgentID
		cfg.Sources["agent_id"] = string(SourceFlag)
	}
	if o.Timeout > 0 {
		cfg.Timeout = o.Timeout
		cfg.Sources["timeout_seconds"] = string(SourceFlag)
	}
	if o.Format != "" {
		cfg.Format = o.Format
		cfg.Sources["format"] = string(SourceFlag)
	}
}

// getStringOrNumber extracts a value that may be either a string or number in JSON.
func getStringOrNumber(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case float64:
		// JSON numbers are unmarshaled as float64
		return strings.TrimSuffix(fmt.Sprintf("%.0f", val), ".0")
	default:
		return ""
	}
}

// Set persists a single key to the config file, creating it if needed.
func Set(key, value string) error {
	switch key {
	case "base_url", "agent_id", "format", "timeout_seconds":
	default:
		return fmt.Errorf("unknown config key %q", key)
	}

	path := ConfigFilePath()
	fileCfg := map[string]any{}
	if data, err := os.ReadFile(path); err == nil { //nolint:gosec // G304: user config
		_ = json.Unmarshal(data, &fileCfg)
	}

	if key == "timeout_seconds" {
		var secs float64
		if _, err := fmt.Sscanf(value, "%f", &secs); err != nil || secs <= 0 {
			return fmt.Errorf("timeout_seconds must be a positive number, got %q", value)
		}
		fileCfg[key] = secs
	} else {
		fileCfg[key] = value
	}

	return writeConfigFile(path, fileCfg)
}

// Unset removes a key from the config file.
func Unset(key string) error {
	path := ConfigFilePath()
	data, err := os.ReadFile(path) //nolint:gosec // G304: user config
	if err != nil {
		return nil // Nothing to unset
	}

	fileCfg := map[string]any{}
	if err := json.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("config file at %s is malformed: %w", path, err)
	}
	delete(fileCfg, key)

	return writeConfigFile(path, fileCfg)
}

func writeConfigFile(path string, fileCfg map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(fileCfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o600)
}

// ConfigFilePath returns the config file location under the XDG config dir.
func ConfigFilePath() string {
	return filepath.Join(ConfigDir(), "config.json")
}

// ConfigDir returns the lettaq config directory.
func ConfigDir() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, _ := os.UserHomeDir()
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "lettaq")
}

// NormalizeBaseURL ensures consistent URL format (no trailing slash).
func NormalizeBaseURL(url string) string {
	return strings.TrimSuffix(url, "/")
}
