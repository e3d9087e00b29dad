// Package config handles configuration loading and memo home resolution.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Config types
// ---------------------------------------------------------------------------

// StorageConfig locates the database holding memos and the storage area.
type StorageConfig struct {
	Path string `yaml:"path"` // empty means <home>/memo.db
}

// SessionConfig controls the sign-in gate.
type SessionConfig struct {
	Required bool   `yaml:"required"`
	TTL      string `yaml:"ttl"`    // Go duration, e.g. "720h"
	Secret   string `yaml:"secret"` // #nosec G117 -- signing secret is an intentional field name; empty means a generated key file
}

// ListingConfig holds memo list defaults.
type ListingConfig struct {
	Collation string `yaml:"collation"` // BCP 47 tag used to order category names
	Sort      string `yaml:"sort"`      // "recent" | "category"
}

// WatchConfig controls polling for changes made by other processes.
type WatchConfig struct {
	Interval string `yaml:"interval"` // Go duration
}

// ServerConfig holds the HTTP API settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// AppConfig is the root per-home configuration.
type AppConfig struct {
	Locale  string        `yaml:"locale"` // "ja" | "en" | "fr"
	Storage StorageConfig `yaml:"storage"`
	Session SessionConfig `yaml:"session"`
	Listing ListingConfig `yaml:"listing"`
	Watch   WatchConfig   `yaml:"watch"`
	Server  ServerConfig  `yaml:"server"`
}

const (
	defaultSessionTTL    = 720 * time.Hour
	defaultWatchInterval = time.Second
)

// Default returns an AppConfig populated with sensible defaults.
func Default() *AppConfig {
	return &AppConfig{
		Locale: "en",
		Session: SessionConfig{
			Required: true,
			TTL:      defaultSessionTTL.String(),
		},
		Listing: ListingConfig{
			Collation: "ja",
			Sort:      "recent",
		},
		Watch: WatchConfig{
			Interval: defaultWatchInterval.String(),
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8787",
		},
	}
}

// Load reads a per-home config.yaml from path.
// If the file does not exist it returns Default() with no error.
// Missing keys retain their default values.
func Load(path string) (*AppConfig, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	// Unmarshal into a plain map so we can apply only the keys that are present.
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	if v, ok := raw["locale"].(string); ok && v != "" {
		cfg.Locale = v
	}
	if st, ok := raw["storage"].(map[string]any); ok {
		if v, ok := st["path"].(string); ok {
			cfg.Storage.Path = v
		}
	}
	if sess, ok := raw["session"].(map[string]any); ok {
		if v, ok := sess["required"].(bool); ok {
			cfg.Session.Required = v
		}
		if v, ok := sess["ttl"].(string); ok && v != "" {
			cfg.Session.TTL = v
		}
		if v, ok := sess["secret"].(string); ok {
			cfg.Session.Secret = v
		}
	}
	if lst, ok := raw["listing"].(map[string]any); ok {
		if v, ok := lst["collation"].(string); ok && v != "" {
			cfg.Listing.Collation = v
		}
		if v, ok := lst["sort"].(string); ok && v != "" {
			cfg.Listing.Sort = v
		}
	}
	if w, ok := raw["watch"].(map[string]any); ok {
		if v, ok := w["interval"].(string); ok && v != "" {
			cfg.Watch.Interval = v
		}
	}
	if srv, ok := raw["server"].(map[string]any); ok {
		if v, ok := srv["addr"].(string); ok && v != "" {
			cfg.Server.Addr = v
		}
	}

	return cfg, nil
}

// Save writes cfg to path as YAML.
func Save(path string, cfg *AppConfig) error {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o600)
}

// DatabasePath returns the configured database path, defaulting to
// <home>/memo.db. Relative paths are resolved against home.
func (c *AppConfig) DatabasePath(home string) string {
	p := strings.TrimSpace(c.Storage.Path)
	if p == "" {
		return filepath.Join(home, "memo.db")
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(home, p)
}

// SessionTTL returns the parsed session lifetime, or the default when the
// configured value is invalid or not positive.
func (c *AppConfig) SessionTTL() time.Duration {
	return parseDuration(c.Session.TTL, defaultSessionTTL)
}

// WatchInterval returns the parsed polling interval, or the default when the
// configured value is invalid or not positive.
func (c *AppConfig) WatchInterval() time.Duration {
	return parseDuration(c.Watch.Interval, defaultWatchInterval)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// ---------------------------------------------------------------------------
// Memo home resolution
// ---------------------------------------------------------------------------

// homeKey is the global config key holding the persisted memo home.
const homeKey = "memo_home"

// globalConfigPath returns the path to the global memoapp config file.
// This file stores only memo_home.
func globalConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "memoapp", "config.yaml"), nil
}

// normalizePath expands ~ and makes the path absolute.
func normalizePath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[2:])
	}
	return filepath.Abs(os.ExpandEnv(path))
}

// HomeEnv names the environment variable that overrides the memo home.
const HomeEnv = "MEMOAPP_HOME"

// ResolveHome returns the memo home path and the source of the resolution.
// Priority: MEMOAPP_HOME env → persisted global config → ~/.memoapp
// source is one of "env", "config", or "default".
func ResolveHome() (path, source string) {
	if env := os.Getenv(HomeEnv); env != "" {
		p, err := normalizePath(env)
		if err == nil {
			return p, "env"
		}
	}

	if persisted, ok, _ := GetPersistedHome(); ok {
		return persisted, "config"
	}

	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".memoapp"), "default"
}

// GetHome returns the resolved memo home path.
func GetHome() string {
	path, _ := ResolveHome()
	return path
}

// GetPersistedHome reads memo_home from the global config.
// Returns ("", false, nil) if not set.
func GetPersistedHome() (string, bool, error) {
	cfgPath, err := globalConfigPath()
	if err != nil {
		return "", false, err
	}

	data, err := os.ReadFile(cfgPath)
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return "", false, nil
	}

	val, _ := raw[homeKey].(string)
	val = strings.TrimSpace(val)
	if val == "" {
		return "", false, nil
	}

	p, err := normalizePath(val)
	if err != nil {
		return "", false, err
	}
	return p, true, nil
}

// SetPersistedHome normalizes path and persists it in the global config.
// Returns the normalized path.
func SetPersistedHome(path string) (string, error) {
	normalized, err := normalizePath(path)
	if err != nil {
		return "", err
	}

	cfgPath, err := globalConfigPath()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
		return "", err
	}

	// Read existing global config, preserving any other keys.
	var raw map[string]any
	if data, err := os.ReadFile(cfgPath); err == nil {
		_ = yaml.Unmarshal(data, &raw)
	}
	if raw == nil {
		raw = make(map[string]any)
	}
	raw[homeKey] = normalized

	out, err := yaml.Marshal(raw)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(cfgPath, out, 0o600); err != nil {
		return "", err
	}
	return normalized, nil
}

// ClearPersistedHome removes memo_home from the global config.
// Returns true if the key was present and removed.
// If the file becomes empty after removal it is deleted.
func ClearPersistedHome() (bool, error) {
	cfgPath, err := globalConfigPath()
	if err != nil {
		return false, err
	}

	data, err := os.ReadFile(cfgPath)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return false, nil
	}

	if _, ok := raw[homeKey]; !ok {
		return false, nil
	}
	delete(raw, homeKey)

	if len(raw) == 0 {
		_ = os.Remove(cfgPath)
		return true, nil
	}

	out, err := yaml.Marshal(raw)
	if err != nil {
		return false, err
	}
	return true, os.WriteFile(cfgPath, out, 0o600)
}
