// ABOUTME: Configuration loader for the product-manager CLI and TUI
// ABOUTME: Layers flags over env vars, an optional config file, .env and defaults

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// AppName names the config directory and the env var prefix
	AppName = "product-manager"

	// EnvPrefix is prepended to every environment variable, e.g. PRODUCT_MANAGER_API_URL
	EnvPrefix = "PRODUCT_MANAGER"

	DefaultAPIURL        = "http://localhost:8081/api"
	DefaultTimeout       = 30 * time.Second
	DefaultToastDuration = 4 * time.Second
)

// Keys shared between viper, env vars and the config file
const (
	KeyAPIURL        = "api_url"
	KeyTimeout       = "timeout"
	KeyToastDuration = "toast_duration"
	KeySessionFile   = "session_file"
)

// flagKeys maps cobra flag names to config keys
var flagKeys = map[string]string{
	"api-url":        KeyAPIURL,
	"timeout":        KeyTimeout,
	"toast-duration": KeyToastDuration,
	"session-file":   KeySessionFile,
}

type Config struct {
	APIURL        string        // Backend base URL including the /api prefix
	Timeout       time.Duration // Per-request HTTP timeout
	ToastDuration time.Duration // Toast auto-dismiss, 0 disables
	SessionFile   string        // Where the bearer token is persisted
	ConfigDir     string        // Directory for config.yaml, session and debug log
	ConfigFile    string        // Config file actually read, empty if none
}

// DefaultConfigDir returns the config directory following the XDG spec
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", AppName)
}

// Load resolves configuration in priority order: flags, environment,
// config file, .env in the working directory, defaults.
// flags may be nil. A "config" flag, when set, names an explicit config file.
func Load(flags *pflag.FlagSet) (*Config, error) {
	// .env never overrides variables already present in the environment
	_ = godotenv.Load()

	configDir := DefaultConfigDir()

	v := viper.New()
	v.SetDefault(KeyAPIURL, DefaultAPIURL)
	v.SetDefault(KeyTimeout, DefaultTimeout)
	v.SetDefault(KeyToastDuration, DefaultToastDuration)
	v.SetDefault(KeySessionFile, "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	explicitFile := ""
	if flags != nil {
		if f := flags.Lookup("config"); f != nil {
			explicitFile = f.Value.String()
		}
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag --%s: %w", name, err)
				}
			}
		}
	}

	configFile, err := readConfigFile(v, explicitFile, configDir)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		APIURL:        normalizeURL(v.GetString(KeyAPIURL)),
		Timeout:       v.GetDuration(KeyTimeout),
		ToastDuration: v.GetDuration(KeyToastDuration),
		SessionFile:   v.GetString(KeySessionFile),
		ConfigDir:     configDir,
		ConfigFile:    configFile,
	}
	if cfg.SessionFile == "" && configDir != "" {
		cfg.SessionFile = filepath.Join(configDir, "session.json")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readConfigFile reads an explicit config file, or config.yaml from the
// config directory when present. Returns the path that was read.
func readConfigFile(v *viper.Viper, explicit, configDir string) (string, error) {
	path := explicit
	if path == "" {
		if configDir == "" {
			return "", nil
		}
		path = filepath.Join(configDir, "config.yaml")
		if _, err := os.Stat(path); err != nil {
			return "", nil
		}
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && explicit == "" {
			return "", nil
		}
		return "", fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return path, nil
}

// Validate checks that the resolved values are usable
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("invalid API URL %q: must be an http or https URL", c.APIURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.ToastDuration < 0 {
		return fmt.Errorf("toast duration cannot be negative, got %s", c.ToastDuration)
	}
	return nil
}

// normalizeURL adds http:// when no scheme is given and drops trailing slashes
func normalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	return strings.TrimRight(raw, "/")
}
