// ABOUTME: Tests for configuration loading and precedence
// ABOUTME: Covers defaults, env vars, config file and flag overrides

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	for _, key := range []string{"API_URL", "TIMEOUT", "TOAST_DURATION", "SESSION_FILE"} {
		t.Setenv(EnvPrefix+"_"+key, "")
	}
	return filepath.Join(dir, AppName)
}

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("config", "", "")
	fs.String("api-url", "", "")
	fs.Duration("timeout", 0, "")
	fs.Duration("toast-duration", 0, "")
	fs.String("session-file", "", "")
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIURL != DefaultAPIURL {
		t.Errorf("expected default API URL %s, got %s", DefaultAPIURL, cfg.APIURL)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("expected default timeout, got %s", cfg.Timeout)
	}
	if cfg.ToastDuration != 4*time.Second {
		t.Errorf("expected 4s toast duration, got %s", cfg.ToastDuration)
	}
	if cfg.SessionFile != filepath.Join(dir, "session.json") {
		t.Errorf("expected session file in config dir, got %s", cfg.SessionFile)
	}
	if cfg.ConfigFile != "" {
		t.Errorf("expected no config file, got %s", cfg.ConfigFile)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("PRODUCT_MANAGER_API_URL", "http://products.example.com/api/")
	t.Setenv("PRODUCT_MANAGER_TOAST_DURATION", "0s")

	cfg, err := Load(newFlags())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIURL != "http://products.example.com/api" {
		t.Errorf("expected env URL without trailing slash, got %s", cfg.APIURL)
	}
	if cfg.ToastDuration != 0 {
		t.Errorf("expected toast duration 0, got %s", cfg.ToastDuration)
	}
}

func TestLoad_FlagOverridesEnv(t *testing.T) {
	isolate(t)
	t.Setenv("PRODUCT_MANAGER_API_URL", "http://env.example.com/api")

	fs := newFlags()
	if err := fs.Parse([]string{"--api-url", "http://flag.example.com/api", "--timeout", "5s"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load(fs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIURL != "http://flag.example.com/api" {
		t.Errorf("expected flag to override env, got %s", cfg.APIURL)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %s", cfg.Timeout)
	}
}

func TestLoad_ConfigFileInConfigDir(t *testing.T) {
	dir := isolate(t)
	if err := os.MkdirAll(dir, 0700); err != nil {
		t.Fatal(err)
	}
	content := "api_url: http://file.example.com/api\ntoast_duration: 2s\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(newFlags())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIURL != "http://file.example.com/api" {
		t.Errorf("expected URL from config file, got %s", cfg.APIURL)
	}
	if cfg.ToastDuration != 2*time.Second {
		t.Errorf("expected 2s toast from config file, got %s", cfg.ToastDuration)
	}
	if cfg.ConfigFile == "" {
		t.Error("expected ConfigFile to be recorded")
	}
}

func TestLoad_EnvOverridesConfigFile(t *testing.T) {
	dir := isolate(t)
	if err := os.MkdirAll(dir, 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("api_url: http://file.example.com/api\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PRODUCT_MANAGER_API_URL", "http://env.example.com/api")

	cfg, err := Load(newFlags())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIURL != "http://env.example.com/api" {
		t.Errorf("expected env to override config file, got %s", cfg.APIURL)
	}
}

func TestLoad_ExplicitConfigMissing(t *testing.T) {
	isolate(t)
	fs := newFlags()
	if err := fs.Parse([]string{"--config", filepath.Join(t.TempDir(), "nope.yaml")}); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(fs); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestLoad_InvalidURL(t *testing.T) {
	isolate(t)
	t.Setenv("PRODUCT_MANAGER_API_URL", "ftp://example.com")

	if _, err := Load(nil); err == nil {
		t.Error("expected error for non-http URL")
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"localhost:8081/api", "http://localhost:8081/api"},
		{"https://example.com/api/", "https://example.com/api"},
		{"  http://example.com  ", "http://example.com"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := normalizeURL(tt.in); got != tt.want {
			t.Errorf("normalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
