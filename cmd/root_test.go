// ABOUTME: Tests for the root command and global flag handling
// ABOUTME: Shared fixtures wire commands to the fake backend and a temp session file

package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/markalston/product-manager/internal/apitest"
	"github.com/markalston/product-manager/internal/client"
	"github.com/markalston/product-manager/internal/config"
	"github.com/markalston/product-manager/internal/session"
	"github.com/markalston/product-manager/internal/validation"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

const (
	testEmail    = "ada@example.com"
	testPassword = "secret1"
)

// setup points the commands at a fresh fake backend and resets flag state
func setup(t *testing.T) *apitest.Server {
	t.Helper()
	srv := apitest.New(t)
	srv.AddUser(testEmail, testPassword)

	cfg = &config.Config{
		APIURL:      srv.APIURL(),
		Timeout:     5 * time.Second,
		SessionFile: filepath.Join(t.TempDir(), "session.json"),
	}

	jsonOutput = false
	authEmail, authPassword, authConfirmPassword = "", "", ""
	listFilter = validation.FilterForm{}
	listSearch = ""
	productValues = validation.ProductForm{}
	deleteYes = false
	t.Cleanup(func() {
		cfg = nil
		jsonOutput = false
	})
	return srv
}

// signIn stores a token the fake backend accepts
func signIn(t *testing.T, srv *apitest.Server) {
	t.Helper()
	if err := session.NewFileStore(cfg.SessionFile).Set(srv.IssueToken(testEmail)); err != nil {
		t.Fatalf("storing token: %v", err)
	}
}

func seedProducts(srv *apitest.Server) {
	srv.Seed(
		client.Product{Name: "Lamp", Description: "Warm desk lamp", Category: "home", Price: decimal.NewFromInt(20), Rating: decimal.NewFromInt(4)},
		client.Product{Name: "Hammer", Description: "Steel claw hammer", Category: "tools", Price: decimal.NewFromInt(12), Rating: decimal.NewFromInt(3)},
		client.Product{Name: "Kettle", Description: "Electric kettle", Category: "kitchen", Price: decimal.NewFromInt(35), Rating: decimal.NewFromInt(5)},
	)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("PRODUCT_MANAGER_API_URL", "http://backend.example.com/api")
	defer func() { cfg = nil }()

	c := &cobra.Command{}
	c.Flags().String("api-url", "", "")
	if err := loadConfig(c, nil); err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.APIURL != "http://backend.example.com/api" {
		t.Errorf("expected env URL, got %s", cfg.APIURL)
	}
}

func TestLoadConfig_FlagOverridesEnv(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("PRODUCT_MANAGER_API_URL", "http://backend.example.com/api")
	defer func() { cfg = nil }()

	c := &cobra.Command{}
	c.Flags().String("api-url", "", "")
	if err := c.Flags().Parse([]string{"--api-url", "http://flag-override.example.com/api"}); err != nil {
		t.Fatal(err)
	}
	if err := loadConfig(c, nil); err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.APIURL != "http://flag-override.example.com/api" {
		t.Errorf("expected flag to override env, got %s", cfg.APIURL)
	}
}

func TestLoadConfig_InvalidURL(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("PRODUCT_MANAGER_API_URL", "ftp://backend.example.com")
	defer func() { cfg = nil }()

	if err := loadConfig(&cobra.Command{}, nil); err == nil {
		t.Error("expected an error for a non-http URL")
	}
}

func TestJSONOutput(t *testing.T) {
	jsonOutput = true
	defer func() { jsonOutput = false }()

	if !IsJSONOutput() {
		t.Error("expected IsJSONOutput to return true")
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"login", "signup", "logout", "whoami", "products", "ui"}
	for _, name := range want {
		found := false
		for _, c := range rootCmd.Commands() {
			if c.Name() == name {
				found = true
			}
		}
		if !found {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestReportError_UnauthorizedClearsSession(t *testing.T) {
	srv := setup(t)
	signIn(t, srv)
	store := newStore()

	var buf bytes.Buffer
	code := reportError(&buf, store, &client.APIError{StatusCode: 401}, "fallback")

	if code != exitError {
		t.Errorf("expected exit code %d, got %d", exitError, code)
	}
	if session.Authenticated(store) {
		t.Error("expected the session to be cleared")
	}
	if !strings.Contains(buf.String(), "product-manager login") {
		t.Errorf("expected a re-login hint, got %q", buf.String())
	}
}

func TestReportError_ServerMessage(t *testing.T) {
	setup(t)
	var buf bytes.Buffer

	reportError(&buf, newStore(), &client.APIError{StatusCode: 500, Message: "Database down"}, "fallback")
	if !strings.Contains(buf.String(), "Database down") {
		t.Errorf("expected server message, got %q", buf.String())
	}

	buf.Reset()
	reportError(&buf, newStore(), &client.APIError{StatusCode: 500}, "Failed to submit product")
	if !strings.Contains(buf.String(), "Failed to submit product") {
		t.Errorf("expected fallback, got %q", buf.String())
	}
}
