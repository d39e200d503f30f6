// ABOUTME: Root command for the product-manager CLI
// ABOUTME: Handles global flags, configuration and the shared client/session wiring

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/markalston/product-manager/internal/client"
	"github.com/markalston/product-manager/internal/config"
	"github.com/markalston/product-manager/internal/logger"
	"github.com/markalston/product-manager/internal/session"
	"github.com/spf13/cobra"
)

// Exit codes shared by every command
const (
	exitOK     = 0
	exitFailed = 1 // validation failed, declined
	exitError  = 2 // connectivity, server error, unauthorized or not logged in
)

var (
	configFile string
	jsonOutput bool

	// cfg is resolved before any command runs
	cfg *config.Config
)

// rootCmd is the base command. Without a subcommand it opens the TUI.
var rootCmd = &cobra.Command{
	Use:   "product-manager",
	Short: "Manage products from the terminal",
	Long: `product-manager is a terminal client for the product catalog REST API.

Run it without a subcommand to open the interactive UI, or use the
subcommands from scripts.

Exit codes:
  0 - Success
  1 - Validation failed or declined
  2 - Error (connectivity, server error, unauthorized or not logged in)

Environment Variables:
  PRODUCT_MANAGER_API_URL         Backend API URL (default: http://localhost:8081/api)
  PRODUCT_MANAGER_TIMEOUT         Per-request timeout (default: 30s)
  PRODUCT_MANAGER_TOAST_DURATION  Notification auto-dismiss delay, 0 keeps them (default: 4s)
  PRODUCT_MANAGER_SESSION_FILE    Session token file (default: <config dir>/session.json)
  LOG_LEVEL                       debug, info, warn, error (default: warn)
  LOG_FORMAT                      text, json (default: text)`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUI(cmd.Context())
	},
}

// Execute runs the root command
func Execute() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Config file (default: <config dir>/config.yaml)")
	flags.String("api-url", "", "Backend API URL (overrides PRODUCT_MANAGER_API_URL)")
	flags.Duration("timeout", config.DefaultTimeout, "Per-request timeout")
	flags.Duration("toast-duration", config.DefaultToastDuration, "Notification auto-dismiss delay in the UI, 0 keeps them")
	flags.String("session-file", "", "Where the session token is stored")
	flags.BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
}

// loadConfig resolves configuration for the command being run
func loadConfig(cmd *cobra.Command, args []string) error {
	logger.Init(os.Stderr)

	c, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	cfg = c
	slog.Debug("configuration loaded", "api_url", cfg.APIURL, "config_file", cfg.ConfigFile, "session_file", cfg.SessionFile)
	return nil
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// newStore opens the session file named by the configuration
func newStore() session.Store {
	return session.NewFileStore(cfg.SessionFile)
}

// newClient builds an API client reading tokens from store
func newClient(store session.Store) *client.Client {
	return client.New(cfg.APIURL, store, client.WithTimeout(cfg.Timeout))
}

// requireSession prints a hint and reports false when nobody is logged in
func requireSession(w io.Writer, store session.Store) bool {
	if session.Authenticated(store) {
		return true
	}
	fmt.Fprintln(w, "Error: not logged in. Run 'product-manager login' first.")
	return false
}

// reportError prints err and returns the matching exit code.
// A 401 means the stored token is no longer accepted, so it is discarded.
func reportError(w io.Writer, store session.Store, err error, fallback string) int {
	if client.IsUnauthorized(err) {
		if cerr := store.Clear(); cerr != nil {
			slog.Warn("failed to clear session", "error", cerr)
		}
		fmt.Fprintln(w, "Error: session expired or was rejected. Run 'product-manager login' to sign in again.")
		return exitError
	}
	fmt.Fprintf(w, "Error: %s\n", client.Message(err, fallback))
	return exitError
}

// exitWith terminates the process for non-zero codes
func exitWith(code int) {
	if code != exitOK {
		os.Exit(code)
	}
}
