// ABOUTME: UI command launching the interactive terminal interface
// ABOUTME: Moves logging into a debug file while the TUI owns the terminal

package cmd

import (
	"context"
	"log/slog"

	"github.com/markalston/product-manager/internal/logger"
	"github.com/markalston/product-manager/internal/session"
	"github.com/markalston/product-manager/internal/tui"
	"github.com/spf13/cobra"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the interactive interface",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUI(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(uiCmd)
}

func runUI(ctx context.Context) error {
	closer, err := logger.InitFile(cfg.ConfigDir)
	if err != nil {
		slog.Warn("debug log unavailable", "error", err)
	}
	defer closer.Close()

	store := session.NewFileStore(cfg.SessionFile)
	slog.Info("starting ui", "api_url", cfg.APIURL, "authenticated", session.Authenticated(store))

	return tui.Run(ctx, tui.Deps{
		Client:        newClient(store),
		Session:       store,
		ToastDuration: cfg.ToastDuration,
		SessionFile:   cfg.SessionFile,
	})
}
