package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sedgehq/sedge"
	"github.com/sedgehq/sedge/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the note tools over MCP stdio",
	Long: `Reads JSON-RPC requests line by line from stdin and writes responses
to stdout. All logging goes to stderr so the protocol stream stays clean.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		logger := slog.Default()

		v := buildVault(cfg, logger)
		if err := v.Service.Repo().Initialize(cmd.Context()); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		handler := mcp.NewToolHandler(v.Service, v.Sync, cfg.AutoSync, logger)
		server := mcp.NewServer(handler, sedge.Version, logger)

		logger.Info("serving MCP on stdio", "vault", cfg.VaultPath, "backend", cfg.Backend)
		if err := server.Run(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
