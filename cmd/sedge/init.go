package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sedgehq/sedge/pkg/git"
	notesync "github.com/sedgehq/sedge/pkg/sync"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the vault directory and its git repository",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		ctx := cmd.Context()
		logger := slog.Default()

		if err := os.MkdirAll(cfg.NotesDir(), 0755); err != nil {
			return fmt.Errorf("creating notes directory: %w", err)
		}
		fmt.Printf("Notes directory ready at %s\n", cfg.NotesDir())

		if !git.IsInstalled() {
			fmt.Println("git not found on PATH, skipping repository setup")
			return nil
		}

		client := git.NewClient(cfg.VaultPath, cfg.GitTimeout, logger)
		if client.IsRepo(ctx) {
			fmt.Println("Vault is already a git repository")
			return nil
		}

		if err := client.Init(ctx); err != nil {
			return fmt.Errorf("git init: %w", err)
		}
		if err := client.AddAll(ctx); err != nil {
			return fmt.Errorf("git add: %w", err)
		}
		msg := notesync.FormatCommitMessage(notesync.CommitTypeChore, "vault", "initialize vault", "")
		if err := client.Commit(ctx, msg); err != nil {
			// Nothing staged yet is fine for a fresh vault.
			logger.Debug("initial commit skipped", "error", err)
		}
		fmt.Printf("Initialized git repository at %s\n", cfg.VaultPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
