package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	notesync "github.com/sedgehq/sedge/pkg/sync"
)

var (
	syncMode    string
	syncMessage string
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize the vault with its git remote",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		ctx := cmd.Context()

		v := buildVault(cfg, slog.Default())
		if v.Sync == nil {
			return fmt.Errorf("git not found on PATH")
		}

		var result notesync.Result
		switch syncMode {
		case "status":
			result = v.Sync.Status(ctx)
		case "pull":
			result = v.Sync.Pull(ctx)
		case "check":
			result = v.Sync.CheckSetup(ctx)
		case "emergency":
			notes, err := v.Service.Repo().List(ctx)
			if err != nil {
				return err
			}
			result = v.Sync.EmergencySync(ctx, notes)
		case "full":
			notes, err := v.Service.Repo().List(ctx)
			if err != nil {
				return err
			}
			result = v.Sync.FullSync(ctx, notes, syncMessage)
		default:
			return fmt.Errorf("unknown sync mode %q", syncMode)
		}

		fmt.Println(result.Message)
		if result.Details != "" {
			fmt.Println(result.Details)
		}
		if !result.Success {
			return fmt.Errorf("sync failed")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.Flags().StringVar(&syncMode, "mode", "full", "Sync mode: full, status, pull, check or emergency")
	syncCmd.Flags().StringVar(&syncMessage, "message", "", "Commit message override")
}
