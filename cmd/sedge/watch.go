package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	notesync "github.com/sedgehq/sedge/pkg/sync"
)

var (
	watchPattern string
	watchSync    bool
)

// debounceDelay batches rapid editor save bursts into one commit.
const debounceDelay = 2 * time.Second

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the notes directory and optionally sync on change",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		if !doublestar.ValidatePattern(watchPattern) {
			return fmt.Errorf("invalid watch pattern: %q", watchPattern)
		}
		ctx := cmd.Context()
		logger := slog.Default()

		v := buildVault(cfg, logger)
		if watchSync && v.Sync == nil {
			return fmt.Errorf("--sync requires git on PATH")
		}

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("creating watcher: %w", err)
		}
		defer watcher.Close()

		if err := watcher.Add(cfg.NotesDir()); err != nil {
			return fmt.Errorf("watching %s: %w", cfg.NotesDir(), err)
		}
		logger.Info("watching for changes", "dir", cfg.NotesDir(), "pattern", watchPattern)

		var timer *time.Timer
		var timerC <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return nil
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) {
					continue
				}
				name := filepath.Base(event.Name)
				if ok, _ := doublestar.Match(watchPattern, name); !ok {
					continue
				}
				logger.Info("change detected", "file", name, "op", event.Op.String())
				if watchSync {
					if timer == nil {
						timer = time.NewTimer(debounceDelay)
					} else {
						timer.Reset(debounceDelay)
					}
					timerC = timer.C
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				logger.Warn("watch error", "error", err)
			case <-timerC:
				timerC = nil
				msg := notesync.FormatCommitMessage(notesync.CommitTypeDocs, "notes", "sync watched changes", "")
				result := v.Sync.CommitAndPush(ctx, msg)
				if result.Success {
					logger.Info("synced", "message", result.Message)
				} else {
					logger.Warn("sync failed", "message", result.Message)
				}
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVar(&watchPattern, "pattern", "*.md", "Filename glob to react to (doublestar syntax)")
	watchCmd.Flags().BoolVar(&watchSync, "sync", false, "Commit and push after changes settle")
}
