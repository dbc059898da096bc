package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/sedgehq/sedge/pkg/core"
)

var (
	listJSON      bool
	listLimit     int
	filterTag     string
	filterProject string
	filterMatch   string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes in the vault, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		if filterMatch != "" {
			if !doublestar.ValidatePattern(filterMatch) {
				return fmt.Errorf("invalid match pattern: %q", filterMatch)
			}
		}

		v := buildVault(cfg, slog.Default())
		notes, err := v.Service.List(cmd.Context(), listLimit, filterTag, filterProject)
		if err != nil {
			return err
		}

		if filterMatch != "" {
			var kept []core.Note
			for _, n := range notes {
				ok, _ := doublestar.Match(filterMatch, n.Slug+".md")
				if ok {
					kept = append(kept, n)
				}
			}
			notes = kept
		}

		if listJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(notes)
		}

		for _, n := range notes {
			line := fmt.Sprintf("%s  %s", n.ID, n.Title)
			if len(n.Tags) > 0 {
				line += "  [" + strings.Join(n.Tags, ", ") + "]"
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().IntVar(&listLimit, "limit", 50, "Maximum number of notes to show")
	listCmd.Flags().StringVar(&filterTag, "tag", "", "Filter notes by tag")
	listCmd.Flags().StringVar(&filterProject, "project", "", "Filter notes by project")
	listCmd.Flags().StringVar(&filterMatch, "match", "", "Filter notes by filename glob (doublestar syntax)")
}
