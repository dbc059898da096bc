package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sedgehq/sedge"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of sedge",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sedge version %s\n", sedge.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
