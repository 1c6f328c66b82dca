// Package main is the entry point for the rpg-roller server and CLI
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-roller/cmd/server/client"
)

var rootCmd = &cobra.Command{
	Use:   "rpg-roller",
	Short: "RPG dice roller",
	Long: `rpg-roller evaluates tabletop dice notation such as "2d6+3" or "d20-1, d20+1"
under pluggable rule systems, and serves it over gRPC.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(rollCmd)
	rootCmd.AddCommand(systemsCmd)
	rootCmd.AddCommand(characterCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(client.ClientCmd)
}
