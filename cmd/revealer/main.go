package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "revealer",
	Short: "Commit-reveal coordinator for hash-committed secrets",
	Long: `revealer releases each member's secret to a group only once every member
has submitted its own.

Examples:
  revealer serve --config revealer.toml        # Run the coordinator
  revealer hash alice                          # Print the commitment for "alice"
  revealer reveal --input alice --peer <hash>  # Reveal alice, learn the peer's secret`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(revealCmd)
	rootCmd.AddCommand(hashCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
