// Package main provides the entry point for the keyfang CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/keyfang/cmd/keyfang/commands"
	"github.com/Sumatoshi-tech/keyfang/pkg/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "keyfang",
		Short: "Keyfang - pin-tumbler key bitting enumeration",
		Long: `Keyfang enumerates, counts, and samples legal pin-tumbler key bittings.

Commands:
  count     Count legal keys under EN 1303 rules and a MACS tolerance
  physical  Count MACS-only (physically cuttable) keys`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add commands.
	rootCmd.AddCommand(commands.NewCountCommand())
	rootCmd.AddCommand(commands.NewPhysicalCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "keyfang %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
