// Package cli implements the halo command-line interface using Cobra.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "halo",
	Short: "halo — drive a status light from your real availability",
	Long: `halo watches call apps, browser meeting tabs, and system idle state,
resolves them into one availability status (busy, available, idle, away),
and shows it on a Luxafor USB light.

Red means on a call. Green means available. Blue means idle. Dark means away.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
