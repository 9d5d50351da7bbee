package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/halolight/halo/internal/daemon"
)

func init() {
	runCmd.Flags().IntVar(&runBrightness, "brightness", -1, "LED brightness 0-100 (overrides config)")
	runCmd.Flags().BoolVar(&runVerbose, "verbose", false, "Log the per-tick detection snapshot")
	runCmd.Flags().BoolVar(&runNoLight, "no-light", false, "Run without the USB light (log-only output)")
	rootCmd.AddCommand(runCmd)
}

var (
	runBrightness int
	runVerbose    bool
	runNoLight    bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the monitor in the foreground",
	Long: `Start the monitor loop: poll call detectors and system idle state,
resolve the merged status, and drive the light until interrupted.`,
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := daemon.LoadConfig()
	if err != nil {
		return err
	}

	// Flag overrides
	if runBrightness >= 0 {
		cfg.Light.Brightness = runBrightness
	}
	if runVerbose {
		cfg.Monitor.Verbose = true
	}
	if runNoLight {
		cfg.Light.Enabled = false
	}

	d, err := daemon.NewWithConfig(cfg, rootCmd.Version)
	if err != nil {
		return err
	}

	return d.Run(context.Background())
}
