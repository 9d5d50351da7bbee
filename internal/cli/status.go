package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/halolight/halo/internal/daemon"
	"github.com/halolight/halo/internal/domain"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current status of a running monitor",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := daemon.LoadConfig()
	if err != nil {
		return err
	}
	if !cfg.API.Enabled {
		return fmt.Errorf("the API is disabled in config; status requires a running monitor with api.enabled")
	}

	url := fmt.Sprintf("http://%s:%d/v1/status", cfg.API.Host, cfg.API.Port)
	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("is the monitor running? %w", err)
	}
	defer resp.Body.Close()

	var snap domain.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return fmt.Errorf("decode status: %w", err)
	}

	fmt.Printf("Status:  %s\n", snap.Status)
	if snap.Status == domain.StatusBusy {
		fmt.Printf("On call: %s\n", snap.Platform)
		if snap.Session != nil {
			fmt.Printf("Since:   %s\n", snap.Session.StartedAt.Local().Format("15:04:05"))
		}
		for _, p := range snap.Also {
			fmt.Printf("Also:    %s\n", p)
		}
	} else {
		fmt.Printf("Idle:    %.0fs\n", snap.IdleSeconds)
		if snap.ScreenLocked {
			fmt.Println("Screen:  locked")
		}
	}
	return nil
}
