package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/halolight/halo/internal/daemon"
	"github.com/halolight/halo/internal/engine"
	"github.com/halolight/halo/internal/infra/sqlite"
)

func init() {
	sessionsCmd.Flags().IntVar(&sessionsLimit, "limit", 20, "Maximum number of sessions to list")
	rootCmd.AddCommand(sessionsCmd)
}

var sessionsLimit int

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List recent call sessions from history",
	RunE:  runSessions,
}

func runSessions(cmd *cobra.Command, args []string) error {
	cfg, err := daemon.LoadConfig()
	if err != nil {
		return err
	}
	if !cfg.History.Enabled {
		return fmt.Errorf("call history is disabled in config")
	}

	db, err := sqlite.Open(daemon.HaloHome())
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer db.Close()

	records, err := db.ListSessions(sessionsLimit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No recorded calls yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tPLATFORM\tDURATION")
	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			rec.StartedAt.Local().Format("2006-01-02 15:04"),
			rec.Platform,
			engine.FormatDuration(rec.Duration),
		)
	}
	return w.Flush()
}
