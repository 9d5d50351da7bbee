package daemon

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/halolight/halo/internal/api"
	"github.com/halolight/halo/internal/detect"
	"github.com/halolight/halo/internal/domain"
	"github.com/halolight/halo/internal/engine"
	"github.com/halolight/halo/internal/health"
	"github.com/halolight/halo/internal/idle"
	_ "github.com/halolight/halo/internal/infra/metrics" // Register Prometheus metrics
	"github.com/halolight/halo/internal/infra/sqlite"
	"github.com/halolight/halo/internal/output"
)

// Daemon is the monitor runtime. It wires the engine to its detectors,
// idle probe, output sink, history store, and the local API.
type Daemon struct {
	Config  Config
	DB      *sqlite.DB
	Engine  *engine.Engine
	Health  *health.Checker
	Server  *api.Server
	Version string

	sink   domain.OutputSink
	cancel context.CancelFunc
}

// New creates and initializes a Daemon from the on-disk config.
func New(version string) (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(cfg, version)
}

// NewWithConfig creates a Daemon with the given configuration.
func NewWithConfig(cfg Config, version string) (*Daemon, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Output sink: real light when enabled and present, otherwise
	// fall back to log-only output rather than refusing to run.
	var sink domain.OutputSink
	if cfg.Light.Enabled {
		lux, err := output.OpenLuxafor(cfg.Light.Brightness)
		if err != nil {
			fmt.Fprintf(os.Stderr, "WARNING: %v — running without the light\n", err)
			sink = output.NewLogSink()
		} else {
			sink = lux
		}
	} else {
		sink = output.NewLogSink()
	}

	// History store
	var db *sqlite.DB
	if cfg.History.Enabled {
		var err error
		db, err = sqlite.Open(HaloHome())
		if err != nil {
			return nil, fmt.Errorf("open history database: %w", err)
		}
	}

	engCfg := engine.Config{
		BaseTick:        time.Second,
		CallInterval:    cfg.Monitor.CallInterval(),
		IdleInterval:    cfg.Monitor.IdleInterval(),
		IdleThreshold:   time.Duration(cfg.Monitor.IdleThreshold) * time.Second,
		AwayThreshold:   time.Duration(cfg.Monitor.AwayThreshold) * time.Second,
		DetectorTimeout: time.Duration(cfg.Monitor.DetectorTimeout) * time.Second,
		MinCallReport:   time.Duration(cfg.Monitor.MinCallReport) * time.Second,
		Verbose:         cfg.Monitor.Verbose,
	}

	probe := idle.NewProbe(cfg.Monitor.IdleInterval())
	eng, err := engine.New(engCfg, detect.All(), probe, sink)
	if err != nil {
		if db != nil {
			db.Close()
		}
		return nil, err
	}
	if db != nil {
		eng.SetStore(db)
	}

	checker := health.NewChecker(db, cfg.Light.Enabled)
	srv := api.NewServer(eng, storeOrNil(db), checker, version)
	if cfg.Telemetry.Prometheus {
		srv.EnableMetrics()
	}

	return &Daemon{
		Config:  cfg,
		DB:      db,
		Engine:  eng,
		Health:  checker,
		Server:  srv,
		Version: version,
		sink:    sink,
	}, nil
}

// storeOrNil keeps a typed-nil *sqlite.DB out of the interface.
func storeOrNil(db *sqlite.DB) domain.SessionStore {
	if db == nil {
		return nil
	}
	return db
}

// Run starts the monitor and blocks until a signal or ctx cancels it.
// The engine loop is the process's main job; the API server and health
// checker run beside it.
func (d *Daemon) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	defer cancel()

	go d.Health.Run(ctx)

	if d.Config.History.Enabled && d.Config.History.RetentionDays > 0 {
		go d.pruneLoop(ctx)
	}

	var httpServer *http.Server
	if d.Config.API.Enabled {
		addr := fmt.Sprintf("%s:%d", d.Config.API.Host, d.Config.API.Port)
		httpServer = &http.Server{
			Addr:         addr,
			Handler:      d.Server.Handler(),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  time.Minute,
		}
		go func() {
			log.Printf("[daemon] API listening on http://%s", addr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("[daemon] API server error: %v", err)
			}
		}()
	}

	// Graceful shutdown on signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case <-sigCh:
			log.Printf("[daemon] shutting down")
			cancel()
		case <-ctx.Done():
		}
	}()

	// Blocks until cancelled; releases the light on the way out.
	err := d.Engine.Run(ctx)

	if httpServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}
	if d.DB != nil {
		_ = d.DB.Close()
	}
	return err
}

// pruneLoop trims old history records once a day.
func (d *Daemon) pruneLoop(ctx context.Context) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		cutoff := time.Now().AddDate(0, 0, -d.Config.History.RetentionDays)
		if n, err := d.DB.Prune(cutoff); err != nil {
			log.Printf("[daemon] prune history: %v", err)
		} else if n > 0 {
			log.Printf("[daemon] pruned %d old sessions", n)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Close shuts down daemon resources without running the loop.
func (d *Daemon) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	if d.DB != nil {
		_ = d.DB.Close()
	}
}
