package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/talgya/hollowreach/internal/config"
	"github.com/talgya/hollowreach/internal/eventlog"
	"github.com/talgya/hollowreach/internal/mapgraph"
	"github.com/talgya/hollowreach/internal/orchestrator"
	"github.com/talgya/hollowreach/internal/persistence"
	"github.com/talgya/hollowreach/internal/snapshot"
	"github.com/talgya/hollowreach/internal/transport"
	"github.com/talgya/hollowreach/internal/worldgen"
	"github.com/talgya/hollowreach/internal/worldmodel"
)

type runOptions struct {
	seed          int64
	baseDir       string
	dbPath        string
	scenarioPath  string
	intervalMS    int
	maxTicks      uint64
	serveAddr     string
	snapshotEvery uint64
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{
		seed:          42,
		baseDir:       "data/runs",
		dbPath:        "data/hollowreach.db",
		intervalMS:    200,
		snapshotEvery: 24,
	}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the simulation, advancing one hour per interval",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoop(opts)
		},
	}
	flags := cmd.Flags()
	flags.Int64Var(&opts.seed, "seed", opts.seed, "world seed")
	flags.StringVar(&opts.baseDir, "base-dir", opts.baseDir, "snapshot base directory")
	flags.StringVar(&opts.dbPath, "db", opts.dbPath, "run-history SQLite path")
	flags.StringVar(&opts.scenarioPath, "scenario", "", "optional YAML scenario config overriding defaults")
	flags.IntVar(&opts.intervalMS, "interval-ms", opts.intervalMS, "real-time milliseconds per simulated hour")
	flags.Uint64Var(&opts.maxTicks, "max-ticks", opts.maxTicks, "stop after this many ticks (0 = run until signaled)")
	flags.StringVar(&opts.serveAddr, "serve", "", "if set, serve /events and /ws on this address (e.g. :8080)")
	flags.Uint64Var(&opts.snapshotEvery, "snapshot-every", opts.snapshotEvery, "write a snapshot every N ticks (0 = only at shutdown)")
	return cmd
}

func runLoop(opts *runOptions) error {
	cfg := config.Default()
	if opts.scenarioPath != "" {
		loaded, err := config.LoadScenarioYAML(opts.scenarioPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	world, graph := worldgen.CreateWorld(opts.seed, cfg)
	slog.Info("world generated", "seed", opts.seed, "sites", len(world.Sites), "npcs", len(world.NPCs))

	if err := os.MkdirAll(opts.baseDir, 0o755); err != nil {
		return fmt.Errorf("run: mkdir %s: %w", opts.baseDir, err)
	}
	sink, err := eventlog.Open(fmt.Sprintf("%s/events.ndjson", opts.baseDir))
	if err != nil {
		return err
	}
	defer sink.Close()

	db, err := persistence.Open(opts.dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	runInstanceID := uuid.New().String()
	slog.Info("run instance", "id", runInstanceID)
	if err := db.SaveMeta("run_instance_id", runInstanceID); err != nil {
		slog.Warn("failed to record run instance id", "error", err)
	}

	hub := transport.NewHub()
	var httpServer *http.Server
	if opts.serveAddr != "" {
		httpServer = &http.Server{Addr: opts.serveAddr, Handler: transport.Router(hub)}
		go func() {
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("transport server stopped", "error", err)
			}
		}()
		slog.Info("transport listening", "addr", opts.serveAddr)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	stop := false
	go func() {
		<-sigCh
		slog.Info("received shutdown signal")
		stop = true
	}()

	ticker := time.NewTicker(time.Duration(opts.intervalMS) * time.Millisecond)
	defer ticker.Stop()

	started := time.Now()
	ticksApplied := uint64(0)

	for !stop {
		<-ticker.C

		elapsed := time.Since(started)
		owed := uint64(elapsed/(time.Duration(opts.intervalMS)*time.Millisecond)) - ticksApplied
		if owed == 0 {
			continue
		}
		if owed > uint64(cfg.MaxCatchupTicks) {
			slog.Warn("driver behind real time, capping catch-up", "owed", owed, "cap", cfg.MaxCatchupTicks)
			owed = uint64(cfg.MaxCatchupTicks)
		}

		for i := uint64(0); i < owed; i++ {
			result, err := orchestrator.TickHour(world, cfg, graph, nil)
			if err != nil {
				return fmt.Errorf("run: tick %d: %w", world.Tick, err)
			}
			world = result.World
			ticksApplied++

			if err := sink.Append(result.Events); err != nil {
				slog.Error("eventlog append failed", "error", err)
			}
			hub.Publish(result.Events)
			db.RecordTick(result.Events, result.DailySummary)

			if opts.snapshotEvery > 0 && world.Tick%opts.snapshotEvery == 0 {
				writeSnapshot(opts, cfg, world)
			}
			if opts.maxTicks > 0 && world.Tick >= opts.maxTicks {
				stop = true
				break
			}
		}
	}

	writeSnapshot(opts, cfg, world)

	if httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(ctx)
	}

	slog.Info("simulation stopped", "finalTick", world.Tick)
	return nil
}

func writeSnapshot(opts *runOptions, cfg config.Config, world worldmodel.World) {
	now := time.Now()
	runID := snapshot.RunID(now)
	if err := snapshot.Write(opts.baseDir, world.Seed, runID, now, world, &cfg); err != nil {
		slog.Error("snapshot write failed", "error", err)
	}
}
