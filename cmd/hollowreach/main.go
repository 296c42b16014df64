// Command hollowreach is the CLI scenario harness spec.md Section 1 calls
// out of scope for the core engine: it wires internal/worldgen ->
// internal/orchestrator.TickHour in a loop, writing to internal/eventlog,
// internal/snapshot, and internal/persistence, optionally serving
// internal/transport. None of those packages are imported by
// internal/orchestrator or any package it depends on — the core stays
// runnable headlessly with no network, I/O, or GUI dependencies.
//
// Grounded on the teacher's cmd/worldsim/main.go driver shape (slog setup,
// flag-free fixed seed, signal-driven shutdown, periodic save), restructured
// into cobra subcommands the way theRebelliousNerd-codenerd's cmd/nerd
// package organizes its CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	root := &cobra.Command{
		Use:   "hollowreach",
		Short: "Deterministic social-world simulation harness",
	}
	root.AddCommand(newRunCmd())
	root.AddCommand(newReplayCmd())
	root.AddCommand(newSnapshotCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
