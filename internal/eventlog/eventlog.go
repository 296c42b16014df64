// Package eventlog is the append-only, newline-delimited-JSON event sink
// described by spec.md Section 6 ("Event log format"): one SimEvent per
// line, the file append-only, rotation left to the caller. Grounded on the
// teacher's internal/persistence flat event-row shape
// (engine.Event{Tick, Description, Category}), generalized here to the
// full SimEvent record and to a plain file instead of a SQLite table,
// since spec.md calls out NDJSON specifically for this surface.
package eventlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/talgya/hollowreach/internal/worldmodel"
)

// Sink owns one append-only NDJSON file and guarantees ordered, serialized
// writes (spec.md Section 5, "Shared resources": the sink owns its
// stream). External I/O failures here are isolated per spec.md Section 7
// category 4 — they never propagate into the tick.
type Sink struct {
	mu     sync.Mutex
	file   *os.File
	writer *bufio.Writer
}

// Open opens path for appending, creating the file if necessary. The
// parent directory is not created; it must already exist.
func Open(path string) (*Sink, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("eventlog: open %s: %w", path, err)
	}
	return &Sink{file: f, writer: bufio.NewWriter(f)}, nil
}

// Append writes each event as one JSON line and flushes. A marshal or
// write failure is returned to the caller (not logged here) and never panics —
// the engine itself never calls this; only the driver does, after a tick
// has already produced its World.
func (s *Sink) Append(events []worldmodel.SimEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ev := range events {
		line, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("eventlog: marshal %s: %w", ev.ID, err)
		}
		if _, err := s.writer.Write(line); err != nil {
			return fmt.Errorf("eventlog: write %s: %w", ev.ID, err)
		}
		if err := s.writer.WriteByte('\n'); err != nil {
			return fmt.Errorf("eventlog: write %s: %w", ev.ID, err)
		}
	}
	if err := s.writer.Flush(); err != nil {
		return fmt.Errorf("eventlog: flush: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying file.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writer.Flush(); err != nil {
		slog.Warn("eventlog: flush on close failed", "error", err)
	}
	return s.file.Close()
}
