// Package snapshot writes and reads the run-persistence document described
// by spec.md Section 6 ("Snapshot format"): a JSON document
// {version:1, seed, createdAt, world, ...} written to
// <baseDir>/seed-<seed>/runs/<runId>/snapshot.json and mirrored to
// snapshot.latest.json, using write-tmp-then-rename atomicity. The package
// never reads the wall clock itself — createdAt and runId are supplied by
// the caller — so it stays a pure function of its inputs, the same
// discipline spec.md Section 5 requires of the tick pipeline.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/talgya/hollowreach/internal/config"
	"github.com/talgya/hollowreach/internal/worldmodel"
)

// Document is the top-level snapshot record.
type Document struct {
	Version   int              `json:"version"`
	Seed      int64            `json:"seed"`
	CreatedAt string           `json:"createdAt"`
	World     worldmodel.World `json:"world"`
	Settings  *config.Config   `json:"settings,omitempty"`
}

// RunID formats a run identifier as YYYYMMDD-HHMMSSZ from the given UTC
// timestamp, exactly the format spec.md Section 6 names.
func RunID(at time.Time) string {
	return at.UTC().Format("20060102-150405") + "Z"
}

// Write serializes world to <baseDir>/seed-<seed>/runs/<runId>/snapshot.json
// and mirrors the same bytes to <baseDir>/seed-<seed>/snapshot.latest.json,
// both via write-tmp-then-rename so a reader never observes a partial
// file.
func Write(baseDir string, seed int64, runID string, createdAt time.Time, world worldmodel.World, settings *config.Config) error {
	doc := Document{
		Version:   1,
		Seed:      seed,
		CreatedAt: createdAt.UTC().Format(time.RFC3339),
		World:     world,
		Settings:  settings,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("snapshot: marshal: %w", err)
	}

	seedDir := filepath.Join(baseDir, fmt.Sprintf("seed-%d", seed))
	runDir := filepath.Join(seedDir, "runs", runID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return fmt.Errorf("snapshot: mkdir %s: %w", runDir, err)
	}

	runPath := filepath.Join(runDir, "snapshot.json")
	if err := writeAtomic(runPath, data); err != nil {
		return err
	}

	latestPath := filepath.Join(seedDir, "snapshot.latest.json")
	if err := writeAtomic(latestPath, data); err != nil {
		return err
	}
	return nil
}

// Read loads a snapshot document from disk.
func Read(path string) (Document, error) {
	var doc Document
	data, err := os.ReadFile(path)
	if err != nil {
		return doc, fmt.Errorf("snapshot: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("snapshot: parse %s: %w", path, err)
	}
	return doc, nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".snapshot-*.tmp")
	if err != nil {
		return fmt.Errorf("snapshot: create temp in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("snapshot: write %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("snapshot: close %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("snapshot: rename %s -> %s: %w", tmpPath, path, err)
	}
	return nil
}
