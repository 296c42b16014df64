package snapshot

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/talgya/hollowreach/internal/config"
	"github.com/talgya/hollowreach/internal/worldmodel"
)

func TestRunID_FormatsUTCTimestamp(t *testing.T) {
	at := time.Date(2026, 7, 31, 14, 5, 9, 0, time.UTC)
	require.Equal(t, "20260731-140509Z", RunID(at))
}

func TestWriteAndRead_RoundTripsWorld(t *testing.T) {
	baseDir := t.TempDir()
	world := worldmodel.World{
		Seed: 99, Tick: 12,
		Sites: map[worldmodel.SiteID]worldmodel.Site{"A": {ID: "A", Kind: worldmodel.SiteSettlement}},
		NPCs:  map[worldmodel.NPCID]worldmodel.NPC{"n1": {ID: "n1", Alive: true, HP: 80, MaxHP: 100}},
	}
	cfg := config.Default()
	createdAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	runID := RunID(createdAt)

	require.NoError(t, Write(baseDir, world.Seed, runID, createdAt, world, &cfg))

	runPath := filepath.Join(baseDir, "seed-99", "runs", runID, "snapshot.json")
	doc, err := Read(runPath)
	require.NoError(t, err)
	require.Equal(t, int64(99), doc.Seed)
	require.Equal(t, uint64(12), doc.World.Tick)
	require.Equal(t, 80.0, doc.World.NPCs["n1"].HP)

	latestPath := filepath.Join(baseDir, "seed-99", "snapshot.latest.json")
	latest, err := Read(latestPath)
	require.NoError(t, err)
	require.Equal(t, doc.World.Tick, latest.World.Tick)
}

func TestWrite_OverwritesLatestOnSubsequentRuns(t *testing.T) {
	baseDir := t.TempDir()
	cfg := config.Default()

	w1 := worldmodel.World{Seed: 5, Tick: 1, Sites: map[worldmodel.SiteID]worldmodel.Site{}, NPCs: map[worldmodel.NPCID]worldmodel.NPC{}}
	w2 := worldmodel.World{Seed: 5, Tick: 2, Sites: map[worldmodel.SiteID]worldmodel.Site{}, NPCs: map[worldmodel.NPCID]worldmodel.NPC{}}

	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)

	require.NoError(t, Write(baseDir, 5, RunID(t0), t0, w1, &cfg))
	require.NoError(t, Write(baseDir, 5, RunID(t1), t1, w2, &cfg))

	latest, err := Read(filepath.Join(baseDir, "seed-5", "snapshot.latest.json"))
	require.NoError(t, err)
	require.Equal(t, uint64(2), latest.World.Tick)
}
