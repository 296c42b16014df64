package persistence

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/talgya/hollowreach/internal/chronicle"
	"github.com/talgya/hollowreach/internal/worldmodel"
)

func TestOpen_MigratesFreshDatabase(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "run.db"))
	require.NoError(t, err)
	defer db.Close()

	events, err := db.RecentEvents(10)
	require.NoError(t, err)
	require.Empty(t, events)
}

func TestSaveAndRecentEvents_RoundTrips(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "run.db"))
	require.NoError(t, err)
	defer db.Close()

	events := []worldmodel.SimEvent{
		{ID: "evt:1:0", Tick: 1, Kind: worldmodel.EventAttemptRecorded, Visibility: worldmodel.VisibilityPublic, Message: "first", Data: map[string]any{"k": "v"}},
		{ID: "evt:2:0", Tick: 2, Kind: worldmodel.EventNPCDied, Visibility: worldmodel.VisibilityPublic, Message: "second"},
	}
	require.NoError(t, db.SaveEvents(events))

	got, err := db.RecentEvents(10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, worldmodel.EventID("evt:2:0"), got[0].ID) // newest first
}

func TestTrimOldEvents_RemovesEventsBeforeCutoff(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "run.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.SaveEvents([]worldmodel.SimEvent{
		{ID: "evt:1:0", Tick: 1, Message: "old"},
		{ID: "evt:100:0", Tick: 100, Message: "new"},
	}))

	removed, err := db.TrimOldEvents(100, 10)
	require.NoError(t, err)
	require.Equal(t, int64(1), removed)

	got, err := db.RecentEvents(10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, worldmodel.EventID("evt:100:0"), got[0].ID)
}

func TestSaveDailySummary_RoundTrips(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "run.db"))
	require.NoError(t, err)
	defer db.Close()

	summary := chronicle.DailySummary{Day: 3, Tick: 72, KeyChanges: []string{"a death", "a raid"}}
	require.NoError(t, db.SaveDailySummary(summary))

	loaded, err := db.LoadDailySummaries(0, 10, 0)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	require.Equal(t, summary, loaded[0])
}

func TestMeta_SetAndGet(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "run.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.SaveMeta("run_instance_id", "abc-123"))
	got, err := db.GetMeta("run_instance_id")
	require.NoError(t, err)
	require.Equal(t, "abc-123", got)
}
