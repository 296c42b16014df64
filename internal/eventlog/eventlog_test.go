package eventlog

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/talgya/hollowreach/internal/worldmodel"
)

func TestSink_AppendWritesOneJSONLinePerEvent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.ndjson")
	sink, err := Open(path)
	require.NoError(t, err)

	events := []worldmodel.SimEvent{
		{ID: "evt:1:0", Tick: 1, Kind: worldmodel.EventAttemptRecorded, Visibility: worldmodel.VisibilityPublic, Message: "one"},
		{ID: "evt:1:1", Tick: 1, Kind: worldmodel.EventNPCDied, Visibility: worldmodel.VisibilityPublic, Message: "two"},
	}
	require.NoError(t, sink.Append(events))
	require.NoError(t, sink.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	scanner := bufio.NewScanner(f)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	require.Len(t, lines, 2)

	var first worldmodel.SimEvent
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.Equal(t, worldmodel.EventID("evt:1:0"), first.ID)
	require.Equal(t, "one", first.Message)
}

func TestSink_AppendIsCumulativeAcrossCalls(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.ndjson")
	sink, err := Open(path)
	require.NoError(t, err)
	defer sink.Close()

	require.NoError(t, sink.Append([]worldmodel.SimEvent{{ID: "evt:1:0", Tick: 1}}))
	require.NoError(t, sink.Append([]worldmodel.SimEvent{{ID: "evt:2:0", Tick: 2}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	count := 0
	for _, b := range data {
		if b == '\n' {
			count++
		}
	}
	require.Equal(t, 2, count)
}
