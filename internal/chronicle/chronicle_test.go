package chronicle

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/talgya/hollowreach/internal/worldmodel"
)

// Scenario: a successful public kidnap attempt produces a chronicle entry
// and a notability bump for its actor.
func TestUpdateChronicleFromEvents_RecordsSuccessfulKidnap(t *testing.T) {
	w := &worldmodel.World{
		Tick: 10,
		NPCs: map[worldmodel.NPCID]worldmodel.NPC{"kidnapper": {ID: "kidnapper", Alive: true, Notability: 0}},
	}
	events := []worldmodel.SimEvent{
		{
			Kind: worldmodel.EventAttemptRecorded, Tick: 10, SiteID: "Oakvale",
			Data: map[string]any{"success": true, "kind": worldmodel.AttemptKidnap, "actorId": worldmodel.NPCID("kidnapper")},
		},
	}

	UpdateChronicleFromEvents(w, events)
	require.Len(t, w.Chronicle, 1)
	require.Equal(t, "kidnap", w.Chronicle[0].Kind)
	require.Equal(t, worldmodel.NPCID("kidnapper"), w.Chronicle[0].PrimaryNPCID)

	ApplyNotabilityFromEvents(w, events)
	require.Equal(t, 10.0, w.NPCs["kidnapper"].Notability)
}

func TestUpdateChronicleFromEvents_IgnoresFailedAttempts(t *testing.T) {
	w := &worldmodel.World{Tick: 1, NPCs: map[worldmodel.NPCID]worldmodel.NPC{}}
	events := []worldmodel.SimEvent{
		{Kind: worldmodel.EventAttemptRecorded, Tick: 1, Data: map[string]any{"success": false, "kind": worldmodel.AttemptKidnap}},
	}
	UpdateChronicleFromEvents(w, events)
	require.Empty(t, w.Chronicle)
}

func TestComputeNpcLabel_ReflectsStatus(t *testing.T) {
	alive := worldmodel.NPC{Category: worldmodel.CategoryGuard, Alive: true}
	require.Equal(t, "Guard", ComputeNpcLabel(alive, 1))

	notable := alive
	notable.Notability = 80
	require.Equal(t, "notable Guard", ComputeNpcLabel(notable, 1))

	dead := alive
	dead.Alive = false
	require.Equal(t, "Guard (dead)", ComputeNpcLabel(dead, 1))

	detained := alive
	detained.Status.Detention = &worldmodel.DetentionStatus{}
	require.Equal(t, "Guard (detained)", ComputeNpcLabel(detained, 1))
}

func TestDecayNotability_SkipsDeadNPCs(t *testing.T) {
	w := &worldmodel.World{
		NPCs: map[worldmodel.NPCID]worldmodel.NPC{
			"alive": {ID: "alive", Alive: true, Notability: 5},
			"dead":  {ID: "dead", Alive: false, Notability: 5},
		},
	}
	DecayNotability(w)
	require.Equal(t, 4.0, w.NPCs["alive"].Notability)
	require.Equal(t, 5.0, w.NPCs["dead"].Notability)
}
