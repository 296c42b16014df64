package memory

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/talgya/hollowreach/internal/config"
	"github.com/talgya/hollowreach/internal/mapgraph"
	"github.com/talgya/hollowreach/internal/rng"
	"github.com/talgya/hollowreach/internal/worldmodel"
)

func TestDecayBeliefs_DropsBelowThresholdAndHalvesTraumaticDecay(t *testing.T) {
	cfg := config.Default()
	w := &worldmodel.World{
		NPCs: map[worldmodel.NPCID]worldmodel.NPC{
			"npc": {ID: "npc", Beliefs: []worldmodel.Belief{
				{Subject: "a", Predicate: "did", Object: "gossip", Source: "rumor", Confidence: 12},
				{Subject: "b", Predicate: "did", Object: "kill", Source: "witnessed", Confidence: 50, Traumatic: true},
			}},
		},
	}
	DecayBeliefs(w, cfg)

	npc := w.NPCs["npc"]
	require.Len(t, npc.Beliefs, 1)
	require.Equal(t, "kill", npc.Beliefs[0].Object)
	require.Equal(t, 50-cfg.BeliefDecayWitnessed/2, npc.Beliefs[0].Confidence)
}

func TestDecayAndSpreadRumors_DropsStaleRumorsAndSpreadsToNeighbor(t *testing.T) {
	cfg := config.Default()
	cfg.RumorSpreadChance = 1.0
	graph := mapgraph.NewGraph([]mapgraph.Edge{{A: "Oakvale", B: "Millbrook", KM: 10, Quality: mapgraph.QualityRoad}})

	w := &worldmodel.World{
		Tick: 240, // day 10
		Sites: map[worldmodel.SiteID]worldmodel.Site{
			"Oakvale": {ID: "Oakvale", Settlement: &worldmodel.SettlementData{
				Rumors: []worldmodel.Rumor{
					{ID: "old", Label: "a stale rumor", Confidence: 95, CreatedTick: 0},
					{ID: "fresh", Label: "a fresh rumor", Confidence: 95, CreatedTick: 239},
				},
			}},
			"Millbrook": {ID: "Millbrook", Settlement: &worldmodel.SettlementData{}},
		},
	}
	stream := rng.New(1, w.Tick)

	require.NoError(t, DecayAndSpreadRumors(w, cfg, graph, stream))

	oakvale := w.Sites["Oakvale"].Settlement
	for _, r := range oakvale.Rumors {
		require.NotEqual(t, "old", r.ID)
	}
	require.Len(t, w.Sites["Millbrook"].Settlement.Rumors, 1)
}

func TestCreateMemoriesFromEvents_WitnessGetsOneMemoryPerEvent(t *testing.T) {
	cfg := config.Default()
	w := &worldmodel.World{
		Tick: 3,
		NPCs: map[worldmodel.NPCID]worldmodel.NPC{
			"witness": {ID: "witness", SiteID: "Oakvale", Alive: true},
		},
	}
	events := []worldmodel.SimEvent{
		{ID: "evt:3:0", Kind: worldmodel.EventNPCDied, SiteID: "Oakvale", Data: map[string]any{"npcId": worldmodel.NPCID("victim")}},
	}
	CreateMemoriesFromEvents(w, cfg, events)

	witness := w.NPCs["witness"]
	require.Len(t, witness.Memories, 1)
	require.Equal(t, worldmodel.EventID("evt:3:0"), witness.Memories[0].EventID)
	require.NotNil(t, witness.Emotions)
	require.Greater(t, witness.Emotions.Fear, 0.0)

	// Re-processing the same event must not add a duplicate memory.
	CreateMemoriesFromEvents(w, cfg, events)
	require.Len(t, w.NPCs["witness"].Memories, 1)
}

func TestDecayMemories_DropsLowVividnessUnlessImportant(t *testing.T) {
	cfg := config.Default()
	w := &worldmodel.World{
		Tick: 240,
		NPCs: map[worldmodel.NPCID]worldmodel.NPC{
			"npc": {ID: "npc", Memories: []worldmodel.Memory{
				{ID: "mem:forgettable", Importance: 10, Vividness: 11, LastRetrievedTick: 0},
				{ID: "mem:keepsake", Importance: 95, Vividness: 11, LastRetrievedTick: 0},
			}},
		},
	}
	DecayMemories(w, cfg)

	npc := w.NPCs["npc"]
	require.Len(t, npc.Memories, 1)
	require.Equal(t, worldmodel.MemoryID("mem:keepsake"), npc.Memories[0].ID)
}

func TestDecayEmotions_AppliesPerSlotMultipliers(t *testing.T) {
	cfg := config.Default()
	w := &worldmodel.World{
		NPCs: map[worldmodel.NPCID]worldmodel.NPC{
			"npc": {ID: "npc", Emotions: &worldmodel.Emotions{Anger: 50, Joy: 50}},
		},
	}
	DecayEmotions(w, cfg)

	npc := w.NPCs["npc"]
	// Joy decays faster than anger (multiplier 1.3 vs 0.8).
	require.Less(t, npc.Emotions.Joy, npc.Emotions.Anger)
}
