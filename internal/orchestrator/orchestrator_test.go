package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/talgya/hollowreach/internal/config"
	"github.com/talgya/hollowreach/internal/worldgen"
	"github.com/talgya/hollowreach/internal/worldmodel"
)

func TestTickHour_SameSeedProducesIdenticalWorlds(t *testing.T) {
	cfg := config.Default()
	w1, g1 := worldgen.CreateWorld(123, cfg)
	w2, g2 := worldgen.CreateWorld(123, cfg)

	for i := 0; i < 6; i++ {
		r1, err := TickHour(w1, cfg, g1, nil)
		require.NoError(t, err)
		r2, err := TickHour(w2, cfg, g2, nil)
		require.NoError(t, err)
		require.Equal(t, r1.World, r2.World)
		require.Equal(t, r1.Events, r2.Events)
		w1, w2 = r1.World, r2.World
	}
}

func TestTickHour_DoesNotMutateInputWorld(t *testing.T) {
	cfg := config.Default()
	w, g := worldgen.CreateWorld(7, cfg)
	before := w.Clone()

	_, err := TickHour(w, cfg, g, nil)
	require.NoError(t, err)
	require.Equal(t, before, w)
}

func TestTickHour_AdvancesTickByOne(t *testing.T) {
	cfg := config.Default()
	w, g := worldgen.CreateWorld(7, cfg)
	startTick := w.Tick

	result, err := TickHour(w, cfg, g, nil)
	require.NoError(t, err)
	require.Equal(t, startTick+1, result.World.Tick)
}

// Scenario: an externally supplied heal attempt resolves within the same
// tick it is submitted (heal has no wind-up), raises the target's HP and
// leaves it owing the healer a favor_granted debt, end-to-end through the
// pipeline.
func TestTickHour_ExternalHealAttemptResolvesImmediately(t *testing.T) {
	cfg := config.Default()
	world, graph := worldgen.CreateWorld(9101, cfg)

	var healerID, woundedID worldmodel.NPCID
	for id, npc := range world.NPCs {
		if !npc.Alive || npc.SiteID != "HumanCityPort" {
			continue
		}
		if healerID == "" {
			healerID = id
		} else if woundedID == "" {
			woundedID = id
			break
		}
	}
	require.NotEmpty(t, healerID)
	require.NotEmpty(t, woundedID)

	wounded := world.NPCs[woundedID]
	wounded.HP = wounded.MaxHP - 25
	world.NPCs[woundedID] = wounded
	startHP := wounded.HP

	at := worldmodel.Attempt{
		Kind: worldmodel.AttemptHeal, Visibility: worldmodel.VisibilityPrivate,
		ActorID: healerID, TargetID: woundedID, SiteID: "HumanCityPort",
	}

	result, err := TickHour(world, cfg, graph, []worldmodel.Attempt{at})
	require.NoError(t, err)

	got := result.World.NPCs[woundedID]
	require.Greater(t, got.HP, startHP)

	var foundDebt bool
	for _, d := range got.Debts {
		if d.Kind == "favor_granted" && d.OtherNPC == healerID {
			foundDebt = true
		}
	}
	require.True(t, foundDebt)

	var sawCompleted bool
	for _, ev := range result.Events {
		if ev.Kind == worldmodel.EventAttemptCompleted {
			sawCompleted = true
		}
	}
	require.True(t, sawCompleted)
}

func TestSortAttemptsForDeterminism_OrdersByActor(t *testing.T) {
	in := []worldmodel.Attempt{
		{ActorID: "c"}, {ActorID: "a"}, {ActorID: "b"},
	}
	out := SortAttemptsForDeterminism(in)
	require.Equal(t, []worldmodel.NPCID{"a", "b", "c"}, []worldmodel.NPCID{out[0].ActorID, out[1].ActorID, out[2].ActorID})
	// original slice must be untouched
	require.Equal(t, worldmodel.NPCID("c"), in[0].ActorID)
}
