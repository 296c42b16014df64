package goals

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/talgya/hollowreach/internal/worldmodel"
)

func TestUpdateGoals_AvengeFamilyTriggersOnFamilyDeath(t *testing.T) {
	w := &worldmodel.World{
		Tick: 5,
		NPCs: map[worldmodel.NPCID]worldmodel.NPC{
			"mourner": {ID: "mourner", Alive: true, Family: []worldmodel.NPCID{"victim"}},
		},
	}
	events := []worldmodel.SimEvent{
		{Kind: worldmodel.EventNPCDied, Tick: 5, Data: map[string]any{"npcId": worldmodel.NPCID("victim")}},
	}
	sink := worldmodel.NewEventSink(w)

	UpdateGoals(w, events, sink)

	mourner := w.NPCs["mourner"]
	var found bool
	for _, g := range mourner.Goals {
		if g.Kind == "avenge_family" {
			found = true
			require.Equal(t, 30.0, g.Modifiers[string(worldmodel.AttemptAssault)])
		}
	}
	require.True(t, found)
}

func TestUpdateGoals_DropsGoalWhenTriggerStopsHolding(t *testing.T) {
	w := &worldmodel.World{
		Tick: 1,
		NPCs: map[worldmodel.NPCID]worldmodel.NPC{
			// now a farmer: the guard_the_gate category trigger no longer holds.
			"exguard": {
				ID: "exguard", Alive: true, Category: worldmodel.CategoryFarmer,
				Goals: []worldmodel.Goal{{Kind: "guard_the_gate", Priority: 45}},
			},
		},
	}
	sink := worldmodel.NewEventSink(w)
	UpdateGoals(w, nil, sink)

	for _, g := range w.NPCs["exguard"].Goals {
		require.NotEqual(t, "guard_the_gate", g.Kind)
	}
}

func TestUpdateGoals_ProceduralGoalReflectsLowestNeeds(t *testing.T) {
	w := &worldmodel.World{
		Tick: 1,
		NPCs: map[worldmodel.NPCID]worldmodel.NPC{
			"starving": {ID: "starving", Alive: true, Needs: worldmodel.Needs{Food: 5, Rest: 90, Safety: 90, Belonging: 90, Esteem: 90, Purpose: 90, Duty: 90, Certainty: 90, Social: 90, Comfort: 90}},
		},
	}
	UpdateGoals(w, nil, nil)

	npc := w.NPCs["starving"]
	var found bool
	for _, g := range npc.Goals {
		if g.Procedural {
			found = true
			require.Contains(t, g.Kind, "Food")
		}
	}
	require.True(t, found)
}

func TestUpdateGoals_CapsAtSixActiveGoals(t *testing.T) {
	var many []worldmodel.Goal
	for i := 0; i < 9; i++ {
		many = append(many, worldmodel.Goal{Kind: "preexisting", Priority: float64(i)})
	}
	w := &worldmodel.World{
		Tick: 1,
		NPCs: map[worldmodel.NPCID]worldmodel.NPC{
			"loaded": {ID: "loaded", Alive: true, Goals: many},
		},
	}
	UpdateGoals(w, nil, nil)
	require.LessOrEqual(t, len(w.NPCs["loaded"].Goals), maxActiveGoals)
}

func TestUpdateStates_StartledTriggersOnWitnessedAssault(t *testing.T) {
	w := &worldmodel.World{
		Tick: 10,
		NPCs: map[worldmodel.NPCID]worldmodel.NPC{
			"witness": {ID: "witness", SiteID: "Oakvale", Alive: true},
		},
	}
	events := []worldmodel.SimEvent{
		{Kind: worldmodel.EventAttemptRecorded, SiteID: "Oakvale", Data: map[string]any{"kind": worldmodel.AttemptAssault}},
	}
	UpdateStates(w, events)

	witness := w.NPCs["witness"]
	require.Len(t, witness.ReactiveStates, 1)
	require.Equal(t, "startled", witness.ReactiveStates[0].Kind)
	require.Equal(t, 80.0, witness.ReactiveStates[0].Intensity)
}

func TestUpdateStates_DecaysAndExpiresOldState(t *testing.T) {
	w := &worldmodel.World{
		Tick: 1,
		NPCs: map[worldmodel.NPCID]worldmodel.NPC{
			"fading": {
				ID: "fading", Alive: true,
				ReactiveStates: []worldmodel.ReactiveState{
					{Kind: "grateful", Intensity: 4, DurationHours: 10, RemainingHours: 1, DecayRateModifier: 1.0},
				},
			},
		},
	}
	UpdateStates(w, nil)
	require.Empty(t, w.NPCs["fading"].ReactiveStates)
}
