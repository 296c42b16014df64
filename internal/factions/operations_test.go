package factions

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/talgya/hollowreach/internal/worldmodel"
)

func cultNPC(id worldmodel.NPCID, site worldmodel.SiteID, cat worldmodel.NPCCategory, zeal float64) worldmodel.NPC {
	return worldmodel.NPC{
		ID: id, SiteID: site, Alive: true, Category: cat, Traits: worldmodel.Traits{Zeal: zeal},
		Cult: &worldmodel.CultMembership{Role: "member"},
	}
}

func TestCreateOperations_StartsReconOperationWhenEligible(t *testing.T) {
	w := &worldmodel.World{
		Tick: 1,
		Sites: map[worldmodel.SiteID]worldmodel.Site{
			"Oakvale": {ID: "Oakvale", EclipsingPressure: 70, AnchoringStrength: 30},
		},
		NPCs: map[worldmodel.NPCID]worldmodel.NPC{
			"leader": cultNPC("leader", "Oakvale", worldmodel.CategoryCultLeader, 80),
			"m1":     cultNPC("m1", "Oakvale", worldmodel.CategoryCultMember, 60),
			"m2":     cultNPC("m2", "Oakvale", worldmodel.CategoryCultMember, 40),
		},
	}
	sink := worldmodel.NewEventSink(w)
	CreateOperations(w, sink)

	require.Len(t, w.Operations, 1)
	var op worldmodel.FactionOperation
	for _, o := range w.Operations {
		op = o
	}
	require.Equal(t, worldmodel.NPCID("leader"), op.LeaderID)
	require.Equal(t, "leader", op.Participants["leader"])
	require.Equal(t, worldmodel.AttemptInvestigate, op.Phases[0].ActionKind)
	require.Equal(t, worldmodel.AttemptKidnap, op.Phases[1].ActionKind)
	require.Equal(t, worldmodel.AttemptForcedEclipse, op.Phases[2].ActionKind)

	require.Equal(t, op.ID, w.NPCs["leader"].FactionOperationID)
}

func TestCreateOperations_SkipsSiteBelowPressureThreshold(t *testing.T) {
	w := &worldmodel.World{
		Tick: 1,
		Sites: map[worldmodel.SiteID]worldmodel.Site{
			"Oakvale": {ID: "Oakvale", EclipsingPressure: 10, AnchoringStrength: 30},
		},
		NPCs: map[worldmodel.NPCID]worldmodel.NPC{
			"leader": cultNPC("leader", "Oakvale", worldmodel.CategoryCultLeader, 80),
			"m1":     cultNPC("m1", "Oakvale", worldmodel.CategoryCultMember, 60),
			"m2":     cultNPC("m2", "Oakvale", worldmodel.CategoryCultMember, 40),
		},
	}
	sink := worldmodel.NewEventSink(w)
	CreateOperations(w, sink)
	require.Empty(t, w.Operations)
}

func TestApplyOperationProgressFromEvents_AdvancesPhaseOnMatchingAttempt(t *testing.T) {
	op := worldmodel.FactionOperation{
		ID: "op:Oakvale:1", SiteID: "Oakvale", LeaderID: "leader",
		Participants: map[worldmodel.NPCID]string{"leader": "leader"},
		Phases: []worldmodel.OperationPhase{
			{ActionKind: worldmodel.AttemptInvestigate},
			{ActionKind: worldmodel.AttemptKidnap},
		},
	}
	w := &worldmodel.World{
		Operations: map[string]worldmodel.FactionOperation{op.ID: op},
		NPCs: map[worldmodel.NPCID]worldmodel.NPC{
			"leader": {ID: "leader", Alive: true, FactionOperationID: op.ID},
		},
	}
	events := []worldmodel.SimEvent{
		{Kind: worldmodel.EventAttemptCompleted, Data: map[string]any{"actorId": worldmodel.NPCID("leader"), "kind": worldmodel.AttemptInvestigate}},
	}
	sink := worldmodel.NewEventSink(w)
	ApplyOperationProgressFromEvents(w, events, sink)

	require.Equal(t, 1, w.Operations[op.ID].PhaseIndex)
}

func TestApplyOperationProgressFromEvents_CompletesAndClearsParticipantsOnFinalPhase(t *testing.T) {
	op := worldmodel.FactionOperation{
		ID: "op:Oakvale:1", SiteID: "Oakvale", LeaderID: "leader",
		Participants: map[worldmodel.NPCID]string{"leader": "leader"},
		Phases:       []worldmodel.OperationPhase{{ActionKind: worldmodel.AttemptForcedEclipse}},
	}
	w := &worldmodel.World{
		Operations: map[string]worldmodel.FactionOperation{op.ID: op},
		NPCs: map[worldmodel.NPCID]worldmodel.NPC{
			"leader": {ID: "leader", Alive: true, FactionOperationID: op.ID, FactionOpRole: "leader"},
		},
	}
	events := []worldmodel.SimEvent{
		{Kind: worldmodel.EventAttemptCompleted, Data: map[string]any{"actorId": worldmodel.NPCID("leader"), "kind": worldmodel.AttemptForcedEclipse}},
	}
	sink := worldmodel.NewEventSink(w)
	ApplyOperationProgressFromEvents(w, events, sink)

	require.Empty(t, w.Operations)
	require.Equal(t, "", string(w.NPCs["leader"].FactionOperationID))
}

func TestApplyOperationProgressFromEvents_AbortsAfterThreeFailures(t *testing.T) {
	op := worldmodel.FactionOperation{
		ID: "op:Oakvale:1", SiteID: "Oakvale", LeaderID: "leader",
		Participants: map[worldmodel.NPCID]string{"leader": "leader"},
		Phases:       []worldmodel.OperationPhase{{ActionKind: worldmodel.AttemptKidnap}},
		Failures:     2,
	}
	w := &worldmodel.World{
		Operations: map[string]worldmodel.FactionOperation{op.ID: op},
		NPCs: map[worldmodel.NPCID]worldmodel.NPC{
			"leader": {ID: "leader", Alive: true, FactionOperationID: op.ID},
		},
	}
	events := []worldmodel.SimEvent{
		// Same action kind but target mismatch counts as a non-matching completion.
		{Kind: worldmodel.EventAttemptCompleted, Data: map[string]any{"actorId": worldmodel.NPCID("leader"), "kind": worldmodel.AttemptKidnap, "targetId": worldmodel.NPCID("someone-else")}},
	}
	op.Phases[0].TargetID = "expected-target"
	w.Operations[op.ID] = op

	sink := worldmodel.NewEventSink(w)
	ApplyOperationProgressFromEvents(w, events, sink)

	require.Empty(t, w.Operations)
}
