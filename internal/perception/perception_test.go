package perception

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/talgya/hollowreach/internal/worldmodel"
)

func TestUpdatePerception_AddsCoPresenceForEachOtherSitemate(t *testing.T) {
	w := &worldmodel.World{
		Tick: 4,
		NPCs: map[worldmodel.NPCID]worldmodel.NPC{
			"a": {ID: "a", SiteID: "Oakvale", Alive: true},
			"b": {ID: "b", SiteID: "Oakvale", Alive: true},
			"c": {ID: "c", SiteID: "Elsewhere", Alive: true},
		},
	}
	UpdatePerception(w)

	a := w.NPCs["a"]
	require.Len(t, a.Knowledge.Facts, 1)
	require.Equal(t, "co_present", a.Knowledge.Facts[0].Kind)
	require.Equal(t, "b", a.Knowledge.Facts[0].SubjectID)
	require.Equal(t, 100.0, a.Knowledge.Facts[0].Confidence)

	require.Empty(t, w.NPCs["c"].Knowledge.Facts)
}

func TestUpdatePerception_UpsertsRatherThanDuplicates(t *testing.T) {
	w := &worldmodel.World{
		Tick: 1,
		NPCs: map[worldmodel.NPCID]worldmodel.NPC{
			"a": {ID: "a", SiteID: "Oakvale", Alive: true, Knowledge: worldmodel.Knowledge{
				Facts: []worldmodel.KnowledgeFact{{Kind: "co_present", SubjectID: "b", Confidence: 40, CreatedTick: 0}},
			}},
			"b": {ID: "b", SiteID: "Oakvale", Alive: true},
		},
	}
	UpdatePerception(w)
	a := w.NPCs["a"]
	require.Len(t, a.Knowledge.Facts, 1)
	require.Equal(t, 100.0, a.Knowledge.Facts[0].Confidence)
	require.Equal(t, uint64(1), a.Knowledge.Facts[0].CreatedTick)
}

func TestApplyBeliefsFromEvents_WitnessesGainsDidBeliefOnDeath(t *testing.T) {
	w := &worldmodel.World{
		Tick: 5,
		NPCs: map[worldmodel.NPCID]worldmodel.NPC{
			"witness": {ID: "witness", SiteID: "Oakvale", Alive: true},
			"actor":   {ID: "actor", SiteID: "Oakvale", Alive: true},
		},
	}
	events := []worldmodel.SimEvent{
		{Kind: worldmodel.EventNPCDied, SiteID: "Oakvale", Data: map[string]any{"npcId": worldmodel.NPCID("victim")}},
	}
	ApplyBeliefsFromEvents(w, events)

	witness := w.NPCs["witness"]
	require.Len(t, witness.Beliefs, 1)
	require.Equal(t, "died", witness.Beliefs[0].Object)
	require.Equal(t, "victim", witness.Beliefs[0].Subject)
}

func TestCreateSecretsFromEvents_RegistersCultIdentitySecretOnce(t *testing.T) {
	w := &worldmodel.World{
		Tick: 9,
		NPCs: map[worldmodel.NPCID]worldmodel.NPC{
			"investigator": {ID: "investigator", Alive: true},
		},
	}
	events := []worldmodel.SimEvent{
		{Kind: worldmodel.EventAttemptRecorded, Data: map[string]any{
			"kind": worldmodel.AttemptInvestigate, "success": true,
			"actorId": worldmodel.NPCID("investigator"), "targetId": worldmodel.NPCID("cultist"),
		}},
	}
	CreateSecretsFromEvents(w, events)

	require.Len(t, w.Secrets, 1)
	investigator := w.NPCs["investigator"]
	require.Len(t, investigator.Knowledge.SecretRefs, 1)

	// Replaying the same event must not duplicate the secret ref.
	CreateSecretsFromEvents(w, events)
	require.Len(t, w.NPCs["investigator"].Knowledge.SecretRefs, 1)
}
