// Package factions implements cult faction operations: creation,
// deterministic role assignment, phase advancement on matching attempts,
// and abort-on-repeated-failure (spec.md Section 4.9).
package factions

import (
	"fmt"
	"sort"

	"github.com/talgya/hollowreach/internal/worldmodel"
)

const maxOperationFailures = 3

// recon has no dedicated attempt kind in the catalog; investigate is the
// closest existing action (scouting a target before acting) and is reused
// here for the operation's opening phase.
const reconActionKind = worldmodel.AttemptInvestigate

// CreateOperations starts one new cult operation per eligible site: a site
// with a cell leader and ≥2 cult members present, no existing active
// operation, and pressure≥55 && anchor≤60.
func CreateOperations(w *worldmodel.World, sink *worldmodel.EventSink) {
	activeSites := map[worldmodel.SiteID]bool{}
	for _, op := range w.Operations {
		activeSites[op.SiteID] = true
	}

	for _, siteID := range w.SortedSiteIDs() {
		if activeSites[siteID] {
			continue
		}
		site := w.Sites[siteID]
		if site.EclipsingPressure < 55 || site.AnchoringStrength > 60 {
			continue
		}

		leaderID, members := cultPresenceAt(w, siteID)
		if leaderID == "" || len(members) < 2 {
			continue
		}

		target, hasTarget := firstDetainedNonCultTarget(w, siteID)
		var phases []worldmodel.OperationPhase
		if hasTarget {
			phases = []worldmodel.OperationPhase{{ActionKind: worldmodel.AttemptForcedEclipse, TargetID: target}}
		} else {
			phases = []worldmodel.OperationPhase{
				{ActionKind: reconActionKind},
				{ActionKind: worldmodel.AttemptKidnap},
				{ActionKind: worldmodel.AttemptForcedEclipse},
			}
		}

		opID := fmt.Sprintf("op:%s:%d", siteID, w.Tick)
		op := worldmodel.FactionOperation{
			ID:           opID,
			SiteID:       siteID,
			LeaderID:     leaderID,
			Participants: assignRoles(w, leaderID, members),
			Phases:       phases,
			CreatedTick:  w.Tick,
		}
		if hasTarget {
			op.TargetID = target
		}
		if w.Operations == nil {
			w.Operations = map[string]worldmodel.FactionOperation{}
		}
		w.Operations[opID] = op

		for pid := range op.Participants {
			npc := w.NPCs[pid]
			npc.FactionOperationID = opID
			npc.FactionOpRole = op.Participants[pid]
			w.NPCs[pid] = npc
		}

		sink.Emit(worldmodel.EventFactionOperationCreated, worldmodel.VisibilitySystem, siteID,
			"a cult operation begins at "+string(siteID), map[string]any{"operationId": opID, "leaderId": leaderID})
	}
}

func cultPresenceAt(w *worldmodel.World, siteID worldmodel.SiteID) (worldmodel.NPCID, []worldmodel.NPCID) {
	var leader worldmodel.NPCID
	var members []worldmodel.NPCID
	for _, id := range w.SortedNPCIDs() {
		npc := w.NPCs[id]
		if !npc.Alive || npc.SiteID != siteID || npc.IsTraveling() || npc.Cult == nil {
			continue
		}
		if npc.Category == worldmodel.CategoryCultLeader && leader == "" {
			leader = id
		}
		members = append(members, id)
	}
	return leader, members
}

func firstDetainedNonCultTarget(w *worldmodel.World, siteID worldmodel.SiteID) (worldmodel.NPCID, bool) {
	for _, id := range w.SortedNPCIDs() {
		npc := w.NPCs[id]
		if npc.Alive && npc.SiteID == siteID && npc.Cult == nil && npc.IsDetained() {
			return id, true
		}
	}
	return "", false
}

// assignRoles deterministically ranks cult members by (Zeal desc, id asc),
// assigning "leader" to the cell leader and rotating "enforcer"/"lookout"
// to the rest.
func assignRoles(w *worldmodel.World, leaderID worldmodel.NPCID, members []worldmodel.NPCID) map[worldmodel.NPCID]string {
	roles := map[worldmodel.NPCID]string{leaderID: "leader"}
	others := make([]worldmodel.NPCID, 0, len(members))
	for _, m := range members {
		if m != leaderID {
			others = append(others, m)
		}
	}
	sort.Slice(others, func(i, j int) bool {
		zi, zj := w.NPCs[others[i]].Traits.Zeal, w.NPCs[others[j]].Traits.Zeal
		if zi != zj {
			return zi > zj
		}
		return others[i] < others[j]
	})
	for i, id := range others {
		if i%2 == 0 {
			roles[id] = "enforcer"
		} else {
			roles[id] = "lookout"
		}
	}
	return roles
}

// ApplyOperationProgressFromEvents advances the phase index of any
// operation whose participant executed a matching attempt this tick, and
// counts a failure (aborting at the third) when a participant completes
// the phase's action kind against a different target than the phase names.
func ApplyOperationProgressFromEvents(w *worldmodel.World, events []worldmodel.SimEvent, sink *worldmodel.EventSink) {
	for _, ev := range events {
		if ev.Kind != worldmodel.EventAttemptCompleted {
			continue
		}
		actorID := npcIDField(ev.Data, "actorId")
		if actorID == "" {
			continue
		}
		actor := w.NPCs[actorID]
		if actor.FactionOperationID == "" {
			continue
		}
		op, ok := w.Operations[actor.FactionOperationID]
		if !ok {
			continue
		}
		phase := op.CurrentPhase()
		if phase == nil {
			continue
		}

		kind := attemptKindField(ev.Data)
		targetID := npcIDField(ev.Data, "targetId")

		matches := kind == phase.ActionKind && (phase.TargetID == "" || phase.TargetID == targetID)
		if matches {
			op.PhaseIndex++
			if op.PhaseIndex >= len(op.Phases) {
				delete(w.Operations, op.ID)
				clearParticipants(w, op)
				sink.Emit(worldmodel.EventFactionOperationCompleted, worldmodel.VisibilitySystem, op.SiteID,
					"cult operation completed at "+string(op.SiteID), map[string]any{"operationId": op.ID})
				continue
			}
			w.Operations[op.ID] = op
			sink.Emit(worldmodel.EventFactionOperationPhase, worldmodel.VisibilitySystem, op.SiteID,
				"cult operation advances to its next phase", map[string]any{"operationId": op.ID, "phaseIndex": op.PhaseIndex})
			continue
		}

		if kind == phase.ActionKind {
			op.Failures++
			if op.Failures >= maxOperationFailures {
				delete(w.Operations, op.ID)
				clearParticipants(w, op)
				sink.Emit(worldmodel.EventFactionOperationAborted, worldmodel.VisibilitySystem, op.SiteID,
					"cult operation aborted at "+string(op.SiteID), map[string]any{"operationId": op.ID})
				continue
			}
			w.Operations[op.ID] = op
		}
	}
}

func clearParticipants(w *worldmodel.World, op worldmodel.FactionOperation) {
	for pid := range op.Participants {
		npc := w.NPCs[pid]
		npc.FactionOperationID = ""
		npc.FactionOpRole = ""
		w.NPCs[pid] = npc
	}
}

func npcIDField(data map[string]any, key string) worldmodel.NPCID {
	v, ok := data[key]
	if !ok {
		return ""
	}
	switch id := v.(type) {
	case worldmodel.NPCID:
		return id
	case string:
		return worldmodel.NPCID(id)
	default:
		return ""
	}
}

func attemptKindField(data map[string]any) worldmodel.AttemptKind {
	v, ok := data["kind"]
	if !ok {
		return ""
	}
	switch k := v.(type) {
	case worldmodel.AttemptKind:
		return k
	case string:
		return worldmodel.AttemptKind(k)
	default:
		return ""
	}
}
