// Package resolvers implements the per-attempt-kind resolution functions:
// each takes the world, the attempt, an RNG stream, and an event sink, and
// mutates the world to apply that attempt's consequences (spec.md
// Section 4.7). Resolvers are the only code permitted to mutate NPC or
// site state outside automatic processes and travel progress.
package resolvers

import (
	"fmt"

	"github.com/talgya/hollowreach/internal/config"
	"github.com/talgya/hollowreach/internal/mapgraph"
	"github.com/talgya/hollowreach/internal/rng"
	"github.com/talgya/hollowreach/internal/worldmodel"
)

// Fn resolves one attempt, recording its own events and emitting a final
// `attempt.recorded` event carrying success and any roll-failure detail.
// Dispatch/ProcessPendingAttempts (internal/attempts) additionally emit
// the attempt.completed/attempt.started bracket around this call.
type Fn func(w *worldmodel.World, at worldmodel.Attempt, cfg config.Config, graph *mapgraph.Graph, stream *rng.Stream, sink *worldmodel.EventSink) error

// Registry maps each attempt kind to its resolver. Built once; the
// orchestrator looks up `Registry[at.Kind]` and calls it.
var Registry = map[worldmodel.AttemptKind]Fn{
	worldmodel.AttemptIdle:              resolveIdle,
	worldmodel.AttemptRest:              resolveRest,
	worldmodel.AttemptSocialize:         resolveSocialize,
	worldmodel.AttemptGossip:            resolveGossip,
	worldmodel.AttemptPray:              resolvePray,
	worldmodel.AttemptTravel:            resolveTravel,
	worldmodel.AttemptWorkFarm:          resolveWork(worldmodel.FoodGrain),
	worldmodel.AttemptWorkFish:          resolveWork(worldmodel.FoodFish),
	worldmodel.AttemptWorkHunt:          resolveWork(worldmodel.FoodMeat),
	worldmodel.AttemptTrade:             resolveTrade,
	worldmodel.AttemptPatrol:            resolvePatrol,
	worldmodel.AttemptHeal:              resolveHeal,
	worldmodel.AttemptPreachFixedPath:   resolvePreach,
	worldmodel.AttemptInvestigate:       resolveInvestigate,
	worldmodel.AttemptSteal:             resolveSteal,
	worldmodel.AttemptAssault:           resolveCombat(false),
	worldmodel.AttemptKill:              resolveCombat(true),
	worldmodel.AttemptRaid:              resolveRaid,
	worldmodel.AttemptKidnap:            resolveDetain("kidnap"),
	worldmodel.AttemptArrest:            resolveDetain("arrest"),
	worldmodel.AttemptForcedEclipse:     resolveForcedEclipse,
	worldmodel.AttemptAnchorSever:       resolveAnchorSever,
	worldmodel.AttemptIntervene:         resolveIntervene,
	worldmodel.AttemptFlee:              resolveFlee,
	worldmodel.AttemptDefend:            resolveDefend,
}

// recordAttempt emits the attempt.recorded event every resolver ends with,
// carrying success and a free-form detail payload merged into data.
func recordAttempt(sink *worldmodel.EventSink, at worldmodel.Attempt, success bool, extra map[string]any) {
	data := map[string]any{"attemptId": at.ID, "kind": at.Kind, "actorId": at.ActorID, "success": success}
	for k, v := range extra {
		data[k] = v
	}
	sink.Emit(worldmodel.EventAttemptRecorded, at.Visibility, at.SiteID,
		fmt.Sprintf("%s %s (%s): success=%v", at.ActorID, at.Kind, at.ID, success), data)
}

// postPublicRumor appends a rumor at the attempt's site and applies
// confidence-scaled relationship deltas to co-located, non-traveling,
// non-actor witnesses — the shared tail every public-visibility resolver
// runs (spec.md Section 4.7's closing paragraph).
func postPublicRumor(w *worldmodel.World, at worldmodel.Attempt, label, kind string, confidence float64) {
	site := w.Sites[at.SiteID]
	if site.Settlement == nil {
		return
	}
	s := site.Settlement
	s.Rumors = append(s.Rumors, worldmodel.Rumor{
		ID:          fmt.Sprintf("rmr:%d:%d", w.Tick, len(s.Rumors)),
		Label:       label,
		Kind:        kind,
		ActorID:     at.ActorID,
		SubjectID:   at.TargetID,
		Confidence:  confidence,
		CreatedTick: w.Tick,
	})
	if len(s.Rumors) > 120 {
		s.Rumors = s.Rumors[len(s.Rumors)-120:]
	}
	site.Settlement = s
	w.Sites[at.SiteID] = site

	for _, wid := range w.SortedNPCIDs() {
		if wid == at.ActorID {
			continue
		}
		witness := w.NPCs[wid]
		if !witness.Alive || witness.SiteID != at.SiteID || witness.IsTraveling() {
			continue
		}
		applyWitnessRelationshipDelta(&witness, at.ActorID, confidence)
		insertDidBelief(&witness, at.ActorID, kind, confidence, w.Tick)
		w.NPCs[wid] = witness
	}
}

func applyWitnessRelationshipDelta(witness *worldmodel.NPC, about worldmodel.NPCID, confidence float64) {
	scale := confidenceScale(confidence)
	if scale == 0 {
		return
	}
	if witness.Relationships == nil {
		witness.Relationships = make(map[worldmodel.NPCID]worldmodel.Relationship)
	}
	rel := witness.Relationships[about]
	rel.Fear += 3 * scale
	rel.Trust -= 2 * scale
	rel.Clamp()
	witness.Relationships[about] = rel
}

func confidenceScale(confidence float64) float64 {
	switch {
	case confidence >= 80:
		return 1
	case confidence >= 50:
		return 0.6
	case confidence >= 20:
		return 0.25
	default:
		return 0
	}
}

func insertDidBelief(npc *worldmodel.NPC, subject worldmodel.NPCID, object string, confidence float64, tick uint64) {
	b := worldmodel.Belief{
		Subject: string(subject), Predicate: "did", Object: object,
		Source: "witnessed", Confidence: confidence, CreatedTick: tick,
	}
	for i, existing := range npc.Beliefs {
		if existing.SameKey(b) {
			if confidence > existing.Confidence {
				npc.Beliefs[i] = b
			}
			return
		}
	}
	npc.Beliefs = append(npc.Beliefs, b)
	if len(npc.Beliefs) > 120 {
		npc.Beliefs = npc.Beliefs[len(npc.Beliefs)-120:]
	}
}

func addDebt(npc *worldmodel.NPC, kind, direction string, other worldmodel.NPCID, tick uint64) {
	npc.Debts = append(npc.Debts, worldmodel.Debt{Kind: kind, Direction: direction, OtherNPC: other, CreatedTick: tick})
}

func applyRelationshipDelta(npc *worldmodel.NPC, other worldmodel.NPCID, trustDelta, fearDelta, loyaltyDelta float64) {
	if npc.Relationships == nil {
		npc.Relationships = make(map[worldmodel.NPCID]worldmodel.Relationship)
	}
	rel := npc.Relationships[other]
	rel.Trust += trustDelta
	rel.Fear += fearDelta
	rel.Loyalty += loyaltyDelta
	rel.Clamp()
	npc.Relationships[other] = rel
}
