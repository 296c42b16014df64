// Package perception implements the tick steps that turn raw co-presence
// and this tick's events into knowledge: site-co-presence facts, beliefs
// propagated from events the resolver layer didn't already cover, and
// world secrets registered for durable discoveries (spec.md Section 4.11
// steps 4 and 12).
package perception

import (
	"fmt"

	"github.com/talgya/hollowreach/internal/worldmodel"
)

// UpdatePerception gives every living, non-traveling NPC a fresh
// "co_present" knowledge fact for every other living, non-traveling NPC
// sharing its site this tick — upserted in place rather than appended, so
// the fact list reflects only who is present *now*.
func UpdatePerception(w *worldmodel.World) {
	bySite := map[worldmodel.SiteID][]worldmodel.NPCID{}
	for _, id := range w.SortedNPCIDs() {
		npc := w.NPCs[id]
		if !npc.Alive || npc.IsTraveling() {
			continue
		}
		bySite[npc.SiteID] = append(bySite[npc.SiteID], id)
	}

	for _, ids := range bySite {
		for _, id := range ids {
			npc := w.NPCs[id]
			for _, otherID := range ids {
				if otherID == id {
					continue
				}
				upsertCoPresence(&npc, otherID, w.Tick)
			}
			w.NPCs[id] = npc
		}
	}
}

func upsertCoPresence(npc *worldmodel.NPC, other worldmodel.NPCID, tick uint64) {
	for i, f := range npc.Knowledge.Facts {
		if f.Kind == "co_present" && f.SubjectID == string(other) {
			npc.Knowledge.Facts[i].CreatedTick = tick
			npc.Knowledge.Facts[i].Confidence = 100
			return
		}
	}
	npc.Knowledge.Facts = append(npc.Knowledge.Facts, worldmodel.KnowledgeFact{
		Kind: "co_present", SubjectID: string(other), Confidence: 100, CreatedTick: tick,
	})
}

// beliefWorthyEvents is the set of event kinds that, beyond whatever a
// resolver's own postPublicRumor tail already did, still need a co-located
// witness belief: events emitted outside a resolver's witness loop.
var beliefWorthyEvents = map[worldmodel.EventKind]string{
	worldmodel.EventAttemptAborted:     "abandoned_attempt",
	worldmodel.EventAttemptInterrupted: "was_interrupted",
	worldmodel.EventNPCDied:            "died",
}

// ApplyBeliefsFromEvents inserts a witnessed "did" belief for every living,
// non-traveling, non-actor NPC co-located with one of this tick's
// belief-worthy events.
func ApplyBeliefsFromEvents(w *worldmodel.World, events []worldmodel.SimEvent) {
	for _, ev := range events {
		object, ok := beliefWorthyEvents[ev.Kind]
		if !ok || ev.SiteID == "" {
			continue
		}
		subject := npcIDField(ev.Data, "actorId")
		if subject == "" {
			subject = npcIDField(ev.Data, "npcId")
		}
		if subject == "" {
			continue
		}
		for _, wid := range w.SortedNPCIDs() {
			if wid == subject {
				continue
			}
			witness := w.NPCs[wid]
			if !witness.Alive || witness.SiteID != ev.SiteID || witness.IsTraveling() {
				continue
			}
			insertDidBelief(&witness, subject, object, 70, w.Tick)
			w.NPCs[wid] = witness
		}
	}
}

// CreateSecretsFromEvents registers a durable world Secret the first time
// an investigate attempt identifies a cult member, and records the
// reference on the identifying actor's knowledge (spec.md Section 4.11
// step 12; secret records back [[identified_cult_member]] knowledge facts
// with a single canonical subject so later queries don't re-derive it from
// scattered per-NPC confidence values).
func CreateSecretsFromEvents(w *worldmodel.World, events []worldmodel.SimEvent) {
	for _, ev := range events {
		if ev.Kind != worldmodel.EventAttemptRecorded {
			continue
		}
		if attemptKindField(ev.Data) != worldmodel.AttemptInvestigate {
			continue
		}
		success, _ := ev.Data["success"].(bool)
		if !success {
			continue
		}
		targetID := npcIDField(ev.Data, "targetId")
		actorID := npcIDField(ev.Data, "actorId")
		if targetID == "" || actorID == "" {
			continue
		}

		secretID := fmt.Sprintf("secret:cult_identity:%s", targetID)
		if w.Secrets == nil {
			w.Secrets = map[string]worldmodel.Secret{}
		}
		if _, exists := w.Secrets[secretID]; !exists {
			w.Secrets[secretID] = worldmodel.Secret{ID: secretID, Kind: "cult_identity", Subject: string(targetID)}
		}

		actor := w.NPCs[actorID]
		if !containsRef(actor.Knowledge.SecretRefs, secretID) {
			actor.Knowledge.SecretRefs = append(actor.Knowledge.SecretRefs, secretID)
			w.NPCs[actorID] = actor
		}
	}
}

func containsRef(refs []string, id string) bool {
	for _, r := range refs {
		if r == id {
			return true
		}
	}
	return false
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
