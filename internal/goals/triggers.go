package goals

import (
	"github.com/talgya/hollowreach/internal/worldmodel"
)

// beliefAbout triggers when npc holds a belief with the given
// predicate/object at or above minConfidence.
func beliefAbout(predicate, object string, minConfidence float64) TriggerFunc {
	return func(_ *worldmodel.World, npc *worldmodel.NPC, _ []worldmodel.SimEvent) bool {
		for _, b := range npc.Beliefs {
			if b.Predicate == predicate && b.Object == object && b.Confidence >= minConfidence {
				return true
			}
		}
		return false
	}
}

// needProlonged triggers once the named need's deficit (100-value) has
// stayed at or above threshold for at least hours consecutive ticks. The
// since-tick is tracked in npc.TriggerMemory and cleared the moment the
// need recovers.
func needProlonged(need string, deficitThreshold float64, hours int) TriggerFunc {
	key := "needProlonged:" + need
	return func(w *worldmodel.World, npc *worldmodel.NPC, _ []worldmodel.SimEvent) bool {
		deficit := 100 - needValue(npc.Needs, need)
		if deficit < deficitThreshold {
			if npc.TriggerMemory != nil {
				delete(npc.TriggerMemory, key)
			}
			return false
		}
		if npc.TriggerMemory == nil {
			npc.TriggerMemory = map[string]uint64{}
		}
		since, ok := npc.TriggerMemory[key]
		if !ok {
			npc.TriggerMemory[key] = w.Tick
			return false
		}
		return w.Tick-since >= uint64(hours)
	}
}

// relationshipWith triggers when any of npc's relationships has the
// named field matching op against value.
func relationshipWith(field, op string, value float64) TriggerFunc {
	return func(_ *worldmodel.World, npc *worldmodel.NPC, _ []worldmodel.SimEvent) bool {
		for _, rel := range npc.Relationships {
			if compare(relationshipValue(rel, field), op, value) {
				return true
			}
		}
		return false
	}
}

func categoryIs(cat worldmodel.NPCCategory) TriggerFunc {
	return func(_ *worldmodel.World, npc *worldmodel.NPC, _ []worldmodel.SimEvent) bool {
		return npc.Category == cat
	}
}

func cultMember() TriggerFunc {
	return func(_ *worldmodel.World, npc *worldmodel.NPC, _ []worldmodel.SimEvent) bool {
		return npc.Cult != nil
	}
}

func hasFamily() TriggerFunc {
	return func(_ *worldmodel.World, npc *worldmodel.NPC, _ []worldmodel.SimEvent) bool {
		return len(npc.Family) > 0
	}
}

func familyAtSameSite() TriggerFunc {
	return func(w *worldmodel.World, npc *worldmodel.NPC, _ []worldmodel.SimEvent) bool {
		for _, fid := range npc.Family {
			if f, ok := w.NPCs[fid]; ok && f.Alive && f.SiteID == npc.SiteID && !f.IsTraveling() {
				return true
			}
		}
		return false
	}
}

func witnessedEvent(kind worldmodel.EventKind) TriggerFunc {
	return func(_ *worldmodel.World, npc *worldmodel.NPC, events []worldmodel.SimEvent) bool {
		for _, ev := range events {
			if ev.Kind == kind && ev.SiteID == npc.SiteID {
				return true
			}
		}
		return false
	}
}

func stateActive(kind string) TriggerFunc {
	return func(_ *worldmodel.World, npc *worldmodel.NPC, _ []worldmodel.SimEvent) bool {
		for _, rs := range npc.ReactiveStates {
			if rs.Kind == kind && !rs.Expired() {
				return true
			}
		}
		return false
	}
}

// familyMemberDied is a specialized witnessedEvent(npc.died) that also
// checks the dead NPC's id against npc.Family, regardless of site (grief
// travels faster than rumor does).
func familyMemberDied(_ *worldmodel.World, npc *worldmodel.NPC, events []worldmodel.SimEvent) bool {
	for _, ev := range events {
		if ev.Kind != worldmodel.EventNPCDied {
			continue
		}
		died := npcIDField(ev.Data, "npcId")
		for _, fid := range npc.Family {
			if fid == died {
				return true
			}
		}
	}
	return false
}

func and(fs ...TriggerFunc) TriggerFunc {
	return func(w *worldmodel.World, npc *worldmodel.NPC, events []worldmodel.SimEvent) bool {
		for _, f := range fs {
			if !f(w, npc, events) {
				return false
			}
		}
		return true
	}
}

func or(fs ...TriggerFunc) TriggerFunc {
	return func(w *worldmodel.World, npc *worldmodel.NPC, events []worldmodel.SimEvent) bool {
		for _, f := range fs {
			if f(w, npc, events) {
				return true
			}
		}
		return false
	}
}

func not(f TriggerFunc) TriggerFunc {
	return func(w *worldmodel.World, npc *worldmodel.NPC, events []worldmodel.SimEvent) bool {
		return !f(w, npc, events)
	}
}

func relationshipValue(r worldmodel.Relationship, field string) float64 {
	switch field {
	case "Trust":
		return r.Trust
	case "Fear":
		return r.Fear
	case "Loyalty":
		return r.Loyalty
	default:
		return 0
	}
}

func compare(v float64, op string, threshold float64) bool {
	switch op {
	case ">=":
		return v >= threshold
	case "<=":
		return v <= threshold
	case ">":
		return v > threshold
	case "<":
		return v < threshold
	default:
		return false
	}
}

func needValue(n worldmodel.Needs, field string) float64 {
	switch field {
	case "Food":
		return n.Food
	case "Safety":
		return n.Safety
	case "Belonging":
		return n.Belonging
	case "Esteem":
		return n.Esteem
	case "Purpose":
		return n.Purpose
	case "Duty":
		return n.Duty
	case "Certainty":
		return n.Certainty
	case "Rest":
		return n.Rest
	case "Social":
		return n.Social
	case "Comfort":
		return n.Comfort
	default:
		return 100
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
