package memory

import (
	"github.com/talgya/hollowreach/internal/config"
	"github.com/talgya/hollowreach/internal/worldmodel"
)

var observableKinds = map[worldmodel.EventKind]bool{
	worldmodel.EventAttemptCompleted: true,
	worldmodel.EventAttemptStarted:   true,
	worldmodel.EventWorldIncident:    true,
	worldmodel.EventNPCDied:          true,
	worldmodel.EventTravelEncounter:  true,
}

var violentAttemptKinds = map[string]bool{
	"assault": true, "kill": true, "raid": true, "kidnap": true, "arrest": true,
}

// CreateMemoriesFromEvents walks this tick's events and, for every
// observable kind, creates at most one memory per (witness, event) pair for
// every living NPC co-located with the event's site.
func CreateMemoriesFromEvents(w *worldmodel.World, cfg config.Config, events []worldmodel.SimEvent) {
	for _, ev := range events {
		if !observableKinds[ev.Kind] {
			continue
		}
		if ev.SiteID == "" {
			continue
		}
		actorID := npcIDField(ev.Data, "actorId")
		targetID := npcIDField(ev.Data, "targetId")
		if targetID == "" {
			targetID = npcIDField(ev.Data, "npcId")
		}

		for _, wid := range w.SortedNPCIDs() {
			witness := w.NPCs[wid]
			if !witness.Alive || witness.SiteID != ev.SiteID || witness.IsTraveling() {
				continue
			}
			if hasMemoryOf(witness, ev.ID) {
				continue
			}

			directInvolvement := wid == actorID || wid == targetID
			importance := importanceFor(ev, directInvolvement)
			loyalty := 0.0
			if about := actorID; about != "" {
				if about == targetID {
					about = targetID
				}
				if rel, ok := witness.Relationships[about]; ok {
					loyalty = rel.Loyalty
				}
			}
			importance = worldmodel.Clamp100(importance + loyalty*0.2)

			mem := worldmodel.Memory{
				ID:          worldmodel.NewMemoryID(wid, ev.ID),
				EventID:     ev.ID,
				EventKind:   ev.Kind,
				Importance:  importance,
				Vividness:   vividnessFor(importance),
				Impact:      emotionalImpactFor(ev, directInvolvement),
				CreatedTick: w.Tick,
				LastRetrievedTick: w.Tick,
			}
			witness.Memories = append(witness.Memories, mem)
			applyEmotionalImpact(&witness, cfg, mem)
			w.NPCs[wid] = witness
		}
	}

	enforceCap(w, cfg)
}

func npcIDField(data map[string]any, key string) worldmodel.NPCID {
	if data == nil {
		return ""
	}
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

func hasMemoryOf(npc worldmodel.NPC, eventID worldmodel.EventID) bool {
	for _, m := range npc.Memories {
		if m.EventID == eventID {
			return true
		}
	}
	return false
}

func importanceFor(ev worldmodel.SimEvent, direct bool) float64 {
	importance := 20.0
	if ev.Kind == worldmodel.EventNPCDied {
		importance = 90
	}
	if direct {
		importance += 30
	}
	if kindStr, ok := ev.Data["kind"].(string); ok && violentAttemptKinds[kindStr] {
		importance += 20
	}
	return importance
}

func vividnessFor(importance float64) float64 {
	v := 80 + importance*0.2
	if v > 100 {
		v = 100
	}
	return v
}

func emotionalImpactFor(ev worldmodel.SimEvent, direct bool) worldmodel.EmotionalImpact {
	switch ev.Kind {
	case worldmodel.EventNPCDied:
		arousal := 0.8
		if direct {
			arousal = 1.0
		}
		return worldmodel.EmotionalImpact{Valence: -0.9, Arousal: arousal, Emotions: []string{"sadness", "fear"}}
	case worldmodel.EventTravelEncounter:
		return worldmodel.EmotionalImpact{Valence: -0.3, Arousal: 0.5, Emotions: []string{"fear"}}
	case worldmodel.EventWorldIncident:
		return worldmodel.EmotionalImpact{Valence: -0.4, Arousal: 0.4, Emotions: []string{"sadness"}}
	default:
		if kindStr, ok := ev.Data["kind"].(string); ok && violentAttemptKinds[kindStr] {
			return worldmodel.EmotionalImpact{Valence: -0.7, Arousal: 0.7, Emotions: []string{"anger", "fear"}}
		}
		return worldmodel.EmotionalImpact{Valence: 0.2, Arousal: 0.2, Emotions: []string{"joy"}}
	}
}

func enforceCap(w *worldmodel.World, cfg config.Config) {
	if cfg.MaxMemoriesPerEntity <= 0 {
		return
	}
	for _, id := range w.SortedNPCIDs() {
		npc := w.NPCs[id]
		if len(npc.Memories) <= cfg.MaxMemoriesPerEntity {
			continue
		}
		sorted := append([]worldmodel.Memory(nil), npc.Memories...)
		sortMemoriesByImportanceThenRecency(sorted)
		npc.Memories = sorted[:cfg.MaxMemoriesPerEntity]
		w.NPCs[id] = npc
	}
}

func sortMemoriesByImportanceThenRecency(mems []worldmodel.Memory) {
	for i := 1; i < len(mems); i++ {
		for j := i; j > 0 && less(mems[j], mems[j-1]); j-- {
			mems[j], mems[j-1] = mems[j-1], mems[j]
		}
	}
}

func less(a, b worldmodel.Memory) bool {
	if a.Importance != b.Importance {
		return a.Importance > b.Importance
	}
	return a.CreatedTick > b.CreatedTick
}

// DecayMemories runs once per sim-day: vividness drops by
// `rate × (1 − importance/200) × daysSinceRetrieval`, and memories below
// memoryDropVividness are dropped unless importance ≥ memoryKeepImportance.
func DecayMemories(w *worldmodel.World, cfg config.Config) {
	for _, id := range w.SortedNPCIDs() {
		npc := w.NPCs[id]
		if len(npc.Memories) == 0 {
			continue
		}
		kept := npc.Memories[:0]
		for _, m := range npc.Memories {
			daysSince := int((w.Tick - m.LastRetrievedTick) / 24)
			if daysSince < 1 {
				daysSince = 1
			}
			m.Vividness -= cfg.MemoryDecayRate * (1 - m.Importance/200) * float64(daysSince)
			if m.Vividness < cfg.MemoryDropVividness && m.Importance < cfg.MemoryKeepImportance {
				continue
			}
			kept = append(kept, m)
		}
		npc.Memories = kept
		w.NPCs[id] = npc
	}
}
