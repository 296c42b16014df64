package goals

import (
	"github.com/talgya/hollowreach/internal/worldmodel"
)

// StateTriggerFunc reports whether a reactive state should be
// (re)triggered for npc this tick.
type StateTriggerFunc func(w *worldmodel.World, npc *worldmodel.NPC, events []worldmodel.SimEvent) bool

// StateDef is one catalog entry for a short-lived reactive state.
type StateDef struct {
	Kind              string
	Trigger           StateTriggerFunc
	Modifiers         map[string]float64
	DurationHours     int
	InitialIntensity  float64
	DecayRateModifier float64
	// ResistanceTrait, if set, is a Traits field that slows this state's
	// decay: decay is scaled by (1 - trait/100).
	ResistanceTrait string
}

var stateCatalog = []StateDef{
	{
		Kind:              "startled",
		Trigger:           witnessedAttemptKind(worldmodel.AttemptAssault, worldmodel.AttemptKill, worldmodel.AttemptRaid, worldmodel.AttemptKidnap),
		Modifiers:         map[string]float64{string(worldmodel.AttemptFlee): 25, "*": -5},
		DurationHours:     6,
		InitialIntensity:  80,
		DecayRateModifier: 1.0,
		ResistanceTrait:   "Courage",
	},
	{
		Kind:              "emboldened",
		Trigger:           attemptSucceededBySelf(worldmodel.AttemptDefend, worldmodel.AttemptAssault, worldmodel.AttemptIntervene),
		Modifiers:         map[string]float64{string(worldmodel.AttemptDefend): 15, string(worldmodel.AttemptPatrol): 10},
		DurationHours:     8,
		InitialIntensity:  60,
		DecayRateModifier: 1.0,
	},
	{
		Kind:              "grateful",
		Trigger:           receivedHelp,
		Modifiers:         map[string]float64{string(worldmodel.AttemptSocialize): 15, string(worldmodel.AttemptGossip): -10},
		DurationHours:     10,
		InitialIntensity:  50,
		DecayRateModifier: 0.8,
	},
	{
		Kind:              "grieving",
		Trigger:           npcDiedFamily,
		Modifiers:         map[string]float64{"*": -10, string(worldmodel.AttemptRest): 20},
		DurationHours:     24,
		InitialIntensity:  90,
		DecayRateModifier: 0.6,
		ResistanceTrait:   "Discipline",
	},
	{
		Kind:              "mourning_a_leader",
		Trigger:           npcDiedHighLoyalty(70),
		Modifiers:         map[string]float64{string(worldmodel.AttemptPray): 15, "*": -5},
		DurationHours:     18,
		InitialIntensity:  70,
		DecayRateModifier: 0.7,
	},
	{
		Kind:              "watchful_at_night",
		Trigger:           timeOfDay(22, 6),
		Modifiers:         map[string]float64{string(worldmodel.AttemptPatrol): 15, string(worldmodel.AttemptRest): -10},
		DurationHours:     1,
		InitialIntensity:  100,
		DecayRateModifier: 1.0,
	},
}

// UpdateStates triggers/refreshes each matching reactive state, decays
// every remaining-intensity state by (100/durationHours)*decayRateModifier
// scaled by trait-based resistance, and drops expired ones (spec.md
// Section 4.10).
func UpdateStates(w *worldmodel.World, events []worldmodel.SimEvent) {
	for _, id := range w.SortedNPCIDs() {
		npc := w.NPCs[id]
		if !npc.Alive {
			continue
		}

		states := append([]worldmodel.ReactiveState(nil), npc.ReactiveStates...)
		for i := range states {
			decayReactiveState(&states[i], npc.Traits, stateDefByKind(states[i].Kind))
		}

		for _, def := range stateCatalog {
			if !def.Trigger(w, &npc, events) {
				continue
			}
			idx := indexOfState(states, def.Kind)
			fresh := worldmodel.ReactiveState{
				Kind: def.Kind, Intensity: def.InitialIntensity,
				DurationHours: def.DurationHours, RemainingHours: def.DurationHours,
				Modifiers: copyModifiers(def.Modifiers), DecayRateModifier: def.DecayRateModifier,
				TriggeredTick: w.Tick,
			}
			if idx >= 0 {
				states[idx] = fresh
			} else {
				states = append(states, fresh)
			}
		}

		kept := states[:0]
		for _, s := range states {
			if !s.Expired() {
				kept = append(kept, s)
			}
		}
		npc.ReactiveStates = kept
		w.NPCs[id] = npc
	}
}

func decayReactiveState(s *worldmodel.ReactiveState, traits worldmodel.Traits, def *StateDef) {
	if s.DurationHours <= 0 {
		s.Intensity = 0
		return
	}
	base := 100 / float64(s.DurationHours) * s.DecayRateModifier
	resistance := 0.0
	if def != nil && def.ResistanceTrait != "" {
		resistance = traitValue(traits, def.ResistanceTrait) / 100
	}
	s.Intensity = worldmodel.Clamp100(s.Intensity - base*(1-resistance))
	if s.RemainingHours > 0 {
		s.RemainingHours--
	}
}

func stateDefByKind(kind string) *StateDef {
	for i := range stateCatalog {
		if stateCatalog[i].Kind == kind {
			return &stateCatalog[i]
		}
	}
	return nil
}

func indexOfState(states []worldmodel.ReactiveState, kind string) int {
	for i, s := range states {
		if s.Kind == kind {
			return i
		}
	}
	return -1
}

func traitValue(t worldmodel.Traits, field string) float64 {
	switch field {
	case "Aggression":
		return t.Aggression
	case "Courage":
		return t.Courage
	case "Discipline":
		return t.Discipline
	case "Empathy":
		return t.Empathy
	case "Greed":
		return t.Greed
	case "Integrity":
		return t.Integrity
	case "Loyalty":
		return t.Loyalty
	case "NeedForCertainty":
		return t.NeedForCertainty
	case "Patience":
		return t.Patience
	case "Perception":
		return t.Perception
	case "Suspicion":
		return t.Suspicion
	case "Zeal":
		return t.Zeal
	default:
		return 0
	}
}

// witnessedAttemptKind triggers when a completed attempt of one of the
// given kinds is recorded at npc's site this tick, with npc not the actor.
func witnessedAttemptKind(kinds ...worldmodel.AttemptKind) StateTriggerFunc {
	set := make(map[worldmodel.AttemptKind]bool, len(kinds))
	for _, k := range kinds {
		set[k] = true
	}
	return func(_ *worldmodel.World, npc *worldmodel.NPC, events []worldmodel.SimEvent) bool {
		for _, ev := range events {
			if ev.Kind != worldmodel.EventAttemptRecorded || ev.SiteID != npc.SiteID {
				continue
			}
			if !set[attemptKindField(ev.Data)] {
				continue
			}
			if npcIDField(ev.Data, "actorId") == npc.ID {
				continue
			}
			return true
		}
		return false
	}
}

// attemptSucceededBySelf triggers when npc's own attempt of one of the
// given kinds resolved successfully this tick.
func attemptSucceededBySelf(kinds ...worldmodel.AttemptKind) StateTriggerFunc {
	set := make(map[worldmodel.AttemptKind]bool, len(kinds))
	for _, k := range kinds {
		set[k] = true
	}
	return func(_ *worldmodel.World, npc *worldmodel.NPC, events []worldmodel.SimEvent) bool {
		for _, ev := range events {
			if ev.Kind != worldmodel.EventAttemptRecorded {
				continue
			}
			if !set[attemptKindField(ev.Data)] {
				continue
			}
			if succ, ok := ev.Data["success"].(bool); !ok || !succ {
				continue
			}
			if npcIDField(ev.Data, "actorId") == npc.ID {
				return true
			}
		}
		return false
	}
}

// receivedHelp triggers when npc was the target of a successful heal
// this tick.
func receivedHelp(_ *worldmodel.World, npc *worldmodel.NPC, events []worldmodel.SimEvent) bool {
	for _, ev := range events {
		if ev.Kind != worldmodel.EventAttemptCompleted {
			continue
		}
		if attemptKindField(ev.Data) != worldmodel.AttemptHeal {
			continue
		}
		if npcIDField(ev.Data, "targetId") == npc.ID {
			return true
		}
	}
	return false
}

func npcDiedFamily(_ *worldmodel.World, npc *worldmodel.NPC, events []worldmodel.SimEvent) bool {
	return familyMemberDied(nil, npc, events)
}

// npcDiedHighLoyalty triggers when an NPC npc holds loyalty >= threshold
// toward dies anywhere this tick.
func npcDiedHighLoyalty(threshold float64) StateTriggerFunc {
	return func(_ *worldmodel.World, npc *worldmodel.NPC, events []worldmodel.SimEvent) bool {
		for _, ev := range events {
			if ev.Kind != worldmodel.EventNPCDied {
				continue
			}
			died := npcIDField(ev.Data, "npcId")
			if rel, ok := npc.Relationships[died]; ok && rel.Loyalty >= threshold {
				return true
			}
		}
		return false
	}
}

// timeOfDay triggers whenever the current hour-of-day falls in the
// [startHour, endHour) window, wrapping past midnight if startHour >
// endHour.
func timeOfDay(startHour, endHour int) StateTriggerFunc {
	return func(w *worldmodel.World, _ *worldmodel.NPC, _ []worldmodel.SimEvent) bool {
		hour := int(w.Tick % 24)
		if startHour <= endHour {
			return hour >= startHour && hour < endHour
		}
		return hour >= startHour || hour < endHour
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
