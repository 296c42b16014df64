// Package goals implements long-term goal triggers and the procedural
// short-term goal synthesized from dominant needs (spec.md Section 4.10).
// Like internal/plans and internal/factions, this package only manages
// the Goals slice's lifecycle; the scorer contribution itself is read
// directly off npc.Goals by internal/scoring.
package goals

import (
	"sort"
	"strings"

	"github.com/talgya/hollowreach/internal/worldmodel"
)

// TriggerFunc reports whether a goal's condition currently holds for npc.
// Triggers may consult this tick's events and may record state in
// npc.TriggerMemory (e.g. needProlonged's since-tick bookkeeping).
type TriggerFunc func(w *worldmodel.World, npc *worldmodel.NPC, events []worldmodel.SimEvent) bool

// Def is one catalog entry: a trigger and the fixed scorer modifiers it
// contributes while active. Public goals are the ones an NPC would
// plausibly declare aloud rather than keep as private disposition;
// newly-triggered ones emit a "tell" event (spec.md Section 4.11 step 8).
type Def struct {
	Kind      string
	Trigger   TriggerFunc
	Modifiers map[string]float64
	Priority  float64
	Public    bool
}

const maxActiveGoals = 6

// catalog is the closed, build-time-known set of rule-defined goals.
var catalog = []Def{
	{
		Kind:      "expose_heresy",
		Trigger:   beliefAbout("did", string(worldmodel.AttemptPreachFixedPath), 60),
		Modifiers: map[string]float64{string(worldmodel.AttemptInvestigate): 25, string(worldmodel.AttemptPreachFixedPath): -15},
		Priority:  55,
		Public:    true,
	},
	{
		Kind:      "avenge_family",
		Trigger:   familyMemberDied,
		Modifiers: map[string]float64{string(worldmodel.AttemptAssault): 30, string(worldmodel.AttemptKill): 20},
		Priority:  75,
		Public:    true,
	},
	{
		Kind:      "return_to_family",
		Trigger:   and(hasFamily(), not(familyAtSameSite())),
		Modifiers: map[string]float64{string(worldmodel.AttemptTravel): 25},
		Priority:  35,
	},
	{
		Kind:      "guard_the_gate",
		Trigger:   or(categoryIs(worldmodel.CategoryGuard), categoryIs(worldmodel.CategoryScoutRanger)),
		Modifiers: map[string]float64{string(worldmodel.AttemptPatrol): 20, string(worldmodel.AttemptInvestigate): 10},
		Priority:  45,
		Public:    true,
	},
	{
		Kind:      "serve_the_circle",
		Trigger:   cultMember(),
		Modifiers: map[string]float64{string(worldmodel.AttemptPreachFixedPath): 20, string(worldmodel.AttemptForcedEclipse): 15},
		Priority:  50,
	},
	{
		Kind:      "chronic_hunger",
		Trigger:   needProlonged("Food", 25, 6),
		Modifiers: map[string]float64{string(worldmodel.AttemptSteal): 15, string(worldmodel.AttemptWorkFish): 20},
		Priority:  40,
	},
	{
		Kind:      "wary_of_a_threat",
		Trigger:   relationshipWith("Fear", ">=", 70),
		Modifiers: map[string]float64{string(worldmodel.AttemptFlee): 15, string(worldmodel.AttemptDefend): 10},
		Priority:  38,
	},
	{
		Kind:      "resentful_debtor",
		Trigger:   stateActive("humiliated"),
		Modifiers: map[string]float64{string(worldmodel.AttemptGossip): 15, string(worldmodel.AttemptSocialize): -10},
		Priority:  30,
	},
	{
		Kind:      "shaken_by_violence",
		Trigger:   witnessedEvent(worldmodel.EventNPCDied),
		Modifiers: map[string]float64{string(worldmodel.AttemptFlee): 20, string(worldmodel.AttemptPray): 10},
		Priority:  42,
	},
}

// dominantNeedModifiers maps a need field to the action kinds it biases
// when it is one of an NPC's top-2 unmet needs (the procedural goal).
var dominantNeedModifiers = map[string]map[string]float64{
	"Food":      {string(worldmodel.AttemptWorkFish): 15, string(worldmodel.AttemptWorkFarm): 15, string(worldmodel.AttemptTrade): 10},
	"Safety":    {string(worldmodel.AttemptTravel): 15, string(worldmodel.AttemptFlee): 10},
	"Belonging": {string(worldmodel.AttemptSocialize): 15},
	"Esteem":    {string(worldmodel.AttemptPatrol): 10, string(worldmodel.AttemptTrade): 10},
	"Purpose":   {string(worldmodel.AttemptPray): 10, string(worldmodel.AttemptPreachFixedPath): 10},
	"Duty":      {string(worldmodel.AttemptPatrol): 15},
	"Certainty": {string(worldmodel.AttemptInvestigate): 10, string(worldmodel.AttemptGossip): 10},
	"Rest":      {string(worldmodel.AttemptRest): 15},
	"Social":    {string(worldmodel.AttemptSocialize): 15, string(worldmodel.AttemptGossip): 10},
	"Comfort":   {string(worldmodel.AttemptTrade): 10, string(worldmodel.AttemptRest): 10},
}

// UpdateGoals evaluates the static catalog against every living NPC,
// adding newly-triggered goals and dropping ones whose trigger has
// stopped holding, replaces the procedural goal with a freshly
// synthesized one, then clamps to the 6 highest-priority goals. Every
// newly-triggered public goal emits a "tell" event at the NPC's site.
func UpdateGoals(w *worldmodel.World, events []worldmodel.SimEvent, sink *worldmodel.EventSink) {
	for _, id := range w.SortedNPCIDs() {
		npc := w.NPCs[id]
		if !npc.Alive {
			continue
		}

		var goals []worldmodel.Goal
		for _, g := range npc.Goals {
			if !g.Procedural {
				goals = append(goals, g)
			}
		}

		for _, def := range catalog {
			holds := def.Trigger(w, &npc, events)
			idx := indexOfGoal(goals, def.Kind)
			switch {
			case holds && idx < 0:
				goals = append(goals, worldmodel.Goal{
					Kind: def.Kind, Priority: def.Priority,
					Modifiers: copyModifiers(def.Modifiers), CreatedTick: w.Tick,
				})
				if def.Public && sink != nil {
					sink.Emit(worldmodel.EventGoalTold, worldmodel.VisibilityPublic, npc.SiteID,
						string(id)+" declares intent: "+def.Kind, map[string]any{"npcId": id, "goal": def.Kind})
				}
			case !holds && idx >= 0:
				goals = append(goals[:idx], goals[idx+1:]...)
			}
		}

		if g, ok := proceduralGoal(npc, w.Tick); ok {
			goals = append(goals, g)
		}

		sort.SliceStable(goals, func(i, j int) bool { return goals[i].Priority > goals[j].Priority })
		if len(goals) > maxActiveGoals {
			goals = goals[:maxActiveGoals]
		}
		npc.Goals = goals
		w.NPCs[id] = npc
	}
}

func indexOfGoal(goals []worldmodel.Goal, kind string) int {
	for i, g := range goals {
		if g.Kind == kind {
			return i
		}
	}
	return -1
}

func copyModifiers(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// proceduralGoal synthesizes a goal from the NPC's top-2 most unmet
// needs (satisfaction < 55), biasing the action kinds each of those
// needs' table names toward.
func proceduralGoal(npc worldmodel.NPC, tick uint64) (worldmodel.Goal, bool) {
	type scored struct {
		field string
		value float64
	}
	fields := []scored{
		{"Food", npc.Needs.Food}, {"Safety", npc.Needs.Safety}, {"Belonging", npc.Needs.Belonging},
		{"Esteem", npc.Needs.Esteem}, {"Purpose", npc.Needs.Purpose}, {"Duty", npc.Needs.Duty},
		{"Certainty", npc.Needs.Certainty}, {"Rest", npc.Needs.Rest}, {"Social", npc.Needs.Social},
		{"Comfort", npc.Needs.Comfort},
	}
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].value < fields[j].value })

	modifiers := map[string]float64{}
	var top []string
	for _, f := range fields {
		if f.value >= 55 {
			continue
		}
		top = append(top, f.field)
		for kind, delta := range dominantNeedModifiers[f.field] {
			modifiers[kind] += delta
		}
		if len(top) == 2 {
			break
		}
	}
	if len(top) == 0 {
		return worldmodel.Goal{}, false
	}
	return worldmodel.Goal{
		Kind: "procedural:" + strings.Join(top, "+"), Priority: 20,
		Modifiers: modifiers, CreatedTick: tick, Procedural: true,
	}, true
}
