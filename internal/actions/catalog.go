// Package actions holds the declarative action catalog: one ActionDef per
// scorable attempt kind, its scoring weights, preconditions, and target
// selector (spec.md Section 4.5). idle, trade, kill, intervene, flee and
// defend have no entry, so the scorer never generates them. Catalog entries are pure data plus small pure
// predicate/selector functions — nothing here mutates the world.
package actions

import (
	"github.com/talgya/hollowreach/internal/worldmodel"
)

// Precondition reports whether an actor may even be considered for an
// action this tick.
type Precondition func(w *worldmodel.World, npc *worldmodel.NPC) bool

// TargetSelector picks a target NPC id for an action, or ok=false if none
// is available. Actions with no target requirement pass a nil selector.
type TargetSelector func(w *worldmodel.World, npc *worldmodel.NPC) (worldmodel.NPCID, bool)

// ConditionWeight is one `field op threshold -> weight` rule evaluated
// against site or NPC scalars.
type ConditionWeight struct {
	Field     string
	Op        string // "gt" | "lt" | "gte" | "lte"
	Threshold float64
	Weight    float64
}

// ActionDef is one catalog entry.
type ActionDef struct {
	Kind             worldmodel.AttemptKind
	BaseWeight       float64
	NeedWeights      map[string]float64 // need field -> weight, scored as (100-need)/100 * weight * 20 (unmet need drives action)
	TraitWeights     map[string]float64
	SiteConditions   []ConditionWeight
	BeliefWeights    map[string]float64 // belief predicate -> weight
	RelationshipCond []ConditionWeight  // field: trust|fear|loyalty
	DurationHours    int
	Visibility       worldmodel.Visibility
	Magnitude        worldmodel.Magnitude
	Preconditions    []Precondition
	TargetSelector   TargetSelector
}

// Catalog is the closed, build-time-known list of scorable actions.
var Catalog = []ActionDef{
	{
		Kind:          worldmodel.AttemptRest,
		BaseWeight:    5,
		NeedWeights:   map[string]float64{"Rest": 1.2},
		DurationHours: 1,
		Visibility:    worldmodel.VisibilityPrivate,
		Magnitude:     worldmodel.MagnitudeMinor,
		Preconditions: []Precondition{notBusyNotTravelingNotDetained},
	},
	{
		Kind:          worldmodel.AttemptSocialize,
		BaseWeight:    4,
		NeedWeights:   map[string]float64{"Social": 0.8, "Belonging": 0.6},
		DurationHours: 1,
		Visibility:    worldmodel.VisibilityPublic,
		Magnitude:     worldmodel.MagnitudeMinor,
		Preconditions: []Precondition{notBusyNotTravelingNotDetained, anyoneElseAtSite},
		TargetSelector: anyNPCAtSite,
	},
	{
		Kind:          worldmodel.AttemptTravel,
		BaseWeight:    3,
		NeedWeights:   map[string]float64{"Safety": 0.5},
		DurationHours: 1,
		Visibility:    worldmodel.VisibilityPublic,
		Magnitude:     worldmodel.MagnitudeMinor,
		Preconditions: []Precondition{notBusyNotTravelingNotDetained, atSettlement},
	},
	{
		Kind:          worldmodel.AttemptWorkFarm,
		BaseWeight:    6,
		NeedWeights:   map[string]float64{"Food": 1.0, "Duty": 0.4},
		DurationHours: 4,
		Visibility:    worldmodel.VisibilityPublic,
		Magnitude:     worldmodel.MagnitudeMinor,
		Preconditions: []Precondition{notBusyNotTravelingNotDetained, hasCategory(worldmodel.CategoryFarmer), atSettlement},
	},
	{
		Kind:          worldmodel.AttemptWorkFish,
		BaseWeight:    6,
		NeedWeights:   map[string]float64{"Food": 1.0, "Duty": 0.4},
		DurationHours: 4,
		Visibility:    worldmodel.VisibilityPublic,
		Magnitude:     worldmodel.MagnitudeMinor,
		Preconditions: []Precondition{notBusyNotTravelingNotDetained, hasCategory(worldmodel.CategoryFisher), atSettlement},
	},
	{
		Kind:          worldmodel.AttemptWorkHunt,
		BaseWeight:    6,
		NeedWeights:   map[string]float64{"Food": 1.0, "Duty": 0.4},
		DurationHours: 4,
		Visibility:    worldmodel.VisibilityPublic,
		Magnitude:     worldmodel.MagnitudeMinor,
		Preconditions: []Precondition{notBusyNotTravelingNotDetained, hasCategory(worldmodel.CategoryHunter), atSettlement},
	},
	{
		Kind:          worldmodel.AttemptPatrol,
		BaseWeight:    7,
		NeedWeights:   map[string]float64{"Duty": 0.8, "Safety": 0.3},
		TraitWeights:  map[string]float64{"Discipline": 0.3},
		DurationHours: 3,
		Visibility:    worldmodel.VisibilityPublic,
		Magnitude:     worldmodel.MagnitudeMinor,
		Preconditions: []Precondition{notBusyNotTravelingNotDetained, hasCategory(worldmodel.CategoryGuard, worldmodel.CategoryScoutRanger), atSettlement},
	},
	{
		Kind:          worldmodel.AttemptHeal,
		BaseWeight:    8,
		NeedWeights:   map[string]float64{"Esteem": 0.3},
		TraitWeights:  map[string]float64{"Empathy": 0.3},
		DurationHours: 1,
		Visibility:    worldmodel.VisibilityPublic,
		Magnitude:     worldmodel.MagnitudeNormal,
		Preconditions: []Precondition{notBusyNotTravelingNotDetained, hasCategory(worldmodel.CategoryHealer), atSettlement, hasTarget(woundedAtSite)},
		TargetSelector: woundedAtSite,
	},
	{
		Kind:          worldmodel.AttemptPreachFixedPath,
		BaseWeight:    6,
		TraitWeights:  map[string]float64{"Zeal": 0.5},
		DurationHours: 2,
		Visibility:    worldmodel.VisibilityPublic,
		Magnitude:     worldmodel.MagnitudeNormal,
		Preconditions: []Precondition{notBusyNotTravelingNotDetained, hasCategory(worldmodel.CategoryCultLeader, worldmodel.CategoryPriest), atSettlement},
	},
	{
		Kind:          worldmodel.AttemptInvestigate,
		BaseWeight:    6,
		TraitWeights:  map[string]float64{"Suspicion": 0.4, "Discipline": 0.2},
		DurationHours: 2,
		Visibility:    worldmodel.VisibilityPrivate,
		Magnitude:     worldmodel.MagnitudeNormal,
		Preconditions: []Precondition{notBusyNotTravelingNotDetained, hasCategory(worldmodel.CategoryGuard, worldmodel.CategoryScoutRanger), atSettlement},
	},
	{
		Kind:          worldmodel.AttemptSteal,
		BaseWeight:    5,
		NeedWeights:   map[string]float64{"Food": 0.6},
		TraitWeights:  map[string]float64{"Greed": 0.5, "Integrity": -0.3},
		DurationHours: 1,
		Visibility:    worldmodel.VisibilityPrivate,
		Magnitude:     worldmodel.MagnitudeNormal,
		Preconditions: []Precondition{notBusyNotTravelingNotDetained, hasCategory(worldmodel.CategoryOutlaw, worldmodel.CategoryBandit), atSettlement, hasTarget(nonActorAtSite)},
		TargetSelector: nonActorAtSite,
	},
	{
		Kind:          worldmodel.AttemptAssault,
		BaseWeight:    3,
		TraitWeights:  map[string]float64{"Aggression": 0.6, "Integrity": -0.4},
		DurationHours: 1,
		Visibility:    worldmodel.VisibilityPublic,
		Magnitude:     worldmodel.MagnitudeMajor,
		Preconditions: []Precondition{notBusyNotTravelingNotDetained, hasTarget(lowTrustAtSite)},
		TargetSelector: lowTrustAtSite,
	},
	{
		Kind:          worldmodel.AttemptRaid,
		BaseWeight:    4,
		TraitWeights:  map[string]float64{"Aggression": 0.5, "Greed": 0.3},
		DurationHours: 2,
		Visibility:    worldmodel.VisibilityPublic,
		Magnitude:     worldmodel.MagnitudeMajor,
		Preconditions: []Precondition{notBusyNotTravelingNotDetained, hasCategory(worldmodel.CategoryBandit), atSettlement},
	},
	{
		Kind:          worldmodel.AttemptKidnap,
		BaseWeight:    3,
		TraitWeights:  map[string]float64{"Aggression": 0.4, "Discipline": 0.2},
		DurationHours: 1,
		Visibility:    worldmodel.VisibilityPublic,
		Magnitude:     worldmodel.MagnitudeMajor,
		Preconditions: []Precondition{notBusyNotTravelingNotDetained, hasCultRole, hasTarget(nonCultMemberAtSite)},
		TargetSelector: nonCultMemberAtSite,
	},
	{
		Kind:          worldmodel.AttemptArrest,
		BaseWeight:    5,
		TraitWeights:  map[string]float64{"Discipline": 0.5},
		DurationHours: 1,
		Visibility:    worldmodel.VisibilityPublic,
		Magnitude:     worldmodel.MagnitudeNormal,
		Preconditions: []Precondition{notBusyNotTravelingNotDetained, hasCategory(worldmodel.CategoryGuard), hasTarget(lowTrustAtSite)},
		TargetSelector: lowTrustAtSite,
	},
	{
		Kind:          worldmodel.AttemptForcedEclipse,
		BaseWeight:    3,
		TraitWeights:  map[string]float64{"Zeal": 0.6},
		DurationHours: 2,
		Visibility:    worldmodel.VisibilityPrivate,
		Magnitude:     worldmodel.MagnitudeMajor,
		Preconditions: []Precondition{notBusyNotTravelingNotDetained, hasCultRole, hasTarget(eclipsingReversible)},
		TargetSelector: eclipsingReversible,
	},
	{
		Kind:          worldmodel.AttemptAnchorSever,
		BaseWeight:    6,
		TraitWeights:  map[string]float64{"Empathy": 0.4, "Discipline": 0.2},
		DurationHours: 2,
		Visibility:    worldmodel.VisibilityPublic,
		Magnitude:     worldmodel.MagnitudeNormal,
		Preconditions: []Precondition{notBusyNotTravelingNotDetained, hasTarget(eclipsingReversible)},
		TargetSelector: eclipsingReversible,
	},
	{
		Kind:          worldmodel.AttemptGossip,
		BaseWeight:    4,
		NeedWeights:   map[string]float64{"Social": 0.5},
		DurationHours: 1,
		Visibility:    worldmodel.VisibilityPublic,
		Magnitude:     worldmodel.MagnitudeMinor,
		Preconditions: []Precondition{notBusyNotTravelingNotDetained, anyoneElseAtSite},
		TargetSelector: anyNPCAtSite,
	},
	{
		Kind:          worldmodel.AttemptPray,
		BaseWeight:    3,
		NeedWeights:   map[string]float64{"Certainty": 0.6},
		TraitWeights:  map[string]float64{"Zeal": 0.3},
		DurationHours: 1,
		Visibility:    worldmodel.VisibilityPrivate,
		Magnitude:     worldmodel.MagnitudeMinor,
		Preconditions: []Precondition{notBusyNotTravelingNotDetained},
	},
}

func notBusyNotTravelingNotDetained(w *worldmodel.World, npc *worldmodel.NPC) bool {
	return !npc.IsBusy(w.Tick) && !npc.IsTraveling() && !npc.IsDetained()
}

func atSettlement(w *worldmodel.World, npc *worldmodel.NPC) bool {
	site := w.Sites[npc.SiteID]
	return site.Kind == worldmodel.SiteSettlement
}

func hasCultRole(w *worldmodel.World, npc *worldmodel.NPC) bool {
	return npc.Cult != nil
}

func hasCategory(cats ...worldmodel.NPCCategory) Precondition {
	return func(w *worldmodel.World, npc *worldmodel.NPC) bool {
		for _, c := range cats {
			if npc.Category == c {
				return true
			}
		}
		return false
	}
}

func anyoneElseAtSite(w *worldmodel.World, npc *worldmodel.NPC) bool {
	_, ok := anyNPCAtSite(w, npc)
	return ok
}

func hasTarget(sel TargetSelector) Precondition {
	return func(w *worldmodel.World, npc *worldmodel.NPC) bool {
		_, ok := sel(w, npc)
		return ok
	}
}

func anyNPCAtSite(w *worldmodel.World, npc *worldmodel.NPC) (worldmodel.NPCID, bool) {
	for _, id := range w.SortedNPCIDs() {
		if id == npc.ID {
			continue
		}
		other := w.NPCs[id]
		if other.Alive && other.SiteID == npc.SiteID && !other.IsTraveling() {
			return id, true
		}
	}
	return "", false
}

func nonActorAtSite(w *worldmodel.World, npc *worldmodel.NPC) (worldmodel.NPCID, bool) {
	return anyNPCAtSite(w, npc)
}

func nonCultMemberAtSite(w *worldmodel.World, npc *worldmodel.NPC) (worldmodel.NPCID, bool) {
	for _, id := range w.SortedNPCIDs() {
		if id == npc.ID {
			continue
		}
		other := w.NPCs[id]
		if other.Alive && other.SiteID == npc.SiteID && !other.IsTraveling() && other.Cult == nil {
			return id, true
		}
	}
	return "", false
}

func woundedAtSite(w *worldmodel.World, npc *worldmodel.NPC) (worldmodel.NPCID, bool) {
	for _, id := range w.SortedNPCIDs() {
		if id == npc.ID {
			continue
		}
		other := w.NPCs[id]
		if other.Alive && other.SiteID == npc.SiteID && other.MaxHP > 0 && other.HP < other.MaxHP {
			return id, true
		}
	}
	return "", false
}

func lowTrustAtSite(w *worldmodel.World, npc *worldmodel.NPC) (worldmodel.NPCID, bool) {
	best := worldmodel.NPCID("")
	bestTrust := 101.0
	for _, id := range w.SortedNPCIDs() {
		if id == npc.ID {
			continue
		}
		other := w.NPCs[id]
		if !other.Alive || other.SiteID != npc.SiteID || other.IsTraveling() {
			continue
		}
		trust := 50.0
		if rel, ok := npc.Relationships[id]; ok {
			trust = rel.Trust
		}
		if trust < bestTrust {
			bestTrust = trust
			best = id
		}
	}
	if best == "" {
		return "", false
	}
	return best, true
}

func eclipsingReversible(w *worldmodel.World, npc *worldmodel.NPC) (worldmodel.NPCID, bool) {
	for _, id := range w.SortedNPCIDs() {
		if id == npc.ID {
			continue
		}
		other := w.NPCs[id]
		if other.Alive && other.SiteID == npc.SiteID && other.Status.Eclipsing != nil && w.Tick <= other.Status.Eclipsing.ReversibleUntilTick {
			return id, true
		}
	}
	return "", false
}
