package resolvers

import (
	"github.com/talgya/hollowreach/internal/config"
	"github.com/talgya/hollowreach/internal/mapgraph"
	"github.com/talgya/hollowreach/internal/rng"
	"github.com/talgya/hollowreach/internal/worldmodel"
)

// stealAmount maps intent magnitude to a food-unit haul. Spec.md leaves the
// exact scale to the implementation; minor/normal/major map to 5/10/20
// units, taken in takeFromFIFO's order (recorded in the grounding ledger as
// an Open Question resolution).
func stealAmount(m worldmodel.Magnitude) float64 {
	switch m {
	case worldmodel.MagnitudeMinor:
		return 5
	case worldmodel.MagnitudeMajor:
		return 20
	default:
		return 10
	}
}

func resolveSteal(w *worldmodel.World, at worldmodel.Attempt, cfg config.Config, graph *mapgraph.Graph, stream *rng.Stream, sink *worldmodel.EventSink) error {
	actor := w.NPCs[at.ActorID]
	site := w.Sites[at.SiteID]
	unrest := 0.0
	if site.Settlement != nil {
		unrest = site.Settlement.Unrest
	}

	chance := clampChance(actor.Traits.Discipline*0.5+(100-actor.Traits.Suspicion)*0.2+unrest*0.3, 5, 90)
	success := stream.Bernoulli(chance / 100)
	if !success {
		recordAttempt(sink, at, false, nil)
		return nil
	}

	amount := stealAmount(at.Magnitude)
	taken := takeFromFIFO(site.Settlement, amount)
	for foodType, qty := range taken {
		switch foodType {
		case worldmodel.FoodGrain:
			actor.Inventory.Grain += qty
		case worldmodel.FoodFish:
			actor.Inventory.Fish += qty
		case worldmodel.FoodMeat:
			actor.Inventory.Meat += qty
		}
	}
	w.Sites[at.SiteID] = site
	w.NPCs[at.ActorID] = actor

	witnessProb := 0.25
	if at.Visibility == worldmodel.VisibilityPublic {
		witnessProb = 0.9
	}
	witnessed := stream.Bernoulli(witnessProb)
	if witnessed {
		postPublicRumor(w, at, "theft witnessed", "theft", 70)
	} else if stream.Bernoulli(0.15) {
		postPublicRumor(w, at, "something went missing", "theft", 20)
	}

	recordAttempt(sink, at, true, map[string]any{"amount": amount, "witnessed": witnessed})
	return nil
}

// takeFromFIFO removes up to `amount` total food from the settlement's FIFO
// lots, draining the oldest lots first across fish, meat, then grain — the
// same spoilage-priority order internal/automatic consumes in.
func takeFromFIFO(s *worldmodel.SettlementData, amount float64) map[worldmodel.FoodType]float64 {
	taken := map[worldmodel.FoodType]float64{}
	if s == nil {
		return taken
	}
	remaining := amount
	for _, t := range []worldmodel.FoodType{worldmodel.FoodFish, worldmodel.FoodMeat, worldmodel.FoodGrain} {
		if remaining <= 0 {
			break
		}
		lots := s.Food.Lots(t)
		for len(*lots) > 0 && remaining > 0 {
			lot := &(*lots)[0]
			take := lot.Quantity
			if take > remaining {
				take = remaining
			}
			lot.Quantity -= take
			remaining -= take
			taken[t] += take
			if lot.Quantity <= 0 {
				*lots = (*lots)[1:]
			}
		}
	}
	return taken
}

// resolveCombat returns a resolver for assault (kill=false) or kill
// (kill=true): both sides roll mutual damage from an additive combat score,
// with death handling, witness beliefs, and trauma/unrest ripple shared
// between the two kinds per spec.md's combined paragraph.
func resolveCombat(kill bool) Fn {
	base := 50.0
	verb := "assault"
	if kill {
		base = 30.0
		verb = "kill"
	}
	return func(w *worldmodel.World, at worldmodel.Attempt, cfg config.Config, graph *mapgraph.Graph, stream *rng.Stream, sink *worldmodel.EventSink) error {
		if at.TargetID == "" {
			recordAttempt(sink, at, false, map[string]any{"reason": "no_target"})
			return nil
		}
		actor := w.NPCs[at.ActorID]
		target := w.NPCs[at.TargetID]

		offense := actor.Traits.Aggression*0.5 + actor.Traits.Courage*0.3 + actor.Traits.Discipline*0.2
		defense := target.Traits.Courage*0.4 + target.Traits.Discipline*0.4 + target.Traits.Aggression*0.2
		chance := clampChance(base+offense-defense, 5, 95)
		success := stream.Bernoulli(chance / 100)

		dmgToTarget, err := stream.Float(5, 25)
		if err != nil {
			return err
		}
		dmgToActor, err := stream.Float(0, 15)
		if err != nil {
			return err
		}
		if kill && success {
			dmgToTarget, err = stream.Float(25, 60)
			if err != nil {
				return err
			}
		}

		target.HP -= dmgToTarget
		actor.HP -= dmgToActor
		if target.HP < 0 {
			target.HP = 0
		}
		if actor.HP < 0 {
			actor.HP = 0
		}

		died := target.HP <= 0 && target.Alive
		if died {
			target.Alive = false
			target.Death = &worldmodel.DeathInfo{Tick: w.Tick, Cause: verb}
			sink.Emit(worldmodel.EventNPCDied, worldmodel.VisibilityPublic, at.SiteID,
				string(target.ID)+" dies", map[string]any{"npcId": target.ID, "cause": verb, "killerId": at.ActorID})
			rippleDeathTrauma(w, at.SiteID, target.ID)
		}

		applyRelationshipDelta(&target, at.ActorID, -10, 20, -10)
		w.NPCs[at.TargetID] = target
		w.NPCs[at.ActorID] = actor

		site := w.Sites[at.SiteID]
		if site.Settlement != nil {
			site.Settlement.Unrest = worldmodel.Clamp100(site.Settlement.Unrest + 4)
			site.Settlement.Morale = worldmodel.Clamp100(site.Settlement.Morale - 3)
			w.Sites[at.SiteID] = site
		}

		postPublicRumor(w, at, verb+" occurred", verb, 90)
		recordAttempt(sink, at, success, map[string]any{"died": died, "dmgToTarget": dmgToTarget, "dmgToActor": dmgToActor})
		return nil
	}
}

func rippleDeathTrauma(w *worldmodel.World, siteID worldmodel.SiteID, victim worldmodel.NPCID) {
	for _, id := range w.SortedNPCIDs() {
		npc := w.NPCs[id]
		if !npc.Alive || npc.SiteID != siteID || npc.IsTraveling() {
			continue
		}
		npc.Trauma = worldmodel.Clamp100(npc.Trauma + 8)
		insertDidBelief(&npc, victim, "npc_died", 90, w.Tick)
		w.NPCs[id] = npc
	}
}

func resolveRaid(w *worldmodel.World, at worldmodel.Attempt, cfg config.Config, graph *mapgraph.Graph, stream *rng.Stream, sink *worldmodel.EventSink) error {
	actor := w.NPCs[at.ActorID]
	site := w.Sites[at.SiteID]

	banditCount := 0
	for _, id := range w.SortedNPCIDs() {
		npc := w.NPCs[id]
		if npc.Alive && npc.SiteID == at.SiteID && npc.Category == worldmodel.CategoryBandit {
			banditCount++
		}
	}
	extraBandits := banditCount - 1
	if extraBandits < 0 {
		extraBandits = 0
	}
	bonus := float64(extraBandits) * 10
	if bonus > 40 {
		bonus = 40
	}

	defense := 0.0
	guardCount := 0
	for _, id := range w.SortedNPCIDs() {
		npc := w.NPCs[id]
		if npc.Alive && npc.SiteID == at.SiteID && npc.Category == worldmodel.CategoryGuard {
			defense += npc.Traits.Discipline*0.5 + npc.Traits.Courage*0.5
			guardCount++
		}
	}
	if guardCount > 0 {
		defense /= float64(guardCount)
	}
	offense := actor.Traits.Aggression*0.6 + actor.Traits.Discipline*0.4

	chance := clampChance(offense-defense+55+bonus, 5, 85)
	success := stream.Bernoulli(chance / 100)
	if !success {
		recordAttempt(sink, at, false, nil)
		return nil
	}

	if site.Settlement != nil {
		s := site.Settlement
		taken := takeFromFIFO(s, 30)
		_ = taken
		damage, err := stream.Float(0.05, 0.15)
		if err != nil {
			return err
		}
		s.FieldsCondition = worldmodel.Clamp01(s.FieldsCondition - damage)
		s.Unrest = worldmodel.Clamp100(s.Unrest + 10)
		w.Sites[at.SiteID] = site
	}

	killed := false
	if stream.Bernoulli(0.35) {
		if victimID, ok := anyLivingResidentOtherThanBandits(w, at.SiteID); ok {
			victim := w.NPCs[victimID]
			victim.Alive = false
			victim.Death = &worldmodel.DeathInfo{Tick: w.Tick, Cause: "raid"}
			w.NPCs[victimID] = victim
			killed = true
			sink.Emit(worldmodel.EventNPCDied, worldmodel.VisibilityPublic, at.SiteID,
				string(victimID)+" is killed in the raid", map[string]any{"npcId": victimID, "cause": "raid"})
			rippleDeathTrauma(w, at.SiteID, victimID)
		}
	}

	postPublicRumor(w, at, "raid struck the settlement", "raid", 95)
	recordAttempt(sink, at, true, map[string]any{"killed": killed})
	return nil
}

func anyLivingResidentOtherThanBandits(w *worldmodel.World, siteID worldmodel.SiteID) (worldmodel.NPCID, bool) {
	for _, id := range w.SortedNPCIDs() {
		npc := w.NPCs[id]
		if npc.Alive && npc.SiteID == siteID && npc.Category != worldmodel.CategoryBandit && npc.Category != worldmodel.CategoryOutlaw {
			return id, true
		}
	}
	return "", false
}
