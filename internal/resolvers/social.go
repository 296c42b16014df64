package resolvers

import (
	"github.com/talgya/hollowreach/internal/config"
	"github.com/talgya/hollowreach/internal/mapgraph"
	"github.com/talgya/hollowreach/internal/rng"
	"github.com/talgya/hollowreach/internal/worldmodel"
)

func resolvePatrol(w *worldmodel.World, at worldmodel.Attempt, cfg config.Config, graph *mapgraph.Graph, stream *rng.Stream, sink *worldmodel.EventSink) error {
	site := w.Sites[at.SiteID]
	if site.Settlement != nil {
		reduction, err := stream.Float(0.4, 0.8)
		if err != nil {
			return err
		}
		site.Settlement.Unrest = worldmodel.Clamp100(site.Settlement.Unrest - reduction)
		w.Sites[at.SiteID] = site
	}

	actor := w.NPCs[at.ActorID]
	discovered := false
	if actor.Category == worldmodel.CategoryScoutRanger && stream.Bernoulli(0.05) {
		if hideoutID, ok := findNeighborHiddenHideout(w, graph, at.SiteID); ok {
			discovered = true
			markHideoutDiscovered(w, hideoutID, at.SiteID, w.Tick)
		}
	}
	_ = actor

	recordAttempt(sink, at, true, map[string]any{"hideoutDiscovered": discovered})
	return nil
}

func findNeighborHiddenHideout(w *worldmodel.World, graph *mapgraph.Graph, from worldmodel.SiteID) (worldmodel.SiteID, bool) {
	for _, id := range graph.Neighbors(from) {
		site := w.Sites[id]
		if site.Kind == worldmodel.SiteHideout && site.Hidden {
			return id, true
		}
	}
	return "", false
}

func markHideoutDiscovered(w *worldmodel.World, hideoutID, witnessSiteID worldmodel.SiteID, tick uint64) {
	site := w.Sites[hideoutID]
	site.Hidden = false
	w.Sites[hideoutID] = site

	for _, id := range w.SortedNPCIDs() {
		npc := w.NPCs[id]
		if !npc.Alive || npc.SiteID != witnessSiteID || npc.Category != worldmodel.CategoryGuard {
			continue
		}
		npc.Knowledge.Facts = append(npc.Knowledge.Facts, worldmodel.KnowledgeFact{
			Kind: "discovered_location", SubjectID: string(hideoutID), Confidence: 90, CreatedTick: tick,
		})
		w.NPCs[id] = npc
	}
}

func resolveHeal(w *worldmodel.World, at worldmodel.Attempt, cfg config.Config, graph *mapgraph.Graph, stream *rng.Stream, sink *worldmodel.EventSink) error {
	site := w.Sites[at.SiteID]
	if site.Settlement != nil {
		reduction, err := stream.Float(1, 4)
		if err != nil {
			return err
		}
		site.Settlement.Sickness = worldmodel.Clamp100(site.Settlement.Sickness - reduction)
		w.Sites[at.SiteID] = site
	}

	if at.TargetID == "" {
		recordAttempt(sink, at, false, map[string]any{"reason": "no_target"})
		return nil
	}

	healAmount, err := stream.Float(8, 18)
	if err != nil {
		return err
	}

	target := w.NPCs[at.TargetID]
	target.HP += healAmount
	if target.MaxHP > 0 && target.HP > target.MaxHP {
		target.HP = target.MaxHP
	}
	applyRelationshipDelta(&target, at.ActorID, 4, 0, 2)
	addDebt(&target, "favor_granted", "owes", at.ActorID, w.Tick)
	w.NPCs[at.TargetID] = target

	healer := w.NPCs[at.ActorID]
	applyRelationshipDelta(&healer, at.TargetID, 2, 0, 1)
	w.NPCs[at.ActorID] = healer

	recordAttempt(sink, at, true, map[string]any{"healAmount": healAmount, "targetId": at.TargetID})
	return nil
}

func resolvePreach(w *worldmodel.World, at worldmodel.Attempt, cfg config.Config, graph *mapgraph.Graph, stream *rng.Stream, sink *worldmodel.EventSink) error {
	site := w.Sites[at.SiteID]
	if site.Settlement == nil {
		recordAttempt(sink, at, false, map[string]any{"reason": "not_a_settlement"})
		return nil
	}
	s := site.Settlement

	anchor := site.AnchoringStrength
	chance := (1 - anchor/100)
	if anchor > 50 {
		chance *= 0.5
	}
	if s.CultInfluence > 80 {
		chance *= 0.5
	}

	success := stream.Bernoulli(chance)
	if success {
		s.CultInfluence = worldmodel.Clamp100(s.CultInfluence + 1)
		w.Sites[at.SiteID] = site
	}
	recordAttempt(sink, at, success, nil)
	return nil
}

func resolveInvestigate(w *worldmodel.World, at worldmodel.Attempt, cfg config.Config, graph *mapgraph.Graph, stream *rng.Stream, sink *worldmodel.EventSink) error {
	actor := w.NPCs[at.ActorID]
	site := w.Sites[at.SiteID]

	cultInfluence := 0.0
	if site.Settlement != nil {
		cultInfluence = site.Settlement.CultInfluence
	}
	chance := actor.Traits.Suspicion*0.6 + actor.Traits.Discipline*0.4 - (55 + cultInfluence*0.2) + 55
	if site.Kind == worldmodel.SiteHideout && !site.Hidden {
		chance *= 2
	}
	chance = clampChance(chance, 5, 90)

	success := stream.Bernoulli(chance / 100)
	if !success {
		recordAttempt(sink, at, false, nil)
		return nil
	}

	confidence := 80.0
	insertIdentifiedCultMemberBelief(&actor, at.TargetID, confidence, w.Tick)
	w.NPCs[at.ActorID] = actor

	conf := 60.0
	for _, id := range w.SortedNPCIDs() {
		if id == at.ActorID {
			continue
		}
		npc := w.NPCs[id]
		if npc.Category != worldmodel.CategoryGuard {
			continue
		}
		atSite := npc.SiteID == at.SiteID
		atNeighbor := false
		for _, nb := range graph.Neighbors(at.SiteID) {
			if npc.SiteID == nb {
				atNeighbor = true
			}
		}
		if !atSite && !atNeighbor {
			continue
		}
		c := conf
		if !atSite {
			c = 50
		}
		insertIdentifiedCultMemberBelief(&npc, at.TargetID, c, w.Tick)
		w.NPCs[id] = npc
	}

	recordAttempt(sink, at, true, map[string]any{"targetId": at.TargetID})
	return nil
}

func insertIdentifiedCultMemberBelief(npc *worldmodel.NPC, subject worldmodel.NPCID, confidence float64, tick uint64) {
	npc.Knowledge.Facts = append(npc.Knowledge.Facts, worldmodel.KnowledgeFact{
		Kind: "identified_cult_member", SubjectID: string(subject), Confidence: confidence, CreatedTick: tick,
	})
}

func clampChance(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
