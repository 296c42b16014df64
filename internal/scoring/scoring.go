// Package scoring implements the per-NPC utility scorer: for every
// catalog action whose preconditions hold, compute an additive score from
// needs, traits, site conditions, beliefs, relationships, emotions, debts,
// goals, and plan/operation bias, then pick one proportionally to score
// (spec.md Section 4.4).
package scoring

import (
	"github.com/talgya/hollowreach/internal/actions"
	"github.com/talgya/hollowreach/internal/config"
	"github.com/talgya/hollowreach/internal/rng"
	"github.com/talgya/hollowreach/internal/worldmodel"
)

type candidate struct {
	def      actions.ActionDef
	target   worldmodel.NPCID
	hasTarget bool
	score    float64
	why      worldmodel.AttemptWhy
}

// GenerateScoredAttempt scores every eligible action for npc and returns
// the proportionally-selected attempt, or ok=false if nothing scored
// above threshold.
func GenerateScoredAttempt(w *worldmodel.World, npc *worldmodel.NPC, cfg config.Config, stream *rng.Stream) (worldmodel.Attempt, bool, error) {
	var candidates []candidate

	for _, def := range actions.Catalog {
		if !preconditionsHold(w, npc, def) {
			continue
		}
		targetID, hasTarget := worldmodel.NPCID(""), false
		if def.TargetSelector != nil {
			targetID, hasTarget = def.TargetSelector(w, npc)
			if !hasTarget {
				continue
			}
		}

		score, why := scoreAction(w, npc, def, targetID)
		if score <= 0 || score < cfg.ScoreThreshold {
			continue
		}
		candidates = append(candidates, candidate{def: def, target: targetID, hasTarget: hasTarget, score: score, why: why})
	}

	if len(candidates) == 0 {
		return worldmodel.Attempt{}, false, nil
	}

	chosen, err := selectProportional(candidates, stream)
	if err != nil {
		return worldmodel.Attempt{}, false, err
	}

	at := worldmodel.Attempt{
		ID:            w.NextAttemptID(),
		Tick:          w.Tick,
		Kind:          chosen.def.Kind,
		Visibility:    chosen.def.Visibility,
		ActorID:       npc.ID,
		SiteID:        npc.SiteID,
		DurationHours: chosen.def.DurationHours,
		Magnitude:     chosen.def.Magnitude,
		Why:           &chosen.why,
	}
	if chosen.hasTarget {
		at.TargetID = chosen.target
	}
	return at, true, nil
}

func preconditionsHold(w *worldmodel.World, npc *worldmodel.NPC, def actions.ActionDef) bool {
	for _, p := range def.Preconditions {
		if !p(w, npc) {
			return false
		}
	}
	return true
}

func scoreAction(w *worldmodel.World, npc *worldmodel.NPC, def actions.ActionDef, targetID worldmodel.NPCID) (float64, worldmodel.AttemptWhy) {
	var contributions []worldmodel.ScoreContribution
	total := def.BaseWeight
	contributions = append(contributions, worldmodel.ScoreContribution{Kind: "base", Key: string(def.Kind), Delta: def.BaseWeight})

	for field, weight := range def.NeedWeights {
		value := needValue(npc.Needs, field)
		delta := (100 - value) / 100 * weight * 20
		total += delta
		contributions = append(contributions, worldmodel.ScoreContribution{Kind: "need", Key: field, Delta: delta})
	}

	for field, weight := range def.TraitWeights {
		value := traitValue(npc.Traits, field)
		delta := value / 100 * weight * 20
		total += delta
		contributions = append(contributions, worldmodel.ScoreContribution{Kind: "trait", Key: field, Delta: delta})
	}

	site := w.Sites[npc.SiteID]
	for _, cond := range def.SiteConditions {
		if siteConditionMatches(site, cond) {
			total += cond.Weight
			contributions = append(contributions, worldmodel.ScoreContribution{Kind: "site", Key: cond.Field, Delta: cond.Weight})
		}
	}

	for _, b := range npc.Beliefs {
		if weight, ok := def.BeliefWeights[b.Predicate]; ok {
			delta := (b.Confidence / 100) * weight
			total += delta
			contributions = append(contributions, worldmodel.ScoreContribution{Kind: "belief", Key: b.Predicate, Delta: delta})
		}
	}

	if targetID != "" {
		if rel, ok := npc.Relationships[targetID]; ok {
			for _, cond := range def.RelationshipCond {
				if relationshipMatches(rel, cond) {
					total += cond.Weight
					contributions = append(contributions, worldmodel.ScoreContribution{Kind: "relationship", Key: cond.Field, Delta: cond.Weight})
				}
			}
		}
	}

	if npc.Emotions != nil {
		delta := emotionContribution(*npc.Emotions, def.Kind)
		if delta != 0 {
			total += delta
			contributions = append(contributions, worldmodel.ScoreContribution{Kind: "emotion", Key: "affect", Delta: delta})
		}
	}

	if len(npc.Debts) > 0 {
		delta := debtPressureContribution(npc.Debts, def.Kind)
		if delta != 0 {
			total += delta
			contributions = append(contributions, worldmodel.ScoreContribution{Kind: "debt", Key: "debt", Delta: delta})
		}
	}

	if npc.Plan != nil && npc.Plan.CurrentStep() == string(def.Kind) {
		total += 80
		contributions = append(contributions, worldmodel.ScoreContribution{Kind: "plan", Key: npc.Plan.CurrentStep(), Delta: 80})
	}

	if npc.FactionOperationID != "" {
		if op, ok := w.Operations[npc.FactionOperationID]; ok {
			if phase := op.CurrentPhase(); phase != nil && phase.ActionKind == def.Kind {
				total += 70
				contributions = append(contributions, worldmodel.ScoreContribution{Kind: "operation", Key: string(def.Kind), Delta: 70})
			}
		}
	}

	for _, g := range npc.Goals {
		if delta, ok := g.Modifiers[string(def.Kind)]; ok {
			total += delta
			contributions = append(contributions, worldmodel.ScoreContribution{Kind: "goal", Key: g.Kind, Delta: delta})
		}
	}

	for _, rs := range npc.ReactiveStates {
		if rs.Expired() {
			continue
		}
		if delta, ok := rs.Modifiers[string(def.Kind)]; ok {
			scaled := delta * rs.Intensity / 100
			total += scaled
			contributions = append(contributions, worldmodel.ScoreContribution{Kind: "state", Key: rs.Kind, Delta: scaled})
		}
		if delta, ok := rs.Modifiers["*"]; ok {
			scaled := delta * rs.Intensity / 100
			total += scaled
			contributions = append(contributions, worldmodel.ScoreContribution{Kind: "state", Key: rs.Kind + ":global", Delta: scaled})
		}
	}

	if def.Kind == worldmodel.AttemptTravel && npc.HP < 20 {
		total += 50
		contributions = append(contributions, worldmodel.ScoreContribution{Kind: "special", Key: "low_hp_flee", Delta: 50})
	}

	return total, worldmodel.AttemptWhy{Contributions: contributions, TotalScore: total}
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

func siteConditionMatches(site worldmodel.Site, cond actions.ConditionWeight) bool {
	var value float64
	switch cond.Field {
	case "unrest":
		if site.Settlement != nil {
			value = site.Settlement.Unrest
		}
	case "pressure":
		value = site.EclipsingPressure
	case "anchor":
		value = site.AnchoringStrength
	case "cultInfluence":
		if site.Settlement != nil {
			value = site.Settlement.CultInfluence
		}
	default:
		return false
	}
	return compare(value, cond.Op, cond.Threshold)
}

func relationshipMatches(rel worldmodel.Relationship, cond actions.ConditionWeight) bool {
	var value float64
	switch cond.Field {
	case "trust":
		value = rel.Trust
	case "fear":
		value = rel.Fear
	case "loyalty":
		value = rel.Loyalty
	default:
		return false
	}
	return compare(value, cond.Op, cond.Threshold)
}

func compare(value float64, op string, threshold float64) bool {
	switch op {
	case "gt":
		return value > threshold
	case "gte":
		return value >= threshold
	case "lt":
		return value < threshold
	case "lte":
		return value <= threshold
	default:
		return false
	}
}

func emotionContribution(e worldmodel.Emotions, kind worldmodel.AttemptKind) float64 {
	switch kind {
	case worldmodel.AttemptAssault, worldmodel.AttemptKill, worldmodel.AttemptRaid:
		return e.Anger*0.3 + e.Resentment*0.2
	case worldmodel.AttemptRest, worldmodel.AttemptPray:
		return e.Stress * 0.2
	case worldmodel.AttemptSocialize, worldmodel.AttemptGossip:
		return e.Joy*0.1 - e.Sadness*0.1
	default:
		return 0
	}
}

func debtPressureContribution(debts []worldmodel.Debt, kind worldmodel.AttemptKind) float64 {
	if kind != worldmodel.AttemptSocialize && kind != worldmodel.AttemptGossip {
		return 0
	}
	var owed int
	for _, d := range debts {
		if d.Direction == "owed" {
			owed++
		}
	}
	return float64(owed) * 2
}

// selectProportional rolls against the cumulative sum of candidate scores,
// breaking exact ties by catalog/action-kind order (stable iteration) for
// determinism.
func selectProportional(candidates []candidate, stream *rng.Stream) (candidate, error) {
	var total float64
	for _, c := range candidates {
		total += c.score
	}
	roll, err := stream.Float(0, total)
	if err != nil {
		return candidate{}, err
	}
	var cumulative float64
	for _, c := range candidates {
		cumulative += c.score
		if roll < cumulative {
			return c, nil
		}
	}
	return candidates[len(candidates)-1], nil
}
