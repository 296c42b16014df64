package mapgraph

import (
	"fmt"

	"github.com/talgya/hollowreach/internal/config"
	"github.com/talgya/hollowreach/internal/rng"
	"github.com/talgya/hollowreach/internal/worldmodel"
)

// encounterRoll is one entry of the cumulative encounter table
// (spec.md Section 4.2).
type encounterRoll struct {
	kind       string
	cumulative float64
	kmMult     float64
}

var encounterTable = []encounterRoll{
	{kind: "mishap", cumulative: 40, kmMult: 0.35},
	{kind: "meeting", cumulative: 65, kmMult: 1.0},
	{kind: "bandits", cumulative: 85, kmMult: 0.6},
	{kind: "omen", cumulative: 100, kmMult: 1.0},
}

// baseKmPerHour returns the unmodified hourly movement rate for an edge
// quality and hour of day.
func baseKmPerHour(cfg config.Config, quality EdgeQuality, hourOfDay int) float64 {
	isDay := hourOfDay >= 6 && hourOfDay < 18
	switch quality {
	case QualityRoad:
		if isDay {
			return cfg.RoadKmPerHourDay
		}
		return cfg.RoadKmPerHourNight
	default:
		if isDay {
			return cfg.RoughKmPerHourDay
		}
		return cfg.RoughKmPerHourNight
	}
}

func injurySlow(hp, maxHP float64) float64 {
	if maxHP <= 0 {
		return 1
	}
	ratio := hp / maxHP
	// Full health -> 1.0 multiplier; near-death -> slowed to 0.4.
	return 0.4 + 0.6*worldmodel.Clamp01(ratio)
}

func seasonMult(season string) float64 {
	switch season {
	case "winter":
		return 0.75
	case "summer":
		return 1.1
	default:
		return 1.0
	}
}

// ProgressTravelHourly advances every still-traveling, living NPC's
// inter-site journey by one hour, in deterministic (sorted NPC id) order.
// It is the first of the two movement sub-steps the orchestrator runs each
// tick (spec.md Section 4.11, step 3).
func ProgressTravelHourly(w *worldmodel.World, graph *Graph, cfg config.Config, stream *rng.Stream, season string, sink *worldmodel.EventSink) error {
	hourOfDay := int(w.Tick % 24)

	for _, id := range w.SortedNPCIDs() {
		npc := w.NPCs[id]
		if !npc.Alive || npc.Travel == nil {
			continue
		}
		if npc.Travel.LastProgressTick == w.Tick {
			continue
		}

		from := w.Sites[npc.Travel.From]
		to := w.Sites[npc.Travel.To]

		quality := QualityRoad
		if npc.Travel.EdgeQuality == string(QualityRough) {
			quality = QualityRough
		}

		kmStep := baseKmPerHour(cfg, quality, hourOfDay) * injurySlow(npc.HP, npc.MaxHP) * seasonMult(season)

		encounterP, err := encounterChance(cfg, quality, hourOfDay, from, to)
		if err != nil {
			return err
		}

		if stream.Bernoulli(encounterP) {
			roll, err := stream.Float(0, 100)
			if err != nil {
				return err
			}
			enc := pickEncounter(roll)
			kmStep *= enc.kmMult
			applyEncounter(w, &npc, enc.kind, stream, sink)
		}

		npc.Travel.RemainingKm -= kmStep
		if npc.Travel.RemainingKm < 0 {
			npc.Travel.RemainingKm = 0
		}
		npc.Travel.LastProgressTick = w.Tick

		if npc.Travel.RemainingKm <= 0 {
			arrive(w, &npc, to, sink, cfg, stream)
		}

		w.NPCs[id] = npc
	}
	return nil
}

func encounterChance(cfg config.Config, quality EdgeQuality, hourOfDay int, from, to worldmodel.Site) (float64, error) {
	isDay := hourOfDay >= 6 && hourOfDay < 18
	base := 0.01
	if !isDay {
		base = 0.02
	}
	terrain := 1.0
	if quality == QualityRough {
		terrain = 1.6
	}
	unrest := avgUnrest(from, to)
	pressure := avgPressure(from, to)
	unrestMult := 1 + unrest/100
	pressureMult := 1 + pressure/100

	p := base * terrain * unrestMult * pressureMult
	if p < 0 {
		p = 0
	}
	if p > cfg.MaxEncounterChance {
		p = cfg.MaxEncounterChance
	}
	return p, nil
}

func avgUnrest(sites ...worldmodel.Site) float64 {
	var total float64
	var n int
	for _, s := range sites {
		if s.Settlement != nil {
			total += s.Settlement.Unrest
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

func avgPressure(sites ...worldmodel.Site) float64 {
	var total float64
	for _, s := range sites {
		total += s.EclipsingPressure
	}
	return total / float64(len(sites))
}

func pickEncounter(roll float64) encounterRoll {
	for _, e := range encounterTable {
		if roll < e.cumulative {
			return e
		}
	}
	return encounterTable[len(encounterTable)-1]
}

func applyEncounter(w *worldmodel.World, npc *worldmodel.NPC, kind string, stream *rng.Stream, sink *worldmodel.EventSink) {
	msg := fmt.Sprintf("%s encounters %s while traveling", npc.ID, kind)
	switch kind {
	case "mishap":
		npc.HP -= 5
		npc.Trauma += 3
	case "bandits":
		npc.HP -= 10
		npc.Trauma += 8
		if dest, ok := w.Sites[npc.Travel.To]; ok && dest.Settlement != nil {
			seedTravelRumor(w, dest.ID, npc.ID, "bandits_on_road")
		}
	case "meeting":
		npc.Trauma -= 1
	case "omen":
		npc.Trauma += 2
	}
	if npc.HP < 0 {
		npc.HP = 0
	}
	if npc.Trauma < 0 {
		npc.Trauma = 0
	}
	sink.Emit(worldmodel.EventTravelEncounter, worldmodel.VisibilityPublic, npc.Travel.To, msg, map[string]any{
		"npcId": npc.ID, "encounterKind": kind,
	})
}

func seedTravelRumor(w *worldmodel.World, siteID worldmodel.SiteID, actor worldmodel.NPCID, kind string) {
	site := w.Sites[siteID]
	if site.Settlement == nil {
		return
	}
	site.Settlement.Rumors = append(site.Settlement.Rumors, worldmodel.Rumor{
		ID:          fmt.Sprintf("rmr:%d:%d", w.Tick, len(site.Settlement.Rumors)),
		Label:       kind,
		Kind:        kind,
		ActorID:     actor,
		Confidence:  50,
		CreatedTick: w.Tick,
	})
	if len(site.Settlement.Rumors) > 120 {
		site.Settlement.Rumors = site.Settlement.Rumors[len(site.Settlement.Rumors)-120:]
	}
	w.Sites[siteID] = site
}

// arrive clears travel state, places the NPC at the destination, and runs
// settlement arrival ingestion (spec.md Section 4.2).
func arrive(w *worldmodel.World, npc *worldmodel.NPC, to worldmodel.Site, sink *worldmodel.EventSink, cfg config.Config, stream *rng.Stream) {
	npc.Travel = nil
	npc.SiteID = to.ID

	if to.Settlement != nil {
		location := chooseArrivalLocation(to, *npc)
		ingestArrivalRumors(w, npc, to, cfg)
		maybeShareGossip(w, npc, to, cfg, stream)
		sink.Emit(worldmodel.EventTravelArrived, worldmodel.VisibilityPublic, to.ID,
			fmt.Sprintf("%s arrives at %s", npc.ID, to.ID),
			map[string]any{"npcId": npc.ID, "location": location})
	}
}

func chooseArrivalLocation(site worldmodel.Site, npc worldmodel.NPC) string {
	if site.Graph == nil {
		return ""
	}
	if npc.SiteID == npc.HomeSiteID {
		for _, n := range site.Graph.Nodes {
			if n.Kind == worldmodel.LocalNodeHome && n.OwnerID == npc.ID {
				return n.ID
			}
		}
	}
	for _, n := range site.Graph.Nodes {
		if n.Kind == worldmodel.LocalNodeGate || n.Kind == worldmodel.LocalNodeStreet {
			return n.ID
		}
	}
	if len(site.Graph.Nodes) > 0 {
		return site.Graph.Nodes[0].ID
	}
	return ""
}

// ingestArrivalRumors folds recent (<=7 days), actor-known rumors into
// relationship and "did" belief updates for the arriving NPC.
func ingestArrivalRumors(w *worldmodel.World, npc *worldmodel.NPC, site worldmodel.Site, cfg config.Config) {
	if site.Settlement == nil {
		return
	}
	for _, r := range site.Settlement.Rumors {
		if r.AgeDays(w.Tick) > 7 {
			continue
		}
		if r.ActorID == "" {
			continue
		}
		if _, known := w.NPCs[r.ActorID]; !known {
			continue
		}
		addDidBelief(npc, r, w.Tick, cfg)
		applyRelationshipDeltaFromRumor(npc, r.ActorID, r.Confidence)
	}
}

func addDidBelief(npc *worldmodel.NPC, r worldmodel.Rumor, tick uint64, cfg config.Config) {
	b := worldmodel.Belief{
		Subject:     string(r.ActorID),
		Predicate:   "did",
		Object:      r.Kind,
		Source:      "rumor",
		Confidence:  r.Confidence,
		CreatedTick: tick,
	}
	insertBelief(npc, b, cfg)
}

func insertBelief(npc *worldmodel.NPC, b worldmodel.Belief, cfg config.Config) {
	for i, existing := range npc.Beliefs {
		if existing.SameKey(b) {
			if b.CreatedTick > existing.CreatedTick || b.Confidence > existing.Confidence {
				npc.Beliefs[i] = b
			}
			return
		}
	}
	npc.Beliefs = append(npc.Beliefs, b)
	if len(npc.Beliefs) > cfg.BeliefCap {
		npc.Beliefs = npc.Beliefs[len(npc.Beliefs)-cfg.BeliefCap:]
	}
}

func applyRelationshipDeltaFromRumor(npc *worldmodel.NPC, about worldmodel.NPCID, confidence float64) {
	scale := confidenceScale(confidence)
	if scale == 0 {
		return
	}
	if npc.Relationships == nil {
		npc.Relationships = make(map[worldmodel.NPCID]worldmodel.Relationship)
	}
	rel := npc.Relationships[about]
	rel.Trust -= 2 * scale
	rel.Clamp()
	npc.Relationships[about] = rel
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

// maybeShareGossip lets the arriving NPC seed one high-confidence recent
// belief as a gossip rumor at the destination — the "cross-site gossip on
// arrival" variant spec.md Section 9 names as canonical.
func maybeShareGossip(w *worldmodel.World, npc *worldmodel.NPC, site worldmodel.Site, cfg config.Config, stream *rng.Stream) {
	if !cfg.ShareBeliefsOnArrival || site.Settlement == nil {
		return
	}
	var best *worldmodel.Belief
	for i := range npc.Beliefs {
		b := &npc.Beliefs[i]
		if b.Confidence < 70 || b.CreatedTick+7*24 < w.Tick {
			continue
		}
		if best == nil || b.Confidence > best.Confidence {
			best = b
		}
	}
	if best == nil {
		return
	}
	if !stream.Bernoulli(0.5) {
		return
	}
	s := w.Sites[site.ID]
	s.Settlement.Rumors = append(s.Settlement.Rumors, worldmodel.Rumor{
		ID:          fmt.Sprintf("rmr:%d:%d", w.Tick, len(s.Settlement.Rumors)),
		Label:       best.Object,
		Kind:        "gossip:" + best.Predicate,
		ActorID:     worldmodel.NPCID(best.Subject),
		Confidence:  best.Confidence,
		CreatedTick: w.Tick,
	})
	if len(s.Settlement.Rumors) > cfg.RumorCap {
		s.Settlement.Rumors = s.Settlement.Rumors[len(s.Settlement.Rumors)-cfg.RumorCap:]
	}
	w.Sites[site.ID] = s
}
