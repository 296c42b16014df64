// Package memory implements daily rumor/belief decay and spread, episodic
// memory creation and decay, and hourly emotion updates — spec.md Section
// 4.8. It mirrors the teacher's capped, importance-ranked agent memory
// stream (internal/agents/memory.go) generalized to the richer rumor,
// belief, and emotion model this spec names.
package memory

import (
	"fmt"
	"math"

	"github.com/talgya/hollowreach/internal/config"
	"github.com/talgya/hollowreach/internal/mapgraph"
	"github.com/talgya/hollowreach/internal/rng"
	"github.com/talgya/hollowreach/internal/worldmodel"
)

// DecayAndSpreadRumors runs once per sim-day (tick%24==23, called by the
// orchestrator's daily-maintenance step): confidence decays by
// `round(10×rumorDecayPerDay)×max(1,ageDays)`, rumors below
// rumorDropConfidence or older than rumorMaxAgeDays are dropped, and each
// settlement may spread one of its last 20 rumors to a random neighbor at
// `×rumorSpreadConfidenceMult` confidence.
func DecayAndSpreadRumors(w *worldmodel.World, cfg config.Config, graph *mapgraph.Graph, stream *rng.Stream) error {
	decayStep := math.Round(10 * cfg.RumorDecayPerDay)

	for _, id := range w.SortedSiteIDs() {
		site := w.Sites[id]
		if site.Settlement == nil {
			continue
		}
		s := site.Settlement
		kept := s.Rumors[:0]
		for _, r := range s.Rumors {
			age := r.AgeDays(w.Tick)
			mult := age
			if mult < 1 {
				mult = 1
			}
			r.Confidence -= decayStep * float64(mult)
			if r.Confidence < cfg.RumorDropConfidence || age > cfg.RumorMaxAgeDays {
				continue
			}
			kept = append(kept, r)
		}
		s.Rumors = kept
		site.Settlement = s
		w.Sites[id] = site
	}

	for _, id := range w.SortedSiteIDs() {
		site := w.Sites[id]
		if site.Settlement == nil || len(site.Settlement.Rumors) == 0 {
			continue
		}
		if !stream.Bernoulli(cfg.RumorSpreadChance) {
			continue
		}
		neighbors := graph.Neighbors(id)
		if len(neighbors) == 0 {
			continue
		}
		idx, err := stream.Int(0, len(neighbors)-1)
		if err != nil {
			return err
		}
		neighborID := neighbors[idx]
		neighbor := w.Sites[neighborID]
		if neighbor.Settlement == nil {
			continue
		}

		recent := site.Settlement.Rumors
		window := 20
		if len(recent) < window {
			window = len(recent)
		}
		recent = recent[len(recent)-window:]
		pick, err := stream.Int(0, len(recent)-1)
		if err != nil {
			return err
		}
		spread := recent[pick]
		spread.Confidence *= cfg.RumorSpreadConfidenceMult
		spread.ID = fmt.Sprintf("rmr:%d:%d", w.Tick, len(neighbor.Settlement.Rumors))
		spread.CreatedTick = w.Tick
		if stream.Bernoulli(0.2) {
			spread.Label = "it's said that " + spread.Label
		}

		neighbor.Settlement.Rumors = append(neighbor.Settlement.Rumors, spread)
		if len(neighbor.Settlement.Rumors) > cfg.RumorCap {
			neighbor.Settlement.Rumors = neighbor.Settlement.Rumors[len(neighbor.Settlement.Rumors)-cfg.RumorCap:]
		}
		w.Sites[neighborID] = neighbor
	}
	return nil
}
