package memory

import (
	"github.com/talgya/hollowreach/internal/config"
	"github.com/talgya/hollowreach/internal/worldmodel"
)

// DecayBeliefs runs once per sim-day: each belief's confidence drops by its
// source class's decay rate (rumor/report/witnessed), halved for beliefs
// flagged traumatic, and beliefs below beliefDropConfidence are dropped.
func DecayBeliefs(w *worldmodel.World, cfg config.Config) {
	for _, id := range w.SortedNPCIDs() {
		npc := w.NPCs[id]
		if len(npc.Beliefs) == 0 {
			continue
		}
		kept := npc.Beliefs[:0]
		for _, b := range npc.Beliefs {
			rate := beliefDecayRate(cfg, b.Source)
			if b.Traumatic {
				rate /= 2
			}
			b.Confidence -= rate
			if b.Confidence < cfg.BeliefDropConfidence {
				continue
			}
			kept = append(kept, b)
		}
		npc.Beliefs = kept
		w.NPCs[id] = npc
	}
}

func beliefDecayRate(cfg config.Config, source string) float64 {
	switch source {
	case "rumor":
		return cfg.BeliefDecayRumor
	case "report":
		return cfg.BeliefDecayReport
	default:
		return cfg.BeliefDecayWitnessed
	}
}
