package resolvers

import (
	"github.com/talgya/hollowreach/internal/config"
	"github.com/talgya/hollowreach/internal/mapgraph"
	"github.com/talgya/hollowreach/internal/rng"
	"github.com/talgya/hollowreach/internal/worldmodel"
)

// resolveWork returns a resolver that produces `hours × 2` of the given
// food type (grain scaled by fieldsCondition), adds a FIFO lot dated to
// today, records labor hours, mirrors a quarter of the yield into the
// site's first building, and raises the actor's Notability by a flat 0.1.
// No wage is paid: NPCs carry no coin balance.
func resolveWork(t worldmodel.FoodType) Fn {
	return func(w *worldmodel.World, at worldmodel.Attempt, cfg config.Config, graph *mapgraph.Graph, stream *rng.Stream, sink *worldmodel.EventSink) error {
		site := w.Sites[at.SiteID]
		if site.Settlement == nil {
			recordAttempt(sink, at, false, map[string]any{"reason": "not_a_settlement"})
			return nil
		}
		s := site.Settlement

		hours := float64(at.DurationHours)
		if hours <= 0 {
			hours = 1
		}
		qty := hours * 2
		if t == worldmodel.FoodGrain {
			qty *= s.FieldsCondition
		}

		day := int(w.Tick / 24)
		lots := s.Food.Lots(t)
		*lots = append(*lots, worldmodel.FoodLot{ProducedDay: day, Quantity: qty})

		if s.LaborToday == nil {
			s.LaborToday = make(map[worldmodel.FoodType]float64)
		}
		s.LaborToday[t] += hours

		if building := firstStorageBuilding(site.Graph); building != nil {
			if building.Inventory == nil {
				building.Inventory = make(map[string]float64)
			}
			building.Inventory[string(t)] += qty * 0.25
		}

		w.Sites[at.SiteID] = site

		actor := w.NPCs[at.ActorID]
		actor.Notability = worldmodel.Clamp100(actor.Notability + 0.1)
		w.NPCs[at.ActorID] = actor

		recordAttempt(sink, at, true, map[string]any{"foodType": t, "quantity": qty})
		return nil
	}
}

func firstStorageBuilding(g *worldmodel.LocalGraph) *worldmodel.LocalNode {
	if g == nil {
		return nil
	}
	for i := range g.Nodes {
		if g.Nodes[i].Kind == worldmodel.LocalNodeBuilding {
			return &g.Nodes[i]
		}
	}
	return nil
}
