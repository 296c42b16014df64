package automatic

import (
	"fmt"

	"github.com/talgya/hollowreach/internal/config"
	"github.com/talgya/hollowreach/internal/worldmodel"
)

// ApplyDailySpoilage drops lots older than their per-type expiry, once per
// day, and reports what was lost via a world.incident event.
func ApplyDailySpoilage(w *worldmodel.World, cfg config.Config, sink *worldmodel.EventSink) {
	if w.Tick%24 != 0 {
		return
	}
	day := int(w.Tick / 24)

	type expiryRule struct {
		t      worldmodel.FoodType
		maxAge int
	}
	expiry := []expiryRule{
		{worldmodel.FoodGrain, cfg.FoodExpiryDaysGrain},
		{worldmodel.FoodFish, cfg.FoodExpiryDaysFish},
		{worldmodel.FoodMeat, cfg.FoodExpiryDaysMeat},
	}

	for _, id := range w.SortedSiteIDs() {
		site := w.Sites[id]
		if site.Settlement == nil {
			continue
		}
		s := site.Settlement

		for _, rule := range expiry {
			t, maxAge := rule.t, rule.maxAge
			lots := s.Food.Lots(t)
			kept := (*lots)[:0:0]
			var spoiled float64
			for _, lot := range *lots {
				if day-lot.ProducedDay > maxAge {
					spoiled += lot.Quantity
					continue
				}
				kept = append(kept, lot)
			}
			*lots = kept
			if spoiled > 0 && sink != nil {
				sink.Emit(worldmodel.EventWorldIncident, worldmodel.VisibilitySystem, id,
					fmt.Sprintf("%.1f %s spoiled at %s", spoiled, t, id),
					map[string]any{"foodType": t, "quantity": spoiled})
			}
		}
		w.Sites[id] = site
	}
}
