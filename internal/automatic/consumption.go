package automatic

import (
	"github.com/talgya/hollowreach/internal/config"
	"github.com/talgya/hollowreach/internal/worldmodel"
)

// consumptionOrder is the fixed FIFO draw order across food types.
var consumptionOrder = []worldmodel.FoodType{worldmodel.FoodFish, worldmodel.FoodMeat, worldmodel.FoodGrain}

// ApplyHourlyConsumption draws this hour's per-capita share of the daily
// food need from each settlement's stock, FIFO across fish→meat→grain, and
// raises hunger for whatever portion went unmet.
func ApplyHourlyConsumption(w *worldmodel.World, cfg config.Config) {
	for _, id := range w.SortedSiteIDs() {
		site := w.Sites[id]
		if site.Settlement == nil {
			continue
		}
		s := site.Settlement
		population := float64(s.Cohorts.Total())
		if population <= 0 {
			continue
		}

		need := population * cfg.PerCapitaFoodNeedPerDay / 24
		remaining := need
		for _, t := range consumptionOrder {
			remaining = consumeFIFO(s, t, remaining)
			if remaining <= 0 {
				break
			}
		}
		if remaining > 0 && need > 0 {
			unmetFraction := remaining / need
			s.Hunger = worldmodel.Clamp100(s.Hunger + unmetFraction*cfg.HungerRisePerUnmetUnit)
		} else {
			s.Hunger = worldmodel.Clamp100(s.Hunger - 0.1)
		}
		w.Sites[id] = site
	}
}

// consumeFIFO removes up to `need` quantity from the oldest lots first and
// returns the unmet remainder.
func consumeFIFO(s *worldmodel.SettlementData, t worldmodel.FoodType, need float64) float64 {
	lots := s.Food.Lots(t)
	for len(*lots) > 0 && need > 0 {
		lot := &(*lots)[0]
		if lot.Quantity <= need {
			need -= lot.Quantity
			*lots = (*lots)[1:]
		} else {
			lot.Quantity -= need
			need = 0
		}
	}
	return need
}
