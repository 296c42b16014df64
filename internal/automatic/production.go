package automatic

import (
	"github.com/talgya/hollowreach/internal/config"
	"github.com/talgya/hollowreach/internal/worldmodel"
)

// ApplyDailyProduction runs once per day, at the day-boundary hour (tick%24
// == 0), scaling each food type's production baseline by fieldsCondition
// (grain only), the seasonal multiplier, and today's recorded labor hours.
func ApplyDailyProduction(w *worldmodel.World, cfg config.Config, season string) {
	if w.Tick%24 != 0 {
		return
	}
	day := int(w.Tick / 24)
	mult := seasonProductionMult(season)

	for _, id := range w.SortedSiteIDs() {
		site := w.Sites[id]
		if site.Settlement == nil {
			continue
		}
		s := site.Settlement

		produce(s, worldmodel.FoodGrain, s.ProductionBaseline.Grain*s.FieldsCondition*mult, day)
		produce(s, worldmodel.FoodFish, s.ProductionBaseline.Fish*mult, day)
		produce(s, worldmodel.FoodMeat, s.ProductionBaseline.Meat*mult, day)

		s.LaborToday = nil
		w.Sites[id] = site
	}
}

func produce(s *worldmodel.SettlementData, t worldmodel.FoodType, baseline float64, day int) {
	laborHours := s.LaborToday[t]
	qty := baseline + laborHours*2
	if qty <= 0 {
		return
	}
	lots := s.Food.Lots(t)
	*lots = append(*lots, worldmodel.FoodLot{ProducedDay: day, Quantity: qty})
}
