package automatic

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/talgya/hollowreach/internal/config"
	"github.com/talgya/hollowreach/internal/rng"
	"github.com/talgya/hollowreach/internal/worldmodel"
)

func TestSeasonForTick_BucketsIntoFourQuarters(t *testing.T) {
	require.Equal(t, "spring", SeasonForTick(0))
	require.Equal(t, "summer", SeasonForTick(90*24))
	require.Equal(t, "autumn", SeasonForTick(180*24))
	require.Equal(t, "winter", SeasonForTick(270*24))
}

func TestApplyDailyProduction_OnlyRunsAtDayBoundary(t *testing.T) {
	cfg := config.Default()
	w := &worldmodel.World{
		Tick: 5,
		Sites: map[worldmodel.SiteID]worldmodel.Site{
			"Oakvale": {ID: "Oakvale", Settlement: &worldmodel.SettlementData{
				FieldsCondition: 1, ProductionBaseline: worldmodel.ProductionBaseline{Grain: 100},
			}},
		},
	}
	ApplyDailyProduction(w, cfg, "spring")
	require.Equal(t, 0.0, w.Sites["Oakvale"].Settlement.Food.Total(worldmodel.FoodGrain))
}

func TestApplyDailyProduction_ScalesBySeasonAndFieldsCondition(t *testing.T) {
	cfg := config.Default()
	w := &worldmodel.World{
		Tick: 24,
		Sites: map[worldmodel.SiteID]worldmodel.Site{
			"Oakvale": {ID: "Oakvale", Settlement: &worldmodel.SettlementData{
				FieldsCondition: 0.5, ProductionBaseline: worldmodel.ProductionBaseline{Grain: 100},
			}},
		},
	}
	ApplyDailyProduction(w, cfg, "summer")
	// 100 baseline * 0.5 fields * 1.2 summer multiplier = 60
	require.Equal(t, 60.0, w.Sites["Oakvale"].Settlement.Food.Total(worldmodel.FoodGrain))
}

func TestApplyHourlyConsumption_DrawsFIFOAndRaisesHungerOnShortfall(t *testing.T) {
	cfg := config.Default()
	w := &worldmodel.World{
		Sites: map[worldmodel.SiteID]worldmodel.Site{
			"Oakvale": {ID: "Oakvale", Settlement: &worldmodel.SettlementData{
				Cohorts: worldmodel.Cohorts{Adults: 100},
				Food:    worldmodel.FoodStock{Fish: []worldmodel.FoodLot{{Quantity: 1}}},
			}},
		},
	}
	startHunger := w.Sites["Oakvale"].Settlement.Hunger
	ApplyHourlyConsumption(w, cfg)
	require.Equal(t, 0.0, w.Sites["Oakvale"].Settlement.Food.Total(worldmodel.FoodFish))
	require.Greater(t, w.Sites["Oakvale"].Settlement.Hunger, startHunger)
}

func TestApplyHourlyConsumption_FullyFedLowersHungerSlightly(t *testing.T) {
	cfg := config.Default()
	w := &worldmodel.World{
		Sites: map[worldmodel.SiteID]worldmodel.Site{
			"Oakvale": {ID: "Oakvale", Settlement: &worldmodel.SettlementData{
				Cohorts: worldmodel.Cohorts{Adults: 10}, Hunger: 20,
				Food: worldmodel.FoodStock{Grain: []worldmodel.FoodLot{{Quantity: 10000}}},
			}},
		},
	}
	ApplyHourlyConsumption(w, cfg)
	require.Less(t, w.Sites["Oakvale"].Settlement.Hunger, 20.0)
}

func TestApply_RunsFullPipelineWithoutError(t *testing.T) {
	cfg := config.Default()
	w := &worldmodel.World{
		Tick: 0,
		Sites: map[worldmodel.SiteID]worldmodel.Site{
			"Oakvale": {ID: "Oakvale", Settlement: &worldmodel.SettlementData{
				Cohorts: worldmodel.Cohorts{Adults: 20}, FieldsCondition: 1,
				ProductionBaseline: worldmodel.ProductionBaseline{Grain: 50},
			}},
		},
		NPCs: map[worldmodel.NPCID]worldmodel.NPC{},
	}
	sink := worldmodel.NewEventSink(w)
	stream := rng.New(1, w.Tick)
	require.NoError(t, Apply(w, cfg, stream, sink))
}
