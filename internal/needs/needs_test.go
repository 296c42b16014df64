package needs

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/talgya/hollowreach/internal/worldmodel"
)

func TestRecompute_SkipsDeadAndTravelingNPCs(t *testing.T) {
	w := &worldmodel.World{
		Sites: map[worldmodel.SiteID]worldmodel.Site{"Oakvale": {ID: "Oakvale"}},
		NPCs: map[worldmodel.NPCID]worldmodel.NPC{
			"dead":      {ID: "dead", SiteID: "Oakvale", Alive: false, Needs: worldmodel.Needs{Food: -1}},
			"traveling": {ID: "traveling", SiteID: "Oakvale", Alive: true, Travel: &worldmodel.TravelState{}, Needs: worldmodel.Needs{Food: -1}},
		},
	}
	Recompute(w)
	require.Equal(t, -1.0, w.NPCs["dead"].Needs.Food)
	require.Equal(t, -1.0, w.NPCs["traveling"].Needs.Food)
}

func TestRecompute_HungrySettlementLowersFoodNeed(t *testing.T) {
	w := &worldmodel.World{
		Sites: map[worldmodel.SiteID]worldmodel.Site{
			"Oakvale": {ID: "Oakvale", Settlement: &worldmodel.SettlementData{Hunger: 80}},
		},
		NPCs: map[worldmodel.NPCID]worldmodel.NPC{
			"hungry": {ID: "hungry", SiteID: "Oakvale", Alive: true},
		},
	}
	Recompute(w)
	require.Less(t, w.NPCs["hungry"].Needs.Food, 30.0)
}

func TestRecompute_FoodStashOffsetsHunger(t *testing.T) {
	site := worldmodel.SiteID("Oakvale")
	base := &worldmodel.World{
		Sites: map[worldmodel.SiteID]worldmodel.Site{site: {ID: site, Settlement: &worldmodel.SettlementData{Hunger: 50}}},
		NPCs: map[worldmodel.NPCID]worldmodel.NPC{
			"bare":   {ID: "bare", SiteID: site, Alive: true},
			"stocked": {ID: "stocked", SiteID: site, Alive: true, Inventory: worldmodel.FoodInventory{Grain: 20}},
		},
	}
	Recompute(base)
	require.Greater(t, base.NPCs["stocked"].Needs.Food, base.NPCs["bare"].Needs.Food)
}

func TestRecompute_BelongingDropsWhenFamilyAbsent(t *testing.T) {
	w := &worldmodel.World{
		Sites: map[worldmodel.SiteID]worldmodel.Site{"Oakvale": {ID: "Oakvale"}, "Elsewhere": {ID: "Elsewhere"}},
		NPCs: map[worldmodel.NPCID]worldmodel.NPC{
			"lonely":  {ID: "lonely", SiteID: "Oakvale", Alive: true, Family: []worldmodel.NPCID{"kin"}},
			"kin":     {ID: "kin", SiteID: "Elsewhere", Alive: true},
			"together": {ID: "together", SiteID: "Oakvale", Alive: true, Family: []worldmodel.NPCID{"sibling"}},
			"sibling": {ID: "sibling", SiteID: "Oakvale", Alive: true},
		},
	}
	Recompute(w)
	require.Less(t, w.NPCs["lonely"].Needs.Belonging, w.NPCs["together"].Needs.Belonging)
}

func TestRecompute_DutyIsFullForNonDutyBoundCategories(t *testing.T) {
	w := &worldmodel.World{
		Sites: map[worldmodel.SiteID]worldmodel.Site{"Oakvale": {ID: "Oakvale"}},
		NPCs: map[worldmodel.NPCID]worldmodel.NPC{
			"farmer": {ID: "farmer", SiteID: "Oakvale", Alive: true, Category: worldmodel.CategoryFarmer},
		},
	}
	Recompute(w)
	require.Equal(t, 100.0, w.NPCs["farmer"].Needs.Duty)
}

func TestRecompute_ClampsOutOfRangeResult(t *testing.T) {
	w := &worldmodel.World{
		Sites: map[worldmodel.SiteID]worldmodel.Site{
			"Oakvale": {ID: "Oakvale", EclipsingPressure: 100, Settlement: &worldmodel.SettlementData{Unrest: 100, Hunger: 100}},
		},
		NPCs: map[worldmodel.NPCID]worldmodel.NPC{
			"victim": {ID: "victim", SiteID: "Oakvale", Alive: true, Trauma: 100},
		},
	}
	Recompute(w)
	n := w.NPCs["victim"].Needs
	require.GreaterOrEqual(t, n.Safety, 0.0)
	require.LessOrEqual(t, n.Safety, 100.0)
}
