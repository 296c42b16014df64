package activeset

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/talgya/hollowreach/internal/config"
	"github.com/talgya/hollowreach/internal/rng"
	"github.com/talgya/hollowreach/internal/worldmodel"
)

func newSite(scale string) worldmodel.Site {
	return worldmodel.Site{ID: "Oakvale", Settlement: &worldmodel.SettlementData{SettlementScale: scale}}
}

func TestSelect_ExcludesTravelingDetainedAndBusyNPCs(t *testing.T) {
	cfg := config.Default()
	w := &worldmodel.World{
		Tick:  10,
		Sites: map[worldmodel.SiteID]worldmodel.Site{"Oakvale": newSite("village")},
		NPCs: map[worldmodel.NPCID]worldmodel.NPC{
			"eligible":  {ID: "eligible", SiteID: "Oakvale", Alive: true},
			"traveling": {ID: "traveling", SiteID: "Oakvale", Alive: true, Travel: &worldmodel.TravelState{}},
			"detained":  {ID: "detained", SiteID: "Oakvale", Alive: true, Status: worldmodel.Status{Detention: &worldmodel.DetentionStatus{UntilTick: 99}}},
			"busy":      {ID: "busy", SiteID: "Oakvale", Alive: true, BusyUntilTick: 99},
			"dead":      {ID: "dead", SiteID: "Oakvale", Alive: false},
		},
	}
	stream := rng.New(1, w.Tick)

	out := Select(w, cfg, nil, stream)
	require.Equal(t, []worldmodel.NPCID{"eligible"}, out)
}

func TestSelect_ForcedNPCAlwaysIncludedDespiteBudget(t *testing.T) {
	cfg := config.Default()
	cfg.BudgetVillage = 1

	npcs := map[worldmodel.NPCID]worldmodel.NPC{
		"forced": {ID: "forced", SiteID: "Oakvale", Alive: true, Category: worldmodel.CategoryCultLeader},
	}
	for i := 0; i < 5; i++ {
		id := worldmodel.NPCID("plain" + string(rune('a'+i)))
		npcs[id] = worldmodel.NPC{ID: id, SiteID: "Oakvale", Alive: true, Category: worldmodel.CategoryCultLeader, Notability: 90}
	}

	w := &worldmodel.World{
		Tick:  10,
		Sites: map[worldmodel.SiteID]worldmodel.Site{"Oakvale": newSite("village")},
		NPCs:  npcs,
	}
	stream := rng.New(1, w.Tick)

	out := Select(w, cfg, map[worldmodel.NPCID]bool{"forced": true}, stream)
	var sawForced bool
	for _, id := range out {
		if id == "forced" {
			sawForced = true
		}
	}
	require.True(t, sawForced)
	require.LessOrEqual(t, len(out), cfg.BudgetVillage+1)
}

func TestSelect_RespectsSiteBudget(t *testing.T) {
	cfg := config.Default()
	cfg.BudgetVillage = 2

	npcs := map[worldmodel.NPCID]worldmodel.NPC{}
	for i := 0; i < 10; i++ {
		id := worldmodel.NPCID("npc" + string(rune('a'+i)))
		npcs[id] = worldmodel.NPC{ID: id, SiteID: "Oakvale", Alive: true}
	}
	w := &worldmodel.World{
		Tick:  1,
		Sites: map[worldmodel.SiteID]worldmodel.Site{"Oakvale": newSite("village")},
		NPCs:  npcs,
	}
	stream := rng.New(1, w.Tick)

	out := Select(w, cfg, nil, stream)
	require.Len(t, out, 2)
}
