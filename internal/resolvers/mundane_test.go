package resolvers

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/talgya/hollowreach/internal/config"
	"github.com/talgya/hollowreach/internal/mapgraph"
	"github.com/talgya/hollowreach/internal/rng"
	"github.com/talgya/hollowreach/internal/worldmodel"
)

func TestResolveWork_AddsFoodLotAndLaborHours(t *testing.T) {
	const siteID worldmodel.SiteID = "Oakvale"
	farmer := newTestNPC("farmer", siteID)
	w := newTestWorld(siteID, farmer)
	site := w.Sites[siteID]
	site.Settlement.FieldsCondition = 1
	w.Sites[siteID] = site
	cfg := config.Default()
	sink := worldmodel.NewEventSink(&w)
	stream := rng.NewFromState(1)

	at := worldmodel.Attempt{
		ID: w.NextAttemptID(), Tick: w.Tick, Kind: worldmodel.AttemptWorkFarm,
		Visibility: worldmodel.VisibilityPrivate, ActorID: "farmer", SiteID: siteID, DurationHours: 1,
	}
	require.NoError(t, resolveWork(worldmodel.FoodGrain)(&w, at, cfg, nil, stream, sink))

	got := w.Sites[siteID]
	require.InDelta(t, 2.0, got.Settlement.Food.Total(worldmodel.FoodGrain), 0.001)
	require.InDelta(t, 1.0, got.Settlement.LaborToday[worldmodel.FoodGrain], 0.001)
}

func TestResolveRest_ReducesTraumaAndHeals(t *testing.T) {
	const siteID worldmodel.SiteID = "Oakvale"
	npc := newTestNPC("restee", siteID)
	npc.Trauma = 20
	npc.HP = 50
	w := newTestWorld(siteID, npc)
	cfg := config.Default()
	sink := worldmodel.NewEventSink(&w)
	stream := rng.NewFromState(1)

	at := worldmodel.Attempt{ID: w.NextAttemptID(), Tick: w.Tick, Kind: worldmodel.AttemptRest, ActorID: "restee", SiteID: siteID}
	require.NoError(t, resolveRest(&w, at, cfg, nil, stream, sink))

	got := w.NPCs["restee"]
	require.InDelta(t, 17.0, got.Trauma, 0.001)
	require.InDelta(t, 51.0, got.HP, 0.001)
}

func TestResolveTravel_BeginsJourneyAlongRoadEdge(t *testing.T) {
	const from worldmodel.SiteID = "Oakvale"
	const to worldmodel.SiteID = "Millbrook"
	traveler := newTestNPC("traveler", from)
	w := newTestWorld(from, traveler)
	w.Sites[to] = newTestSite(to)
	cfg := config.Default()
	_ = cfg
	graph := mapgraph.NewGraph([]mapgraph.Edge{{A: from, B: to, KM: 22, Quality: mapgraph.QualityRoad}})
	sink := worldmodel.NewEventSink(&w)
	stream := rng.NewFromState(1)

	at := worldmodel.Attempt{ID: w.NextAttemptID(), Tick: w.Tick, Kind: worldmodel.AttemptTravel, ActorID: "traveler", SiteID: from}
	require.NoError(t, resolveTravel(&w, at, config.Default(), graph, stream, sink))

	got := w.NPCs["traveler"]
	require.NotNil(t, got.Travel)
	require.Equal(t, to, got.Travel.To)
	require.InDelta(t, 22.0, got.Travel.RemainingKm, 0.001)
}
