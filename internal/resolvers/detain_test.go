package resolvers

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/talgya/hollowreach/internal/config"
	"github.com/talgya/hollowreach/internal/rng"
	"github.com/talgya/hollowreach/internal/worldmodel"
)

// Scenario: a detained NPC undergoes forced eclipsing; on success it gets
// an eclipsing status with a reversible window, and anchor-sever within
// that window clears it and reduces trauma.
func TestForcedEclipse_ThenAnchorSever_ReversesConversion(t *testing.T) {
	const siteID worldmodel.SiteID = "RuinedShrine"
	leader := newTestNPC("leader", siteID)
	target := newTestNPC("target", siteID)
	target.Status.Detention = &worldmodel.DetentionStatus{By: "leader", AtSiteID: siteID, StartedTick: 1, UntilTick: 100}
	target.Trauma = 50

	w := newTestWorld(siteID, leader, target)
	cfg := config.Default()

	var eclipsed bool
	var w2 worldmodel.World
	for state := uint32(1); state < 500 && !eclipsed; state++ {
		w2 = w.Clone()
		w2.Tick = 5
		sink := worldmodel.NewEventSink(&w2)
		stream := rng.NewFromState(state)
		at := worldmodel.Attempt{
			ID: w2.NextAttemptID(), Tick: w2.Tick, Kind: worldmodel.AttemptForcedEclipse,
			Visibility: worldmodel.VisibilityPrivate, ActorID: "leader", TargetID: "target", SiteID: siteID,
		}
		require.NoError(t, resolveForcedEclipse(&w2, at, cfg, nil, stream, sink))
		got := w2.NPCs["target"]
		if got.Status.Eclipsing != nil {
			eclipsed = true
			require.Equal(t, w2.Tick, got.Status.Eclipsing.InitiatedTick)
			require.Equal(t, w2.Tick+48, got.Status.Eclipsing.ReversibleUntilTick)
		}
	}
	require.True(t, eclipsed, "expected at least one forced-eclipse success across the seed sweep")

	var reversed bool
	for state := uint32(1); state < 500 && !reversed; state++ {
		w3 := w2.Clone()
		w3.Tick = w2.Tick + 1
		sink := worldmodel.NewEventSink(&w3)
		stream := rng.NewFromState(state)
		at := worldmodel.Attempt{
			ID: w3.NextAttemptID(), Tick: w3.Tick, Kind: worldmodel.AttemptAnchorSever,
			Visibility: worldmodel.VisibilityPrivate, ActorID: "ally", TargetID: "target", SiteID: siteID,
		}
		require.NoError(t, resolveAnchorSever(&w3, at, cfg, nil, stream, sink))
		got := w3.NPCs["target"]
		if got.Status.Eclipsing == nil {
			reversed = true
			require.Less(t, got.Trauma, w2.NPCs["target"].Trauma)
		}
	}
	require.True(t, reversed, "expected at least one anchor-sever success to reverse the eclipsing")
}

// Scenario: a raid with an overwhelming bandit force against an
// undefended settlement succeeds, draining food and raising unrest.
func TestResolveRaid_DrainsFoodAndRaisesUnrest(t *testing.T) {
	const siteID worldmodel.SiteID = "Millbrook"
	bandit := newTestNPC("bandit", siteID)
	bandit.Category = worldmodel.CategoryBandit
	bandit.Traits.Aggression = 90
	bandit.Traits.Discipline = 90
	resident := newTestNPC("resident", siteID)

	w := newTestWorld(siteID, bandit, resident)
	site := w.Sites[siteID]
	site.Settlement.Food.Grain = []worldmodel.FoodLot{{ProducedDay: 0, Quantity: 200}}
	site.Settlement.Unrest = 10
	w.Sites[siteID] = site
	cfg := config.Default()

	var succeeded bool
	for state := uint32(1); state < 2000 && !succeeded; state++ {
		w2 := w.Clone()
		sink := worldmodel.NewEventSink(&w2)
		stream := rng.NewFromState(state)
		at := worldmodel.Attempt{
			ID: w2.NextAttemptID(), Tick: w2.Tick, Kind: worldmodel.AttemptRaid,
			Visibility: worldmodel.VisibilityPublic, ActorID: "bandit", SiteID: siteID,
		}
		require.NoError(t, resolveRaid(&w2, at, cfg, nil, stream, sink))
		gotSite := w2.Sites[siteID]
		if gotSite.Settlement.Food.Total(worldmodel.FoodGrain) < 200 {
			succeeded = true
			require.Greater(t, gotSite.Settlement.Unrest, 10.0)
		}
	}
	require.True(t, succeeded, "expected at least one successful raid across the seed sweep")
}
