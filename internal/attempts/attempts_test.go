package attempts

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/talgya/hollowreach/internal/rng"
	"github.com/talgya/hollowreach/internal/worldmodel"
)

func noopResolver(resolved *bool) Resolver {
	return func(w *worldmodel.World, at worldmodel.Attempt, stream *rng.Stream, sink *worldmodel.EventSink) error {
		*resolved = true
		target := w.NPCs[at.TargetID]
		target.HP -= 10
		w.NPCs[at.TargetID] = target
		return nil
	}
}

// Scenario: an assault attempt has a 1-tick wind-up. Dispatch parks it as
// a pendingAttempt and marks the actor busy; it is not resolved until
// ProcessPendingAttempts runs on the tick it becomes due.
func TestAssaultLifecycle_SchedulesThenResolvesOnDueTick(t *testing.T) {
	const siteID worldmodel.SiteID = "Oakvale"
	w := &worldmodel.World{
		Tick: 5,
		NPCs: map[worldmodel.NPCID]worldmodel.NPC{
			"attacker": {ID: "attacker", SiteID: siteID, Alive: true, HP: 100, MaxHP: 100},
			"victim":   {ID: "victim", SiteID: siteID, Alive: true, HP: 100, MaxHP: 100},
		},
	}
	sink := worldmodel.NewEventSink(w)
	stream := rng.New(1, w.Tick)

	var resolved bool
	resolve := noopResolver(&resolved)

	// Private visibility keeps the pending attempt out of the public
	// witness-opportunity path so resolution here is deterministic.
	at := worldmodel.Attempt{
		ID: w.NextAttemptID(), Tick: w.Tick, Kind: worldmodel.AttemptAssault,
		Visibility: worldmodel.VisibilityPrivate, ActorID: "attacker", TargetID: "victim", SiteID: siteID,
	}
	scheduled, err := Dispatch(w, at, resolve, stream, sink)
	require.NoError(t, err)
	require.True(t, scheduled)
	require.False(t, resolved, "assault must not resolve on the same tick it is scheduled")

	attacker := w.NPCs["attacker"]
	require.NotNil(t, attacker.PendingAttempt)
	require.Equal(t, w.Tick+1, attacker.PendingAttempt.ExecuteAtTick)
	require.True(t, attacker.IsBusy(w.Tick+1))

	// Advance to the due tick and process.
	w.Tick++
	sink2 := worldmodel.NewEventSink(w)
	require.NoError(t, ProcessPendingAttempts(w, resolve, stream, sink2))
	require.True(t, resolved, "assault must resolve once its wind-up tick arrives")

	attackerAfter := w.NPCs["attacker"]
	require.Nil(t, attackerAfter.PendingAttempt)
	require.Equal(t, uint64(0), attackerAfter.BusyUntilTick)

	victimAfter := w.NPCs["victim"]
	require.Equal(t, 90.0, victimAfter.HP)
}

// Scenario: a public assault with a guard present at the site triggers an
// opportunity response that stops the offender before the assault
// resolves. spec.md Section 8 Scenario 5 requires tick T+1 to emit
// exactly one of attempt.completed | attempt.interrupted | attempt.aborted
// for the pending attempt — this exercises the opportunity-response
// branch specifically, which must not silently clear the pending attempt
// with no terminal event.
func TestProcessPendingAttempts_OpportunityResponseEmitsInterrupted(t *testing.T) {
	const siteID worldmodel.SiteID = "Oakvale"
	w := &worldmodel.World{
		Tick: 5,
		NPCs: map[worldmodel.NPCID]worldmodel.NPC{
			"attacker": {
				ID: "attacker", SiteID: siteID, Alive: true, HP: 100, MaxHP: 100,
				PendingAttempt: &worldmodel.PendingAttempt{
					AttemptID: "att:5:0", Kind: worldmodel.AttemptAssault, SiteID: siteID,
					Visibility: worldmodel.VisibilityPublic, TargetID: "victim", ExecuteAtTick: 5,
				},
			},
			"victim": {ID: "victim", SiteID: siteID, Alive: true, HP: 100, MaxHP: 100, Traits: worldmodel.Traits{Courage: 0}},
			"guard":  {ID: "guard", SiteID: siteID, Alive: true, HP: 100, MaxHP: 100, Category: worldmodel.CategoryGuard, Traits: worldmodel.Traits{Discipline: 80}},
		},
	}
	sink := worldmodel.NewEventSink(w)
	stream := rng.New(1, w.Tick)
	var resolved bool

	require.NoError(t, ProcessPendingAttempts(w, noopResolver(&resolved), stream, sink))
	require.False(t, resolved, "the opportunity response must preempt the assault resolver")

	attackerAfter := w.NPCs["attacker"]
	require.Nil(t, attackerAfter.PendingAttempt)

	var sawInterrupted, sawCompleted, sawAborted bool
	for _, ev := range sink.Events {
		switch ev.Kind {
		case worldmodel.EventAttemptInterrupted:
			sawInterrupted = true
			require.Equal(t, "opportunity_response", ev.Data["reason"])
		case worldmodel.EventAttemptCompleted:
			sawCompleted = true
		case worldmodel.EventAttemptAborted:
			sawAborted = true
		}
	}
	require.True(t, sawInterrupted, "opportunity response must emit attempt.interrupted")
	require.False(t, sawCompleted)
	require.False(t, sawAborted)
}

// Scenario: a pending attempt aborts when its actor has died before the
// wind-up completes.
func TestProcessPendingAttempts_AbortsWhenActorMissing(t *testing.T) {
	const siteID worldmodel.SiteID = "Oakvale"
	w := &worldmodel.World{
		Tick: 5,
		NPCs: map[worldmodel.NPCID]worldmodel.NPC{
			"attacker": {
				ID: "attacker", SiteID: siteID, Alive: false,
				PendingAttempt: &worldmodel.PendingAttempt{
					AttemptID: "att:5:0", Kind: worldmodel.AttemptAssault, SiteID: siteID,
					TargetID: "victim", ExecuteAtTick: 5,
				},
			},
		},
	}
	sink := worldmodel.NewEventSink(w)
	stream := rng.New(1, w.Tick)
	var resolved bool

	require.NoError(t, ProcessPendingAttempts(w, noopResolver(&resolved), stream, sink))
	require.False(t, resolved)

	var sawAborted bool
	for _, ev := range sink.Events {
		if ev.Kind == worldmodel.EventAttemptAborted {
			sawAborted = true
		}
	}
	require.True(t, sawAborted)
}
