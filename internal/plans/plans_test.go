package plans

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/talgya/hollowreach/internal/worldmodel"
)

// Scenario: a starving NPC gets a get_food plan, and a completed work_fish
// attempt (the plan's first step) advances it to trade.
func TestUpdatePlans_CreatesGetFoodPlanAndAdvancesOnProgress(t *testing.T) {
	w := &worldmodel.World{
		Tick: 100,
		NPCs: map[worldmodel.NPCID]worldmodel.NPC{
			"starving": {ID: "starving", Alive: true, Needs: worldmodel.Needs{Food: 20}},
		},
	}
	UpdatePlans(w)

	npc := w.NPCs["starving"]
	require.NotNil(t, npc.Plan)
	require.Equal(t, worldmodel.PlanGetFood, npc.Plan.Goal)
	require.Equal(t, []string{"work_fish", "trade"}, npc.Plan.Steps)
	require.Equal(t, "work_fish", npc.Plan.CurrentStep())

	events := []worldmodel.SimEvent{
		{Kind: worldmodel.EventAttemptCompleted, Tick: 101, Data: map[string]any{"actorId": worldmodel.NPCID("starving"), "kind": "work_fish"}},
	}
	w.Tick = 101
	ApplyPlanProgressFromEvents(w, events)

	advanced := w.NPCs["starving"]
	require.NotNil(t, advanced.Plan)
	require.Equal(t, "trade", advanced.Plan.CurrentStep())
}

func TestApplyPlanProgressFromEvents_ClearsPlanOnFinalStep(t *testing.T) {
	w := &worldmodel.World{
		Tick: 10,
		NPCs: map[worldmodel.NPCID]worldmodel.NPC{
			"trader": {
				ID: "trader", Alive: true,
				Plan: &worldmodel.Plan{Goal: worldmodel.PlanGetFood, Steps: []string{"work_fish", "trade"}, StepIndex: 1, CreatedTick: 1, LastProgressTick: 9},
			},
		},
	}
	events := []worldmodel.SimEvent{
		{Kind: worldmodel.EventAttemptCompleted, Tick: 10, Data: map[string]any{"actorId": worldmodel.NPCID("trader"), "kind": "trade"}},
	}
	ApplyPlanProgressFromEvents(w, events)
	require.Nil(t, w.NPCs["trader"].Plan)
}

func TestUpdatePlans_ExpiresPlanPastMaxAge(t *testing.T) {
	w := &worldmodel.World{
		Tick: 200,
		NPCs: map[worldmodel.NPCID]worldmodel.NPC{
			"stale": {
				ID: "stale", Alive: true,
				Plan: &worldmodel.Plan{Goal: worldmodel.PlanGetFood, Steps: []string{"work_fish", "trade"}, CreatedTick: 100, LastProgressTick: 199},
			},
		},
	}
	UpdatePlans(w)
	require.Nil(t, w.NPCs["stale"].Plan)
}

func TestUpdatePlans_DropsPlanAfterThreeTimeoutFailures(t *testing.T) {
	w := &worldmodel.World{
		Tick: 50,
		NPCs: map[worldmodel.NPCID]worldmodel.NPC{
			"stuck": {
				ID: "stuck", Alive: true,
				Plan: &worldmodel.Plan{Goal: worldmodel.PlanGetFood, Steps: []string{"work_fish", "trade"}, CreatedTick: 10, LastProgressTick: 37, Failures: 2},
			},
		},
	}
	UpdatePlans(w)
	require.Nil(t, w.NPCs["stuck"].Plan)
}
