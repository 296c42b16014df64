// Package plans implements per-NPC multi-step plans (spec.md Section 4.9):
// creation when a dominant need crosses a threshold, step advancement on
// matching resolved attempts, timeout-driven replanning, and expiry.
package plans

import (
	"github.com/talgya/hollowreach/internal/worldmodel"
)

const (
	planTimeoutHours = 12
	planMaxAgeHours  = 48
	planMaxFailures  = 3
)

// stepSequences gives each plan goal its deterministic multi-step action
// sequence.
var stepSequences = map[worldmodel.PlanGoal][]string{
	worldmodel.PlanGetFood:  {"work_fish", "trade"},
	worldmodel.PlanStaySafe: {"travel", "idle"},
	worldmodel.PlanDoDuty:   {"patrol", "idle"},
}

// UpdatePlans creates a plan for any NPC without one whose dominant need
// crosses its threshold, and expires/replans any existing plan that has
// timed out, failed three times, or aged past 48 hours.
func UpdatePlans(w *worldmodel.World) {
	for _, id := range w.SortedNPCIDs() {
		npc := w.NPCs[id]
		if !npc.Alive || npc.IsDetained() {
			continue
		}

		if npc.Plan != nil {
			if w.Tick-npc.Plan.CreatedTick > planMaxAgeHours {
				npc.Plan = nil
				w.NPCs[id] = npc
				continue
			}
			if w.Tick-npc.Plan.LastProgressTick > planTimeoutHours {
				npc.Plan.Failures++
				npc.Plan.LastProgressTick = w.Tick
				if npc.Plan.Failures >= planMaxFailures {
					npc.Plan = nil
				}
				w.NPCs[id] = npc
			}
			continue
		}

		goal, ok := dominantGoal(npc)
		if !ok {
			continue
		}
		npc.Plan = &worldmodel.Plan{
			Goal:             goal,
			Steps:            append([]string(nil), stepSequences[goal]...),
			CreatedTick:      w.Tick,
			LastProgressTick: w.Tick,
		}
		w.NPCs[id] = npc
	}
}

// dominantGoal checks each plan goal's threshold against the NPC's need
// deficit (100 minus the satisfaction scalar, since Needs fields read
// "higher is more satisfied" throughout this engine): a plan's quoted
// threshold (Food 75, Safety 80, Duty 70) is the deficit level that must
// be crossed, i.e. Needs.Food <= 25 for get_food, not Needs.Food >= 75.
func dominantGoal(npc worldmodel.NPC) (worldmodel.PlanGoal, bool) {
	if 100-npc.Needs.Food >= 75 {
		return worldmodel.PlanGetFood, true
	}
	if 100-npc.Needs.Safety >= 80 {
		return worldmodel.PlanStaySafe, true
	}
	if 100-npc.Needs.Duty >= 70 && isDutyRole(npc.Category) {
		return worldmodel.PlanDoDuty, true
	}
	return "", false
}

func isDutyRole(c worldmodel.NPCCategory) bool {
	return c == worldmodel.CategoryGuard || c == worldmodel.CategoryScoutRanger
}

// ApplyPlanProgressFromEvents advances the plan step for any NPC whose
// current plan step kind matches a completed attempt this tick.
func ApplyPlanProgressFromEvents(w *worldmodel.World, events []worldmodel.SimEvent) {
	for _, ev := range events {
		if ev.Kind != worldmodel.EventAttemptCompleted {
			continue
		}
		actorID, kind := actorAndKind(ev.Data)
		if actorID == "" {
			continue
		}
		npc := w.NPCs[actorID]
		if npc.Plan == nil {
			continue
		}
		if npc.Plan.CurrentStep() != kind {
			continue
		}
		npc.Plan.StepIndex++
		npc.Plan.LastProgressTick = w.Tick
		if npc.Plan.StepIndex >= len(npc.Plan.Steps) {
			npc.Plan = nil
		}
		w.NPCs[actorID] = npc
	}
}

func actorAndKind(data map[string]any) (worldmodel.NPCID, string) {
	var actorID worldmodel.NPCID
	var kind string
	if v, ok := data["actorId"]; ok {
		if id, ok := v.(worldmodel.NPCID); ok {
			actorID = id
		} else if s, ok := v.(string); ok {
			actorID = worldmodel.NPCID(s)
		}
	}
	if v, ok := data["kind"]; ok {
		switch k := v.(type) {
		case worldmodel.AttemptKind:
			kind = string(k)
		case string:
			kind = k
		}
	}
	return actorID, kind
}
