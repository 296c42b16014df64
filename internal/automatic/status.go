package automatic

import (
	"github.com/talgya/hollowreach/internal/config"
	"github.com/talgya/hollowreach/internal/worldmodel"
)

// ProgressDetentionHourly releases any NPC whose detention window has
// elapsed.
func ProgressDetentionHourly(w *worldmodel.World, sink *worldmodel.EventSink) {
	for _, id := range w.SortedNPCIDs() {
		npc := w.NPCs[id]
		det := npc.Status.Detention
		if det == nil || w.Tick < det.UntilTick {
			continue
		}
		npc.Status.Detention = nil
		w.NPCs[id] = npc
		sink.Emit(worldmodel.EventWorldIncident, worldmodel.VisibilityPublic, npc.SiteID,
			string(id)+" is released from detention", map[string]any{"npcId": id})
	}
}

// ProgressEclipsingHourly converts any NPC whose eclipsing ritual has
// reached its completeTick into a TaintedThrall: cult membership is
// cleared, trauma spikes, and the eclipsing/detention status is wiped.
func ProgressEclipsingHourly(w *worldmodel.World, sink *worldmodel.EventSink) {
	for _, id := range w.SortedNPCIDs() {
		npc := w.NPCs[id]
		ec := npc.Status.Eclipsing
		if ec == nil || w.Tick < ec.CompleteTick {
			continue
		}
		npc.Category = worldmodel.CategoryTaintedThrall
		npc.Cult = nil
		npc.Trauma = worldmodel.Clamp100(npc.Trauma + 40)
		npc.Status.Eclipsing = nil
		npc.Status.Detention = nil
		w.NPCs[id] = npc
		sink.Emit(worldmodel.EventWorldIncident, worldmodel.VisibilityPublic, npc.SiteID,
			string(id)+" completes the eclipsing ritual", map[string]any{"npcId": id})
	}
}

// ProgressTraumaDecay drops every living NPC's Trauma by a small fixed
// rate every hour, decoupled from the emotion decay applied to the
// separate Emotions scalar.
func ProgressTraumaDecay(w *worldmodel.World, cfg config.Config) {
	for _, id := range w.SortedNPCIDs() {
		npc := w.NPCs[id]
		if !npc.Alive {
			continue
		}
		npc.Trauma = worldmodel.Clamp100(npc.Trauma - cfg.TraumaDecayPerHour)
		w.NPCs[id] = npc
	}
}

// ProgressHomeTracking sets AwayFromHomeSinceTick the hour an NPC first
// leaves its home site, clears it on return, and adds Trauma once an NPC
// has been away long enough to count as homesick.
func ProgressHomeTracking(w *worldmodel.World, cfg config.Config) {
	for _, id := range w.SortedNPCIDs() {
		npc := w.NPCs[id]
		if !npc.Alive {
			continue
		}
		if npc.SiteID == npc.HomeSiteID {
			npc.AwayFromHomeSinceTick = nil
			w.NPCs[id] = npc
			continue
		}
		if npc.AwayFromHomeSinceTick == nil {
			since := w.Tick
			npc.AwayFromHomeSinceTick = &since
		} else if w.Tick-*npc.AwayFromHomeSinceTick == uint64(cfg.HomesicknessHoursBeforeTrauma) {
			npc.Trauma = worldmodel.Clamp100(npc.Trauma + 5)
		}
		w.NPCs[id] = npc
	}
}

// ApplyHungerDamage tracks each living NPC's consecutive hours of severe
// hunger (Food need deficit >= 70, i.e. Needs.Food <= 30) and deals HP
// damage once that streak crosses HungerPersistHoursLethal, killing the
// NPC if HP reaches zero (spec.md Section 4.11 step 6).
func ApplyHungerDamage(w *worldmodel.World, cfg config.Config, sink *worldmodel.EventSink) {
	for _, id := range w.SortedNPCIDs() {
		npc := w.NPCs[id]
		if !npc.Alive {
			continue
		}
		if 100-npc.Needs.Food < 70 {
			npc.ConsecutiveHungerHours = 0
			w.NPCs[id] = npc
			continue
		}
		npc.ConsecutiveHungerHours++
		if npc.ConsecutiveHungerHours >= cfg.HungerPersistHoursLethal {
			npc.HP -= cfg.HungerDamagePerHour
			if npc.HP <= 0 {
				npc.HP = 0
				npc.Alive = false
				npc.Death = &worldmodel.DeathInfo{Tick: w.Tick, Cause: "starvation"}
				w.NPCs[id] = npc
				sink.Emit(worldmodel.EventNPCDied, worldmodel.VisibilityPublic, npc.SiteID,
					string(id)+" starves to death", map[string]any{"npcId": id, "cause": "starvation"})
				continue
			}
		}
		w.NPCs[id] = npc
	}
}
