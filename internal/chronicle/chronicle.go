// Package chronicle maintains the world's durable narrative log, the
// per-tick notability bump for dramatic public attempts, daily notability
// decay, the NPC label query, and the end-of-day summary (spec.md
// Section 4.11 steps 12-13 and Section 6's read-only queries).
package chronicle

import (
	"fmt"

	"github.com/talgya/hollowreach/internal/worldmodel"
)

const maxChronicleEntries = 2000

// chronicleWorthy names, for each attempt kind, the chronicle entry kind
// and message verb recorded when that attempt succeeds, whatever its
// visibility.
var chronicleWorthy = map[worldmodel.AttemptKind]string{
	worldmodel.AttemptKidnap:        "kidnap",
	worldmodel.AttemptKill:          "kill",
	worldmodel.AttemptRaid:          "raid",
	worldmodel.AttemptForcedEclipse: "forced_eclipse",
	worldmodel.AttemptArrest:        "arrest",
}

// notabilityBumps names the Notability gain a successful attempt of a
// given kind grants its actor, whatever its visibility.
var notabilityBumps = map[worldmodel.AttemptKind]float64{
	worldmodel.AttemptKill:          15,
	worldmodel.AttemptKidnap:        10,
	worldmodel.AttemptRaid:          8,
	worldmodel.AttemptAssault:       5,
	worldmodel.AttemptInvestigate:   6,
	worldmodel.AttemptHeal:          3,
	worldmodel.AttemptPatrol:        2,
	worldmodel.AttemptForcedEclipse: 12,
}

const notabilityDecayPerDay = 1.0

// UpdateChronicleFromEvents appends one entry per chronicle-worthy event
// this tick: every npc.died, and every successful attempt whose kind is
// in chronicleWorthy.
func UpdateChronicleFromEvents(w *worldmodel.World, events []worldmodel.SimEvent) {
	for _, ev := range events {
		switch ev.Kind {
		case worldmodel.EventNPCDied:
			npcID := npcIDField(ev.Data, "npcId")
			w.Chronicle = append(w.Chronicle, worldmodel.ChronicleEntry{
				Tick: w.Tick, Kind: "death", PrimaryNPCID: npcID, SiteID: ev.SiteID,
				Message: fmt.Sprintf("%s dies (%v)", npcID, ev.Data["cause"]),
			})
		case worldmodel.EventAttemptRecorded:
			kind := attemptKindField(ev.Data)
			label, ok := chronicleWorthy[kind]
			if !ok {
				continue
			}
			success, _ := ev.Data["success"].(bool)
			if !success {
				continue
			}
			actorID := npcIDField(ev.Data, "actorId")
			w.Chronicle = append(w.Chronicle, worldmodel.ChronicleEntry{
				Tick: w.Tick, Kind: label, PrimaryNPCID: actorID, SiteID: ev.SiteID,
				Message: fmt.Sprintf("%s commits %s", actorID, label),
			})
		case worldmodel.EventFactionOperationCompleted, worldmodel.EventFactionOperationAborted:
			kind := "operation_completed"
			if ev.Kind == worldmodel.EventFactionOperationAborted {
				kind = "operation_aborted"
			}
			w.Chronicle = append(w.Chronicle, worldmodel.ChronicleEntry{
				Tick: w.Tick, Kind: kind, SiteID: ev.SiteID, Message: ev.Message,
			})
		}
	}
	if len(w.Chronicle) > maxChronicleEntries {
		w.Chronicle = w.Chronicle[len(w.Chronicle)-maxChronicleEntries:]
	}
}

// ApplyNotabilityFromEvents grants the configured Notability bump to the
// actor of any successful attempt whose kind appears in notabilityBumps.
func ApplyNotabilityFromEvents(w *worldmodel.World, events []worldmodel.SimEvent) {
	for _, ev := range events {
		if ev.Kind != worldmodel.EventAttemptRecorded {
			continue
		}
		success, _ := ev.Data["success"].(bool)
		if !success {
			continue
		}
		bump, ok := notabilityBumps[attemptKindField(ev.Data)]
		if !ok {
			continue
		}
		actorID := npcIDField(ev.Data, "actorId")
		actor, exists := w.NPCs[actorID]
		if !exists {
			continue
		}
		actor.Notability = worldmodel.Clamp100(actor.Notability + bump)
		w.NPCs[actorID] = actor
	}
}

// DecayNotability drops every living NPC's Notability by a fixed daily
// rate, run once per sim-day (spec.md Section 4.11 step 13).
func DecayNotability(w *worldmodel.World) {
	for _, id := range w.SortedNPCIDs() {
		npc := w.NPCs[id]
		if !npc.Alive {
			continue
		}
		npc.Notability = worldmodel.Clamp100(npc.Notability - notabilityDecayPerDay)
		w.NPCs[id] = npc
	}
}

// ComputeNpcLabel renders a short human-facing descriptor for npc as of
// worldTick: category, plus "notable" at 70 Notability or more, plus a status
// suffix for detention, eclipsing, or cult membership.
func ComputeNpcLabel(npc worldmodel.NPC, worldTick uint64) string {
	label := string(npc.Category)
	if npc.Notability >= 70 {
		label = "notable " + label
	}
	if !npc.Alive {
		return label + " (dead)"
	}
	if npc.IsDetained() {
		return label + " (detained)"
	}
	if npc.Status.Eclipsing != nil {
		return label + " (eclipsing)"
	}
	if npc.Cult != nil {
		return label + " (cult)"
	}
	return label
}

// DailySummary is the end-of-day digest returned by tickHour on the hour
// the day rolls over (spec.md Section 6).
type DailySummary struct {
	Day        uint64   `json:"day"`
	Tick       uint64   `json:"tick"`
	KeyChanges []string `json:"keyChanges"`
}

// AssembleDailySummary collects every chronicle message stamped with the
// world's current tick into a DailySummary's keyChanges list.
func AssembleDailySummary(w *worldmodel.World) DailySummary {
	var changes []string
	for _, entry := range w.Chronicle {
		if entry.Tick == w.Tick {
			changes = append(changes, entry.Message)
		}
	}
	return DailySummary{Day: w.Tick / 24, Tick: w.Tick, KeyChanges: changes}
}

func npcIDField(data map[string]any, key string) worldmodel.NPCID {
	v, ok := data[key]
	if !ok {
		return ""
	}
	switch id := v.(type) {
	case worldmodel.NPCID:
		return id
	case string:
		return worldmodel.NPCID(id)
	default:
		return ""
	}
}

func attemptKindField(data map[string]any) worldmodel.AttemptKind {
	v, ok := data["kind"]
	if !ok {
		return ""
	}
	switch k := v.(type) {
	case worldmodel.AttemptKind:
		return k
	case string:
		return worldmodel.AttemptKind(k)
	default:
		return ""
	}
}
